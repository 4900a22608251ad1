package users

import (
	"context"

	"github.com/shopstack/shopstack/internal/auth"
	"github.com/shopstack/shopstack/internal/authz"
	"github.com/shopstack/shopstack/internal/shared"
)

// Service handles user management inside tenant boundaries. Every operation
// runs the full enforcement sequence before touching the repository.
type Service struct {
	repo     RepositoryPort
	enforcer *authz.Enforcer
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, enforcer *authz.Enforcer) *Service {
	return &Service{repo: repo, enforcer: enforcer}
}

// Create adds a staff account to the actor's tenant. The carve-out gates run
// first: STAFF and CASHIER can never create users, ADMIN only creates STAFF.
// New accounts always land in the creator's tenant.
func (s *Service) Create(ctx context.Context, actor authz.Actor, input CreateUserInput) (User, error) {
	if err := s.enforcer.EnforceUserCreation(actor, input.Role); err != nil {
		return User{}, err
	}

	tenantID, ok := actor.TenantID()
	if !ok {
		return User{}, authz.Denied("Access denied")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}

	user := User{
		Email:    input.Email,
		Name:     input.Name,
		Role:     input.Role,
		OwnerID:  &tenantID,
		IsActive: true,
	}
	return s.repo.Create(ctx, user, hash)
}

// Get fetches a user within the actor's tenant.
func (s *Service) Get(ctx context.Context, actor authz.Actor, id int64) (User, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceUser, authz.ActionRead); err != nil {
		return User{}, err
	}
	if err := s.enforcer.EnforceUserAccess(ctx, actor, id); err != nil {
		return User{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns the actor's tenant members, owner account included.
func (s *Service) List(ctx context.Context, actor authz.Actor, page shared.Pagination) ([]User, shared.Pagination, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceUser, authz.ActionRead); err != nil {
		return nil, shared.Pagination{}, err
	}
	tenantID, ok := actor.TenantID()
	if !ok {
		return nil, shared.Pagination{}, authz.Denied("Access denied")
	}
	users, total, err := s.repo.ListByTenant(ctx, tenantID, page)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return users, shared.NewPagination(page.Page, page.PerPage, total), nil
}

// Update modifies a user within the actor's tenant. Changing the role runs
// the hierarchy gate against the new role.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id int64, input UpdateUserInput) (User, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceUser, authz.ActionUpdate); err != nil {
		return User{}, err
	}
	if err := s.enforcer.EnforceUserAccess(ctx, actor, id); err != nil {
		return User{}, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if input.Role != nil && *input.Role != user.Role {
		if err := s.enforcer.EnforceUserRoleChange(actor, *input.Role); err != nil {
			return User{}, err
		}
		user.Role = *input.Role
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	var hash *string
	if input.Password != nil {
		h, err := auth.HashPassword(*input.Password)
		if err != nil {
			return User{}, err
		}
		hash = &h
	}
	return s.repo.Update(ctx, user, hash)
}

// Delete soft-deletes a user. Only OWNER holds DELETE_USER.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceUser, authz.ActionDelete); err != nil {
		return err
	}
	if err := s.enforcer.EnforceUserAccess(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}
