package stores

import (
	"context"

	"github.com/shopstack/shopstack/internal/authz"
	"github.com/shopstack/shopstack/internal/shared"
)

// Service handles store management. Stores root directly to their owner, so
// scope checks are a single owner-id comparison once the row is loaded.
type Service struct {
	repo     RepositoryPort
	enforcer *authz.Enforcer
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, enforcer *authz.Enforcer) *Service {
	return &Service{repo: repo, enforcer: enforcer}
}

// Create opens a store in the actor's tenant. Only OWNER holds CREATE_STORE.
func (s *Service) Create(ctx context.Context, actor authz.Actor, input CreateStoreInput) (Store, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceStore, authz.ActionCreate); err != nil {
		return Store{}, err
	}
	tenantID, ok := actor.TenantID()
	if !ok {
		return Store{}, authz.Denied("Access denied")
	}
	return s.repo.Create(ctx, Store{
		OwnerID: tenantID,
		Name:    input.Name,
		Address: input.Address,
	})
}

// Get fetches a store within the actor's tenant.
func (s *Service) Get(ctx context.Context, actor authz.Actor, id int64) (Store, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceStore, authz.ActionRead); err != nil {
		return Store{}, err
	}
	if err := s.enforcer.EnforceStoreAccess(ctx, actor, id); err != nil {
		return Store{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns the actor's tenant stores.
func (s *Service) List(ctx context.Context, actor authz.Actor, page shared.Pagination) ([]Store, shared.Pagination, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceStore, authz.ActionRead); err != nil {
		return nil, shared.Pagination{}, err
	}
	tenantID, ok := actor.TenantID()
	if !ok {
		return nil, shared.Pagination{}, authz.Denied("Access denied")
	}
	list, total, err := s.repo.ListByTenant(ctx, tenantID, page)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page.Page, page.PerPage, total), nil
}

// Update modifies a store within the actor's tenant.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id int64, input UpdateStoreInput) (Store, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceStore, authz.ActionUpdate); err != nil {
		return Store{}, err
	}
	if err := s.enforcer.EnforceStoreAccess(ctx, actor, id); err != nil {
		return Store{}, err
	}

	store, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Store{}, err
	}
	if input.Name != nil {
		store.Name = *input.Name
	}
	if input.Address != nil {
		store.Address = *input.Address
	}
	return s.repo.Update(ctx, store)
}

// Delete soft-deletes a store. Only OWNER holds DELETE_STORE.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceStore, authz.ActionDelete); err != nil {
		return err
	}
	if err := s.enforcer.EnforceStoreAccess(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}
