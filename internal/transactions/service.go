package transactions

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shopstack/shopstack/internal/authz"
	"github.com/shopstack/shopstack/internal/shared"
)

// Service records and reads transactions. Creation is the write-time gate:
// every endpoint store is scope-checked here so the scope resolver can later
// trust that a transaction's stores all sit inside one tenant.
type Service struct {
	repo     RepositoryPort
	dir      authz.Directory
	enforcer *authz.Enforcer
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, dir authz.Directory, enforcer *authz.Enforcer) *Service {
	return &Service{repo: repo, dir: dir, enforcer: enforcer}
}

// Create records a SALE or TRANSFER and moves stock atomically.
func (s *Service) Create(ctx context.Context, actor authz.Actor, input CreateTransactionInput) (Transaction, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceTransaction, authz.ActionCreate); err != nil {
		return Transaction{}, err
	}
	if err := s.enforcer.EnforceTransactionType(actor, input.Type); err != nil {
		return Transaction{}, err
	}
	if err := validateEndpoints(input); err != nil {
		return Transaction{}, err
	}

	if err := s.enforcer.EnforceProductAccess(ctx, actor, input.ProductID); err != nil {
		return Transaction{}, err
	}
	product, err := s.dir.FindProductWithStore(ctx, input.ProductID)
	if err != nil {
		return Transaction{}, err
	}
	if product.StoreID != *input.FromStoreID {
		return Transaction{}, ErrProductStoreMismatch
	}

	if err := s.enforcer.EnforceStoreAccess(ctx, actor, *input.FromStoreID); err != nil {
		return Transaction{}, err
	}
	if input.ToStoreID != nil {
		if err := s.enforcer.EnforceStoreAccess(ctx, actor, *input.ToStoreID); err != nil {
			return Transaction{}, err
		}
	}

	return s.repo.Create(ctx, Transaction{
		Code:        newCode(),
		Type:        input.Type,
		FromStoreID: input.FromStoreID,
		ToStoreID:   input.ToStoreID,
		ProductID:   input.ProductID,
		Qty:         input.Qty,
		UnitPrice:   input.UnitPrice,
		CreatedBy:   actor.ID,
	})
}

// Get fetches a transaction reachable from the actor's tenant.
func (s *Service) Get(ctx context.Context, actor authz.Actor, id int64) (Transaction, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceTransaction, authz.ActionRead); err != nil {
		return Transaction{}, err
	}
	if err := s.enforcer.EnforceTransactionAccess(ctx, actor, id); err != nil {
		return Transaction{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns the actor's tenant transactions.
func (s *Service) List(ctx context.Context, actor authz.Actor, page shared.Pagination) ([]Transaction, shared.Pagination, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceTransaction, authz.ActionRead); err != nil {
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

// UpdateUnitPrice corrects the recorded unit price. Qty and endpoints are
// immutable once stock has moved.
func (s *Service) UpdateUnitPrice(ctx context.Context, actor authz.Actor, id int64, price float64) (Transaction, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceTransaction, authz.ActionUpdate); err != nil {
		return Transaction{}, err
	}
	if err := s.enforcer.EnforceTransactionAccess(ctx, actor, id); err != nil {
		return Transaction{}, err
	}
	return s.repo.UpdateUnitPrice(ctx, id, price)
}

func validateEndpoints(input CreateTransactionInput) error {
	switch input.Type {
	case authz.TransactionTypeSale:
		if input.FromStoreID == nil || input.ToStoreID != nil {
			return ErrBadEndpoints
		}
	case authz.TransactionTypeTransfer:
		if input.FromStoreID == nil || input.ToStoreID == nil || *input.FromStoreID == *input.ToStoreID {
			return ErrBadEndpoints
		}
	default:
		return ErrBadEndpoints
	}
	return nil
}

func newCode() string {
	return "TRX-" + strings.ToUpper(uuid.NewString()[:8])
}
