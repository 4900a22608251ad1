package catalog

import (
	"context"

	"github.com/shopstack/shopstack/internal/authz"
	"github.com/shopstack/shopstack/internal/shared"
)

// Service handles catalog management. The write paths double as the
// cross-tenant linkage defense: a product can only ever be attached to a
// store and category inside the creator's tenant, which is what lets the
// scope resolver walk a single path later without re-validating.
type Service struct {
	repo     RepositoryPort
	enforcer *authz.Enforcer
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, enforcer *authz.Enforcer) *Service {
	return &Service{repo: repo, enforcer: enforcer}
}

// CreateCategory records a category created by the actor.
func (s *Service) CreateCategory(ctx context.Context, actor authz.Actor, input CreateCategoryInput) (Category, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceCategory, authz.ActionCreate); err != nil {
		return Category{}, err
	}
	return s.repo.CreateCategory(ctx, Category{Name: input.Name, CreatedBy: actor.ID})
}

// GetCategory fetches a category within the actor's tenant.
func (s *Service) GetCategory(ctx context.Context, actor authz.Actor, id int64) (Category, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceCategory, authz.ActionRead); err != nil {
		return Category{}, err
	}
	if err := s.enforcer.EnforceCategoryAccess(ctx, actor, id); err != nil {
		return Category{}, err
	}
	return s.repo.GetCategoryByID(ctx, id)
}

// ListCategories returns the actor's tenant categories.
func (s *Service) ListCategories(ctx context.Context, actor authz.Actor, page shared.Pagination) ([]Category, shared.Pagination, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceCategory, authz.ActionRead); err != nil {
		return nil, shared.Pagination{}, err
	}
	tenantID, ok := actor.TenantID()
	if !ok {
		return nil, shared.Pagination{}, authz.Denied("Access denied")
	}
	list, total, err := s.repo.ListCategoriesByTenant(ctx, tenantID, page)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page.Page, page.PerPage, total), nil
}

// UpdateCategory renames a category within the actor's tenant.
func (s *Service) UpdateCategory(ctx context.Context, actor authz.Actor, id int64, name string) (Category, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceCategory, authz.ActionUpdate); err != nil {
		return Category{}, err
	}
	if err := s.enforcer.EnforceCategoryAccess(ctx, actor, id); err != nil {
		return Category{}, err
	}
	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return Category{}, err
	}
	category.Name = name
	return s.repo.UpdateCategory(ctx, category)
}

// DeleteCategory soft-deletes a category. Only OWNER holds DELETE_CATEGORY.
func (s *Service) DeleteCategory(ctx context.Context, actor authz.Actor, id int64) error {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceCategory, authz.ActionDelete); err != nil {
		return err
	}
	if err := s.enforcer.EnforceCategoryAccess(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.SoftDeleteCategory(ctx, id)
}

// CreateProduct adds a product to a store in the actor's tenant. The store
// scope check here is the write-time defense against cross-tenant linkage.
func (s *Service) CreateProduct(ctx context.Context, actor authz.Actor, input CreateProductInput) (Product, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceProduct, authz.ActionCreate); err != nil {
		return Product{}, err
	}
	if err := s.enforcer.EnforceStoreAccess(ctx, actor, input.StoreID); err != nil {
		return Product{}, err
	}
	if input.CategoryID != nil {
		if err := s.enforcer.EnforceCategoryAccess(ctx, actor, *input.CategoryID); err != nil {
			return Product{}, err
		}
	}
	return s.repo.CreateProduct(ctx, Product{
		StoreID:    input.StoreID,
		CategoryID: input.CategoryID,
		Name:       input.Name,
		SKU:        input.SKU,
		Price:      input.Price,
		StockQty:   input.StockQty,
		MinStock:   input.MinStock,
		CreatedBy:  actor.ID,
	})
}

// GetProduct fetches a product within the actor's tenant.
func (s *Service) GetProduct(ctx context.Context, actor authz.Actor, id int64) (Product, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceProduct, authz.ActionRead); err != nil {
		return Product{}, err
	}
	if err := s.enforcer.EnforceProductAccess(ctx, actor, id); err != nil {
		return Product{}, err
	}
	return s.repo.GetProductByID(ctx, id)
}

// ListProducts returns the actor's tenant products.
func (s *Service) ListProducts(ctx context.Context, actor authz.Actor, page shared.Pagination) ([]Product, shared.Pagination, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceProduct, authz.ActionRead); err != nil {
		return nil, shared.Pagination{}, err
	}
	tenantID, ok := actor.TenantID()
	if !ok {
		return nil, shared.Pagination{}, authz.Denied("Access denied")
	}
	list, total, err := s.repo.ListProductsByTenant(ctx, tenantID, page)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page.Page, page.PerPage, total), nil
}

// UpdateProduct modifies a product within the actor's tenant. Re-pointing
// the category runs the category scope check against the new target.
func (s *Service) UpdateProduct(ctx context.Context, actor authz.Actor, id int64, input UpdateProductInput) (Product, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceProduct, authz.ActionUpdate); err != nil {
		return Product{}, err
	}
	if err := s.enforcer.EnforceProductAccess(ctx, actor, id); err != nil {
		return Product{}, err
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if input.CategoryID != nil {
		if err := s.enforcer.EnforceCategoryAccess(ctx, actor, *input.CategoryID); err != nil {
			return Product{}, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.MinStock != nil {
		product.MinStock = *input.MinStock
	}
	return s.repo.UpdateProduct(ctx, product)
}

// DeleteProduct soft-deletes a product. Only OWNER holds DELETE_PRODUCT.
func (s *Service) DeleteProduct(ctx context.Context, actor authz.Actor, id int64) error {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceProduct, authz.ActionDelete); err != nil {
		return err
	}
	if err := s.enforcer.EnforceProductAccess(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.SoftDeleteProduct(ctx, id)
}

// AdjustStock applies a stock delta. This is the stock-check workflow that
// justifies STAFF holding UPDATE_PRODUCT.
func (s *Service) AdjustStock(ctx context.Context, actor authz.Actor, id, delta int64) (Product, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceProduct, authz.ActionUpdate); err != nil {
		return Product{}, err
	}
	if err := s.enforcer.EnforceProductAccess(ctx, actor, id); err != nil {
		return Product{}, err
	}
	return s.repo.AdjustStock(ctx, id, delta)
}

// AddSerials registers tracked units for a serialized product. Serial values
// arrive from the caller; generation is not this system's concern.
func (s *Service) AddSerials(ctx context.Context, actor authz.Actor, productID int64, serials []string) ([]Serial, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceProduct, authz.ActionUpdate); err != nil {
		return nil, err
	}
	if err := s.enforcer.EnforceProductAccess(ctx, actor, productID); err != nil {
		return nil, err
	}
	return s.repo.AddSerials(ctx, productID, serials)
}

// ListSerials returns the tracked units of a product.
func (s *Service) ListSerials(ctx context.Context, actor authz.Actor, productID int64) ([]Serial, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceProduct, authz.ActionRead); err != nil {
		return nil, err
	}
	if err := s.enforcer.EnforceProductAccess(ctx, actor, productID); err != nil {
		return nil, err
	}
	return s.repo.ListSerials(ctx, productID)
}
