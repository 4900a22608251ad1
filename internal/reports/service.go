package reports

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shopstack/shopstack/internal/authz"
)

// InventorySummary aggregates a tenant's stock position.
type InventorySummary struct {
	ProductCount  int64   `json:"product_count"`
	StockUnits    int64   `json:"stock_units"`
	StockValue    float64 `json:"stock_value"`
	LowStockCount int64   `json:"low_stock_count"`
	Display       string  `json:"display"`
}

// Service computes per-tenant inventory reports.
type Service struct {
	repo     RepositoryPort
	enforcer *authz.Enforcer
	printer  *message.Printer
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, enforcer *authz.Enforcer) *Service {
	return &Service{repo: repo, enforcer: enforcer, printer: message.NewPrinter(language.English)}
}

// Inventory runs the three aggregates concurrently and renders a human
// summary line with grouped thousands.
func (s *Service) Inventory(ctx context.Context, actor authz.Actor) (InventorySummary, error) {
	if err := s.enforcer.EnforceResourceAccess(actor, authz.ResourceProduct, authz.ActionRead); err != nil {
		return InventorySummary{}, err
	}
	tenantID, ok := actor.TenantID()
	if !ok {
		return InventorySummary{}, authz.Denied("Access denied")
	}

	var summary InventorySummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.repo.CountProducts(gctx, tenantID)
		summary.ProductCount = count
		return err
	})
	g.Go(func() error {
		units, value, err := s.repo.SumStock(gctx, tenantID)
		summary.StockUnits = units
		summary.StockValue = value
		return err
	})
	g.Go(func() error {
		count, err := s.repo.CountLowStock(gctx, tenantID)
		summary.LowStockCount = count
		return err
	})
	if err := g.Wait(); err != nil {
		return InventorySummary{}, err
	}

	summary.Display = s.printer.Sprintf(
		"%d products, %d units on hand worth %.2f, %d below minimum stock",
		summary.ProductCount, summary.StockUnits, summary.StockValue, summary.LowStockCount,
	)
	return summary, nil
}
