package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLowStockScan flags products below their minimum stock.
	TaskTypeLowStockScan = "stock:low_scan"
	// TaskTypePurgeTokens reports on the session token keyspace.
	TaskTypePurgeTokens = "auth:purge_tokens"
)

// LowStockScanPayload scopes the scan. TenantID zero means all tenants.
type LowStockScanPayload struct {
	TenantID    int64     `json:"tenant_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewLowStockScanTask constructs an Asynq task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLowStockScan, data, asynq.Queue(QueueDefault)), nil
}

// NewPurgeTokensTask constructs an Asynq task.
func NewPurgeTokensTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskTypePurgeTokens, nil, asynq.Queue(QueueDefault)), nil
}

// Processor holds the dependencies task handlers need.
type Processor struct {
	pool   *pgxpool.Pool
	redis  *redis.Client
	logger *slog.Logger
}

// NewProcessor constructs a Processor.
func NewProcessor(pool *pgxpool.Pool, rdb *redis.Client, logger *slog.Logger) *Processor {
	return &Processor{pool: pool, redis: rdb, logger: logger}
}

// HandleLowStockScan walks products under their minimum stock and logs one
// line per finding, grouped by owning tenant.
func (p *Processor) HandleLowStockScan(ctx context.Context, t *asynq.Task) error {
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	query := `
		SELECT p.id, p.name, p.sku, p.stock_qty, p.min_stock, s.owner_id
		FROM products p
		JOIN stores s ON s.id = p.store_id
		WHERE p.deleted_at IS NULL AND s.deleted_at IS NULL
		  AND p.stock_qty < p.min_stock
	`
	args := []any{}
	if payload.TenantID != 0 {
		query += ` AND s.owner_id = $1`
		args = append(args, payload.TenantID)
	}
	query += ` ORDER BY s.owner_id, p.id`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	found := 0
	for rows.Next() {
		var (
			id, stockQty, minStock, ownerID int64
			name, sku                       string
		)
		if err := rows.Scan(&id, &name, &sku, &stockQty, &minStock, &ownerID); err != nil {
			return err
		}
		found++
		p.logger.Warn("low stock",
			slog.Int64("tenant_id", ownerID),
			slog.Int64("product_id", id),
			slog.String("sku", sku),
			slog.String("name", name),
			slog.Int64("stock_qty", stockQty),
			slog.Int64("min_stock", minStock),
		)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	p.logger.Info("low stock scan finished",
		slog.Int64("tenant_id", payload.TenantID),
		slog.Int("flagged", found),
	)
	return nil
}

// HandlePurgeTokens counts live session tokens. Redis expires them itself
// via TTL; this task only surfaces the keyspace size.
func (p *Processor) HandlePurgeTokens(ctx context.Context, _ *asynq.Task) error {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := p.redis.Scan(ctx, cursor, "shopstack:token:*", 100).Result()
		if err != nil {
			return err
		}
		total += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	p.logger.Info("token purge sweep", slog.Int("live_tokens", total))
	return nil
}
