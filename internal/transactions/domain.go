package transactions

import (
	"errors"
	"time"

	"github.com/shopstack/shopstack/internal/authz"
)

// Transaction records stock moving out of (SALE) or between (TRANSFER)
// stores. Transactions are append-only; they are never soft-deleted.
type Transaction struct {
	ID          int64
	Code        string
	Type        authz.TransactionType
	FromStoreID *int64
	ToStoreID   *int64
	ProductID   int64
	Qty         int64
	UnitPrice   float64
	CreatedBy   int64
	CreatedAt   time.Time
}

// CreateTransactionInput describes a request to record a transaction.
type CreateTransactionInput struct {
	Type        authz.TransactionType
	FromStoreID *int64
	ToStoreID   *int64
	ProductID   int64
	Qty         int64
	UnitPrice   float64
}

var (
	// ErrBadEndpoints triggered when the endpoint stores do not match the
	// transaction type (SALE needs a source, TRANSFER needs two distinct stores).
	ErrBadEndpoints = errors.New("transactions: endpoint stores do not match transaction type")

	// ErrProductStoreMismatch triggered when the product does not live in the
	// source store.
	ErrProductStoreMismatch = errors.New("transactions: product does not belong to the source store")

	// ErrInsufficientStock triggered when the source store cannot cover qty.
	ErrInsufficientStock = errors.New("transactions: insufficient stock")
)
