package catalog

import (
	"errors"
	"time"
)

// Category groups products. Categories root back to their tenant through
// the user that created them.
type Category struct {
	ID        int64
	Name      string
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product is a sellable item attached to exactly one store. Serialized
// products additionally track per-unit serials (IMEI-style).
type Product struct {
	ID         int64
	StoreID    int64
	CategoryID *int64
	Name       string
	SKU        string
	Price      float64
	StockQty   int64
	MinStock   int64
	CreatedBy  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SerialStatus tracks the lifecycle of a serialized unit.
type SerialStatus string

const (
	SerialStatusAvailable SerialStatus = "AVAILABLE"
	SerialStatusSold      SerialStatus = "SOLD"
)

// Serial is one tracked unit of a serialized product.
type Serial struct {
	ID        int64
	ProductID int64
	Serial    string
	Status    SerialStatus
	CreatedAt time.Time
}

// CreateCategoryInput describes a request to create a category.
type CreateCategoryInput struct {
	Name string
}

// CreateProductInput describes a request to create a product.
type CreateProductInput struct {
	StoreID    int64
	CategoryID *int64
	Name       string
	SKU        string
	Price      float64
	StockQty   int64
	MinStock   int64
}

// UpdateProductInput carries the mutable product fields. Nil means keep.
type UpdateProductInput struct {
	CategoryID *int64
	Name       *string
	Price      *float64
	MinStock   *int64
}

// ErrNegativeStock triggered when an adjustment would drive stock below zero.
var ErrNegativeStock = errors.New("catalog: stock cannot go negative")
