package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es un producto del catálogo de una empresa.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
