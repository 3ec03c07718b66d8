package services

import "storefront/internal/domain"

const lowStockBelow = 5

// Stock statuses shown next to a product.
const (
	InStock    = "IN_STOCK"
	LowStock   = "LOW_STOCK"
	OutOfStock = "OUT_OF_STOCK"
)

// Availability is a product's stock count turned into a display status.
type Availability struct {
	Status string `json:"status"`
	Qty    int    `json:"qty"`
}

// CheckAvailability converts countInStock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func CheckAvailability(p domain.Product) Availability {
	qty := p.CountInStock
	status := OutOfStock
	switch {
	case qty >= lowStockBelow:
		status = InStock
	case qty > 0:
		status = LowStock
	}
	return Availability{Status: status, Qty: max(qty, 0)}
}
