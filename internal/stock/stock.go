// Package stock holds the pure inventory computations shared by the SQL
// store and the file fallback store: transaction application over a product
// snapshot, inventory valuation, low-stock detection, and id allocation for
// the non-relational store.
package stock

import (
	"fmt"

	"go-stockdesk/internal/model"
)

// TotalValue is the inventory valuation: SUM(price * stock).
func TotalValue(products []model.Product) float64 {
	var total float64
	for _, p := range products {
		total += p.Price * float64(p.Stock)
	}
	return total
}

// LowStockCount counts products with stock at or below their reorder level.
func LowStockCount(products []model.Product) int {
	count := 0
	for _, p := range products {
		if p.LowStock() {
			count++
		}
	}
	return count
}

// NextID allocates a monotonic id for the file store: max(id)+1, 1 when empty.
func NextID(ids []uint) uint {
	var max uint
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Apply validates a transaction and returns a new product slice with stock
// adjusted by ±qty per line item. The input slice is never mutated.
//
// Every line must reference a known product, carry a positive quantity and a
// non-negative unit price; any violation fails the whole call with no partial
// application. Sale lines are checked in order against the per-call copy, so
// an earlier line in the same call can free up or consume stock for a later
// one. A zero-line transaction is a valid no-op.
func Apply(products []model.Product, kind model.TransactionType, items []model.TxItemRequest) ([]model.Product, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", model.ErrValidation, kind)
	}

	next := make([]model.Product, len(products))
	copy(next, products)

	index := make(map[uint]int, len(next))
	for i, p := range next {
		index[p.ID] = i
	}

	mult := kind.Multiplier()
	for _, it := range items {
		if it.ProductID == 0 || it.Qty <= 0 || it.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: product_id=%d qty=%d unit_price=%v", model.ErrInvalidLineItem, it.ProductID, it.Qty, it.UnitPrice)
		}
		i, ok := index[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", model.ErrUnknownProduct, it.ProductID)
		}
		if mult < 0 && next[i].Stock-it.Qty < 0 {
			return nil, fmt.Errorf("%w: product %d has %d, need %d", model.ErrInsufficientStock, it.ProductID, next[i].Stock, it.Qty)
		}
		next[i].Stock += mult * it.Qty
	}
	return next, nil
}

// Amount is the derived transaction total: SUM(qty * discounted_unit_price).
func Amount(items []model.TxItemRequest) float64 {
	var total float64
	for _, it := range items {
		_, discounted := model.DiscountedPrice(it.UnitPrice, it.DiscountPercent)
		total += float64(it.Qty) * discounted
	}
	return total
}
