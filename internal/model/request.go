package model

// Typed request schemas for the boundary. Malformed input is rejected here
// with ErrValidation before any business logic runs.

type ProductRequest struct {
	SKU          string  `json:"sku" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category"`
	Price        float64 `json:"price" validate:"gte=0"`
	Stock        int     `json:"stock"`
	ReorderLevel int     `json:"reorder_level" validate:"gte=0"`
}

func (r *ProductRequest) Product() Product {
	return Product{
		SKU:          r.SKU,
		Name:         r.Name,
		Category:     r.Category,
		Price:        r.Price,
		Stock:        r.Stock,
		ReorderLevel: r.ReorderLevel,
	}
}

type TxItemRequest struct {
	ProductID       uint    `json:"product_id" validate:"required"`
	Qty             int     `json:"qty" validate:"required,gt=0"` // Qty harus > 0
	UnitPrice       float64 `json:"unit_price" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent"`
}

type TransactionRequest struct {
	Type      TransactionType `json:"type" validate:"required,oneof=purchase sale"`
	Reference string          `json:"reference"`
	Items     []TxItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CustomerRequest struct {
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	GSTIN         string `json:"gstin"`
	PlaceOfSupply string `json:"place_of_supply"`
}

type InvoiceRequest struct {
	TransactionID uint            `json:"transaction_id" validate:"required"`
	Customer      CustomerRequest `json:"customer" validate:"required"`
	TaxPercent    float64         `json:"tax_percent" validate:"gte=0,lte=100"`
}
