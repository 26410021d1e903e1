package model

import "time"

type TransactionType string

const (
	TxPurchase TransactionType = "purchase"
	TxSale     TransactionType = "sale"
)

// Multiplier is the stock direction: +1 for purchase, -1 for sale.
func (t TransactionType) Multiplier() int {
	if t == TxPurchase {
		return 1
	}
	return -1
}

func (t TransactionType) Valid() bool {
	return t == TxPurchase || t == TxSale
}

// Transaction is an immutable stock movement. CreatedAt is assigned by the
// store and Amount is derived from the line items; neither is client-settable.
type Transaction struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Type      TransactionType `gorm:"type:varchar(10);not null" json:"type"`
	Reference *string         `gorm:"type:varchar(255)" json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
	Amount    float64         `gorm:"not null;default:0" json:"amount"` // SUM(qty * discounted_unit_price)

	// Relasi
	Items []TxItem `gorm:"foreignKey:TxID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TxItem is one line of a transaction. UnitPrice is a historical snapshot,
// independent of the product's current price. Deleting a product that still
// has line items is restricted.
type TxItem struct {
	ID                  uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	TxID                uint    `gorm:"not null;index" json:"tx_id"`
	ProductID           uint    `gorm:"not null" json:"product_id"`
	Product             Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Qty                 int     `gorm:"not null" json:"qty"`
	UnitPrice           float64 `gorm:"not null" json:"unit_price"`
	DiscountPercent     float64 `gorm:"not null;default:0" json:"discount_percent"`
	DiscountedUnitPrice float64 `gorm:"not null;default:0" json:"discounted_unit_price"`
}

// DiscountedPrice clamps the discount to [0,100] and floors the result at zero.
func DiscountedPrice(unitPrice, discountPercent float64) (clamped, discounted float64) {
	clamped = discountPercent
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}
	discounted = unitPrice * (1 - clamped/100)
	if discounted < 0 {
		discounted = 0
	}
	return clamped, discounted
}
