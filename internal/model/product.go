package model

// Product is a stocked catalog item. SKU is unique across the catalog;
// stock is mutated by transaction application or by a direct update.
type Product struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU          string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Category     string  `gorm:"type:varchar(100)" json:"category"`
	Price        float64 `gorm:"not null;default:0" json:"price"`
	Stock        int     `gorm:"not null;default:0" json:"stock"`
	ReorderLevel int     `gorm:"not null;default:0" json:"reorder_level"`

	// Relasi
	Items []TxItem `gorm:"foreignKey:ProductID" json:"items,omitempty"`
}

// LowStock reports whether stock is at or below the reorder threshold.
func (p *Product) LowStock() bool {
	return p.Stock <= p.ReorderLevel
}
