// Package invoice renders a structured invoice payload into a self-contained
// printable HTML document. Rendering is pure: no I/O, no persisted state,
// byte-identical output for identical input.
package invoice

import (
	"math"
	"time"

	"go-stockdesk/internal/model"
)

type Customer struct {
	Name          string `json:"name"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	GSTIN         string `json:"gstin,omitempty"`
	PlaceOfSupply string `json:"place_of_supply,omitempty"`
}

type Line struct {
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Qty             int     `json:"qty"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	TaxableValue    float64 `json:"taxable_value"`
	Total           float64 `json:"total"`
	SharePercent    float64 `json:"share_percent"`
}

// Payload is the ephemeral view over a just-created transaction's line items
// plus user-entered customer details. It is never persisted.
type Payload struct {
	InvoiceNo  uint      `json:"invoice_no"`
	Date       time.Time `json:"date"`
	Reference  string    `json:"reference,omitempty"`
	Customer   Customer  `json:"customer"`
	Items      []Line    `json:"items"`
	Subtotal   float64   `json:"subtotal"`
	Discount   float64   `json:"discount"`
	Total      float64   `json:"total"`
	TaxPercent float64   `json:"tax_percent"`
}

// BuildPayload assembles the invoice view from a stored transaction. The
// invoice number is the transaction id; taxable value is the undiscounted
// line amount; share is each line's fraction of the grand total, zero when
// the grand total is zero.
func BuildPayload(tx *model.Transaction, customer Customer, taxPercent float64) Payload {
	lines := make([]Line, 0, len(tx.Items))
	var subtotal, grandTotal float64
	for _, it := range tx.Items {
		taxable := float64(it.Qty) * it.UnitPrice
		total := float64(it.Qty) * it.DiscountedUnitPrice
		subtotal += taxable
		grandTotal += total
		lines = append(lines, Line{
			Name:            it.Product.Name,
			Description:     it.Product.Category,
			Qty:             it.Qty,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			TaxableValue:    taxable,
			Total:           total,
		})
	}
	for i := range lines {
		if grandTotal != 0 {
			lines[i].SharePercent = lines[i].Total / grandTotal * 100
		}
	}

	reference := ""
	if tx.Reference != nil {
		reference = *tx.Reference
	}

	return Payload{
		InvoiceNo:  tx.ID,
		Date:       tx.CreatedAt,
		Reference:  reference,
		Customer:   customer,
		Items:      lines,
		Subtotal:   subtotal,
		Discount:   subtotal - grandTotal,
		Total:      grandTotal,
		TaxPercent: taxPercent,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
