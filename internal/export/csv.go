package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"go-stockdesk/internal/model"
)

var csvHeader = []string{"id", "sku", "name", "category", "price", "stock", "reorder_level"}

// ProductsCSV renders the product list as delimited text: a CRLF-terminated
// header row and one CRLF-terminated row per product.
func ProductsCSV(products []model.Product) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.UseCRLF = true

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, p := range products {
		row := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.SKU,
			p.Name,
			p.Category,
			formatPrice(p.Price),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.ReorderLevel),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

// ParseProductsCSV reads the ProductsCSV format back into products.
func ParseProductsCSV(data string) ([]model.Product, error) {
	r := csv.NewReader(strings.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	products := make([]model.Product, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(rec))
		}
		id, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", rec[0], err)
		}
		price, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("bad price %q: %w", rec[4], err)
		}
		stockVal, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, fmt.Errorf("bad stock %q: %w", rec[5], err)
		}
		reorder, err := strconv.Atoi(rec[6])
		if err != nil {
			return nil, fmt.Errorf("bad reorder_level %q: %w", rec[6], err)
		}
		products = append(products, model.Product{
			ID:           uint(id),
			SKU:          rec[1],
			Name:         rec[2],
			Category:     rec[3],
			Price:        price,
			Stock:        stockVal,
			ReorderLevel: reorder,
		})
	}
	return products, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
