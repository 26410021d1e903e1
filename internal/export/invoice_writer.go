package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// InvoiceWriter persists rendered invoice documents under a bills directory.
// It is the print-to-file collaborator: given markup, it produces a document
// file on disk and returns its path.
type InvoiceWriter struct {
	dir string
}

func NewInvoiceWriter(dir string) *InvoiceWriter {
	return &InvoiceWriter{dir: dir}
}

func (w *InvoiceWriter) Write(invoiceNo uint, markup string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create bills dir: %w", err)
	}
	fileName := fmt.Sprintf("Invoice-%d-%s.html", invoiceNo, uuid.NewString())
	filePath := filepath.Join(w.dir, fileName)
	if err := os.WriteFile(filePath, []byte(markup), 0o644); err != nil {
		return "", fmt.Errorf("write invoice: %w", err)
	}
	return filePath, nil
}
