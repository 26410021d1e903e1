package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go-stockdesk/internal/export"
	"go-stockdesk/internal/model"
	"go-stockdesk/internal/repository"
	"go-stockdesk/internal/stock"
	"go-stockdesk/internal/ws"
	"go-stockdesk/pkg/validator"
)

// fallbackService is the non-relational alternate store: a JSON snapshot on
// disk, selected at startup with STORE_DRIVER=file. It reuses the pure
// engine in internal/stock and enforces the same referential-integrity and
// stock policies as the SQL store, so callers cannot tell them apart.
type fallbackService struct {
	path  string
	wsHub *ws.Hub

	mu   sync.Mutex
	data snapshot
}

type snapshot struct {
	Products     []model.Product     `json:"products"`
	Transactions []model.Transaction `json:"transactions"`
}

// NewFallbackService loads (or initializes) the snapshot under dataDir.
func NewFallbackService(dataDir string, hub *ws.Hub) (InventoryService, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &fallbackService{
		path:  filepath.Join(dataDir, "inventory.json"),
		wsHub: hub,
	}
	raw, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		// fresh store
	case err != nil:
		return nil, fmt.Errorf("read snapshot: %w", err)
	default:
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
	}
	return s, nil
}

// save rewrites the whole snapshot. Callers hold the mutex.
func (s *fallbackService) save() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fallbackService) ListProducts() ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]model.Product, len(s.data.Products))
	copy(products, s.data.Products)
	sort.Slice(products, func(i, j int) bool { return products[i].ID > products[j].ID })
	return products, nil
}

func (s *fallbackService) CreateProduct(req *model.ProductRequest) (uint, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.data.Products {
		if p.SKU == req.SKU {
			return 0, model.ErrDuplicateSKU
		}
	}

	product := req.Product()
	product.ID = stock.NextID(productIDs(s.data.Products))
	s.data.Products = append(s.data.Products, product)
	if err := s.save(); err != nil {
		return 0, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   ws.EventProductCreated,
		Detail: fmt.Sprintf("product %q created with stock %d", product.Name, product.Stock),
		Data:   product,
	})

	return product.ID, nil
}

func (s *fallbackService) UpdateProduct(id uint, req *model.ProductRequest) (*model.Product, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.data.Products {
		if p.ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return nil, model.ErrNotFound
	}
	for i, p := range s.data.Products {
		if i != idx && p.SKU == req.SKU {
			return nil, model.ErrDuplicateSKU
		}
	}

	product := req.Product()
	product.ID = id
	s.data.Products[idx] = product
	if err := s.save(); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   ws.EventProductUpdated,
		Detail: fmt.Sprintf("product %q updated, stock now %d", product.Name, product.Stock),
		Data:   product,
	})

	return &product, nil
}

func (s *fallbackService) DeleteProduct(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := 0
	for _, tx := range s.data.Transactions {
		for _, it := range tx.Items {
			if it.ProductID == id {
				refs++
			}
		}
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d line items", model.ErrProductReferenced, refs)
	}

	kept := s.data.Products[:0]
	found := false
	for _, p := range s.data.Products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return model.ErrNotFound
	}
	s.data.Products = kept
	if err := s.save(); err != nil {
		return err
	}

	s.wsHub.Publish(ws.Event{
		Type:   ws.EventProductDeleted,
		Detail: fmt.Sprintf("product %d deleted", id),
		Data:   map[string]uint{"id": id},
	})

	return nil
}

func (s *fallbackService) CreateTransaction(req *model.TransactionRequest) (uint, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return 0, err
	}
	if len(req.Items) == 0 {
		return 0, fmt.Errorf("%w: at least one line item required", model.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The pure engine validates every line and produces the updated snapshot
	// without touching the stored slice; nothing is kept on failure.
	updated, err := stock.Apply(s.data.Products, req.Type, req.Items)
	if err != nil {
		return 0, err
	}

	tx := model.Transaction{
		ID:        stock.NextID(transactionIDs(s.data.Transactions)),
		Type:      req.Type,
		CreatedAt: time.Now().UTC(),
		Amount:    stock.Amount(req.Items),
	}
	if req.Reference != "" {
		ref := req.Reference
		tx.Reference = &ref
	}
	for i, it := range req.Items {
		discount, discounted := model.DiscountedPrice(it.UnitPrice, it.DiscountPercent)
		tx.Items = append(tx.Items, model.TxItem{
			ID:                  uint(i + 1),
			TxID:                tx.ID,
			ProductID:           it.ProductID,
			Qty:                 it.Qty,
			UnitPrice:           it.UnitPrice,
			DiscountPercent:     discount,
			DiscountedUnitPrice: discounted,
		})
	}

	s.data.Products = updated
	s.data.Transactions = append(s.data.Transactions, tx)
	if err := s.save(); err != nil {
		return 0, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   ws.EventTransactionCreated,
		Detail: fmt.Sprintf("%s transaction %d recorded with %d line items", req.Type, tx.ID, len(req.Items)),
		Data:   map[string]any{"id": tx.ID, "type": req.Type},
	})

	return tx.ID, nil
}

func (s *fallbackService) ListTransactions() ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transactions := make([]model.Transaction, len(s.data.Transactions))
	copy(transactions, s.data.Transactions)
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].ID > transactions[j].ID })
	if len(transactions) > repository.RecentLimit {
		transactions = transactions[:repository.RecentLimit]
	}
	for i := range transactions {
		transactions[i].Items = append([]model.TxItem(nil), transactions[i].Items...)
		s.attachProducts(&transactions[i])
	}
	return transactions, nil
}

func (s *fallbackService) GetTransaction(id uint) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range s.data.Transactions {
		if tx.ID == id {
			out := tx
			out.Items = append([]model.TxItem(nil), tx.Items...)
			s.attachProducts(&out)
			return &out, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *fallbackService) ExportProductsCSV() (string, error) {
	products, err := s.ListProducts()
	if err != nil {
		return "", err
	}
	return export.ProductsCSV(products)
}

// attachProducts fills each item's Product from the snapshot, mirroring the
// SQL store's preload. Callers hold the mutex.
func (s *fallbackService) attachProducts(tx *model.Transaction) {
	for i, it := range tx.Items {
		for _, p := range s.data.Products {
			if p.ID == it.ProductID {
				tx.Items[i].Product = p
				break
			}
		}
	}
}

func productIDs(products []model.Product) []uint {
	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func transactionIDs(transactions []model.Transaction) []uint {
	ids := make([]uint, len(transactions))
	for i, tx := range transactions {
		ids[i] = tx.ID
	}
	return ids
}
