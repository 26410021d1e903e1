package service

import (
	"fmt"

	"go-stockdesk/internal/export"
	"go-stockdesk/internal/model"
	"go-stockdesk/internal/repository"
	"go-stockdesk/internal/ws"
	"go-stockdesk/pkg/validator"

	"gorm.io/gorm"
)

// InventoryService is the store boundary exposed to the transport layer.
// Both the SQL store and the file fallback store implement it; the backing
// implementation is selected once at startup by configuration.
type InventoryService interface {
	ListProducts() ([]model.Product, error)
	CreateProduct(req *model.ProductRequest) (uint, error)
	UpdateProduct(id uint, req *model.ProductRequest) (*model.Product, error)
	DeleteProduct(id uint) error
	ListTransactions() ([]model.Transaction, error)
	GetTransaction(id uint) (*model.Transaction, error)
	CreateTransaction(req *model.TransactionRequest) (uint, error)
	ExportProductsCSV() (string, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		txRepo:      tRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *inventoryService) CreateProduct(req *model.ProductRequest) (uint, error) {
	// 1. Validasi Struct Dasar
	if err := validator.ValidateStruct(req); err != nil {
		return 0, err
	}

	// 2. Simpan ke Database (unique index rejects duplicate SKU)
	product := req.Product()
	if err := s.productRepo.Create(&product); err != nil {
		return 0, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   ws.EventProductCreated,
		Detail: fmt.Sprintf("product %q created with stock %d", product.Name, product.Stock),
		Data:   product,
	})

	return product.ID, nil
}

// UpdateProduct fully replaces the mutable fields by id. It bypasses the
// transaction engine and can set stock to an arbitrary value directly; this
// is the direct-edit escape hatch, separate from transactional movement.
func (s *inventoryService) UpdateProduct(id uint, req *model.ProductRequest) (*model.Product, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	product := req.Product()
	product.ID = id
	if err := s.productRepo.Update(&product); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   ws.EventProductUpdated,
		Detail: fmt.Sprintf("product %q updated, stock now %d", product.Name, product.Stock),
		Data:   product,
	})

	return &product, nil
}

// DeleteProduct is restricted while transaction line items reference the
// product; history wins over deletion.
func (s *inventoryService) DeleteProduct(id uint) error {
	refs, err := s.productRepo.CountItemRefs(id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d line items", model.ErrProductReferenced, refs)
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	s.wsHub.Publish(ws.Event{
		Type:   ws.EventProductDeleted,
		Detail: fmt.Sprintf("product %d deleted", id),
		Data:   map[string]uint{"id": id},
	})

	return nil
}

// CreateTransaction applies a multi-line purchase/sale as one atomic unit:
// header insert, every line-item insert, every stock mutation, and the total
// back-write succeed or fail together. Sale stock checks run sequentially
// against the in-transaction state, consistent with the fallback engine.
func (s *inventoryService) CreateTransaction(req *model.TransactionRequest) (uint, error) {
	// 1. Validasi Input
	if err := validator.ValidateStruct(req); err != nil {
		return 0, err
	}
	if len(req.Items) == 0 {
		return 0, fmt.Errorf("%w: at least one line item required", model.ErrValidation)
	}

	var txID uint

	// Gunakan Transaction Block (Atomic Operation)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		header := model.Transaction{
			Type: req.Type,
		}
		if req.Reference != "" {
			ref := req.Reference
			header.Reference = &ref
		}
		if err := tx.Create(&header).Error; err != nil {
			return err
		}

		mult := req.Type.Multiplier()
		for _, it := range req.Items {
			if it.ProductID == 0 || it.Qty <= 0 || it.UnitPrice < 0 {
				return fmt.Errorf("%w: product_id=%d qty=%d unit_price=%v", model.ErrInvalidLineItem, it.ProductID, it.Qty, it.UnitPrice)
			}

			// Resolve the product up front so an unknown id surfaces as
			// ErrUnknownProduct instead of a raw FK violation on the item insert.
			current, err := s.productRepo.GetStock(tx, it.ProductID)
			if err != nil {
				return err
			}
			if mult < 0 && current-it.Qty < 0 {
				return fmt.Errorf("%w: product %d has %d, need %d", model.ErrInsufficientStock, it.ProductID, current, it.Qty)
			}

			discount, discounted := model.DiscountedPrice(it.UnitPrice, it.DiscountPercent)
			item := model.TxItem{
				TxID:                header.ID,
				ProductID:           it.ProductID,
				Qty:                 it.Qty,
				UnitPrice:           it.UnitPrice,
				DiscountPercent:     discount,
				DiscountedUnitPrice: discounted,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			if err := s.productRepo.AdjustStock(tx, it.ProductID, mult*it.Qty); err != nil {
				return err
			}
		}

		// Back-write the derived total onto the header.
		var total float64
		if err := tx.Model(&model.TxItem{}).
			Where("tx_id = ?", header.ID).
			Select("COALESCE(SUM(qty * discounted_unit_price), 0)").
			Scan(&total).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Transaction{}).Where("id = ?", header.ID).Update("amount", total).Error; err != nil {
			return err
		}

		txID = header.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   ws.EventTransactionCreated,
		Detail: fmt.Sprintf("%s transaction %d recorded with %d line items", req.Type, txID, len(req.Items)),
		Data:   map[string]any{"id": txID, "type": req.Type},
	})

	return txID, nil
}

func (s *inventoryService) ListProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) ListTransactions() ([]model.Transaction, error) {
	return s.txRepo.FindRecent()
}

func (s *inventoryService) GetTransaction(id uint) (*model.Transaction, error) {
	return s.txRepo.FindByID(id)
}

func (s *inventoryService) ExportProductsCSV() (string, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return "", err
	}
	return export.ProductsCSV(products)
}
