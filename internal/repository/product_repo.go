package repository

import (
	"errors"
	"strings"

	"go-stockdesk/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	CountItemRefs(id uint) (int64, error)
	AdjustStock(tx *gorm.DB, id uint, delta int) error
	GetStock(tx *gorm.DB, id uint) (int, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") {
			return model.ErrDuplicateSKU
		}
		return err
	}
	return nil
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("id DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	result := r.db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Select("SKU", "Name", "Category", "Price", "Stock", "ReorderLevel").
		Updates(product)
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") {
			return model.ErrDuplicateSKU
		}
		return err
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(id uint) error {
	result := r.db.Delete(&model.Product{}, "id = ?", id)
	if err := result.Error; err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CountItemRefs counts transaction line items referencing the product.
// Deletion is restricted while the count is non-zero.
func (r *productRepo) CountItemRefs(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.TxItem{}).Where("product_id = ?", id).Count(&count).Error
	return count, err
}

// AdjustStock menerima *gorm.DB (tx) agar bisa berjalan dalam transaksi
func (r *productRepo) AdjustStock(tx *gorm.DB, id uint, delta int) error {
	result := tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta))
	if err := result.Error; err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		return model.ErrUnknownProduct
	}
	return nil
}

func (r *productRepo) GetStock(tx *gorm.DB, id uint) (int, error) {
	var product model.Product
	if err := tx.Select("stock").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, model.ErrUnknownProduct
		}
		return 0, err
	}
	return product.Stock, nil
}
