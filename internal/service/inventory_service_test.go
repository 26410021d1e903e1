package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-stockdesk/internal/export"
	"go-stockdesk/internal/model"
	"go-stockdesk/internal/repository"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&model.Product{}, &model.Transaction{}, &model.TxItem{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func setupService(t *testing.T) (InventoryService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	return NewInventoryService(productRepo, txRepo, db, nil), db
}

func mustCreateProduct(t *testing.T, svc InventoryService, req model.ProductRequest) uint {
	t.Helper()
	id, err := svc.CreateProduct(&req)
	require.NoError(t, err)
	return id
}

func productByID(t *testing.T, db *gorm.DB, id uint) model.Product {
	t.Helper()
	var p model.Product
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p
}

func TestCreateProduct(t *testing.T) {
	svc, _ := setupService(t)

	id := mustCreateProduct(t, svc, model.ProductRequest{SKU: "SKU-1", Name: "Alpha", Price: 10, Stock: 5, ReorderLevel: 2})
	assert.NotZero(t, id)

	t.Run("duplicate SKU rejected", func(t *testing.T) {
		_, err := svc.CreateProduct(&model.ProductRequest{SKU: "SKU-1", Name: "Other"})
		assert.ErrorIs(t, err, model.ErrDuplicateSKU)
	})

	t.Run("sku and name required", func(t *testing.T) {
		_, err := svc.CreateProduct(&model.ProductRequest{Name: "No SKU"})
		assert.ErrorIs(t, err, model.ErrValidation)

		_, err = svc.CreateProduct(&model.ProductRequest{SKU: "SKU-2"})
		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestListProducts_NewestFirst(t *testing.T) {
	svc, _ := setupService(t)

	first := mustCreateProduct(t, svc, model.ProductRequest{SKU: "A", Name: "First"})
	second := mustCreateProduct(t, svc, model.ProductRequest{SKU: "B", Name: "Second"})

	products, err := svc.ListProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, second, products[0].ID)
	assert.Equal(t, first, products[1].ID)
}

func TestUpdateProduct(t *testing.T) {
	svc, db := setupService(t)
	id := mustCreateProduct(t, svc, model.ProductRequest{SKU: "A", Name: "Alpha", Price: 10, Stock: 5})

	t.Run("full field replacement, stock set directly", func(t *testing.T) {
		updated, err := svc.UpdateProduct(id, &model.ProductRequest{SKU: "A2", Name: "Alpha v2", Category: "toys", Price: 12.5, Stock: 99, ReorderLevel: 3})
		require.NoError(t, err)
		assert.Equal(t, 99, updated.Stock)

		p := productByID(t, db, id)
		assert.Equal(t, "A2", p.SKU)
		assert.Equal(t, "Alpha v2", p.Name)
		assert.Equal(t, "toys", p.Category)
		assert.Equal(t, 12.5, p.Price)
		assert.Equal(t, 99, p.Stock)
		assert.Equal(t, 3, p.ReorderLevel)
	})

	t.Run("missing id surfaces not found", func(t *testing.T) {
		_, err := svc.UpdateProduct(9999, &model.ProductRequest{SKU: "X", Name: "X"})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := setupService(t)
	id := mustCreateProduct(t, svc, model.ProductRequest{SKU: "A", Name: "Alpha", Stock: 10})

	t.Run("restricted while referenced", func(t *testing.T) {
		_, err := svc.CreateTransaction(&model.TransactionRequest{
			Type:  model.TxSale,
			Items: []model.TxItemRequest{{ProductID: id, Qty: 1, UnitPrice: 5}},
		})
		require.NoError(t, err)

		err = svc.DeleteProduct(id)
		assert.ErrorIs(t, err, model.ErrProductReferenced)
	})

	t.Run("unreferenced product deletes", func(t *testing.T) {
		other := mustCreateProduct(t, svc, model.ProductRequest{SKU: "B", Name: "Beta"})
		require.NoError(t, svc.DeleteProduct(other))

		err := svc.DeleteProduct(other)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestCreateTransaction_Purchase(t *testing.T) {
	svc, db := setupService(t)
	id := mustCreateProduct(t, svc, model.ProductRequest{SKU: "B", Name: "Beta", Price: 20, Stock: 0, ReorderLevel: 1})

	txID, err := svc.CreateTransaction(&model.TransactionRequest{
		Type:      model.TxPurchase,
		Reference: "PO-7",
		Items:     []model.TxItemRequest{{ProductID: id, Qty: 3, UnitPrice: 20}},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, productByID(t, db, id).Stock)

	tx, err := svc.GetTransaction(txID)
	require.NoError(t, err)
	assert.Equal(t, model.TxPurchase, tx.Type)
	require.NotNil(t, tx.Reference)
	assert.Equal(t, "PO-7", *tx.Reference)
	assert.False(t, tx.CreatedAt.IsZero(), "timestamp is assigned by the store")
	assert.Equal(t, 60.0, tx.Amount)
	require.Len(t, tx.Items, 1)
	assert.Equal(t, "Beta", tx.Items[0].Product.Name)
}

func TestCreateTransaction_SaleAndDiscount(t *testing.T) {
	svc, db := setupService(t)
	id := mustCreateProduct(t, svc, model.ProductRequest{SKU: "A", Name: "Alpha", Price: 100, Stock: 5})

	txID, err := svc.CreateTransaction(&model.TransactionRequest{
		Type:  model.TxSale,
		Items: []model.TxItemRequest{{ProductID: id, Qty: 2, UnitPrice: 100, DiscountPercent: 25}},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, productByID(t, db, id).Stock)

	tx, err := svc.GetTransaction(txID)
	require.NoError(t, err)
	require.Len(t, tx.Items, 1)
	assert.Equal(t, 75.0, tx.Items[0].DiscountedUnitPrice)
	assert.Equal(t, 150.0, tx.Amount)
}

func TestCreateTransaction_DiscountClamped(t *testing.T) {
	svc, _ := setupService(t)
	id := mustCreateProduct(t, svc, model.ProductRequest{SKU: "A", Name: "Alpha", Stock: 10})

	txID, err := svc.CreateTransaction(&model.TransactionRequest{
		Type:  model.TxSale,
		Items: []model.TxItemRequest{{ProductID: id, Qty: 1, UnitPrice: 10, DiscountPercent: 150}},
	})
	require.NoError(t, err)

	tx, err := svc.GetTransaction(txID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, tx.Items[0].DiscountPercent)
	assert.Equal(t, 0.0, tx.Items[0].DiscountedUnitPrice)
	assert.Equal(t, 0.0, tx.Amount)
}

func TestCreateTransaction_InsufficientStockRollsBack(t *testing.T) {
	svc, db := setupService(t)
	id := mustCreateProduct(t, svc, model.ProductRequest{SKU: "A", Name: "Alpha", Stock: 5})

	_, err := svc.CreateTransaction(&model.TransactionRequest{
		Type:  model.TxSale,
		Items: []model.TxItemRequest{{ProductID: id, Qty: 6, UnitPrice: 10}},
	})
	require.ErrorIs(t, err, model.ErrInsufficientStock)

	assert.Equal(t, 5, productByID(t, db, id).Stock)

	var txCount, itemCount int64
	db.Model(&model.Transaction{}).Count(&txCount)
	db.Model(&model.TxItem{}).Count(&itemCount)
	assert.Zero(t, txCount, "no transaction row survives the rollback")
	assert.Zero(t, itemCount)
}

func TestCreateTransaction_MidListFailureRollsBackEarlierLines(t *testing.T) {
	svc, db := setupService(t)
	a := mustCreateProduct(t, svc, model.ProductRequest{SKU: "A", Name: "Alpha", Stock: 5})
	b := mustCreateProduct(t, svc, model.ProductRequest{SKU: "B", Name: "Beta", Stock: 1})

	_, err := svc.CreateTransaction(&model.TransactionRequest{
		Type: model.TxSale,
		Items: []model.TxItemRequest{
			{ProductID: a, Qty: 2, UnitPrice: 10}, // would apply
			{ProductID: b, Qty: 9, UnitPrice: 10}, // fails
		},
	})
	require.ErrorIs(t, err, model.ErrInsufficientStock)

	assert.Equal(t, 5, productByID(t, db, a).Stock, "earlier line's stock change is rolled back")
	assert.Equal(t, 1, productByID(t, db, b).Stock)

	var txCount int64
	db.Model(&model.Transaction{}).Count(&txCount)
	assert.Zero(t, txCount)
}

func TestCreateTransaction_UnknownProduct(t *testing.T) {
	svc, db := setupService(t)

	_, err := svc.CreateTransaction(&model.TransactionRequest{
		Type:  model.TxPurchase,
		Items: []model.TxItemRequest{{ProductID: 12345, Qty: 1, UnitPrice: 1}},
	})
	require.ErrorIs(t, err, model.ErrUnknownProduct)

	var txCount int64
	db.Model(&model.Transaction{}).Count(&txCount)
	assert.Zero(t, txCount)
}

func TestListTransactions_BoundedToRecent(t *testing.T) {
	svc, _ := setupService(t)
	id := mustCreateProduct(t, svc, model.ProductRequest{SKU: "A", Name: "Alpha", Price: 1})

	total := repository.RecentLimit + 5
	for i := 0; i < total; i++ {
		_, err := svc.CreateTransaction(&model.TransactionRequest{
			Type:  model.TxPurchase,
			Items: []model.TxItemRequest{{ProductID: id, Qty: 1, UnitPrice: 1}},
		})
		require.NoError(t, err)
	}

	transactions, err := svc.ListTransactions()
	require.NoError(t, err)
	require.Len(t, transactions, repository.RecentLimit)
	assert.Equal(t, uint(total), transactions[0].ID, "newest first")
	assert.Equal(t, uint(total-repository.RecentLimit+1), transactions[len(transactions)-1].ID)
}

// Unknown product ids must map to the error taxonomy even when the engine
// enforces foreign keys, as the production DSN does.
func TestCreateTransaction_UnknownProductWithForeignKeysOn(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "inventory.db") + "?_journal_mode=WAL&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.Transaction{}, &model.TxItem{}))

	svc := NewInventoryService(repository.NewProductRepo(db), repository.NewTransactionRepo(db), db, nil)

	_, err = svc.CreateTransaction(&model.TransactionRequest{
		Type:  model.TxPurchase,
		Items: []model.TxItemRequest{{ProductID: 12345, Qty: 1, UnitPrice: 1}},
	})
	require.ErrorIs(t, err, model.ErrUnknownProduct)

	var txCount, itemCount int64
	db.Model(&model.Transaction{}).Count(&txCount)
	db.Model(&model.TxItem{}).Count(&itemCount)
	assert.Zero(t, txCount)
	assert.Zero(t, itemCount)
}

func TestCreateTransaction_EmptyItems(t *testing.T) {
	svc, db := setupService(t)

	_, err := svc.CreateTransaction(&model.TransactionRequest{Type: model.TxSale})
	require.ErrorIs(t, err, model.ErrValidation)

	var txCount int64
	db.Model(&model.Transaction{}).Count(&txCount)
	assert.Zero(t, txCount)
}

func TestCreateTransaction_InvalidLine(t *testing.T) {
	svc, _ := setupService(t)
	id := mustCreateProduct(t, svc, model.ProductRequest{SKU: "A", Name: "Alpha", Stock: 5})

	_, err := svc.CreateTransaction(&model.TransactionRequest{
		Type:  model.TxSale,
		Items: []model.TxItemRequest{{ProductID: id, Qty: 0, UnitPrice: 10}},
	})
	assert.ErrorIs(t, err, model.ErrValidation, "non-positive qty is rejected at the schema")
}

func TestListTransactions_NewestFirst(t *testing.T) {
	svc, _ := setupService(t)
	id := mustCreateProduct(t, svc, model.ProductRequest{SKU: "A", Name: "Alpha", Stock: 100})

	var ids []uint
	for i := 0; i < 3; i++ {
		txID, err := svc.CreateTransaction(&model.TransactionRequest{
			Type:  model.TxSale,
			Items: []model.TxItemRequest{{ProductID: id, Qty: 1, UnitPrice: 1}},
		})
		require.NoError(t, err)
		ids = append(ids, txID)
	}

	transactions, err := svc.ListTransactions()
	require.NoError(t, err)
	require.Len(t, transactions, 3)
	assert.Equal(t, ids[2], transactions[0].ID)
	assert.Equal(t, ids[0], transactions[2].ID)
}

func TestExportProductsCSV_RoundTrip(t *testing.T) {
	svc, _ := setupService(t)
	mustCreateProduct(t, svc, model.ProductRequest{SKU: "A", Name: "Alpha", Category: "toys", Price: 10.5, Stock: 5, ReorderLevel: 2})
	mustCreateProduct(t, svc, model.ProductRequest{SKU: "B", Name: "Beta", Price: 20, Stock: 0, ReorderLevel: 1})

	data, err := svc.ExportProductsCSV()
	require.NoError(t, err)

	assert.True(t, len(data) > 0 && data[len(data)-1] == '\n')
	assert.Contains(t, data, "id,sku,name,category,price,stock,reorder_level\r\n")

	parsed, err := export.ParseProductsCSV(data)
	require.NoError(t, err)

	products, err := svc.ListProducts()
	require.NoError(t, err)
	assert.Equal(t, products, parsed)
}

func TestExportProductsCSV_Empty(t *testing.T) {
	svc, _ := setupService(t)

	data, err := svc.ExportProductsCSV()
	require.NoError(t, err)
	assert.Equal(t, "id,sku,name,category,price,stock,reorder_level\r\n", data)
}
