package database

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens the relational store. The default is an embedded SQLite
// file under DB_PATH; STORE_DRIVER=postgres switches to a server DSN from
// DATABASE_URL for installations that already run one.
func ConnectDB() *gorm.DB {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	config := &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch os.Getenv("STORE_DRIVER") {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), config)
	default:
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = filepath.Join("data", "inventory.db")
		}
		if dir := filepath.Dir(path); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				log.Fatal("Failed to create data dir. \n", mkErr)
			}
		}
		// WAL keeps the single-writer create-transaction unit crash-atomic.
		db, err = gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_foreign_keys=on"), config)
	}

	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db
}
