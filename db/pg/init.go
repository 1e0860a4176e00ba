package pg

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"codepay/config"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// CreateDSN builds the connection string from DATABASE_URL, or from the
// DATABASE_* parts when it is not set. The search path always points at the
// app schema.
func CreateDSN() string {
	var connStr string
	if url := os.Getenv("DATABASE_URL"); url != "" {
		connStr = url
		log.Printf("Using DATABASE_URL: *")
	} else {
		connStr = fmt.Sprintf("host=%s user=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			envOr("DATABASE_HOST", "localhost"),
			envOr("DATABASE_USER", "postgres"),
			envOr("DATABASE_NAME", "postgres"),
			envOr("DATABASE_PORT", "5432"),
		)
		if password := os.Getenv("DATABASE_PASSWORD"); password != "" {
			connStr += " password=" + password
			log.Printf("Using DATABASE_PASSWORD: *")
		} else {
			log.Printf("Using default connection string: %s", connStr)
		}
	}
	return connStr + fmt.Sprintf(" search_path=%s", config.AppName)
}

// CreateSchema makes sure the app schema exists before goose writes its
// version table into it.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", config.AppName))
	return err
}

func CloseGORM(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB from GORM: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// sqlLogLevel reads CODEPAY_SQL_LOG (silent, error, warn, info).
func sqlLogLevel() logger.LogLevel {
	switch os.Getenv("CODEPAY_SQL_LOG") {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	}
	return logger.Silent
}

// InitPostgresGORM opens and pings a pooled connection. Pool size follows
// DATABASE_MAX_OPEN_CONNS.
func InitPostgresGORM(dsn string) (*gorm.DB, error) {
	sqlLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  sqlLogLevel(),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: sqlLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	maxOpen := 10
	if n, err := strconv.Atoi(os.Getenv("DATABASE_MAX_OPEN_CONNS")); err == nil && n > 0 {
		maxOpen = n
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen / 2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
