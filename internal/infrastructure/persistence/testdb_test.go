package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/partner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens a migrated in-memory database. One connection keeps every
// query, transactions included, on the same in-memory schema.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// newMockDB wires GORM's Postgres dialector to sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func seedClient(t *testing.T, db *gorm.DB, email string) *partner.Client {
	t.Helper()
	client, err := partner.NewClient("Amina", "Benali", email)
	require.NoError(t, err)
	require.NoError(t, NewGormClientRepository(db).Save(context.Background(), client))
	return client
}

func seedProduct(t *testing.T, db *gorm.DB, reference string, price int64, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(reference, "Produit "+reference, decimal.NewFromInt(price))
	require.NoError(t, err)
	require.NoError(t, product.SetInitialStock(stock))
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), product))
	return product
}
