package service

import (
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jpcardenas/tienda/internal/models"
	"github.com/jpcardenas/tienda/internal/repo"
	"github.com/jpcardenas/tienda/internal/transport"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return repo.New(db)
}

// item builds a client cart line the way the storefront sends it: an opaque
// product blob plus a quantity.
func item(t *testing.T, id int64, name string, priceCents int64, qty float64) transport.ItemInput {
	t.Helper()
	blob, err := json.Marshal(map[string]any{
		"id":    id,
		"name":  name,
		"price": priceCents,
	})
	require.NoError(t, err)
	return transport.ItemInput{Product: blob, Quantity: qty}
}

func rawItem(t *testing.T, fields map[string]any, qty float64) transport.ItemInput {
	t.Helper()
	blob, err := json.Marshal(fields)
	require.NoError(t, err)
	return transport.ItemInput{Product: blob, Quantity: qty}
}
