package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/database"
	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/testdb"
)

func TestSeedCategoriesIsIdempotent(t *testing.T) {
	db := testdb.NewSQLite(t)
	names := []string{"Dairy", "Protein", "Other"}

	created, err := database.SeedCategories(db, names)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = database.SeedCategories(db, append(names, "Fruits"))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var count int64
	require.NoError(t, db.Model(&models.PantryCategory{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: "file::memory:"}

	db, err := database.Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	assert.NoError(t, database.HealthCheck(context.Background(), db))

	user := models.User{Username: "cook", Email: "cook@example.com"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotEmpty(t, user.ID)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := database.Open(context.Background(), &config.Config{DBDriver: "mysql"}, zap.NewNop())
	assert.Error(t, err)
}

func TestPostgresMigrate(t *testing.T) {
	db := testdb.NewPostgres(t)

	created, err := database.SeedCategories(db, []string{"Vegetables"})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}
