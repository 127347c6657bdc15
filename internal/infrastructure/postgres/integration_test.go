package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-api/migrations"
	"github.com/jhoicas/warehouse-api/pkg/config"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

// openTestDB requiere TEST_DATABASE_URL (una BD desechable); sin ella el test se omite.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = postgres.Migrate(ctx, pool, migrations.FS)
	require.NoError(t, err)
	return pool
}

func seedOwnerAndStore(t *testing.T, repos repository.Set) (*entity.User, *entity.Store) {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.NewString()[:8]
	owner, err := repos.Users.Create(ctx, &entity.User{
		Model:        entity.Model{ID: uuid.NewString()},
		Username:     "owner" + suffix,
		Email:        "owner" + suffix + "@example.com",
		PasswordHash: "x",
		Name:         "Owner",
		Role:         entity.RoleOwner,
		IsActive:     true,
	})
	require.NoError(t, err)
	store, err := repos.Stores.Create(ctx, &entity.Store{
		Model:    entity.Model{ID: uuid.NewString()},
		OwnerID:  owner.ID,
		Name:     "Main " + suffix,
		IsActive: true,
	})
	require.NoError(t, err)
	return owner, store
}

func TestIntegration_StoreCRUDYBorradoLogico(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	repos := postgres.NewRepositorySet(pool)
	owner, store := seedOwnerAndStore(t, repos)

	// Caso 1: el nombre es único por owner sin distinguir mayúsculas.
	dup, err := repos.Stores.FindByOwnerAndName(ctx, owner.ID, store.Name)
	require.NoError(t, err)
	require.NotNil(t, dup)
	_, err = repos.Stores.Create(ctx, &entity.Store{Model: entity.Model{ID: uuid.NewString()}, OwnerID: owner.ID, Name: store.Name, IsActive: true})
	assert.True(t, domain.IsConflict(err))

	// Caso 2: borrado lógico oculta la fila y Restore la devuelve.
	ok, err := repos.Stores.SoftDelete(ctx, store.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repos.Stores.SoftDelete(ctx, store.ID)
	require.NoError(t, err)
	assert.False(t, ok, "la segunda baja no encuentra fila activa")
	got, err := repos.Stores.FindByID(ctx, store.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = repos.Stores.FindByIDIncludingDeleted(ctx, store.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsDeleted())

	ok, err = repos.Stores.Restore(ctx, store.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repos.Stores.Restore(ctx, store.ID)
	require.NoError(t, err)
	assert.False(t, ok, "Restore sobre una fila activa no hace nada")

	// Caso 3: Update cambia sólo las columnas indicadas.
	updated, err := repos.Stores.Update(ctx, store.ID, repository.Changes{"phone": "555", "id": "ignorado"})
	require.NoError(t, err)
	assert.Equal(t, store.ID, updated.ID)
	assert.Equal(t, "555", updated.Phone)

	page, err := repos.Stores.ListByOwner(ctx, owner.ID, repository.FindOptions{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestIntegration_AdjustQuantityYRollback(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	repos := postgres.NewRepositorySet(pool)
	owner, store := seedOwnerAndStore(t, repos)

	p, err := repos.Products.Create(ctx, &entity.Product{
		Model:    entity.Model{ID: uuid.NewString()},
		OwnerID:  owner.ID,
		StoreID:  store.ID,
		Name:     "Café",
		SKU:      "CAF-1",
		Price:    decimal.RequireFromString("2.50"),
		Cost:     decimal.RequireFromString("1.00"),
		Quantity: 5,
		MinStock: 3,
		IsActive: true,
	})
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("2.50")))

	// Caso 1: no se permite stock negativo.
	_, err = repos.Products.AdjustQuantity(ctx, p.ID, -6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Caso 2: un error dentro de Run revierte todo.
	runner := postgres.NewTxRunner(pool, logger.Nop(), 1)
	boom := errors.New("boom")
	err = runner.Run(ctx, func(tx repository.Set) error {
		if _, err := tx.Products.AdjustQuantity(ctx, p.ID, -3); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	after, err := repos.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, after.Quantity)

	// Caso 3: commit aplica el movimiento.
	require.NoError(t, runner.Run(ctx, func(tx repository.Set) error {
		_, err := tx.Products.AdjustQuantity(ctx, p.ID, -3)
		return err
	}))
	after, err = repos.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Quantity)

	low, err := repos.Products.ListLowStock(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, low, 1)

	// Caso 4: un producto eliminado sólo se ajusta con la variante que incluye eliminados.
	ok, err := repos.Products.SoftDelete(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	gone, err := repos.Products.AdjustQuantity(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.Nil(t, gone)
	back, err := repos.Products.AdjustQuantityIncludingDeleted(ctx, p.ID, 3)
	require.NoError(t, err)
	require.NotNil(t, back)
	assert.Equal(t, 5, back.Quantity)
	assert.True(t, back.IsDeleted())
}
