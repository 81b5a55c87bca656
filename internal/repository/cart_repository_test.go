package repository

import (
	"context"
	"testing"

	"trendora/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCart inserts a cart with the given items.
func seedCart(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, items []model.CartItem) model.Cart {
	ctx := context.Background()

	cart := model.Cart{ID: uuid.New(), UserID: userID}
	_, err := pool.Exec(ctx, `INSERT INTO carts (id, user_id) VALUES ($1, $2)`, cart.ID, cart.UserID)
	require.NoError(t, err)

	for _, item := range items {
		_, err := pool.Exec(ctx,
			`INSERT INTO cart_items (id, cart_id, product_id, quantity, size) VALUES ($1, $2, $3, $4, $5)`,
			item.ID, cart.ID, item.ProductID, item.Quantity, item.Size)
		require.NoError(t, err)
	}

	return cart
}

func TestCartRepository_GetByUser(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewCartRepository(pool, logger)
	ctx := context.Background()

	userID := uuid.New()
	cart := seedCart(t, pool, userID, nil)

	got, err := repo.GetByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cart.ID, got.ID)

	missing, err := repo.GetByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCartRepository_GetItems(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewCartRepository(pool, logger)
	ctx := context.Background()

	product := testProduct(10.00, 5)
	seedProducts(t, pool, []model.Product{product})

	size := "L"
	cart := seedCart(t, pool, uuid.New(), []model.CartItem{
		{ID: uuid.New(), ProductID: product.ID, Quantity: 2, Size: &size},
		{ID: uuid.New(), ProductID: product.ID, Quantity: 1},
	})

	items, err := repo.GetItems(ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	empty, err := repo.GetItems(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCartRepository_DeleteItems(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewCartRepository(pool, logger)
	ctx := context.Background()

	product := testProduct(10.00, 5)
	seedProducts(t, pool, []model.Product{product})

	cart := seedCart(t, pool, uuid.New(), []model.CartItem{
		{ID: uuid.New(), ProductID: product.ID, Quantity: 2},
		{ID: uuid.New(), ProductID: product.ID, Quantity: 3},
	})

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)

	removed, err := repo.DeleteItems(ctx, tx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	require.NoError(t, tx.Commit(ctx))

	items, err := repo.GetItems(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
