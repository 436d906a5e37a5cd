package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/internal/common"
)

func TestCartGetByUserID_Totals(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgCartRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT id FROM carts WHERE user_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))
	mock.ExpectQuery(`FROM cart_items ci`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "added_at", "gid", "title", "slug", "price_cents", "cover_image"}).
			AddRow(int64(1), int64(10), now, int64(10), "A", "a", int64(1999), nil).
			AddRow(int64(2), int64(11), now, int64(11), "B", "b", int64(500), nil))

	cart, err := repo.GetByUserID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2499), cart.TotalCents)
	assert.Equal(t, "24.99", cart.Total)
	assert.Equal(t, "19.99", cart.Items[0].Game.Price)
}

func TestCartGetByUserID_NoCart(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgCartRepository(db)

	mock.ExpectQuery(`SELECT id FROM carts`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByUserID(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCartAddItem(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgCartRepository(db)

	mock.ExpectQuery(`INSERT INTO carts \(user_id\) VALUES \(\$1\)\s+ON CONFLICT \(user_id\)`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))
	mock.ExpectExec(`INSERT INTO cart_items`).
		WithArgs(int64(8), int64(10)).
		WillReturnError(&pgconn.PgError{Code: common.PgUniqueViolation})

	err := repo.AddItem(context.Background(), 1, 10)
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, "Game already in cart", common.PublicMessage(err))
}

func TestCartRemoveItem_NotInCart(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgCartRepository(db)

	mock.ExpectExec(`DELETE FROM cart_items`).WithArgs(int64(1), int64(10)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RemoveItem(context.Background(), 1, 10)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCartCheckout_MovesItemsInOneTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgCartRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM carts WHERE user_id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))
	mock.ExpectExec(`INSERT INTO library_entries`).
		WithArgs(int64(1), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM cart_items WHERE cart_id = \$1`).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	added, err := repo.Checkout(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), added)
}

func TestCartCheckout_EmptyCartRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgCartRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))
	mock.ExpectExec(`INSERT INTO library_entries`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM cart_items`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Checkout(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Equal(t, "Cart is empty", common.PublicMessage(err))
}
