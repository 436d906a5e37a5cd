package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

type CartRepository interface {
	// GetByUserID returns the user's cart, or ErrNotFound if none was created yet.
	GetByUserID(ctx context.Context, userID int64) (*model.Cart, error)
	AddItem(ctx context.Context, userID, gameID int64) error
	RemoveItem(ctx context.Context, userID, gameID int64) error
	Clear(ctx context.Context, userID int64) error
	// Checkout moves every cart game into the library and empties the cart in
	// one transaction. It returns the number of library entries created.
	Checkout(ctx context.Context, userID int64) (int64, error)
}

type pgCartRepository struct {
	db *sql.DB
}

func NewPgCartRepository(db *sql.DB) CartRepository {
	return &pgCartRepository{db: db}
}

func scanCartItem(row rowScanner) (model.CartItem, error) {
	var item model.CartItem
	err := row.Scan(&item.ID, &item.GameID, &item.AddedAt,
		&item.Game.ID, &item.Game.Title, &item.Game.Slug, &item.Game.PriceCents, &item.Game.CoverImage)
	item.Game.Price = model.FormatPrice(item.Game.PriceCents)
	return item, err
}

func (r *pgCartRepository) GetByUserID(ctx context.Context, userID int64) (*model.Cart, error) {
	cart := &model.Cart{UserID: userID}
	err := r.db.QueryRowContext(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cart.ID)
	if err != nil {
		if noRows(err) {
			return nil, notFound("Cart not found")
		}
		return nil, fmt.Errorf("pgCartRepository.GetByUserID: %w", err)
	}

	query := `SELECT ci.id, ci.game_id, ci.added_at, g.id, g.title, g.slug, g.price_cents, g.cover_image
	          FROM cart_items ci
	          JOIN games g ON g.id = ci.game_id AND ` + notDeleted("g") + `
	          WHERE ci.cart_id = $1
	          ORDER BY ci.added_at`
	items, err := queryList(ctx, r.db, "pgCartRepository.GetByUserID", scanCartItem, query, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	cart.Recalculate()
	return cart, nil
}

// AddItem creates the cart on first use and adds a live game to it.
func (r *pgCartRepository) AddItem(ctx context.Context, userID, gameID int64) error {
	var cartID int64
	upsert := `INSERT INTO carts (user_id) VALUES ($1)
	           ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
	           RETURNING id`
	if err := r.db.QueryRowContext(ctx, upsert, userID).Scan(&cartID); err != nil {
		if common.IsPgCode(err, common.PgForeignKeyViolation) {
			return errUserNotFound
		}
		return fmt.Errorf("pgCartRepository.AddItem: ensure cart: %w", err)
	}

	insert := `INSERT INTO cart_items (cart_id, game_id)
	           SELECT $1, id FROM games WHERE id = $2 AND ` + notDeleted("")
	res, err := r.db.ExecContext(ctx, insert, cartID, gameID)
	if err != nil {
		if common.IsPgCode(err, common.PgUniqueViolation) {
			return conflict("Game already in cart")
		}
		return fmt.Errorf("pgCartRepository.AddItem: %w", err)
	}
	return expectAffected(res, errGameNotFound)
}

func (r *pgCartRepository) RemoveItem(ctx context.Context, userID, gameID int64) error {
	query := `DELETE FROM cart_items
	          WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1) AND game_id = $2`
	res, err := r.db.ExecContext(ctx, query, userID, gameID)
	if err != nil {
		return fmt.Errorf("pgCartRepository.RemoveItem: %w", err)
	}
	return expectAffected(res, notFound("Game not found in cart"))
}

func (r *pgCartRepository) Clear(ctx context.Context, userID int64) error {
	query := `DELETE FROM cart_items WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("pgCartRepository.Clear: %w", err)
	}
	return nil
}

func (r *pgCartRepository) Checkout(ctx context.Context, userID int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("pgCartRepository.Checkout: begin: %w", err)
	}
	defer tx.Rollback()

	var cartID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&cartID)
	if err != nil {
		if noRows(err) {
			return 0, common.NewError(common.ErrBadRequest, "Cart is empty")
		}
		return 0, fmt.Errorf("pgCartRepository.Checkout: lock cart: %w", err)
	}

	move := `INSERT INTO library_entries (user_id, game_id)
	         SELECT $1, ci.game_id
	         FROM cart_items ci
	         JOIN games g ON g.id = ci.game_id AND ` + notDeleted("g") + `
	         WHERE ci.cart_id = $2
	         ON CONFLICT (user_id, game_id) DO NOTHING`
	res, err := tx.ExecContext(ctx, move, userID, cartID)
	if err != nil {
		return 0, fmt.Errorf("pgCartRepository.Checkout: move items: %w", err)
	}
	added, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pgCartRepository.Checkout: %w", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return 0, fmt.Errorf("pgCartRepository.Checkout: clear cart: %w", err)
	}
	if err := expectAffected(res, common.NewError(common.ErrBadRequest, "Cart is empty")); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("pgCartRepository.Checkout: commit: %w", err)
	}
	return added, nil
}
