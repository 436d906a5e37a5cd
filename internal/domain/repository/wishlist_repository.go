package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

type WishlistRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.WishlistEntry, error)
	Add(ctx context.Context, userID, gameID int64) (*model.WishlistEntry, error)
	Remove(ctx context.Context, userID, gameID int64) error
	// UserIDsForGame lists the live users that wishlisted gameID.
	UserIDsForGame(ctx context.Context, gameID int64) ([]int64, error)
}

const wishlistEntrySelect = `SELECT w.id, w.user_id, w.game_id, w.added_at,
	       g.id, g.title, g.slug, g.price_cents, g.cover_image
	FROM wishlist_entries w
	JOIN games g ON g.id = w.game_id`

type pgWishlistRepository struct {
	db *sql.DB
}

func NewPgWishlistRepository(db *sql.DB) WishlistRepository {
	return &pgWishlistRepository{db: db}
}

func scanWishlistEntry(row rowScanner) (model.WishlistEntry, error) {
	var e model.WishlistEntry
	err := row.Scan(&e.ID, &e.UserID, &e.GameID, &e.AddedAt,
		&e.Game.ID, &e.Game.Title, &e.Game.Slug, &e.Game.PriceCents, &e.Game.CoverImage)
	e.Game.Price = model.FormatPrice(e.Game.PriceCents)
	return e, err
}

func (r *pgWishlistRepository) ListByUser(ctx context.Context, userID int64) ([]model.WishlistEntry, error) {
	query := wishlistEntrySelect + ` WHERE w.user_id = $1 AND ` + notDeleted("g") + ` ORDER BY w.added_at DESC`
	return queryList(ctx, r.db, "pgWishlistRepository.ListByUser", scanWishlistEntry, query, userID)
}

func (r *pgWishlistRepository) Add(ctx context.Context, userID, gameID int64) (*model.WishlistEntry, error) {
	insert := `INSERT INTO wishlist_entries (user_id, game_id)
	           SELECT $1, id FROM games WHERE id = $2 AND ` + notDeleted("") + `
	           RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, insert, userID, gameID).Scan(&id)
	if err != nil {
		switch {
		case noRows(err):
			return nil, errGameNotFound
		case common.IsPgCode(err, common.PgUniqueViolation):
			return nil, conflict("Game already in wishlist")
		case common.IsPgCode(err, common.PgForeignKeyViolation):
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("pgWishlistRepository.Add: %w", err)
	}

	entry, err := scanWishlistEntry(r.db.QueryRowContext(ctx, wishlistEntrySelect+` WHERE w.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("pgWishlistRepository.Add: reload: %w", err)
	}
	return &entry, nil
}

func (r *pgWishlistRepository) Remove(ctx context.Context, userID, gameID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM wishlist_entries WHERE user_id = $1 AND game_id = $2`, userID, gameID)
	if err != nil {
		return fmt.Errorf("pgWishlistRepository.Remove: %w", err)
	}
	return expectAffected(res, notFound("Game not found in wishlist"))
}

func (r *pgWishlistRepository) UserIDsForGame(ctx context.Context, gameID int64) ([]int64, error) {
	query := `SELECT w.user_id FROM wishlist_entries w
	          JOIN users u ON u.id = w.user_id AND ` + notDeleted("u") + `
	          WHERE w.game_id = $1 ORDER BY w.user_id`
	return queryList(ctx, r.db, "pgWishlistRepository.UserIDsForGame", func(row rowScanner) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	}, query, gameID)
}
