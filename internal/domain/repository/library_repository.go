package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

type LibraryRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.LibraryEntry, error)
	Get(ctx context.Context, userID, gameID int64) (*model.LibraryEntry, error)
	Contains(ctx context.Context, userID, gameID int64) (bool, error)
	Add(ctx context.Context, userID, gameID int64) (*model.LibraryEntry, error)
	TouchLastPlayed(ctx context.Context, userID, gameID int64, at time.Time) (*model.LibraryEntry, error)
	Remove(ctx context.Context, userID, gameID int64) error
}

var errNotInLibrary = notFound("Game not found in library")

const libraryEntrySelect = `SELECT l.id, l.user_id, l.game_id, l.purchased_at, l.last_played,
	       g.id, g.title, g.slug, g.price_cents, g.cover_image
	FROM library_entries l
	JOIN games g ON g.id = l.game_id`

type pgLibraryRepository struct {
	db *sql.DB
}

func NewPgLibraryRepository(db *sql.DB) LibraryRepository {
	return &pgLibraryRepository{db: db}
}

func scanLibraryEntry(row rowScanner) (model.LibraryEntry, error) {
	var e model.LibraryEntry
	err := row.Scan(&e.ID, &e.UserID, &e.GameID, &e.PurchasedAt, &e.LastPlayed,
		&e.Game.ID, &e.Game.Title, &e.Game.Slug, &e.Game.PriceCents, &e.Game.CoverImage)
	e.Game.Price = model.FormatPrice(e.Game.PriceCents)
	return e, err
}

// ListByUser returns owned games, most recently played first. Games never
// played sort last.
func (r *pgLibraryRepository) ListByUser(ctx context.Context, userID int64) ([]model.LibraryEntry, error) {
	query := libraryEntrySelect + ` WHERE l.user_id = $1 ORDER BY l.last_played DESC NULLS LAST, l.purchased_at DESC`
	return queryList(ctx, r.db, "pgLibraryRepository.ListByUser", scanLibraryEntry, query, userID)
}

func (r *pgLibraryRepository) Get(ctx context.Context, userID, gameID int64) (*model.LibraryEntry, error) {
	query := libraryEntrySelect + ` WHERE l.user_id = $1 AND l.game_id = $2`
	entry, err := scanLibraryEntry(r.db.QueryRowContext(ctx, query, userID, gameID))
	if err != nil {
		if noRows(err) {
			return nil, errNotInLibrary
		}
		return nil, fmt.Errorf("pgLibraryRepository.Get: %w", err)
	}
	return &entry, nil
}

func (r *pgLibraryRepository) Contains(ctx context.Context, userID, gameID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM library_entries WHERE user_id = $1 AND game_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, userID, gameID).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgLibraryRepository.Contains: %w", err)
	}
	return exists, nil
}

func (r *pgLibraryRepository) Add(ctx context.Context, userID, gameID int64) (*model.LibraryEntry, error) {
	query := `INSERT INTO library_entries (user_id, game_id)
	          SELECT $1, id FROM games WHERE id = $2 AND ` + notDeleted("")
	res, err := r.db.ExecContext(ctx, query, userID, gameID)
	if err != nil {
		switch {
		case common.IsPgCode(err, common.PgUniqueViolation):
			return nil, conflict("Game already exists in library")
		case common.IsPgCode(err, common.PgForeignKeyViolation):
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("pgLibraryRepository.Add: %w", err)
	}
	if err := expectAffected(res, errGameNotFound); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, gameID)
}

func (r *pgLibraryRepository) TouchLastPlayed(ctx context.Context, userID, gameID int64, at time.Time) (*model.LibraryEntry, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE library_entries SET last_played = $3 WHERE user_id = $1 AND game_id = $2`, userID, gameID, at)
	if err != nil {
		return nil, fmt.Errorf("pgLibraryRepository.TouchLastPlayed: %w", err)
	}
	if err := expectAffected(res, errNotInLibrary); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, gameID)
}

func (r *pgLibraryRepository) Remove(ctx context.Context, userID, gameID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM library_entries WHERE user_id = $1 AND game_id = $2`, userID, gameID)
	if err != nil {
		return fmt.Errorf("pgLibraryRepository.Remove: %w", err)
	}
	return expectAffected(res, errNotInLibrary)
}
