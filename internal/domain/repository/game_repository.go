package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

type GameRepository interface {
	Create(ctx context.Context, game *model.Game) error
	FindByID(ctx context.Context, id int64) (*model.Game, error)
	FindBySlug(ctx context.Context, slug string) (*model.Game, error)
	List(ctx context.Context) ([]model.Game, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.Game, error)
	Search(ctx context.Context, query string) ([]model.Game, error)
	Update(ctx context.Context, id int64, upd model.GameUpdate, slug *string) (*model.Game, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	Exists(ctx context.Context, id int64) (bool, error)
}

var errGameNotFound = notFound("Game not found")

// gameSelect loads live games with their categories aggregated as JSON.
// Callers append conditions with AND and then gameGroupBy.
var gameSelect = `SELECT g.id, g.title, g.slug, g.description, g.price_cents, g.release_date,
	       g.developer, g.publisher, g.cover_image, g.created_at, g.updated_at,
	       COALESCE(json_agg(json_build_object(
	           'id', c.id, 'name', c.name, 'slug', c.slug,
	           'createdAt', c.created_at, 'updatedAt', c.updated_at) ORDER BY c.name)
	           FILTER (WHERE c.id IS NOT NULL), '[]') AS categories
	FROM games g
	LEFT JOIN game_categories gc ON gc.game_id = g.id
	LEFT JOIN categories c ON c.id = gc.category_id
	WHERE ` + notDeleted("g")

const gameGroupBy = ` GROUP BY g.id`

type pgGameRepository struct {
	db *sql.DB
}

func NewPgGameRepository(db *sql.DB) GameRepository {
	return &pgGameRepository{db: db}
}

func scanGame(row rowScanner) (model.Game, error) {
	var (
		g          model.Game
		categories []byte
	)
	err := row.Scan(
		&g.ID, &g.Title, &g.Slug, &g.Description, &g.PriceCents, &g.ReleaseDate,
		&g.Developer, &g.Publisher, &g.CoverImage, &g.CreatedAt, &g.UpdatedAt, &categories,
	)
	if err != nil {
		return g, err
	}
	if err := json.Unmarshal(categories, &g.Categories); err != nil {
		return g, fmt.Errorf("decode categories: %w", err)
	}
	g.Price = model.FormatPrice(g.PriceCents)
	return g, nil
}

func (r *pgGameRepository) Create(ctx context.Context, game *model.Game) error {
	query := `INSERT INTO games (title, slug, description, price_cents, release_date, developer, publisher, cover_image)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		game.Title, game.Slug, game.Description, game.PriceCents, game.ReleaseDate,
		game.Developer, game.Publisher, game.CoverImage,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		if common.IsPgCode(err, common.PgUniqueViolation) {
			return conflict("Game slug already exists")
		}
		return fmt.Errorf("pgGameRepository.Create: %w", err)
	}
	game.Price = model.FormatPrice(game.PriceCents)
	if game.Categories == nil {
		game.Categories = []model.Category{}
	}
	return nil
}

func (r *pgGameRepository) findOne(ctx context.Context, op, condition string, arg any) (*model.Game, error) {
	game, err := scanGame(r.db.QueryRowContext(ctx, gameSelect+` AND `+condition+gameGroupBy, arg))
	if err != nil {
		if noRows(err) {
			return nil, errGameNotFound
		}
		return nil, fmt.Errorf("pgGameRepository.%s: %w", op, err)
	}
	return &game, nil
}

func (r *pgGameRepository) FindByID(ctx context.Context, id int64) (*model.Game, error) {
	return r.findOne(ctx, "FindByID", "g.id = $1", id)
}

func (r *pgGameRepository) FindBySlug(ctx context.Context, slug string) (*model.Game, error) {
	return r.findOne(ctx, "FindBySlug", "g.slug = $1", slug)
}

func (r *pgGameRepository) List(ctx context.Context) ([]model.Game, error) {
	return queryList(ctx, r.db, "pgGameRepository.List", scanGame,
		gameSelect+gameGroupBy+` ORDER BY g.created_at DESC`)
}

func (r *pgGameRepository) ListByCategory(ctx context.Context, categoryID int64) ([]model.Game, error) {
	query := gameSelect + ` AND g.id IN (SELECT game_id FROM game_categories WHERE category_id = $1)` +
		gameGroupBy + ` ORDER BY g.title`
	return queryList(ctx, r.db, "pgGameRepository.ListByCategory", scanGame, query, categoryID)
}

// Search matches query case-insensitively as a substring of the title,
// description, developer or publisher.
func (r *pgGameRepository) Search(ctx context.Context, query string) ([]model.Game, error) {
	pattern := "%" + escapeLike(query) + "%"
	sqlQuery := gameSelect + ` AND (g.title ILIKE $1 OR g.description ILIKE $1 OR g.developer ILIKE $1 OR g.publisher ILIKE $1)` +
		gameGroupBy + ` ORDER BY g.title`
	return queryList(ctx, r.db, "pgGameRepository.Search", scanGame, sqlQuery, pattern)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *pgGameRepository) Update(ctx context.Context, id int64, upd model.GameUpdate, slug *string) (*model.Game, error) {
	query := `UPDATE games SET
	              title = COALESCE($2, title),
	              slug = COALESCE($3, slug),
	              description = COALESCE($4, description),
	              price_cents = COALESCE($5, price_cents),
	              release_date = COALESCE($6, release_date),
	              developer = COALESCE($7, developer),
	              publisher = COALESCE($8, publisher),
	              cover_image = COALESCE($9, cover_image),
	              updated_at = NOW()
	          WHERE id = $1 AND ` + notDeleted("")
	res, err := r.db.ExecContext(ctx, query, id, upd.Title, slug, upd.Description, upd.PriceCents,
		upd.ReleaseDate, upd.Developer, upd.Publisher, upd.CoverImage)
	if err != nil {
		if common.IsPgCode(err, common.PgUniqueViolation) {
			return nil, conflict("Game slug already exists")
		}
		return nil, fmt.Errorf("pgGameRepository.Update: %w", err)
	}
	if err := expectAffected(res, errGameNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *pgGameRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE games SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND ` + notDeleted("")
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("pgGameRepository.SoftDelete: %w", err)
	}
	return expectAffected(res, errGameNotFound)
}

// Exists reports whether a live game with id exists.
func (r *pgGameRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM games WHERE id = $1 AND ` + notDeleted("") + `)`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgGameRepository.Exists: %w", err)
	}
	return exists, nil
}
