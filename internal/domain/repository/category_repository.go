package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, id int64, name, slug string) (*model.Category, error)
	Delete(ctx context.Context, id int64) error
	AddGame(ctx context.Context, categoryID, gameID int64) error
	RemoveGame(ctx context.Context, categoryID, gameID int64) error
}

var errCategoryNotFound = notFound("Category not found")

// categorySelect aggregates the live games of each category.
var categorySelect = `SELECT c.id, c.name, c.slug, c.created_at, c.updated_at,
	       COALESCE(json_agg(json_build_object(
	           'id', g.id, 'title', g.title, 'slug', g.slug,
	           'priceCents', g.price_cents, 'coverImage', g.cover_image) ORDER BY g.title)
	           FILTER (WHERE g.id IS NOT NULL), '[]') AS games
	FROM categories c
	LEFT JOIN game_categories gc ON gc.category_id = c.id
	LEFT JOIN games g ON g.id = gc.game_id AND ` + notDeleted("g")

type pgCategoryRepository struct {
	db *sql.DB
}

func NewPgCategoryRepository(db *sql.DB) CategoryRepository {
	return &pgCategoryRepository{db: db}
}

func scanCategory(row rowScanner) (model.Category, error) {
	var (
		c     model.Category
		games []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt, &games); err != nil {
		return c, err
	}
	if err := json.Unmarshal(games, &c.Games); err != nil {
		return c, fmt.Errorf("decode games: %w", err)
	}
	for i := range c.Games {
		c.Games[i].Price = model.FormatPrice(c.Games[i].PriceCents)
	}
	return c, nil
}

func (r *pgCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	query := `INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, category.Name, category.Slug).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if common.IsPgCode(err, common.PgUniqueViolation) {
			return conflict("Category name already exists")
		}
		return fmt.Errorf("pgCategoryRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCategoryRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	query := categorySelect + ` WHERE c.id = $1 GROUP BY c.id`
	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, errCategoryNotFound
		}
		return nil, fmt.Errorf("pgCategoryRepository.FindByID: %w", err)
	}
	return &category, nil
}

func (r *pgCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	return queryList(ctx, r.db, "pgCategoryRepository.List", scanCategory,
		categorySelect+` GROUP BY c.id ORDER BY c.name`)
}

func (r *pgCategoryRepository) Update(ctx context.Context, id int64, name, slug string) (*model.Category, error) {
	query := `UPDATE categories SET name = $2, slug = $3, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, name, slug)
	if err != nil {
		if common.IsPgCode(err, common.PgUniqueViolation) {
			return nil, conflict("Category name already exists")
		}
		return nil, fmt.Errorf("pgCategoryRepository.Update: %w", err)
	}
	if err := expectAffected(res, errCategoryNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes a category. Categories that still have games attached are
// kept and reported as a conflict.
func (r *pgCategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if common.IsPgCode(err, common.PgForeignKeyViolation) {
			return conflict("Cannot delete category with associated games")
		}
		return fmt.Errorf("pgCategoryRepository.Delete: %w", err)
	}
	return expectAffected(res, errCategoryNotFound)
}

// AddGame links a live game to a category.
func (r *pgCategoryRepository) AddGame(ctx context.Context, categoryID, gameID int64) error {
	query := `INSERT INTO game_categories (game_id, category_id)
	          SELECT id, $2 FROM games WHERE id = $1 AND ` + notDeleted("")
	res, err := r.db.ExecContext(ctx, query, gameID, categoryID)
	if err != nil {
		switch {
		case common.IsPgCode(err, common.PgUniqueViolation):
			return conflict("Game is already in this category")
		case common.IsPgCode(err, common.PgForeignKeyViolation):
			return errCategoryNotFound
		}
		return fmt.Errorf("pgCategoryRepository.AddGame: %w", err)
	}
	return expectAffected(res, errGameNotFound)
}

func (r *pgCategoryRepository) RemoveGame(ctx context.Context, categoryID, gameID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM game_categories WHERE category_id = $1 AND game_id = $2`, categoryID, gameID)
	if err != nil {
		return fmt.Errorf("pgCategoryRepository.RemoveGame: %w", err)
	}
	return expectAffected(res, notFound("This game does not have this category"))
}
