package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

type ReviewRepository interface {
	List(ctx context.Context) ([]model.Review, error)
	FindByID(ctx context.Context, id int64) (*model.Review, error)
	ListByGame(ctx context.Context, gameID int64) ([]model.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Review, error)
	Create(ctx context.Context, review *model.Review) (*model.Review, error)
	// Update and Delete only touch reviews owned by userID; anything else is
	// reported as not found.
	Update(ctx context.Context, id, userID int64, upd model.ReviewUpdate) (*model.Review, error)
	Delete(ctx context.Context, id, userID int64) error
	RatingSummary(ctx context.Context, gameID int64) (model.RatingSummary, error)
}

var errReviewNotFound = notFound("Review not found")

// reviewSelect hides reviews whose author or game was soft-deleted.
var reviewSelect = `SELECT r.id, r.user_id, r.game_id, r.content, r.rating, r.created_at, r.updated_at,
	       u.id, u.username, u.profile_image,
	       g.id, g.title, g.slug, g.price_cents, g.cover_image
	FROM reviews r
	JOIN users u ON u.id = r.user_id AND ` + notDeleted("u") + `
	JOIN games g ON g.id = r.game_id AND ` + notDeleted("g")

type pgReviewRepository struct {
	db *sql.DB
}

func NewPgReviewRepository(db *sql.DB) ReviewRepository {
	return &pgReviewRepository{db: db}
}

func scanReview(row rowScanner) (model.Review, error) {
	var rv model.Review
	err := row.Scan(&rv.ID, &rv.UserID, &rv.GameID, &rv.Content, &rv.Rating, &rv.CreatedAt, &rv.UpdatedAt,
		&rv.User.ID, &rv.User.Username, &rv.User.ProfileImage,
		&rv.Game.ID, &rv.Game.Title, &rv.Game.Slug, &rv.Game.PriceCents, &rv.Game.CoverImage)
	rv.Game.Price = model.FormatPrice(rv.Game.PriceCents)
	return rv, err
}

func (r *pgReviewRepository) List(ctx context.Context) ([]model.Review, error) {
	return queryList(ctx, r.db, "pgReviewRepository.List", scanReview,
		reviewSelect+` ORDER BY r.created_at DESC`)
}

func (r *pgReviewRepository) FindByID(ctx context.Context, id int64) (*model.Review, error) {
	review, err := scanReview(r.db.QueryRowContext(ctx, reviewSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, errReviewNotFound
		}
		return nil, fmt.Errorf("pgReviewRepository.FindByID: %w", err)
	}
	return &review, nil
}

func (r *pgReviewRepository) ListByGame(ctx context.Context, gameID int64) ([]model.Review, error) {
	return queryList(ctx, r.db, "pgReviewRepository.ListByGame", scanReview,
		reviewSelect+` WHERE r.game_id = $1 ORDER BY r.created_at DESC`, gameID)
}

func (r *pgReviewRepository) ListByUser(ctx context.Context, userID int64) ([]model.Review, error) {
	return queryList(ctx, r.db, "pgReviewRepository.ListByUser", scanReview,
		reviewSelect+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`, userID)
}

func (r *pgReviewRepository) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	query := `INSERT INTO reviews (user_id, game_id, content, rating)
	          SELECT $1, id, $3, $4 FROM games WHERE id = $2 AND ` + notDeleted("") + `
	          RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query, review.UserID, review.GameID, review.Content, review.Rating).Scan(&id)
	if err != nil {
		switch {
		case noRows(err):
			return nil, errGameNotFound
		case common.IsPgCode(err, common.PgUniqueViolation):
			return nil, conflict("User has already reviewed this game")
		case common.IsPgCode(err, common.PgForeignKeyViolation):
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("pgReviewRepository.Create: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *pgReviewRepository) Update(ctx context.Context, id, userID int64, upd model.ReviewUpdate) (*model.Review, error) {
	query := `UPDATE reviews SET
	              content = COALESCE($3, content),
	              rating = COALESCE($4, rating),
	              updated_at = NOW()
	          WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID, upd.Content, upd.Rating)
	if err != nil {
		return nil, fmt.Errorf("pgReviewRepository.Update: %w", err)
	}
	if err := expectAffected(res, errReviewNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *pgReviewRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("pgReviewRepository.Delete: %w", err)
	}
	return expectAffected(res, errReviewNotFound)
}

// RatingSummary averages the ratings of gameID. A game without reviews
// averages 0.
func (r *pgReviewRepository) RatingSummary(ctx context.Context, gameID int64) (model.RatingSummary, error) {
	var summary model.RatingSummary
	query := `SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE game_id = $1`
	if err := r.db.QueryRowContext(ctx, query, gameID).Scan(&summary.AverageRating, &summary.TotalReviews); err != nil {
		return summary, fmt.Errorf("pgReviewRepository.RatingSummary: %w", err)
	}
	return summary, nil
}
