package service

import (
	"context"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
	"gamestore/internal/domain/repository"
)

type ReviewService struct {
	repo  repository.ReviewRepository
	games repository.GameRepository
}

func NewReviewService(repo repository.ReviewRepository, games repository.GameRepository) *ReviewService {
	return &ReviewService{repo: repo, games: games}
}

type CreateReviewRequest struct {
	GameID  int64  `json:"gameId" validate:"required,gt=0"`
	Content string `json:"content" validate:"required,min=10,max=1000"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

type UpdateReviewRequest struct {
	Content *string `json:"content,omitempty" validate:"omitempty,min=10,max=1000"`
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

func (s *ReviewService) List(ctx context.Context) ([]model.Review, error) {
	return s.repo.List(ctx)
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*model.Review, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ReviewService) ListByGame(ctx context.Context, gameID int64) ([]model.Review, error) {
	return s.repo.ListByGame(ctx, gameID)
}

func (s *ReviewService) ListByUser(ctx context.Context, userID int64) ([]model.Review, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Rating summarizes the reviews of a live game.
func (s *ReviewService) Rating(ctx context.Context, gameID int64) (model.RatingSummary, error) {
	exists, err := s.games.Exists(ctx, gameID)
	if err != nil {
		return model.RatingSummary{}, err
	}
	if !exists {
		return model.RatingSummary{}, common.NewError(common.ErrNotFound, "Game not found")
	}
	return s.repo.RatingSummary(ctx, gameID)
}

func (s *ReviewService) Create(ctx context.Context, userID int64, req CreateReviewRequest) (*model.Review, error) {
	return s.repo.Create(ctx, &model.Review{
		UserID:  userID,
		GameID:  req.GameID,
		Content: req.Content,
		Rating:  req.Rating,
	})
}

func (s *ReviewService) Update(ctx context.Context, id, userID int64, req UpdateReviewRequest) (*model.Review, error) {
	if req.Content == nil && req.Rating == nil {
		return nil, common.NewValidationError("body", "At least one field must be provided")
	}
	return s.repo.Update(ctx, id, userID, model.ReviewUpdate{Content: req.Content, Rating: req.Rating})
}

func (s *ReviewService) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}
