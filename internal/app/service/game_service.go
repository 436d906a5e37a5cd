package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
	"gamestore/internal/domain/repository"
)

const maxSlugAttempts = 5

type GameService struct {
	games      repository.GameRepository
	categories repository.CategoryRepository
	wishlists  repository.WishlistRepository
	notifier   *NotificationService
	log        *slog.Logger
	now        func() time.Time
}

func NewGameService(
	games repository.GameRepository,
	categories repository.CategoryRepository,
	wishlists repository.WishlistRepository,
	notifier *NotificationService,
	log *slog.Logger,
) *GameService {
	return &GameService{
		games:      games,
		categories: categories,
		wishlists:  wishlists,
		notifier:   notifier,
		log:        log,
		now:        time.Now,
	}
}

type CreateGameRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description string  `json:"description" validate:"required"`
	Price       string  `json:"price" validate:"required,price"`
	ReleaseDate string  `json:"releaseDate" validate:"required,datetime=2006-01-02"`
	Developer   string  `json:"developer" validate:"required,max=255"`
	Publisher   string  `json:"publisher" validate:"required,max=255"`
	CoverImage  *string `json:"coverImage,omitempty" validate:"omitempty,url"`
}

type UpdateGameRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Price       *string `json:"price,omitempty" validate:"omitempty,price"`
	ReleaseDate *string `json:"releaseDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Developer   *string `json:"developer,omitempty" validate:"omitempty,max=255"`
	Publisher   *string `json:"publisher,omitempty" validate:"omitempty,max=255"`
	CoverImage  *string `json:"coverImage,omitempty" validate:"omitempty,url"`
}

type SearchQuery struct {
	Query string `param:"query" validate:"required"`
}

func (s *GameService) List(ctx context.Context) ([]model.Game, error) {
	return s.games.List(ctx)
}

func (s *GameService) Get(ctx context.Context, id int64) (*model.Game, error) {
	return s.games.FindByID(ctx, id)
}

func (s *GameService) GetBySlug(ctx context.Context, slug string) (*model.Game, error) {
	return s.games.FindBySlug(ctx, slug)
}

func (s *GameService) ListByCategory(ctx context.Context, categoryID int64) ([]model.Game, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.games.ListByCategory(ctx, categoryID)
}

func (s *GameService) Search(ctx context.Context, query string) ([]model.Game, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.NewError(common.ErrBadRequest, "Search query is required")
	}
	return s.games.Search(ctx, query)
}

func (s *GameService) Create(ctx context.Context, req CreateGameRequest) (*model.Game, error) {
	cents, err := model.ParsePrice(req.Price)
	if err != nil {
		return nil, common.NewValidationError("price", "must be a decimal with at most two fraction digits")
	}
	released, err := time.Parse(time.DateOnly, req.ReleaseDate)
	if err != nil {
		return nil, common.NewValidationError("releaseDate", "must be a date in YYYY-MM-DD format")
	}

	game := &model.Game{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  cents,
		ReleaseDate: released,
		Developer:   req.Developer,
		Publisher:   req.Publisher,
		CoverImage:  req.CoverImage,
	}

	base := slug.Make(req.Title)
	for attempt := 1; ; attempt++ {
		game.Slug = candidateSlug(base, attempt)
		err = s.games.Create(ctx, game)
		if err == nil || !errors.Is(err, common.ErrConflict) || attempt == maxSlugAttempts {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return game, nil
}

// candidateSlug returns base for the first attempt and base-N afterwards.
func candidateSlug(base string, attempt int) string {
	if base == "" {
		base = "game"
	}
	if attempt <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}

// Update applies the changed fields. When the price drops, everyone who
// wishlisted the game is notified.
func (s *GameService) Update(ctx context.Context, id int64, req UpdateGameRequest) (*model.Game, error) {
	upd := model.GameUpdate{
		Title:       req.Title,
		Description: req.Description,
		Developer:   req.Developer,
		Publisher:   req.Publisher,
		CoverImage:  req.CoverImage,
	}
	if req.Price != nil {
		cents, err := model.ParsePrice(*req.Price)
		if err != nil {
			return nil, common.NewValidationError("price", "must be a decimal with at most two fraction digits")
		}
		upd.PriceCents = &cents
	}
	if req.ReleaseDate != nil {
		released, err := time.Parse(time.DateOnly, *req.ReleaseDate)
		if err != nil {
			return nil, common.NewValidationError("releaseDate", "must be a date in YYYY-MM-DD format")
		}
		upd.ReleaseDate = &released
	}
	if upd.Empty() {
		return nil, common.NewValidationError("body", "At least one field must be provided")
	}

	current, err := s.games.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var newSlug *string
	if upd.Title != nil && *upd.Title != current.Title {
		candidate := candidateSlug(slug.Make(*upd.Title), 1)
		newSlug = &candidate
	}

	updated, err := s.games.Update(ctx, id, upd, newSlug)
	if errors.Is(err, common.ErrConflict) && newSlug != nil {
		// Retry with the game id appended.
		candidate := fmt.Sprintf("%s-%d", *newSlug, id)
		updated, err = s.games.Update(ctx, id, upd, &candidate)
	}
	if err != nil {
		return nil, err
	}

	if updated.PriceCents < current.PriceCents {
		s.announceSale(ctx, updated)
	}
	return updated, nil
}

func (s *GameService) announceSale(ctx context.Context, game *model.Game) {
	userIDs, err := s.wishlists.UserIDsForGame(ctx, game.ID)
	if err != nil {
		s.log.Error("loading wishlists for sale notification", "game_id", game.ID, "error", err)
		return
	}
	sent, err := s.notifier.GameSale(ctx, game, userIDs)
	if err != nil {
		s.log.Error("sending sale notifications", "game_id", game.ID, "error", err)
		return
	}
	s.log.Info("sale notifications sent", "game_id", game.ID, "count", sent)
}

func (s *GameService) Delete(ctx context.Context, id int64) error {
	return s.games.SoftDelete(ctx, id, s.now())
}
