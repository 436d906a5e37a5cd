package service

import (
	"context"

	"gamestore/internal/domain/model"
	"gamestore/internal/domain/repository"
)

type WishlistService struct {
	repo repository.WishlistRepository
}

func NewWishlistService(repo repository.WishlistRepository) *WishlistService {
	return &WishlistService{repo: repo}
}

func (s *WishlistService) List(ctx context.Context, userID int64) ([]model.WishlistEntry, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *WishlistService) Add(ctx context.Context, userID, gameID int64) (*model.WishlistEntry, error) {
	return s.repo.Add(ctx, userID, gameID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, gameID int64) error {
	return s.repo.Remove(ctx, userID, gameID)
}
