package service

import (
	"context"
	"time"

	"gamestore/internal/domain/model"
	"gamestore/internal/domain/repository"
)

type LibraryService struct {
	repo repository.LibraryRepository
	now  func() time.Time
}

func NewLibraryService(repo repository.LibraryRepository) *LibraryService {
	return &LibraryService{repo: repo, now: time.Now}
}

func (s *LibraryService) List(ctx context.Context, userID int64) ([]model.LibraryEntry, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *LibraryService) Add(ctx context.Context, userID, gameID int64) (*model.LibraryEntry, error) {
	return s.repo.Add(ctx, userID, gameID)
}

func (s *LibraryService) MarkPlayed(ctx context.Context, userID, gameID int64) (*model.LibraryEntry, error) {
	return s.repo.TouchLastPlayed(ctx, userID, gameID, s.now())
}

func (s *LibraryService) Remove(ctx context.Context, userID, gameID int64) error {
	return s.repo.Remove(ctx, userID, gameID)
}

func (s *LibraryService) Contains(ctx context.Context, userID, gameID int64) (bool, error) {
	return s.repo.Contains(ctx, userID, gameID)
}
