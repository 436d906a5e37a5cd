package service

import (
	"context"
	"log/slog"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
	"gamestore/internal/domain/repository"
)

type FriendshipService struct {
	repo     repository.FriendshipRepository
	creds    *CredentialStore
	notifier *NotificationService
	log      *slog.Logger
}

func NewFriendshipService(
	repo repository.FriendshipRepository,
	creds *CredentialStore,
	notifier *NotificationService,
	log *slog.Logger,
) *FriendshipService {
	return &FriendshipService{repo: repo, creds: creds, notifier: notifier, log: log}
}

type FriendRequest struct {
	FriendID int64 `json:"friendId" validate:"required,gt=0"`
}

type FriendshipStatusRequest struct {
	Status model.FriendshipStatus `json:"status" validate:"required,oneof=PENDING ACCEPTED BLOCKED"`
}

func (s *FriendshipService) Friends(ctx context.Context, userID int64) ([]model.Friendship, error) {
	return s.repo.ListAccepted(ctx, userID)
}

func (s *FriendshipService) Pending(ctx context.Context, userID int64) ([]model.Friendship, error) {
	return s.repo.ListIncomingPending(ctx, userID)
}

func (s *FriendshipService) Sent(ctx context.Context, userID int64) ([]model.Friendship, error) {
	return s.repo.ListOutgoingPending(ctx, userID)
}

func (s *FriendshipService) Blocked(ctx context.Context, userID int64) ([]model.Friendship, error) {
	return s.repo.ListBlocked(ctx, userID)
}

// Request opens a pending friendship from userID to friendID and notifies
// the target.
func (s *FriendshipService) Request(ctx context.Context, userID int64, req FriendRequest) (*model.Friendship, error) {
	if req.FriendID == userID {
		return nil, common.NewError(common.ErrBadRequest, "Cannot send a friend request to yourself")
	}
	sender, err := s.creds.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.creds.GetByID(ctx, req.FriendID); err != nil {
		return nil, err
	}

	friendship, err := s.repo.Create(ctx, userID, req.FriendID)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.FriendRequest(ctx, req.FriendID, sender); err != nil {
		s.log.Error("sending friend request notification", "friendship_id", friendship.ID, "error", err)
	}
	return friendship, nil
}

// UpdateStatus changes a friendship userID takes part in. Accepting a
// pending request notifies the requester.
func (s *FriendshipService) UpdateStatus(ctx context.Context, id, userID int64, req FriendshipStatusRequest) (*model.Friendship, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Involves(userID) {
		return nil, common.NewError(common.ErrNotFound, "Friendship not found")
	}

	updated, err := s.repo.UpdateStatus(ctx, id, userID, req.Status)
	if err != nil {
		return nil, err
	}

	if req.Status == model.FriendshipAccepted && current.Status != model.FriendshipAccepted && updated.UserID != userID {
		accepter, err := s.creds.GetByID(ctx, userID)
		if err == nil {
			err = s.notifier.FriendAccepted(ctx, updated.UserID, accepter, updated.ID)
		}
		if err != nil {
			s.log.Error("sending friend accepted notification", "friendship_id", updated.ID, "error", err)
		}
	}
	return updated, nil
}

func (s *FriendshipService) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}
