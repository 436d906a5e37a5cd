package service

import (
	"context"
	"fmt"
	"log/slog"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
	"gamestore/internal/domain/repository"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type NotificationService struct {
	repo repository.NotificationRepository
	log  *slog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, log *slog.Logger) *NotificationService {
	return &NotificationService{repo: repo, log: log}
}

type PageQuery struct {
	Page  int `param:"page" validate:"omitempty,min=1"`
	Limit int `param:"limit" validate:"omitempty,min=1,max=100"`
}

func (q PageQuery) normalize() (page, limit int) {
	page, limit = q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

type BroadcastRequest struct {
	UserIDs []int64 `json:"userIds" validate:"required,min=1,dive,gt=0"`
	Title   string  `json:"title" validate:"required,max=255"`
	Message string  `json:"message" validate:"required,max=1000"`
}

func (s *NotificationService) List(ctx context.Context, userID int64, unreadOnly bool, q PageQuery) (*common.DataResponse, error) {
	page, limit := q.normalize()
	items, total, err := s.repo.List(ctx, userID, unreadOnly, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &common.DataResponse{Data: items, Pagination: common.NewPagination(total, page, limit)}, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	return s.repo.DeleteAll(ctx, userID)
}

func (s *NotificationService) Broadcast(ctx context.Context, req BroadcastRequest) (int, error) {
	ns := make([]model.Notification, 0, len(req.UserIDs))
	seen := make(map[int64]struct{}, len(req.UserIDs))
	for _, id := range req.UserIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ns = append(ns, model.Notification{
			UserID:  id,
			Title:   req.Title,
			Message: req.Message,
			Type:    model.NotificationSystemMessage,
		})
	}
	return s.repo.CreateMany(ctx, ns)
}

// FriendRequest tells target that sender wants to be friends.
func (s *NotificationService) FriendRequest(ctx context.Context, targetID int64, sender *model.User) error {
	return s.repo.Create(ctx, &model.Notification{
		UserID:   targetID,
		Title:    "New Friend Request",
		Message:  fmt.Sprintf("%s sent you a friend request", sender.Username),
		Type:     model.NotificationFriendRequest,
		Metadata: &model.NotificationMetadata{UserID: &sender.ID},
	})
}

// FriendAccepted tells the requester that accepter took the request.
func (s *NotificationService) FriendAccepted(ctx context.Context, requesterID int64, accepter *model.User, friendshipID int64) error {
	return s.repo.Create(ctx, &model.Notification{
		UserID:   requesterID,
		Title:    "Friend Request Accepted",
		Message:  fmt.Sprintf("%s accepted your friend request", accepter.Username),
		Type:     model.NotificationFriendAccept,
		Metadata: &model.NotificationMetadata{UserID: &accepter.ID, FriendshipID: &friendshipID},
	})
}

// GameSale notifies every user in userIDs that game is cheaper now.
func (s *NotificationService) GameSale(ctx context.Context, game *model.Game, userIDs []int64) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	info := "new_price:" + game.Price
	ns := make([]model.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		ns = append(ns, model.Notification{
			UserID:   id,
			Title:    "Game on Sale!",
			Message:  fmt.Sprintf("%s from your wishlist is now on sale for $%s!", game.Title, game.Price),
			Type:     model.NotificationGameSale,
			Metadata: &model.NotificationMetadata{GameID: &game.ID, AdditionalInfo: &info},
		})
	}
	return s.repo.CreateMany(ctx, ns)
}
