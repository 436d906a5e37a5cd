package service

import (
	"context"
	"errors"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
	"gamestore/internal/domain/repository"
)

type CartService struct {
	carts   repository.CartRepository
	library repository.LibraryRepository
}

func NewCartService(carts repository.CartRepository, library repository.LibraryRepository) *CartService {
	return &CartService{carts: carts, library: library}
}

type CheckoutResponse struct {
	Message string `json:"message"`
	Added   int64  `json:"added"`
}

// Get returns the user's cart. A user who never added anything has an
// empty cart.
func (s *CartService) Get(ctx context.Context, userID int64) (*model.Cart, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		empty := &model.Cart{UserID: userID, Items: []model.CartItem{}}
		empty.Recalculate()
		return empty, nil
	}
	return cart, err
}

func (s *CartService) Add(ctx context.Context, userID, gameID int64) (*model.Cart, error) {
	owned, err := s.library.Contains(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, common.NewError(common.ErrConflict, "Game already in library")
	}
	if err := s.carts.AddItem(ctx, userID, gameID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Remove(ctx context.Context, userID, gameID int64) (*model.Cart, error) {
	if err := s.carts.RemoveItem(ctx, userID, gameID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.carts.Clear(ctx, userID)
}

func (s *CartService) Checkout(ctx context.Context, userID int64) (*CheckoutResponse, error) {
	added, err := s.carts.Checkout(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CheckoutResponse{Message: "Checkout completed", Added: added}, nil
}
