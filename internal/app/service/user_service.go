package service

import (
	"context"

	"gamestore/internal/domain/model"
)

// UserService serves profile and admin user management on top of the
// credential store.
type UserService struct {
	creds *CredentialStore
}

func NewUserService(creds *CredentialStore) *UserService {
	return &UserService{creds: creds}
}

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=6,max=16,username"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

type AdminCreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=6,max=16,username"`
	Email    string  `json:"email" validate:"required,email,max=100"`
	Password string  `json:"password" validate:"required,min=8,max=100,password"`
	IsAdmin  *bool   `json:"isAdmin,omitempty"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

type AdminUpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=6,max=16,username"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
	IsAdmin  *bool   `json:"isAdmin,omitempty"`
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.creds.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.creds.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.creds.GetByUsername(ctx, username)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*model.User, error) {
	return s.creds.Update(ctx, userID, model.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
	})
}

func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return s.creds.SoftDelete(ctx, userID)
}

func (s *UserService) AdminCreate(ctx context.Context, req AdminCreateUserRequest) (*model.User, error) {
	return s.creds.Create(ctx, NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		IsAdmin:  req.IsAdmin != nil && *req.IsAdmin,
	})
}

func (s *UserService) AdminUpdate(ctx context.Context, id int64, req AdminUpdateUserRequest) (*model.User, error) {
	return s.creds.Update(ctx, id, model.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		IsAdmin:  req.IsAdmin,
	})
}

// ToggleAdmin flips the admin flag of user id.
func (s *UserService) ToggleAdmin(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.creds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	flipped := !user.IsAdmin
	return s.creds.Update(ctx, id, model.UserUpdate{IsAdmin: &flipped})
}
