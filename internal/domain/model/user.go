package model

import (
	"time"
)

type User struct {
	ID                 int64      `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"` // Not exposed
	Name               *string    `json:"name"`
	IsAdmin            bool       `json:"isAdmin"`
	ProfileImage       *string    `json:"profileImage"`
	EmailVerified      bool       `json:"emailVerified"`
	EmailVerifyToken   *string    `json:"-"`
	EmailVerifyExpires *time.Time `json:"-"`
	ResetToken         *string    `json:"-"`
	ResetTokenExpires  *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	DeletedAt          *time.Time `json:"-"`
}

// UserSummary is the public slice of a user embedded in other resources.
type UserSummary struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	ProfileImage *string `json:"profileImage"`
}

// UserUpdate carries the optional fields of a profile or admin update.
// Nil fields are left unchanged.
type UserUpdate struct {
	Username *string
	Email    *string
	Name     *string
	IsAdmin  *bool
}

func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.Name == nil && u.IsAdmin == nil
}
