package model

import "time"

type Review struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"userId"`
	GameID    int64       `json:"gameId"`
	Content   string      `json:"content"`
	Rating    int         `json:"rating"`
	User      UserSummary `json:"user"`
	Game      GameSummary `json:"game"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type ReviewUpdate struct {
	Content *string
	Rating  *int
}

type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}
