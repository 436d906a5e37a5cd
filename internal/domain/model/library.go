package model

import "time"

type LibraryEntry struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	GameID      int64       `json:"gameId"`
	Game        GameSummary `json:"game"`
	PurchasedAt time.Time   `json:"purchasedAt"`
	LastPlayed  *time.Time  `json:"lastPlayed"`
}

type WishlistEntry struct {
	ID      int64       `json:"id"`
	UserID  int64       `json:"userId"`
	GameID  int64       `json:"gameId"`
	Game    GameSummary `json:"game"`
	AddedAt time.Time   `json:"addedAt"`
}
