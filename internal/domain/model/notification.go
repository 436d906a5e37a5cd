package model

import "time"

type NotificationType string

const (
	NotificationFriendRequest NotificationType = "FRIEND_REQUEST"
	NotificationFriendAccept  NotificationType = "FRIEND_ACCEPT"
	NotificationGameSale      NotificationType = "GAME_SALE"
	NotificationSystemMessage NotificationType = "SYSTEM_MESSAGE"
)

type NotificationMetadata struct {
	GameID         *int64  `json:"gameId,omitempty"`
	FriendshipID   *int64  `json:"friendshipId,omitempty"`
	UserID         *int64  `json:"userId,omitempty"`
	AdditionalInfo *string `json:"additionalInfo,omitempty"`
}

type Notification struct {
	ID        int64                 `json:"id"`
	UserID    int64                 `json:"userId"`
	Title     string                `json:"title"`
	Message   string                `json:"message"`
	Type      NotificationType      `json:"type"`
	Metadata  *NotificationMetadata `json:"metadata,omitempty"`
	IsRead    bool                  `json:"isRead"`
	CreatedAt time.Time             `json:"createdAt"`
}
