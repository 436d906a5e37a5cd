package model

import "time"

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipBlocked  FriendshipStatus = "BLOCKED"
)

type Friendship struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"userId"`
	FriendID  int64            `json:"friendId"`
	Status    FriendshipStatus `json:"status"`
	User      UserSummary      `json:"user"`
	Friend    UserSummary      `json:"friend"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Involves reports whether userID is either side of the friendship.
func (f *Friendship) Involves(userID int64) bool {
	return f.UserID == userID || f.FriendID == userID
}
