package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest holds at most one row per unordered user pair; a rejected
// row is reopened in place on a later send instead of creating a new one.
type FriendRequest struct {
	ID         int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   int64               `gorm:"index" json:"sender_id"`
	ReceiverID int64               `gorm:"index" json:"receiver_id"`
	Status     FriendRequestStatus `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship is the symmetric friends edge, stored once per pair with
// UserLoID < UserHiID.
type Friendship struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserLoID  int64     `gorm:"index:friendship_pair_idx,unique" json:"user_lo_id"`
	UserHiID  int64     `gorm:"index:friendship_pair_idx,unique" json:"user_hi_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// OrderPair returns the two ids in canonical lo/hi order.
func OrderPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
