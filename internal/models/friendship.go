package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus is the state of a friendship row.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipBlocked  FriendshipStatus = "BLOCKED"
)

// Friendship links two users. Sender and receiver stay directional after
// acceptance; PairKey keeps a single row per unordered pair.
type Friendship struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	SenderID   uint             `json:"senderId" gorm:"index"`
	ReceiverID uint             `json:"receiverId" gorm:"index"`
	PairKey    string           `json:"-" gorm:"uniqueIndex;size:64"`
	Status     FriendshipStatus `json:"status" gorm:"size:16;index;default:'PENDING'"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`

	Sender   *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Receiver *User `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
}

// PairKey returns the order independent key of the pair {a, b}.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	f.PairKey = PairKey(f.SenderID, f.ReceiverID)
	return nil
}

// Involves reports whether userID is one side of the friendship.
func (f *Friendship) Involves(userID uint) bool {
	return f.SenderID == userID || f.ReceiverID == userID
}

// Counterpart returns the side of the row that is not viewerID.
func (f *Friendship) Counterpart(viewerID uint) *User {
	if f.SenderID == viewerID {
		return f.Receiver
	}
	return f.Sender
}

// SendFriendshipRequest carries the target user id of an invitation.
type SendFriendshipRequest struct {
	ID uint `json:"id" validate:"required"`
}

// UpdateFriendshipRequest accepts (ACCEPTED) or resets (PENDING) a friendship.
type UpdateFriendshipRequest struct {
	Status FriendshipStatus `json:"status" validate:"required"`
}

// FriendshipsQuery lists friendships, optionally by the friend's handle.
type FriendshipsQuery struct {
	FriendUserName string `query:"friendUserName"`
	Limit          int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Cursor         int64  `query:"cursor"`
}
