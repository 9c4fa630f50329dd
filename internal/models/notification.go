package models

import "time"

// NotificationType names what a notification is about.
type NotificationType string

const (
	NotificationFriendshipInvitation NotificationType = "FRIENDSHIP_INVITATION"
	NotificationFriendshipAccepted   NotificationType = "FRIENDSHIP_ACCEPTED"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	Type         NotificationType `json:"type" gorm:"size:30;index"`
	ActorID      uint             `json:"actorId" gorm:"index"`
	RecipientID  uint             `json:"recipientId" gorm:"index"`
	FriendshipID uint             `json:"friendshipId"`
	Message      string           `json:"message"`
	IsRead       bool             `json:"isRead" gorm:"default:false;index"`
	CreatedAt    time.Time        `json:"createdAt" gorm:"index"`

	Actor *User `json:"-" gorm:"foreignKey:ActorID"`
}

// NotificationView is a notification with the actor's card.
type NotificationView struct {
	Notification
	Actor *UserCompact `json:"actor"`
}
