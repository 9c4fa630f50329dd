package models

import (
	"time"
)

// MaxUserPhotos is the number of photos a user profile can hold.
const MaxUserPhotos = 5

// User is an app member identified externally by its auth uid.
type User struct {
	ID                    uint       `json:"id" gorm:"primaryKey"`
	UID                   string     `json:"uid" gorm:"uniqueIndex;size:128"`
	Username              string     `json:"username" gorm:"uniqueIndex;size:32"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email" gorm:"uniqueIndex"`
	Phone                 string     `json:"phone,omitempty"`
	Biography             string     `json:"biography,omitempty" gorm:"size:120"`
	Birthday              *time.Time `json:"birthday,omitempty"`
	Occupation            string     `json:"occupation,omitempty"`
	LookingFor            string     `json:"lookingFor,omitempty" gorm:"size:32"`
	Gender                string     `json:"gender,omitempty" gorm:"size:16"`
	Interests             Categories `json:"interests" gorm:"serializer:json;type:text"`
	ActivateNotifications bool       `json:"activateNotifications" gorm:"default:true"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`

	Photos              []UserPhoto  `json:"photos" gorm:"foreignKey:UserID"`
	Likes               []EventLike  `json:"-" gorm:"foreignKey:UserID"`
	IncomingFriendships []Friendship `json:"-" gorm:"foreignKey:ReceiverID"`
	OutgoingFriendships []Friendship `json:"-" gorm:"foreignKey:SenderID"`
}

// UserPhoto is one ordered profile photo; order 0 is the lead photo.
type UserPhoto struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"index"`
	URL         string    `json:"url"`
	Placeholder string    `json:"placeholder"`
	Order       int       `json:"order" gorm:"column:sort_order"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserCompact is the public card of a user used inside listings.
type UserCompact struct {
	ID       uint       `json:"id"`
	UID      string     `json:"uid"`
	Username string     `json:"username"`
	Name     string     `json:"name"`
	Photo    *UserPhoto `json:"photo"`
}

// ToCompact returns the listing card of u with its lead photo, if loaded.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID,
		UID:      u.UID,
		Username: u.Username,
		Name:     u.Name,
		Photo:    u.LeadPhoto(),
	}
}

// LeadPhoto returns the order 0 photo among the loaded photos.
func (u *User) LeadPhoto() *UserPhoto {
	for i := range u.Photos {
		if u.Photos[i].Order == 0 {
			p := u.Photos[i]
			return &p
		}
	}
	return nil
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=18"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=3,max=26"`
	UID      string `json:"uid" validate:"required"`
	Birthday string `json:"birthday" validate:"required,datetime=2006-01-02"`
}

type UpdateUserRequest struct {
	Username              *string `json:"username,omitempty" validate:"omitempty,min=3,max=18"`
	Name                  *string `json:"name,omitempty" validate:"omitempty,min=3,max=26"`
	Email                 *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone                 *string `json:"phone,omitempty"`
	Biography             *string `json:"biography,omitempty" validate:"omitempty,max=120"`
	Birthday              *string `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Occupation            *string `json:"occupation,omitempty"`
	LookingFor            *string `json:"lookingFor,omitempty" validate:"omitempty,oneof=MEET_NEW_PEOPLE DISCOVER_NEW_EVENTS FIND_NEW_PLACES FRIENDSHIP RELATIONSHIP NETWORKING"`
	Gender                *string `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE BINARY GAY BISEXUAL LESBIAN OTHER"`
	Interests             *string `json:"interests,omitempty"`
	ActivateNotifications *bool   `json:"activateNotifications,omitempty"`
}

// FindUserQuery looks a single user up by one of its unique attributes.
type FindUserQuery struct {
	Username string `query:"username"`
	Email    string `query:"email" validate:"omitempty,email"`
	Phone    string `query:"phone"`
}

// SearchUsersQuery is the handle search with cursor pagination.
type SearchUsersQuery struct {
	Username string `query:"username"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Cursor   int64  `query:"cursor"`
}
