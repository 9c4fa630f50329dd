package models

import "time"

// MaxEventPhotos is the number of photos an event can hold.
const MaxEventPhotos = 3

// Event is published by an organization at a location.
type Event struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Name           string     `json:"name" gorm:"index"`
	Description    string     `json:"description" gorm:"size:200"`
	Date           time.Time  `json:"date"`
	Categories     Categories `json:"categories" gorm:"serializer:json;type:text"`
	LocationID     uint       `json:"locationId" gorm:"index"`
	OrganizationID uint       `json:"organizationId" gorm:"index"`
	CreatedAt      time.Time  `json:"createdAt"`

	Location     *Location     `json:"location,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
	Photos       []EventPhoto  `json:"photos" gorm:"foreignKey:EventID"`
	Likes        []EventLike   `json:"-" gorm:"foreignKey:EventID"`

	// Filled by aggregate subselects on read.
	LikeCount  int64 `json:"likeCount" gorm:"->;-:migration"`
	ShareCount int64 `json:"shareCount" gorm:"->;-:migration"`

	IsLiked bool `json:"isLiked" gorm:"-"`
}

// EventPhoto is one ordered event photo; order 0 is the lead photo.
type EventPhoto struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	EventID     uint   `json:"eventId" gorm:"index"`
	URL         string `json:"url"`
	Placeholder string `json:"placeholder"`
	Order       int    `json:"order" gorm:"column:sort_order"`
}

// EventLike records that a user liked an event, at most once per pair.
type EventLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"eventId" gorm:"uniqueIndex:idx_event_likes_pair"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex:idx_event_likes_pair;index"`
	CreatedAt time.Time `json:"createdAt"`

	Event *Event `json:"event,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// EventShare records a share of an event by a user.
type EventShare struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"eventId" gorm:"index"`
	UserID    uint      `json:"userId" gorm:"index"`
	CreatedAt time.Time `json:"createdAt"`
}

// Location is where events take place.
type Location struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchEventsQuery filters the latest events listing.
type SearchEventsQuery struct {
	Name       string `query:"name" validate:"max=255"`
	Categories string `query:"categories"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Cursor     int64  `query:"cursor"`
}

// LikedEventsQuery lists a bucket list, the viewer's own when UserID is 0.
type LikedEventsQuery struct {
	UserID    uint  `query:"userId"`
	AllPhotos bool  `query:"allPhotos"`
	Limit     int   `query:"limit" validate:"omitempty,min=1,max=100"`
	Cursor    int64 `query:"cursor"`
}

type CreateEventRequest struct {
	Name           string `json:"name" form:"name" validate:"required,max=255"`
	Description    string `json:"description" form:"description" validate:"required,min=5,max=200"`
	LocationID     uint   `json:"locationId" form:"locationId" validate:"required"`
	OrganizationID uint   `json:"organizationId" form:"organizationId" validate:"required"`
	Date           string `json:"date" form:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Categories     string `json:"categories" form:"categories" validate:"required"`
}
