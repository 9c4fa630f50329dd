package models

import "time"

// Organization publishes events.
type Organization struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UID             string    `json:"uid" gorm:"uniqueIndex;size:128"`
	Name            string    `json:"name"`
	Email           string    `json:"email" gorm:"uniqueIndex"`
	Description     string    `json:"description"`
	Password        string    `json:"-"`
	Phone           string    `json:"phone"`
	WebPage         string    `json:"webPage,omitempty"`
	InstagramPage   string    `json:"instagramPage,omitempty"`
	FacebookPage    string    `json:"facebookPage,omitempty"`
	LogoURL         string    `json:"logoUrl,omitempty"`
	LogoPlaceholder string    `json:"logoPlaceholder,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type CreateOrganizationRequest struct {
	Name          string `form:"name" validate:"required,min=3,max=255"`
	Email         string `form:"email" validate:"required,email"`
	Description   string `form:"description" validate:"required,min=3,max=255"`
	Password      string `form:"password" validate:"required,min=6,max=255"`
	Phone         string `form:"phone" validate:"required,min=6,max=255"`
	UID           string `form:"uid" validate:"required"`
	WebPage       string `form:"webPage" validate:"omitempty,url"`
	InstagramPage string `form:"instagramPage" validate:"omitempty,url"`
	FacebookPage  string `form:"facebookPage" validate:"omitempty,url"`
}
