// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type VersionTitle string

const (
	VersionTitleInDevelopment VersionTitle = "in_development"
	VersionTitleReleased      VersionTitle = "released"
)

// Permission names. Superusers hold every permission implicitly; everyone
// else needs an explicit grant on their user record.
const (
	PermChangeListing  = "catalog.change_listing"
	PermSetPublished   = "catalog.set_published"
	PermAddCategory    = "catalog.add_category"
	PermDeleteCategory = "catalog.delete_category"
	PermChangeBlog     = "catalog.change_blog"
)

// Country choices for the feedback form, kept as the original site shipped
// them.
var FeedbackCountries = []string{
	"Россия",
	"Азербайджан",
	"Армения",
	"Белоруссия",
	"Казахстан",
	"Киргизия",
	"Молдавия",
	"Таджикистан",
	"Узбекистан",
}

func IsValidFeedbackCountry(country string) bool {
	for _, c := range FeedbackCountries {
		if c == country {
			return true
		}
	}
	return false
}
