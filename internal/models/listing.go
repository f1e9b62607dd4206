// internal/models/listing.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing is a classified advertisement. Ownership is tracked on OwnerID;
// deleting the owning user keeps the listing (owner set to null), deleting
// the category takes the listing with it.
type Listing struct {
	BaseModel
	Name        string     `json:"name" gorm:"size:50;not null"`
	Description string     `json:"description" gorm:"type:text"`
	ImageKey    string     `json:"image_key" gorm:"size:255"`
	Price       float64    `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID  uuid.UUID  `json:"category_id" gorm:"type:uuid;not null;index"`
	OwnerID     *uuid.UUID `json:"owner_id" gorm:"type:uuid;index"`

	// Set once at creation; IsPublished is flipped separately by moderators.
	PublishedAt time.Time `json:"published_at" gorm:"index;not null"`
	IsPublished bool      `json:"is_published" gorm:"default:false;index"`

	// Relationships
	Category Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Owner    *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
	Versions []Version `json:"versions,omitempty" gorm:"foreignKey:ListingID"`
}

// Version is a release record nested under a Listing. Numbers are unique
// across the whole table, not per listing.
type Version struct {
	BaseModel
	Title     VersionTitle    `json:"title" gorm:"type:varchar(50);default:'in_development'"`
	Number    decimal.Decimal `json:"number" gorm:"type:decimal(4,2);uniqueIndex;not null"`
	IsActive  bool            `json:"is_active" gorm:"default:false"`
	ListingID uuid.UUID       `json:"listing_id" gorm:"type:uuid;not null;index"`

	Listing *Listing `json:"-" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

type Category struct {
	BaseModel
	Name        string     `json:"name" gorm:"size:50;not null"`
	Description string     `json:"description" gorm:"type:text"`
	OwnerID     *uuid.UUID `json:"owner_id" gorm:"type:uuid"`

	Owner    *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:CategoryID"`
}
