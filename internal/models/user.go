// internal/models/user.go
package models

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// User authenticates by email; there is no separate username.
type User struct {
	BaseModel
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"`
	FirstName    string `json:"first_name" gorm:"size:100"`
	LastName     string `json:"last_name" gorm:"size:100"`
	Phone        string `json:"phone" gorm:"size:30"`
	Country      string `json:"country" gorm:"size:150"`
	AvatarKey    string `json:"avatar_key" gorm:"size:255"`

	// Inactive until the email verification link is followed.
	IsActive    bool `json:"is_active" gorm:"default:false"`
	IsStaff     bool `json:"is_staff" gorm:"default:false"`
	IsSuperuser bool `json:"is_superuser" gorm:"default:false"`

	// Explicit permission grants, e.g. "catalog.set_published".
	Permissions pq.StringArray `json:"permissions,omitempty" gorm:"type:text[]"`

	VerificationToken string     `json:"-" gorm:"size:64;index"`
	EmailVerifiedAt   *time.Time `json:"email_verified_at"`
	LastLoginAt       *time.Time `json:"last_login_at"`

	// Relationships
	Listings   []Listing  `json:"listings,omitempty" gorm:"foreignKey:OwnerID"`
	Categories []Category `json:"categories,omitempty" gorm:"foreignKey:OwnerID"`
	Blogs      []Blog     `json:"blogs,omitempty" gorm:"foreignKey:OwnerID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// HasPermission reports whether the user holds the named permission.
// Superusers hold everything.
func (u *User) HasPermission(perm string) bool {
	if u.IsSuperuser {
		return true
	}
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
