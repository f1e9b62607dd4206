// internal/services/listing_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/models"
	"catalogue-backend/internal/utils"
)

var (
	versionNumberFloor = decimal.New(100, -2) // 1.00
	versionNumberStep  = decimal.New(10, -2)  // 0.10
)

// ListingService owns the listing lifecycle: who may create, edit, publish
// and delete a listing and its nested version rows.
type ListingService struct {
	db  *gorm.DB
	cfg *config.Config
}

type CreateListingRequest struct {
	Name        string    `json:"name" validate:"required,max=50,clean_content"`
	Description string    `json:"description" validate:"omitempty,clean_content"`
	ImageKey    string    `json:"image_key,omitempty"`
	Price       float64   `json:"price" validate:"min=0"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
}

type UpdateListingRequest struct {
	Name        string         `json:"name" validate:"required,max=50,clean_content"`
	Description string         `json:"description" validate:"omitempty,clean_content"`
	ImageKey    string         `json:"image_key,omitempty"`
	Price       float64        `json:"price" validate:"min=0"`
	CategoryID  uuid.UUID      `json:"category_id" validate:"required"`
	Versions    []VersionInput `json:"versions,omitempty"`
}

// VersionInput is one row of the nested version edit set. A nil ID adds a
// row; Delete removes an existing one. Rows marked Delete still count in
// the single-active check, matching how the submission arrives as a whole.
type VersionInput struct {
	ID       *uuid.UUID          `json:"id,omitempty"`
	Title    models.VersionTitle `json:"title"`
	Number   *decimal.Decimal    `json:"number,omitempty"`
	IsActive bool                `json:"is_active"`
	Delete   bool                `json:"delete,omitempty"`
}

func NewListingService(db *gorm.DB, cfg *config.Config) *ListingService {
	return &ListingService{db: db, cfg: cfg}
}

// Create persists a new unpublished listing owned by the actor. A nil actor
// never commits; the error depends on the anonymous-write policy.
func (s *ListingService) Create(actor *models.User, req *CreateListingRequest) (*models.Listing, error) {
	if actor == nil {
		return nil, anonymousWriteError(s.cfg)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err)
	}
	if err := s.checkCategory(s.db, req.CategoryID); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		Name:        req.Name,
		Description: req.Description,
		ImageKey:    req.ImageKey,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		OwnerID:     &actor.ID,
		PublishedAt: time.Now(),
		IsPublished: false,
	}

	if err := s.db.Create(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	s.db.Preload("Category").First(listing, listing.ID)
	return listing, nil
}

// Get returns a single listing with its category and versions.
func (s *ListingService) Get(id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Preload("Category").Preload("Owner").
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("versions.number DESC")
		}).
		First(&listing, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &listing, nil
}

// Update edits listing fields and the nested version set as one atomic
// commit. Actors who are neither the owner nor holders of
// catalog.change_listing get a not-found answer, indistinguishable from a
// missing row.
func (s *ListingService) Update(id uuid.UUID, actor *models.User, req *UpdateListingRequest) (*models.Listing, error) {
	if actor == nil {
		return nil, anonymousWriteError(s.cfg)
	}

	var listing models.Listing
	if err := s.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !s.canEdit(actor, &listing) {
		return nil, ErrNotFound
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err)
	}
	if err := s.checkCategory(s.db, req.CategoryID); err != nil {
		return nil, err
	}
	if ve := validateVersionSet(req.Versions); ve != nil {
		return nil, ve
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		listing.Name = req.Name
		listing.Description = req.Description
		listing.ImageKey = req.ImageKey
		listing.Price = req.Price
		listing.CategoryID = req.CategoryID

		// Ownership re-resolution: a non-staff editor becomes the recorded
		// owner of what they touch. Kept as its own step after validation,
		// not folded into field assignment.
		if !actor.IsStaff {
			listing.OwnerID = &actor.ID
		}

		if err := tx.Save(&listing).Error; err != nil {
			return fmt.Errorf("failed to update listing: %w", err)
		}

		return s.applyVersionEdits(tx, &listing, req.Versions)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrVersionNumberConflict
		}
		return nil, err
	}

	s.db.Preload("Category").
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("versions.number DESC")
		}).
		First(&listing, id)
	return &listing, nil
}

// Publish flips the is_published flag. Gated on catalog.set_published,
// distinct from ownership; a missing permission is masked as not found.
func (s *ListingService) Publish(id uuid.UUID, actor *models.User, isPublished bool) (*models.Listing, error) {
	if actor == nil {
		return nil, anonymousWriteError(s.cfg)
	}

	var listing models.Listing
	if err := s.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !actor.HasPermission(models.PermSetPublished) {
		return nil, ErrNotFound
	}

	if err := s.db.Model(&listing).Update("is_published", isPublished).Error; err != nil {
		return nil, fmt.Errorf("failed to publish listing: %w", err)
	}

	return &listing, nil
}

// Delete removes a listing and its versions. Only the owner or a superuser
// may delete; anyone else gets a not-found answer.
func (s *ListingService) Delete(id uuid.UUID, actor *models.User) error {
	if actor == nil {
		return anonymousWriteError(s.cfg)
	}

	var listing models.Listing
	if err := s.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	isOwner := listing.OwnerID != nil && *listing.OwnerID == actor.ID
	if !isOwner && !actor.IsSuperuser {
		return ErrNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&models.Version{}).Error; err != nil {
			return fmt.Errorf("failed to delete versions: %w", err)
		}
		if err := tx.Delete(&listing).Error; err != nil {
			return fmt.Errorf("failed to delete listing: %w", err)
		}
		return nil
	})
}

// Search lists published listings with keyword and category filters.
func (s *ListingService) Search(params utils.PaginationParams) ([]models.Listing, int64, error) {
	query := s.db.Model(&models.Listing{}).
		Where("is_published = ?", true).
		Preload("Category")

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}
	if params.Category != "" {
		if categoryID, err := uuid.Parse(params.Category); err == nil {
			query = query.Where("category_id = ?", categoryID)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	allowedSortFields := []string{"published_at", "created_at", "updated_at", "name", "price"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var listings []models.Listing
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

// Latest returns the newest published listings for the index feed.
func (s *ListingService) Latest(limit int) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.Where("is_published = ?", true).
		Order("published_at DESC").
		Limit(limit).
		Preload("Category").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest listings: %w", err)
	}
	return listings, nil
}

// ModerationQueue lists unpublished listings for holders of
// catalog.set_published.
func (s *ListingService) ModerationQueue(actor *models.User, params utils.PaginationParams) ([]models.Listing, int64, error) {
	if actor == nil || !actor.HasPermission(models.PermSetPublished) {
		return nil, 0, ErrPermissionDenied
	}

	query := s.db.Model(&models.Listing{}).
		Where("is_published = ?", false).
		Preload("Category").Preload("Owner")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	allowedSortFields := []string{"published_at", "created_at", "name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var listings []models.Listing
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

// Helpers

func (s *ListingService) canEdit(actor *models.User, listing *models.Listing) bool {
	if listing.OwnerID != nil && *listing.OwnerID == actor.ID {
		return true
	}
	return actor.HasPermission(models.PermChangeListing)
}

func (s *ListingService) checkCategory(db *gorm.DB, categoryID uuid.UUID) error {
	var count int64
	if err := db.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		ve := &ValidationError{}
		ve.Add("category_id", "category does not exist")
		return ve
	}
	return nil
}

// validateVersionSet applies the cross-row rules: at most one active row
// across the whole submission (deleted rows included), explicit numbers not
// below 1.00 and not repeated within the submission, and a known title on
// every row.
func validateVersionSet(inputs []VersionInput) *ValidationError {
	ve := &ValidationError{}

	active := 0
	seen := make(map[string]bool)
	for _, in := range inputs {
		if in.IsActive {
			active++
		}
		if in.Number != nil {
			if in.Number.LessThan(versionNumberFloor) {
				ve.Add("versions.number", "version number must be at least 1.00")
			}
			if !in.Delete {
				key := in.Number.String()
				if seen[key] {
					ve.Add("versions.number", "version number "+key+" appears more than once")
				}
				seen[key] = true
			}
		}
		if in.Title != "" && in.Title != models.VersionTitleInDevelopment && in.Title != models.VersionTitleReleased {
			ve.Add("versions.title", "unknown version title")
		}
	}
	if active > 1 {
		ve.Add("versions.is_active", "only one version may be active")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// applyVersionEdits commits the version set inside the caller's
// transaction. Auto-assigned numbers continue from the highest number in
// the whole table; the unique index is the last line of defense when two
// submissions compute the same next number.
func (s *ListingService) applyVersionEdits(tx *gorm.DB, listing *models.Listing, inputs []VersionInput) error {
	if err := checkNumbersAvailable(tx, inputs); err != nil {
		return err
	}

	next, err := nextVersionNumber(tx)
	if err != nil {
		return err
	}

	for _, in := range inputs {
		switch {
		case in.Delete:
			if in.ID == nil {
				continue
			}
			if err := tx.Where("id = ? AND listing_id = ?", *in.ID, listing.ID).
				Delete(&models.Version{}).Error; err != nil {
				return fmt.Errorf("failed to delete version: %w", err)
			}

		case in.ID != nil:
			var version models.Version
			if err := tx.Where("id = ? AND listing_id = ?", *in.ID, listing.ID).
				First(&version).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("database error: %w", err)
			}
			if in.Title != "" {
				version.Title = in.Title
			}
			if in.Number != nil {
				version.Number = *in.Number
			}
			version.IsActive = in.IsActive
			if err := tx.Save(&version).Error; err != nil {
				return fmt.Errorf("failed to update version: %w", err)
			}

		default:
			version := models.Version{
				Title:     in.Title,
				IsActive:  in.IsActive,
				ListingID: listing.ID,
			}
			if version.Title == "" {
				version.Title = models.VersionTitleInDevelopment
			}
			if in.Number != nil {
				version.Number = *in.Number
			} else {
				version.Number = next
				next = next.Add(versionNumberStep)
			}
			if err := tx.Create(&version).Error; err != nil {
				return fmt.Errorf("failed to create version: %w", err)
			}
		}
	}

	return nil
}

// checkNumbersAvailable rejects explicit numbers already stored on some
// other row, so a stale resubmission fails validation instead of tripping
// the unique index. Runs inside the caller's transaction; a concurrent
// insert can still slip past this read, and only that residue reaches the
// index as a conflict.
func checkNumbersAvailable(tx *gorm.DB, inputs []VersionInput) error {
	deleting := make(map[uuid.UUID]bool)
	for _, in := range inputs {
		if in.Delete && in.ID != nil {
			deleting[*in.ID] = true
		}
	}

	ve := &ValidationError{}
	for _, in := range inputs {
		if in.Delete || in.Number == nil {
			continue
		}

		var existing models.Version
		err := tx.Where("number = ?", *in.Number).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return fmt.Errorf("database error: %w", err)
		}
		// The row itself, or a row removed by this same submission, does
		// not block the number.
		if in.ID != nil && existing.ID == *in.ID {
			continue
		}
		if deleting[existing.ID] {
			continue
		}
		ve.Add("versions.number", "version number "+in.Number.String()+" is already taken")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// nextVersionNumber computes max(number) + 0.10 across every version in the
// store, or 1.00 when none exist.
func nextVersionNumber(tx *gorm.DB) (decimal.Decimal, error) {
	var top models.Version
	err := tx.Order("number DESC").First(&top).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return versionNumberFloor, nil
		}
		return decimal.Zero, fmt.Errorf("database error: %w", err)
	}
	return top.Number.Add(versionNumberStep), nil
}
