// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/models"
	"catalogue-backend/internal/utils"
)

type CategoryService struct {
	db  *gorm.DB
	cfg *config.Config
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=50,clean_content"`
	Description string `json:"description" validate:"required,clean_content"`
}

func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{db: db, cfg: cfg}
}

func (s *CategoryService) List() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// Create requires the catalog.add_category grant.
func (s *CategoryService) Create(actor *models.User, req *CategoryRequest) (*models.Category, error) {
	if actor == nil {
		return nil, anonymousWriteError(s.cfg)
	}
	if !actor.HasPermission(models.PermAddCategory) {
		return nil, ErrPermissionDenied
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err)
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     &actor.ID,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// Update is restricted to staff; everyone else gets a not-found answer.
func (s *CategoryService) Update(id uuid.UUID, actor *models.User, req *CategoryRequest) (*models.Category, error) {
	if actor == nil {
		return nil, anonymousWriteError(s.cfg)
	}

	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !actor.IsStaff {
		return nil, ErrNotFound
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err)
	}

	category.Name = req.Name
	category.Description = req.Description

	if err := s.db.Save(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &category, nil
}

// Delete requires the catalog.delete_category grant and takes the
// category's listings with it.
func (s *CategoryService) Delete(id uuid.UUID, actor *models.User) error {
	if actor == nil {
		return anonymousWriteError(s.cfg)
	}
	if !actor.HasPermission(models.PermDeleteCategory) {
		return ErrPermissionDenied
	}

	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var listingIDs []uuid.UUID
		if err := tx.Model(&models.Listing{}).Where("category_id = ?", id).
			Pluck("id", &listingIDs).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if len(listingIDs) > 0 {
			if err := tx.Where("listing_id IN ?", listingIDs).Delete(&models.Version{}).Error; err != nil {
				return fmt.Errorf("failed to delete versions: %w", err)
			}
			if err := tx.Where("category_id = ?", id).Delete(&models.Listing{}).Error; err != nil {
				return fmt.Errorf("failed to delete listings: %w", err)
			}
		}
		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}
