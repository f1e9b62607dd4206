// internal/services/blog_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/models"
	"catalogue-backend/internal/utils"
)

type BlogService struct {
	db           *gorm.DB
	cfg          *config.Config
	notification *NotificationService
}

type CreateBlogRequest struct {
	Title    string `json:"title" validate:"required,max=50,clean_content"`
	Content  string `json:"content" validate:"omitempty,clean_content"`
	ImageKey string `json:"image_key,omitempty"`
	Email    string `json:"email" validate:"required,email"`
}

type UpdateBlogRequest struct {
	Title    string `json:"title" validate:"required,max=50,clean_content"`
	Content  string `json:"content" validate:"omitempty,clean_content"`
	ImageKey string `json:"image_key,omitempty"`
	Email    string `json:"email" validate:"required,email"`
	IsActive bool   `json:"is_active"`
}

func NewBlogService(db *gorm.DB, cfg *config.Config, notification *NotificationService) *BlogService {
	return &BlogService{db: db, cfg: cfg, notification: notification}
}

// Create stores a post with a slug derived from its title.
func (s *BlogService) Create(actor *models.User, req *CreateBlogRequest) (*models.Blog, error) {
	if actor == nil {
		return nil, anonymousWriteError(s.cfg)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err)
	}

	blog := &models.Blog{
		Title:    req.Title,
		Slug:     utils.Slugify(req.Title),
		Content:  req.Content,
		ImageKey: req.ImageKey,
		Email:    req.Email,
		IsActive: true,
		OwnerID:  &actor.ID,
	}

	if err := s.db.Create(blog).Error; err != nil {
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}
	return blog, nil
}

// List returns active posts, newest first.
func (s *BlogService) List(params utils.PaginationParams) ([]models.Blog, int64, error) {
	query := s.db.Model(&models.Blog{}).Where("is_active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count blog posts: %w", err)
	}

	allowedSortFields := []string{"created_at", "view_count", "title"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var blogs []models.Blog
	if err := query.Find(&blogs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch blog posts: %w", err)
	}
	return blogs, total, nil
}

// Get increments the view counter and, exactly at the configured milestone,
// mails a congratulation to the post's notification address.
func (s *BlogService) Get(id uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	if err := s.db.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	blog.ViewCount++
	if err := s.db.Model(&blog).Update("view_count", blog.ViewCount).Error; err != nil {
		return nil, fmt.Errorf("failed to update view count: %w", err)
	}

	if blog.ViewCount == s.cfg.App.BlogViewMilestone && s.notification != nil {
		go func(b models.Blog) {
			if err := s.notification.SendViewMilestoneEmail(&b); err != nil {
				logrus.WithError(err).Error("Failed to send view milestone email")
			}
		}(blog)
	}

	return &blog, nil
}

// Update follows the listing rules: owner or catalog.change_blog, masked as
// not found; non-staff editors adopt the post.
func (s *BlogService) Update(id uuid.UUID, actor *models.User, req *UpdateBlogRequest) (*models.Blog, error) {
	if actor == nil {
		return nil, anonymousWriteError(s.cfg)
	}

	var blog models.Blog
	if err := s.db.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	isOwner := blog.OwnerID != nil && *blog.OwnerID == actor.ID
	if !isOwner && !actor.HasPermission(models.PermChangeBlog) {
		return nil, ErrNotFound
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err)
	}

	blog.Title = req.Title
	blog.Slug = utils.Slugify(req.Title)
	blog.Content = req.Content
	blog.ImageKey = req.ImageKey
	blog.Email = req.Email
	blog.IsActive = req.IsActive

	if !actor.IsStaff {
		blog.OwnerID = &actor.ID
	}

	if err := s.db.Save(&blog).Error; err != nil {
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}
	return &blog, nil
}

// Delete is allowed for the owner or a superuser.
func (s *BlogService) Delete(id uuid.UUID, actor *models.User) error {
	if actor == nil {
		return anonymousWriteError(s.cfg)
	}

	var blog models.Blog
	if err := s.db.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	isOwner := blog.OwnerID != nil && *blog.OwnerID == actor.ID
	if !isOwner && !actor.IsSuperuser {
		return ErrNotFound
	}

	if err := s.db.Delete(&blog).Error; err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}
	return nil
}
