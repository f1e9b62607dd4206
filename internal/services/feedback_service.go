// internal/services/feedback_service.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"catalogue-backend/internal/models"
	"catalogue-backend/internal/utils"
)

type FeedbackService struct {
	db *gorm.DB
}

type FeedbackRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
	Country   string `json:"country" validate:"omitempty"`
	Message   string `json:"message" validate:"required"`
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// Submit is open to anonymous visitors.
func (s *FeedbackService) Submit(req *FeedbackRequest) (*models.Feedback, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err)
	}

	country := req.Country
	if country == "" {
		country = models.FeedbackCountries[0]
	} else if !models.IsValidFeedbackCountry(country) {
		ve := &ValidationError{}
		ve.Add("country", "unknown country")
		return nil, ve
	}

	feedback := &models.Feedback{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Country:   country,
		Message:   req.Message,
	}

	if err := s.db.Create(feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}
	return feedback, nil
}

// List backs the about page.
func (s *FeedbackService) List(params utils.PaginationParams) ([]models.Feedback, int64, error) {
	query := s.db.Model(&models.Feedback{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count feedback: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at"})
	query = utils.ApplyPagination(query, params)

	var feedback []models.Feedback
	if err := query.Find(&feedback).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch feedback: %w", err)
	}
	return feedback, total, nil
}
