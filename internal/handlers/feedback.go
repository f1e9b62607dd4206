// internal/handlers/feedback.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/services"
	"catalogue-backend/internal/utils"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
	cfg             *config.Config
}

func NewFeedbackHandler(feedbackService *services.FeedbackService, cfg *config.Config) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		cfg:             cfg,
	}
}

// POST /feedback
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req services.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	feedback, err := h.feedbackService.Submit(&req)
	if err != nil {
		handleServiceError(c, h.cfg, err, "Feedback")
		return
	}

	utils.CreatedResponse(c, feedback)
}

// GET /feedback (staff)
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	entries, total, err := h.feedbackService.List(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(entries, total, params)
	utils.PaginatedResponse(c, result)
}
