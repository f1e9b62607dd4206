// internal/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/middleware"
	"catalogue-backend/internal/services"
	"catalogue-backend/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
	cfg             *config.Config
}

func NewCategoryHandler(categoryService *services.CategoryService, cfg *config.Config) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		cfg:             cfg,
	}
}

// GET /categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.List()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, categories)
}

// POST /categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	category, err := h.categoryService.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		handleServiceError(c, h.cfg, err, "Category")
		return
	}

	utils.CreatedResponse(c, category)
}

// PUT /categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", nil)
		return
	}

	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	category, err := h.categoryService.Update(id, middleware.CurrentUser(c), &req)
	if err != nil {
		handleServiceError(c, h.cfg, err, "Category")
		return
	}

	utils.SuccessResponse(c, category)
}

// DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", nil)
		return
	}

	if err := h.categoryService.Delete(id, middleware.CurrentUser(c)); err != nil {
		handleServiceError(c, h.cfg, err, "Category")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Category deleted"})
}
