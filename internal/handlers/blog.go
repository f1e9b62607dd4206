// internal/handlers/blog.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/middleware"
	"catalogue-backend/internal/services"
	"catalogue-backend/internal/utils"
)

type BlogHandler struct {
	blogService *services.BlogService
	cfg         *config.Config
}

func NewBlogHandler(blogService *services.BlogService, cfg *config.Config) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		cfg:         cfg,
	}
}

// GET /blogs
func (h *BlogHandler) GetBlogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	blogs, total, err := h.blogService.List(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(blogs, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /blogs/:id
func (h *BlogHandler) GetBlog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid blog ID", nil)
		return
	}

	blog, err := h.blogService.Get(id)
	if err != nil {
		handleServiceError(c, h.cfg, err, "Blog")
		return
	}

	utils.SuccessResponse(c, blog)
}

// POST /blogs
func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var req services.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	blog, err := h.blogService.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		handleServiceError(c, h.cfg, err, "Blog")
		return
	}

	utils.CreatedResponse(c, blog)
}

// PUT /blogs/:id
func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid blog ID", nil)
		return
	}

	var req services.UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	blog, err := h.blogService.Update(id, middleware.CurrentUser(c), &req)
	if err != nil {
		handleServiceError(c, h.cfg, err, "Blog")
		return
	}

	utils.SuccessResponse(c, blog)
}

// DELETE /blogs/:id
func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid blog ID", nil)
		return
	}

	if err := h.blogService.Delete(id, middleware.CurrentUser(c)); err != nil {
		handleServiceError(c, h.cfg, err, "Blog")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Blog deleted"})
}
