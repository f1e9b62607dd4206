// internal/handlers/upload.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"catalogue-backend/internal/services"
	"catalogue-backend/internal/utils"
)

type UploadHandler struct {
	storageService *services.StorageService
}

func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{storageService: storageService}
}

// POST /uploads/:category
func (h *UploadHandler) UploadImage(c *gin.Context) {
	category := c.Param("category")
	switch category {
	case "listings", "blogs", "avatars":
	default:
		utils.BadRequestResponse(c, "Unknown upload category", nil)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "No file provided", nil)
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	options := h.storageService.GetDefaultUploadOptions(category)
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, result)
}
