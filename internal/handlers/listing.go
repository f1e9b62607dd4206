// internal/handlers/listing.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/middleware"
	"catalogue-backend/internal/services"
	"catalogue-backend/internal/utils"
)

type ListingHandler struct {
	listingService *services.ListingService
	cfg            *config.Config
}

func NewListingHandler(listingService *services.ListingService, cfg *config.Config) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		cfg:            cfg,
	}
}

// GET /listings
func (h *ListingHandler) GetListings(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	listings, total, err := h.listingService.Search(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(listings, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /listings/latest
func (h *ListingHandler) GetLatestListings(c *gin.Context) {
	limit := 5
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	listings, err := h.listingService.Latest(limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, listings)
}

// GET /listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	listing, err := h.listingService.Get(id)
	if err != nil {
		handleServiceError(c, h.cfg, err, "Listing")
		return
	}

	utils.SuccessResponse(c, listing)
}

// POST /listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	listing, err := h.listingService.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		handleServiceError(c, h.cfg, err, "Listing")
		return
	}

	utils.CreatedResponse(c, listing)
}

// PUT /listings/:id
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	var req services.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	listing, err := h.listingService.Update(id, middleware.CurrentUser(c), &req)
	if err != nil {
		handleServiceError(c, h.cfg, err, "Listing")
		return
	}

	utils.SuccessResponse(c, listing)
}

// POST /listings/:id/publish
func (h *ListingHandler) PublishListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	var req struct {
		IsPublished *bool `json:"is_published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	isPublished := true
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}

	listing, err := h.listingService.Publish(id, middleware.CurrentUser(c), isPublished)
	if err != nil {
		handleServiceError(c, h.cfg, err, "Listing")
		return
	}

	utils.SuccessResponse(c, listing)
}

// DELETE /listings/:id
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	if err := h.listingService.Delete(id, middleware.CurrentUser(c)); err != nil {
		handleServiceError(c, h.cfg, err, "Listing")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Listing deleted"})
}

// GET /moderation/listings
func (h *ListingHandler) GetModerationQueue(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	listings, total, err := h.listingService.ModerationQueue(middleware.CurrentUser(c), params)
	if err != nil {
		handleServiceError(c, h.cfg, err, "Listing")
		return
	}

	result := utils.CreatePaginationResult(listings, total, params)
	utils.PaginatedResponse(c, result)
}
