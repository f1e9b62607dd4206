// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/services"
	"catalogue-backend/internal/utils"
)

// handleServiceError translates service error kinds into HTTP answers.
// Masked permission failures arrive here already folded into ErrNotFound,
// so the response alone never reveals whether the entity exists.
func handleServiceError(c *gin.Context, cfg *config.Config, err error, resource string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", ve.Fields)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrPermissionDenied):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrVersionNumberConflict):
		utils.ConflictResponse(c, "Version number already taken")
	case errors.Is(err, services.ErrLoginRequired):
		utils.LoginRequiredResponse(c, cfg.App.LoginURL)
	case errors.Is(err, services.ErrAuthenticationRequired):
		utils.UnauthorizedResponse(c, "")
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
