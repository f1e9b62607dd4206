// internal/handlers/errors_test.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/services"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.AnonymousWritePolicy = config.AnonymousWriteRedirect
	cfg.App.LoginURL = "/v1/auth/login"
	return cfg
}

func recordServiceError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handleServiceError(c, testConfig(), err, "Listing")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"permission denied", services.ErrPermissionDenied, http.StatusForbidden, "FORBIDDEN"},
		{"version conflict", services.ErrVersionNumberConflict, http.StatusConflict, "CONFLICT"},
		{"authentication required", services.ErrAuthenticationRequired, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"login required", services.ErrLoginRequired, http.StatusUnauthorized, "LOGIN_REQUIRED"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := recordServiceError(t, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)

			errObj := body["error"].(map[string]interface{})
			assert.Equal(t, tt.wantCode, errObj["code"])
		})
	}
}

func TestHandleServiceErrorValidation(t *testing.T) {
	ve := &services.ValidationError{}
	ve.Add("name", "name contains prohibited terms")

	w, body := recordServiceError(t, ve)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])

	details := errObj["details"].([]interface{})
	require.Len(t, details, 1)
	field := details[0].(map[string]interface{})
	assert.Equal(t, "name", field["field"])
}

func TestHandleServiceErrorLoginRedirect(t *testing.T) {
	w, body := recordServiceError(t, services.ErrLoginRequired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	errObj := body["error"].(map[string]interface{})
	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, "/v1/auth/login", details["redirect_to"])
}
