package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mss-edu/school-api/internal/access"
	"github.com/mss-edu/school-api/internal/dto"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
	"github.com/mss-edu/school-api/pkg/response"
)

// NavigationHandler serves the role-filtered module menu. The same
// permission table gates the API routes, so the menu and the reachable
// surface always agree.
type NavigationHandler struct{}

// NewNavigationHandler creates a new handler.
func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Modules godoc
// @Summary Navigation modules
// @Description List the modules the authenticated role may access
// @Tags Navigation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /navigation [get]
func (h *NavigationHandler) Modules(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	modules := access.ModulesForRole(claims.Role)
	if modules == nil {
		modules = []string{}
	}

	response.JSON(c, http.StatusOK, dto.NavigationResponse{Role: claims.Role, Modules: modules}, nil)
}
