package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mss-edu/school-api/internal/service"
	"github.com/mss-edu/school-api/pkg/response"
)

// StatsHandler serves the dashboard headline figures.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler creates a new handler.
func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Overview godoc
// @Summary Dashboard statistics
// @Description Aggregate counts, revenue and average attendance
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	overview, fromCache, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil, map[string]interface{}{"cached": fromCache})
}
