package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mss-edu/school-api/internal/dto"
	"github.com/mss-edu/school-api/internal/service"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
	"github.com/mss-edu/school-api/pkg/response"
)

// ReportHandler exposes the asynchronous narrative report workflow:
// enqueue a generation, then poll the job until it completes or fails.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// EnqueueStudentReport godoc
// @Summary Request student progress report
// @Description Queue narrative report generation for a student
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/students/{id} [post]
func (h *ReportHandler) EnqueueStudentReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	requestedBy := ""
	if claims := claimsFromContext(c); claims != nil {
		requestedBy = claims.Username
	}

	job, err := h.service.EnqueueStudentReport(c.Request.Context(), id, requestedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, dto.EnqueueReportResponse{JobID: job.ID, Status: string(job.Status)}, nil)
}

// EnqueueInsights godoc
// @Summary Request school insights
// @Description Queue strategic insight generation from current statistics
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /reports/insights [post]
func (h *ReportHandler) EnqueueInsights(c *gin.Context) {
	requestedBy := ""
	if claims := claimsFromContext(c); claims != nil {
		requestedBy = claims.Username
	}

	job, err := h.service.EnqueueInsights(c.Request.Context(), requestedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, dto.EnqueueReportResponse{JobID: job.ID, Status: string(job.Status)}, nil)
}

// Job godoc
// @Summary Poll report job
// @Description Return the current state of a queued report job
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/jobs/{id} [get]
func (h *ReportHandler) Job(c *gin.Context) {
	job, ok := h.service.Job(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "report job not found"))
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}
