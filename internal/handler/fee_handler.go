package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mss-edu/school-api/internal/dto"
	"github.com/mss-edu/school-api/internal/models"
	"github.com/mss-edu/school-api/internal/service"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
	"github.com/mss-edu/school-api/pkg/response"
)

// FeeHandler wires HTTP endpoints to the fee service.
type FeeHandler struct {
	service *service.FeeService
}

// NewFeeHandler creates a new handler.
func NewFeeHandler(svc *service.FeeService) *FeeHandler {
	return &FeeHandler{service: svc}
}

// List godoc
// @Summary List invoices
// @Description List fee invoices with read-time Overdue classification
// @Tags Fees
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Student filter"
// @Param status query string false "Status filter" Enums(Pending, Paid, Overdue)
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /fees [get]
func (h *FeeHandler) List(c *gin.Context) {
	filter := models.FeeFilter{
		Status: models.FeeStatus(c.Query("status")),
	}
	if raw := c.Query("studentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
			return
		}
		filter.StudentID = id
	}

	fees, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fees, nil)
}

// Create godoc
// @Summary Raise invoice
// @Tags Fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateFeeRequest true "Invoice payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /fees [post]
func (h *FeeHandler) Create(c *gin.Context) {
	var req dto.CreateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fee payload"))
		return
	}

	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Pay godoc
// @Summary Settle invoice
// @Description Mark an invoice paid; paying an already-paid invoice conflicts
// @Tags Fees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /fees/{id}/pay [post]
func (h *FeeHandler) Pay(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid invoice id"))
		return
	}

	res, err := h.service.MarkPaid(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Summary godoc
// @Summary Finance summary
// @Description Collected, outstanding and total invoiced amounts
// @Tags Fees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /fees/summary [get]
func (h *FeeHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Export godoc
// @Summary Export invoices CSV
// @Tags Fees
// @Produce text/csv
// @Security BearerAuth
// @Param studentId query int false "Student filter"
// @Param status query string false "Status filter" Enums(Pending, Paid, Overdue)
// @Success 200 {file} binary
// @Router /fees/export [get]
func (h *FeeHandler) Export(c *gin.Context) {
	filter := models.FeeFilter{
		Status: models.FeeStatus(c.Query("status")),
	}
	if raw := c.Query("studentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
			return
		}
		filter.StudentID = id
	}

	out, err := h.service.Export(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("fees-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", out)
}
