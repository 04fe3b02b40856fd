package dto

import (
	"time"

	"github.com/mss-edu/school-api/internal/models"
)

// CreateFeeRequest raises a new invoice against a student.
type CreateFeeRequest struct {
	StudentID int64   `json:"studentId" validate:"required,gt=0"`
	Type      string  `json:"type" validate:"required,oneof=Tuition Transport Exam Library"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	DueDate   string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
}

// FeeResponse is the stored invoice with its read-time status
// classification: a Pending invoice past its due date surfaces as Overdue
// without any stored transition.
type FeeResponse struct {
	models.Fee
	Status models.FeeStatus `json:"status"`
}

// NewFeeResponse classifies the invoice against the given clock.
func NewFeeResponse(f models.Fee, now time.Time) FeeResponse {
	return FeeResponse{Fee: f, Status: f.EffectiveStatus(now)}
}

// NewFeeResponses maps a list of invoices.
func NewFeeResponses(fees []models.Fee, now time.Time) []FeeResponse {
	out := make([]FeeResponse, len(fees))
	for i, f := range fees {
		out[i] = NewFeeResponse(f, now)
	}
	return out
}
