package models

import "time"

// FeeType enumerates invoice categories.
type FeeType string

const (
	FeeTuition   FeeType = "Tuition"
	FeeTransport FeeType = "Transport"
	FeeExam      FeeType = "Exam"
	FeeLibrary   FeeType = "Library"
)

// Valid reports whether the fee type is recognised.
func (t FeeType) Valid() bool {
	switch t {
	case FeeTuition, FeeTransport, FeeExam, FeeLibrary:
		return true
	}
	return false
}

// FeeStatus enumerates invoice payment states.
type FeeStatus string

const (
	FeePending FeeStatus = "Pending"
	FeePaid    FeeStatus = "Paid"
	FeeOverdue FeeStatus = "Overdue"
)

// Fee is an invoice raised against a student. PaymentDate is present
// exactly when Status is Paid.
type Fee struct {
	ID          int64      `db:"id" json:"id"`
	StudentID   int64      `db:"student_id" json:"studentId"`
	StudentName string     `db:"student_name" json:"studentName"`
	Type        FeeType    `db:"type" json:"type"`
	Amount      float64    `db:"amount" json:"amount"`
	Status      FeeStatus  `db:"status" json:"status"`
	DueDate     time.Time  `db:"due_date" json:"dueDate"`
	PaymentDate *time.Time `db:"payment_date" json:"paymentDate,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// EffectiveStatus classifies a stored Pending invoice with a passed due
// date as Overdue. The transition is computed at read time; no event is
// stored. Paid is terminal.
func (f *Fee) EffectiveStatus(now time.Time) FeeStatus {
	if f.Status == FeePending && now.After(f.DueDate) {
		return FeeOverdue
	}
	return f.Status
}

// FeeFilter narrows fee listings.
type FeeFilter struct {
	StudentID int64
	Status    FeeStatus
}

// FeeSummary aggregates invoice amounts for the finance header cards.
type FeeSummary struct {
	Collected     float64 `json:"collected"`
	Outstanding   float64 `json:"outstanding"`
	TotalInvoiced float64 `json:"totalInvoiced"`
	Currency      string  `json:"currency"`
}
