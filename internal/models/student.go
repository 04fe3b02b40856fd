package models

import (
	"fmt"
	"time"
)

// StudentStatus captures enrollment state.
type StudentStatus string

const (
	StudentActive   StudentStatus = "Active"
	StudentInactive StudentStatus = "Inactive"
)

// Student represents a learner registered in the institution. Storage
// columns are snake_case while the JSON surface stays camelCase, so this
// struct is the translation boundary required by the API contract.
type Student struct {
	ID              int64         `db:"id" json:"id"`
	FullName        string        `db:"full_name" json:"fullName"`
	DOB             *time.Time    `db:"dob" json:"dob,omitempty"`
	Gender          string        `db:"gender" json:"gender"`
	Class           string        `db:"class" json:"class"`
	Email           *string       `db:"email" json:"email,omitempty"`
	Phone           *string       `db:"phone" json:"phone,omitempty"`
	Address         *string       `db:"address" json:"address,omitempty"`
	ParentContact   string        `db:"parent_contact" json:"parentContact"`
	Attendance      float64       `db:"attendance" json:"attendance"`
	Status          StudentStatus `db:"status" json:"status"`
	PerformanceNote *string       `db:"performance_note" json:"lastPerformanceReview,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updatedAt"`
}

// DisplayID renders the prefixed identifier the dashboard shows ("ST001")
// while the store keeps a plain numeric key.
func (s *Student) DisplayID() string {
	return fmt.Sprintf("ST%03d", s.ID)
}

// StudentFilter encapsulates search parameters for listing students.
type StudentFilter struct {
	Search string
	Class  string
	Status StudentStatus
}
