package models

import (
	"fmt"
	"time"
)

// Teacher represents an instructor record.
type Teacher struct {
	ID              int64     `db:"id" json:"id"`
	FullName        string    `db:"full_name" json:"fullName"`
	Subject         string    `db:"subject" json:"subject"`
	Email           string    `db:"email" json:"email"`
	Phone           *string   `db:"phone" json:"phone,omitempty"`
	ClassesAssigned int       `db:"classes_assigned" json:"classesAssigned"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// DisplayID renders the prefixed identifier shown by the dashboard.
func (t *Teacher) DisplayID() string {
	return fmt.Sprintf("T%03d", t.ID)
}
