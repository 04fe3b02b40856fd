package models

import "time"

// Grade records one assessed subject result for a student in a term.
// StudentName is a read-model convenience copied from the student at
// creation time; the student_id reference stays authoritative.
type Grade struct {
	ID          int64     `db:"id" json:"id"`
	StudentID   int64     `db:"student_id" json:"studentId"`
	StudentName string    `db:"student_name" json:"studentName"`
	ClassID     string    `db:"class_id" json:"classId"`
	Subject     string    `db:"subject" json:"subject"`
	Grade       string    `db:"grade" json:"grade"`
	Score       float64   `db:"score" json:"score"`
	Term        string    `db:"term" json:"term"`
	Remarks     *string   `db:"remarks" json:"remarks,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// GradeFilter narrows grade listings.
type GradeFilter struct {
	StudentID int64
	ClassID   string
	Term      string
}
