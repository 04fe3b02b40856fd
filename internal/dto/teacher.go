package dto

import "github.com/mss-edu/school-api/internal/models"

// CreateTeacherRequest carries the staff registration form.
type CreateTeacherRequest struct {
	FullName        string `json:"fullName" validate:"required"`
	Subject         string `json:"subject" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone,omitempty"`
	ClassesAssigned int    `json:"classesAssigned,omitempty" validate:"omitempty,gte=0"`
}

// TeacherResponse augments the stored record with the display identifier.
type TeacherResponse struct {
	models.Teacher
	DisplayID string `json:"displayId"`
}

// NewTeacherResponses maps a list of teachers.
func NewTeacherResponses(teachers []models.Teacher) []TeacherResponse {
	out := make([]TeacherResponse, len(teachers))
	for i, t := range teachers {
		out[i] = TeacherResponse{Teacher: t, DisplayID: t.DisplayID()}
	}
	return out
}
