package dto

import "github.com/mss-edu/school-api/internal/models"

// CreateStudentRequest carries the registration form. Full name, class and
// parent contact are required; the rest defaults server-side.
type CreateStudentRequest struct {
	FullName      string `json:"fullName" validate:"required"`
	DOB           string `json:"dob,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender        string `json:"gender,omitempty" validate:"omitempty,oneof=Male Female"`
	Class         string `json:"class" validate:"required"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	ParentContact string `json:"parentContact" validate:"required"`
}

// CreateStudentResponse returns the newly assigned id in both storage and
// display form.
type CreateStudentResponse struct {
	ID        int64  `json:"id"`
	DisplayID string `json:"displayId"`
}

// StudentResponse augments the stored record with the display identifier.
type StudentResponse struct {
	models.Student
	DisplayID string `json:"displayId"`
}

// NewStudentResponse builds the API projection of a student.
func NewStudentResponse(s models.Student) StudentResponse {
	return StudentResponse{Student: s, DisplayID: s.DisplayID()}
}

// NewStudentResponses maps a list of students.
func NewStudentResponses(students []models.Student) []StudentResponse {
	out := make([]StudentResponse, len(students))
	for i, s := range students {
		out[i] = NewStudentResponse(s)
	}
	return out
}
