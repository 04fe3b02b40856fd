package dto

// CreateGradeRequest records an assessed result. The student name shown in
// listings is denormalised from the referenced student at creation time,
// never taken from the client.
type CreateGradeRequest struct {
	StudentID int64   `json:"studentId" validate:"required,gt=0"`
	ClassID   string  `json:"classId" validate:"required"`
	Subject   string  `json:"subject" validate:"required"`
	Grade     string  `json:"grade" validate:"required"`
	Score     float64 `json:"score" validate:"gte=0,lte=100"`
	Term      string  `json:"term" validate:"required"`
	Remarks   string  `json:"remarks,omitempty"`
}
