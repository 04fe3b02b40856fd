package models

import "time"

// ReportJobStatus tracks asynchronous narrative generation.
type ReportJobStatus string

const (
	ReportJobQueued    ReportJobStatus = "queued"
	ReportJobRunning   ReportJobStatus = "running"
	ReportJobCompleted ReportJobStatus = "completed"
	ReportJobFailed    ReportJobStatus = "failed"
)

// ReportJobType distinguishes the two narrative use cases.
type ReportJobType string

const (
	ReportJobStudent  ReportJobType = "student_report"
	ReportJobInsights ReportJobType = "school_insights"
)

// ReportJob is an in-memory record of one AI generation request. Jobs do
// not survive a restart, matching the session-scoped nature of the feature.
type ReportJob struct {
	ID          string          `json:"id"`
	Type        ReportJobType   `json:"type"`
	Status      ReportJobStatus `json:"status"`
	StudentID   int64           `json:"studentId,omitempty"`
	RequestedBy string          `json:"requestedBy,omitempty"`
	Result      string          `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}
