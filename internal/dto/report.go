package dto

// EnqueueReportResponse acknowledges an accepted generation request. The
// client polls the job endpoint and shows a loading indicator meanwhile.
type EnqueueReportResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}
