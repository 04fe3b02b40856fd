package models

// StatsOverview is the dashboard headline aggregate. Revenue sums only
// Paid invoices and is zero, never null, when none exist.
type StatsOverview struct {
	Students      int     `db:"students" json:"students"`
	Teachers      int     `db:"teachers" json:"teachers"`
	Revenue       float64 `db:"revenue" json:"revenue"`
	AvgAttendance float64 `db:"avg_attendance" json:"avgAttendance"`
}
