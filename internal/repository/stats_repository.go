package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mss-edu/school-api/internal/models"
)

// StatsRepository reads dashboard aggregates.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview returns the headline counts and revenue in one statement so the
// figures come from a single snapshot.
func (r *StatsRepository) Overview(ctx context.Context) (*models.StatsOverview, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM students) AS students,
        (SELECT COUNT(*) FROM teachers) AS teachers,
        (SELECT COALESCE(SUM(amount), 0) FROM fees WHERE status = 'Paid') AS revenue,
        (SELECT COALESCE(AVG(attendance), 0) FROM students) AS avg_attendance`
	var overview models.StatsOverview
	if err := r.db.GetContext(ctx, &overview, query); err != nil {
		return nil, fmt.Errorf("stats overview: %w", err)
	}
	return &overview, nil
}
