package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mss-edu/school-api/internal/models"
)

// GradeRepository manages persistence for assessed results.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

const gradeColumns = "id, student_id, student_name, class_id, subject, grade, score, term, remarks, created_at"

// List returns grades matching the filter, newest first.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StudentID > 0 {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.Term != "" {
		conditions = append(conditions, fmt.Sprintf("term = $%d", len(args)+1))
		args = append(args, filter.Term)
	}

	query := fmt.Sprintf("SELECT %s FROM grades WHERE %s ORDER BY id DESC", gradeColumns, strings.Join(conditions, " AND "))

	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// Create inserts an assessed result and assigns the generated id.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	grade.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO grades (student_id, student_name, class_id, subject, grade, score, term, remarks, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		grade.StudentID,
		grade.StudentName,
		grade.ClassID,
		grade.Subject,
		grade.Grade,
		grade.Score,
		grade.Term,
		grade.Remarks,
		grade.CreatedAt,
	).Scan(&grade.ID); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}
