package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mss-edu/school-api/internal/models"
)

// TeacherRepository manages persistence for instructor records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherColumns = "id, full_name, subject, email, phone, classes_assigned, created_at, updated_at"

// List returns teachers, newest first by id, optionally matching a search.
func (r *TeacherRepository) List(ctx context.Context, search string) ([]models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers", teacherColumns)
	args := []interface{}{}
	if search != "" {
		query += " WHERE LOWER(full_name) LIKE $1 OR LOWER(subject) LIKE $1"
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += " ORDER BY id DESC"

	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID fetches a teacher by primary key.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE id = $1", teacherColumns)
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create inserts a new teacher and assigns the generated id.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	now := time.Now().UTC()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	const query = `INSERT INTO teachers (full_name, subject, email, phone, classes_assigned, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		teacher.FullName,
		teacher.Subject,
		teacher.Email,
		teacher.Phone,
		teacher.ClassesAssigned,
		teacher.CreatedAt,
		teacher.UpdatedAt,
	).Scan(&teacher.ID); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Count returns the number of registered teachers.
func (r *TeacherRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM teachers"); err != nil {
		return 0, fmt.Errorf("count teachers: %w", err)
	}
	return total, nil
}
