package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/mss-edu/school-api/internal/dto"
	"github.com/mss-edu/school-api/internal/models"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
)

type gradeRepository interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
}

type gradeStudentLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// GradeService implements the assessment use cases.
type GradeService struct {
	repo      gradeRepository
	students  gradeStudentLookup
	validator *validator.Validate
}

// NewGradeService constructs a GradeService.
func NewGradeService(repo gradeRepository, students gradeStudentLookup, validate *validator.Validate) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	return &GradeService{repo: repo, students: students, validator: validate}
}

// List returns grades matching the filter.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	grades, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}

// Create records an assessed result. The referenced student must exist and
// the displayed student name is copied from that record, so it matches at
// creation time even though later renames are not propagated.
func (s *GradeService) Create(ctx context.Context, req dto.CreateGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	grade := models.Grade{
		StudentID:   student.ID,
		StudentName: student.FullName,
		ClassID:     req.ClassID,
		Subject:     req.Subject,
		Grade:       req.Grade,
		Score:       req.Score,
		Term:        req.Term,
	}
	if req.Remarks != "" {
		grade.Remarks = &req.Remarks
	}

	if err := s.repo.Create(ctx, &grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade")
	}
	return &grade, nil
}
