package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mss-edu/school-api/internal/dto"
	"github.com/mss-edu/school-api/internal/models"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
)

type fakeGradeRepo struct {
	grades []models.Grade
}

func (f *fakeGradeRepo) List(context.Context, models.GradeFilter) ([]models.Grade, error) {
	return f.grades, nil
}

func (f *fakeGradeRepo) Create(_ context.Context, grade *models.Grade) error {
	grade.ID = int64(len(f.grades) + 1)
	f.grades = append(f.grades, *grade)
	return nil
}

type fakeGradeStudents struct{}

func (fakeGradeStudents) FindByID(_ context.Context, id int64) (*models.Student, error) {
	if id != 1 {
		return nil, sql.ErrNoRows
	}
	return &models.Student{ID: 1, FullName: "Abdi Hassan", Class: "10A"}, nil
}

func TestCreateGradeDenormalizesStudentName(t *testing.T) {
	repo := &fakeGradeRepo{}
	svc := NewGradeService(repo, fakeGradeStudents{}, nil)

	grade, err := svc.Create(context.Background(), dto.CreateGradeRequest{
		StudentID: 1,
		ClassID:   "10A",
		Subject:   "Mathematics",
		Grade:     "A",
		Score:     91,
		Term:      "Term 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Abdi Hassan", grade.StudentName)
	assert.NotZero(t, grade.ID)
}

func TestCreateGradeUnknownStudent(t *testing.T) {
	svc := NewGradeService(&fakeGradeRepo{}, fakeGradeStudents{}, nil)

	_, err := svc.Create(context.Background(), dto.CreateGradeRequest{
		StudentID: 42,
		ClassID:   "10A",
		Subject:   "Mathematics",
		Grade:     "A",
		Score:     91,
		Term:      "Term 1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCreateGradeScoreOutOfRange(t *testing.T) {
	svc := NewGradeService(&fakeGradeRepo{}, fakeGradeStudents{}, nil)

	_, err := svc.Create(context.Background(), dto.CreateGradeRequest{
		StudentID: 1,
		ClassID:   "10A",
		Subject:   "Mathematics",
		Grade:     "A",
		Score:     120,
		Term:      "Term 1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
