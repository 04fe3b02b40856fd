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

type fakeStudentRepo struct {
	students []models.Student
	nextID   int64
}

func (f *fakeStudentRepo) List(context.Context, models.StudentFilter) ([]models.Student, error) {
	// newest first, as the real repository orders by id DESC
	out := make([]models.Student, len(f.students))
	for i, s := range f.students {
		out[len(f.students)-1-i] = s
	}
	return out, nil
}

func (f *fakeStudentRepo) FindByID(_ context.Context, id int64) (*models.Student, error) {
	for i := range f.students {
		if f.students[i].ID == id {
			s := f.students[i]
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	f.nextID++
	student.ID = f.nextID
	f.students = append(f.students, *student)
	return nil
}

func (f *fakeStudentRepo) UpdateStatus(_ context.Context, id int64, status models.StudentStatus) error {
	for i := range f.students {
		if f.students[i].ID == id {
			f.students[i].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestCreateStudentAppliesDefaults(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, nil, nil, nil)

	res, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		FullName:      "X",
		Class:         "10A",
		ParentContact: "+1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, "ST001", res.DisplayID)

	created := repo.students[0]
	assert.Equal(t, "Male", created.Gender)
	assert.Equal(t, 100.0, created.Attendance)
	assert.Equal(t, models.StudentActive, created.Status)
}

func TestCreateStudentAssignsFreshIDs(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, nil, nil, nil)

	seen := map[int64]bool{}
	for i := 0; i < 3; i++ {
		res, err := svc.Create(context.Background(), dto.CreateStudentRequest{
			FullName:      "X",
			Class:         "10A",
			ParentContact: "+1",
		})
		require.NoError(t, err)
		assert.False(t, seen[res.ID], "ids must not repeat within a session")
		seen[res.ID] = true
	}
}

func TestCreateThenListIncludesStudent(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateStudentRequest{
		FullName:      "X",
		Class:         "10A",
		ParentContact: "+1",
	})
	require.NoError(t, err)

	students, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "X", students[0].FullName)
}

func TestCreateStudentMissingRequiredFields(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateStudentRequest{FullName: "X"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGetStudentNotFound(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, nil, nil, nil)
	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportRoster(t *testing.T) {
	repo := &fakeStudentRepo{students: []models.Student{
		{ID: 1, FullName: "Abdi Hassan", Class: "10A", Gender: "Male", Attendance: 92, Status: models.StudentActive, ParentContact: "+252"},
	}}
	svc := NewStudentService(repo, nil, nil, nil)

	out, err := svc.ExportRoster(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}
