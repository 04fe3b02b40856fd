package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mss-edu/school-api/internal/models"
)

func studentRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name", "dob", "gender", "class", "email", "phone", "address", "parent_contact", "attendance", "status", "performance_note", "created_at", "updated_at"}).
		AddRow(int64(2), "Fatuma Ali", nil, "Female", "10A", nil, nil, nil, "+252 61 555 0102", 98.0, "Active", nil, now, now).
		AddRow(int64(1), "Abdi Hassan", nil, "Male", "10A", nil, nil, nil, "+252 61 555 0101", 92.0, "Active", nil, now, now)
}

func TestListStudentsNewestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + studentColumns + " FROM students WHERE 1=1 ORDER BY id DESC")).
		WillReturnRows(studentRows(time.Now()))

	students, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Greater(t, students[0].ID, students[1].ID)
	assert.Equal(t, "ST002", students[0].DisplayID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStudentsWithFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT .+ FROM students WHERE 1=1 AND class = \\$1 AND status = \\$2").
		WithArgs("10A", string(models.StudentActive)).
		WillReturnRows(studentRows(time.Now()))

	_, err := repo.List(context.Background(), models.StudentFilter{Class: "10A", Status: models.StudentActive})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	student := &models.Student{
		FullName:      "X",
		Gender:        "Male",
		Class:         "10A",
		ParentContact: "+1",
		Attendance:    100,
		Status:        models.StudentActive,
	}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.Equal(t, int64(7), student.ID)
	assert.Equal(t, "ST007", student.DisplayID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountStudents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
