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

func TestSumPaidAmountEmptyIsZero(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) FROM fees WHERE status = $1")).
		WithArgs(string(models.FeePaid)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))

	total, err := repo.SumPaidAmount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSumPaidAmount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) FROM fees WHERE status = $1")).
		WithArgs(string(models.FeePaid)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(100.0))

	total, err := repo.SumPaidAmount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidTransitionsUnpaidInvoice(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	mock.ExpectExec("UPDATE fees SET status").
		WithArgs(int64(101), string(models.FeePaid), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.MarkPaid(context.Background(), 101, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidIsTerminalForPaidInvoice(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	mock.ExpectExec("UPDATE fees SET status").
		WithArgs(int64(101), string(models.FeePaid), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkPaid(context.Background(), 101, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok, "a Paid invoice matches no row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFeesByStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "student_name", "type", "amount", "status", "due_date", "payment_date", "created_at", "updated_at"}).
		AddRow(int64(101), int64(1), "Abdi Hassan", "Tuition", 150.0, "Paid", now, now, now, now)
	mock.ExpectQuery("SELECT .+ FROM fees WHERE 1=1 AND student_id = \\$1 ORDER BY id DESC").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	fees, err := repo.List(context.Background(), models.FeeFilter{StudentID: 1})
	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.Equal(t, models.FeeTuition, fees[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
