package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mss-edu/school-api/internal/dto"
	"github.com/mss-edu/school-api/internal/models"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
)

type fakeFeeRepo struct {
	fees       []models.Fee
	paid       float64
	outstanding float64
	markPaidOK bool
	created    *models.Fee
}

// List applies the filter the way the SQL repository does: against the
// stored status column, which never holds Overdue.
func (f *fakeFeeRepo) List(_ context.Context, filter models.FeeFilter) ([]models.Fee, error) {
	var out []models.Fee
	for _, fee := range f.fees {
		if filter.StudentID > 0 && fee.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && fee.Status != filter.Status {
			continue
		}
		out = append(out, fee)
	}
	return out, nil
}

func (f *fakeFeeRepo) FindByID(_ context.Context, id int64) (*models.Fee, error) {
	for i := range f.fees {
		if f.fees[i].ID == id {
			fee := f.fees[i]
			return &fee, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFeeRepo) Create(_ context.Context, fee *models.Fee) error {
	fee.ID = int64(len(f.fees) + 1)
	f.created = fee
	return nil
}

func (f *fakeFeeRepo) MarkPaid(context.Context, int64, time.Time) (bool, error) {
	return f.markPaidOK, nil
}

func (f *fakeFeeRepo) SumPaidAmount(context.Context) (float64, error) {
	return f.paid, nil
}

func (f *fakeFeeRepo) OutstandingAmount(context.Context) (float64, error) {
	return f.outstanding, nil
}

type fakeStudentLookup struct {
	students map[int64]*models.Student
}

func (f *fakeStudentLookup) FindByID(_ context.Context, id int64) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return student, nil
}

func newFeeFixture(repo *fakeFeeRepo) *FeeService {
	students := &fakeStudentLookup{students: map[int64]*models.Student{
		1: {ID: 1, FullName: "Abdi Hassan", Class: "10A"},
	}}
	return NewFeeService(repo, students, nil, nil, nil, "")
}

func TestFeeSummaryMixedStatuses(t *testing.T) {
	repo := &fakeFeeRepo{paid: 100, outstanding: 50}
	svc := newFeeFixture(repo)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.Collected)
	assert.Equal(t, 50.0, summary.Outstanding)
	assert.Equal(t, 150.0, summary.TotalInvoiced)
}

func TestFeeSummaryNoPaidFeesIsZero(t *testing.T) {
	repo := &fakeFeeRepo{paid: 0, outstanding: 200}
	svc := newFeeFixture(repo)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Collected)
}

func TestListClassifiesOverdueAtReadTime(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeFeeRepo{fees: []models.Fee{
		{ID: 1, Status: models.FeePending, DueDate: now.AddDate(0, 0, -7), Amount: 150},
		{ID: 2, Status: models.FeePending, DueDate: now.AddDate(0, 0, 7), Amount: 150},
		{ID: 3, Status: models.FeePaid, DueDate: now.AddDate(0, 0, -7), Amount: 50},
	}}
	svc := newFeeFixture(repo)
	svc.now = func() time.Time { return now }

	fees, err := svc.List(context.Background(), models.FeeFilter{})
	require.NoError(t, err)
	require.Len(t, fees, 3)
	assert.Equal(t, models.FeeOverdue, fees[0].Status, "past-due Pending surfaces as Overdue without a stored transition")
	assert.Equal(t, models.FeePending, fees[1].Status)
	assert.Equal(t, models.FeePaid, fees[2].Status, "Paid is never reclassified")
	assert.Equal(t, models.FeePending, fees[0].Fee.Status, "the stored status stays Pending")
}

func TestListOverdueFilterMatchesPastDuePending(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeFeeRepo{fees: []models.Fee{
		{ID: 1, Status: models.FeePending, DueDate: now.AddDate(0, 0, -7), Amount: 150},
		{ID: 2, Status: models.FeePending, DueDate: now.AddDate(0, 0, 7), Amount: 150},
	}}
	svc := newFeeFixture(repo)
	svc.now = func() time.Time { return now }

	overdue, err := svc.List(context.Background(), models.FeeFilter{Status: models.FeeOverdue})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, int64(1), overdue[0].ID)

	pending, err := svc.List(context.Background(), models.FeeFilter{Status: models.FeePending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].ID)
}

func TestExportOverdueFilterIncludesPastDueRows(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeFeeRepo{fees: []models.Fee{
		{ID: 1, StudentID: 1, StudentName: "Abdi Hassan", Type: models.FeeTuition, Status: models.FeePending, DueDate: now.AddDate(0, 0, -7), Amount: 150},
		{ID: 2, StudentID: 1, StudentName: "Abdi Hassan", Type: models.FeeExam, Status: models.FeePending, DueDate: now.AddDate(0, 0, 7), Amount: 20},
	}}
	svc := newFeeFixture(repo)
	svc.now = func() time.Time { return now }

	out, err := svc.Export(context.Background(), models.FeeFilter{Status: models.FeeOverdue})
	require.NoError(t, err)

	csv := string(out)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 2, "header plus the single overdue invoice")
	assert.Contains(t, lines[1], "Overdue")
	assert.NotContains(t, csv, "Exam", "the not-yet-due invoice stays out of an Overdue export")
}

func TestExportPendingFilterExcludesOverdueRows(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeFeeRepo{fees: []models.Fee{
		{ID: 1, StudentID: 1, StudentName: "Abdi Hassan", Type: models.FeeTuition, Status: models.FeePending, DueDate: now.AddDate(0, 0, -7), Amount: 150},
		{ID: 2, StudentID: 1, StudentName: "Abdi Hassan", Type: models.FeeExam, Status: models.FeePending, DueDate: now.AddDate(0, 0, 7), Amount: 20},
	}}
	svc := newFeeFixture(repo)
	svc.now = func() time.Time { return now }

	out, err := svc.Export(context.Background(), models.FeeFilter{Status: models.FeePending})
	require.NoError(t, err)

	csv := string(out)
	assert.NotContains(t, csv, "Overdue", "a Pending export never renders Overdue rows")
	assert.Contains(t, csv, "Exam")
}

func TestExportFiltersByStudent(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeFeeRepo{fees: []models.Fee{
		{ID: 1, StudentID: 1, StudentName: "Abdi Hassan", Type: models.FeeTuition, Status: models.FeePending, DueDate: now.AddDate(0, 0, 7), Amount: 150},
		{ID: 2, StudentID: 2, StudentName: "Hodan Ali", Type: models.FeeTuition, Status: models.FeePending, DueDate: now.AddDate(0, 0, 7), Amount: 150},
	}}
	svc := newFeeFixture(repo)
	svc.now = func() time.Time { return now }

	out, err := svc.Export(context.Background(), models.FeeFilter{StudentID: 2})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Hodan Ali")
	assert.NotContains(t, string(out), "Abdi Hassan")
}

func TestExportCarriesConfiguredCurrency(t *testing.T) {
	students := &fakeStudentLookup{students: map[int64]*models.Student{}}
	svc := NewFeeService(&fakeFeeRepo{}, students, nil, nil, nil, "KES")

	out, err := svc.Export(context.Background(), models.FeeFilter{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Amount (KES)")

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "KES", summary.Currency)
}

func TestMarkPaidFromOverdue(t *testing.T) {
	repo := &fakeFeeRepo{
		fees:       []models.Fee{{ID: 1, StudentID: 1, Status: models.FeePending, DueDate: time.Now().AddDate(0, 0, -1), Amount: 150}},
		markPaidOK: true,
	}
	svc := newFeeFixture(repo)

	res, err := svc.MarkPaid(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.FeePaid, res.Status)
	require.NotNil(t, res.PaymentDate)
}

func TestMarkPaidIsTerminal(t *testing.T) {
	paidAt := time.Now()
	repo := &fakeFeeRepo{fees: []models.Fee{{ID: 1, Status: models.FeePaid, PaymentDate: &paidAt}}}
	svc := newFeeFixture(repo)

	_, err := svc.MarkPaid(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestMarkPaidUnknownInvoice(t *testing.T) {
	svc := newFeeFixture(&fakeFeeRepo{})
	_, err := svc.MarkPaid(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCreateFeeDenormalisesStudentName(t *testing.T) {
	repo := &fakeFeeRepo{}
	svc := newFeeFixture(repo)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	res, err := svc.Create(context.Background(), dto.CreateFeeRequest{
		StudentID: 1,
		Type:      "Tuition",
		Amount:    150,
		DueDate:   "2025-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, "Abdi Hassan", res.StudentName)
	assert.Equal(t, models.FeePending, res.Status)
	assert.Nil(t, res.PaymentDate, "paymentDate is present only when Paid")
}

func TestCreateFeeUnknownStudent(t *testing.T) {
	svc := newFeeFixture(&fakeFeeRepo{})
	_, err := svc.Create(context.Background(), dto.CreateFeeRequest{
		StudentID: 42,
		Type:      "Exam",
		Amount:    20,
		DueDate:   "2025-06-30",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
