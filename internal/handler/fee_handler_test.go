package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mss-edu/school-api/internal/models"
	"github.com/mss-edu/school-api/internal/service"
)

type stubFeeRepo struct {
	fees map[int64]models.Fee
}

func (s *stubFeeRepo) List(context.Context, models.FeeFilter) ([]models.Fee, error) {
	var out []models.Fee
	for _, f := range s.fees {
		out = append(out, f)
	}
	return out, nil
}

func (s *stubFeeRepo) FindByID(_ context.Context, id int64) (*models.Fee, error) {
	f, ok := s.fees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &f, nil
}

func (s *stubFeeRepo) Create(_ context.Context, fee *models.Fee) error {
	fee.ID = int64(len(s.fees) + 1)
	s.fees[fee.ID] = *fee
	return nil
}

func (s *stubFeeRepo) MarkPaid(_ context.Context, id int64, paymentDate time.Time) (bool, error) {
	f, ok := s.fees[id]
	if !ok || f.Status == models.FeePaid {
		return false, nil
	}
	f.Status = models.FeePaid
	f.PaymentDate = &paymentDate
	s.fees[id] = f
	return true, nil
}

func (s *stubFeeRepo) SumPaidAmount(context.Context) (float64, error) {
	var total float64
	for _, f := range s.fees {
		if f.Status == models.FeePaid {
			total += f.Amount
		}
	}
	return total, nil
}

func (s *stubFeeRepo) OutstandingAmount(context.Context) (float64, error) {
	var total float64
	for _, f := range s.fees {
		if f.Status != models.FeePaid {
			total += f.Amount
		}
	}
	return total, nil
}

type stubStudentLookup struct{}

func (stubStudentLookup) FindByID(_ context.Context, id int64) (*models.Student, error) {
	if id != 1 {
		return nil, sql.ErrNoRows
	}
	return &models.Student{ID: 1, FullName: "Abdi Hassan", Class: "10A"}, nil
}

func newFeeHandlerFixture(repo *stubFeeRepo) *FeeHandler {
	svc := service.NewFeeService(repo, stubStudentLookup{}, nil, nil, nil, "")
	return NewFeeHandler(svc)
}

func payRequest(h *FeeHandler, id string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/fees/"+id+"/pay", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.Pay(c)
	return rec
}

func TestPayPendingInvoice(t *testing.T) {
	repo := &stubFeeRepo{fees: map[int64]models.Fee{
		5: {ID: 5, StudentID: 1, StudentName: "Abdi Hassan", Type: models.FeeTuition, Amount: 100, Status: models.FeePending, DueDate: time.Now().Add(24 * time.Hour)},
	}}
	h := newFeeHandlerFixture(repo)

	rec := payRequest(h, "5")

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Paid", envelope.Data["status"])
	assert.NotEmpty(t, envelope.Data["paymentDate"])
}

func TestPayAlreadyPaidInvoiceConflicts(t *testing.T) {
	paid := time.Now()
	repo := &stubFeeRepo{fees: map[int64]models.Fee{
		5: {ID: 5, StudentID: 1, Status: models.FeePaid, Amount: 100, PaymentDate: &paid},
	}}
	h := newFeeHandlerFixture(repo)

	rec := payRequest(h, "5")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPayUnknownInvoice(t *testing.T) {
	h := newFeeHandlerFixture(&stubFeeRepo{fees: map[int64]models.Fee{}})

	rec := payRequest(h, "99")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateInvoiceForUnknownStudent(t *testing.T) {
	h := newFeeHandlerFixture(&stubFeeRepo{fees: map[int64]models.Fee{}})

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/fees", strings.NewReader(`{"studentId":42,"type":"Tuition","amount":100,"dueDate":"2026-10-01"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
