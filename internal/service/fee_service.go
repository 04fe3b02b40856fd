package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mss-edu/school-api/internal/dto"
	"github.com/mss-edu/school-api/internal/models"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
	"github.com/mss-edu/school-api/pkg/export"
)

type feeRepository interface {
	List(ctx context.Context, filter models.FeeFilter) ([]models.Fee, error)
	FindByID(ctx context.Context, id int64) (*models.Fee, error)
	Create(ctx context.Context, fee *models.Fee) error
	MarkPaid(ctx context.Context, id int64, paymentDate time.Time) (bool, error)
	SumPaidAmount(ctx context.Context) (float64, error)
	OutstandingAmount(ctx context.Context) (float64, error)
}

type feeStudentLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// FeeService implements invoice use cases, including the Pending → Paid /
// Pending → Overdue state machine.
type FeeService struct {
	repo      feeRepository
	students  feeStudentLookup
	cache     *CacheService
	csv       *export.CSVExporter
	validator *validator.Validate
	logger    *zap.Logger
	currency  string
	now       func() time.Time
}

// NewFeeService constructs a FeeService. Amounts carry the given currency
// in summaries and exports.
func NewFeeService(repo feeRepository, students feeStudentLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger, currency string) *FeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = "USD"
	}
	return &FeeService{
		repo:      repo,
		students:  students,
		cache:     cache,
		csv:       export.NewCSVExporter(),
		validator: validate,
		logger:    logger,
		currency:  currency,
		now:       time.Now,
	}
}

// List returns invoices with their read-time status classification.
func (s *FeeService) List(ctx context.Context, filter models.FeeFilter) ([]dto.FeeResponse, error) {
	return s.listClassified(ctx, filter)
}

// listClassified loads invoices and applies the read-time status rules.
// Overdue is never stored, so an Overdue or Pending filter loads the stored
// Pending rows and splits them against the clock. Every fee reader goes
// through here so the listing and the export can never disagree.
func (s *FeeService) listClassified(ctx context.Context, filter models.FeeFilter) ([]dto.FeeResponse, error) {
	wanted := filter.Status
	if wanted == models.FeeOverdue || wanted == models.FeePending {
		filter.Status = models.FeePending
	}

	fees, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fees")
	}

	out := dto.NewFeeResponses(fees, s.now())
	if wanted == models.FeeOverdue || wanted == models.FeePending {
		filtered := out[:0]
		for _, f := range out {
			if f.Status == wanted {
				filtered = append(filtered, f)
			}
		}
		out = filtered
	}
	return out, nil
}

// Create raises an invoice against an existing student, denormalising the
// student name at creation time.
func (s *FeeService) Create(ctx context.Context, req dto.CreateFeeRequest) (*dto.FeeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid due date")
	}

	fee := models.Fee{
		StudentID:   student.ID,
		StudentName: student.FullName,
		Type:        models.FeeType(req.Type),
		Amount:      req.Amount,
		Status:      models.FeePending,
		DueDate:     dueDate,
	}

	if err := s.repo.Create(ctx, &fee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fee")
	}

	res := dto.NewFeeResponse(fee, s.now())
	return &res, nil
}

// MarkPaid settles an invoice. Valid from Pending or Overdue; Paid is
// terminal and yields a conflict. There is no un-pay operation.
func (s *FeeService) MarkPaid(ctx context.Context, id int64) (*dto.FeeResponse, error) {
	fee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee")
	}

	if fee.Status == models.FeePaid {
		return nil, appErrors.Clone(appErrors.ErrConflict, "invoice is already paid")
	}

	paidAt := s.now().UTC()
	ok, err := s.repo.MarkPaid(ctx, id, paidAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark fee paid")
	}
	if !ok {
		// Lost the race to a concurrent payment.
		return nil, appErrors.Clone(appErrors.ErrConflict, "invoice is already paid")
	}

	if err := s.cache.Invalidate(ctx, statsCachePattern); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}

	fee.Status = models.FeePaid
	fee.PaymentDate = &paidAt
	res := dto.NewFeeResponse(*fee, s.now())
	return &res, nil
}

// Summary aggregates the finance header cards: collected revenue,
// outstanding dues and the total invoiced.
func (s *FeeService) Summary(ctx context.Context) (*models.FeeSummary, error) {
	collected, err := s.repo.SumPaidAmount(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum collected fees")
	}
	outstanding, err := s.repo.OutstandingAmount(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum outstanding fees")
	}
	return &models.FeeSummary{
		Collected:     collected,
		Outstanding:   outstanding,
		TotalInvoiced: collected + outstanding,
		Currency:      s.currency,
	}, nil
}

// Export renders the invoice ledger as CSV. The rows carry the same
// read-time classification the listing shows.
func (s *FeeService) Export(ctx context.Context, filter models.FeeFilter) ([]byte, error) {
	fees, err := s.listClassified(ctx, filter)
	if err != nil {
		return nil, err
	}

	amountHeader := fmt.Sprintf("Amount (%s)", s.currency)
	data := export.Dataset{
		Headers: []string{"ID", "Student", "Type", amountHeader, "Status", "Due Date", "Payment Date"},
	}
	for _, f := range fees {
		payment := ""
		if f.PaymentDate != nil {
			payment = f.PaymentDate.Format("2006-01-02")
		}
		data.Rows = append(data.Rows, map[string]string{
			"ID":           strconv.FormatInt(f.ID, 10),
			"Student":      f.StudentName,
			"Type":         string(f.Type),
			amountHeader:   formatAmount(f.Amount),
			"Status":       string(f.Status),
			"Due Date":     f.DueDate.Format("2006-01-02"),
			"Payment Date": payment,
		})
	}

	out, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render fee export")
	}
	return out, nil
}
