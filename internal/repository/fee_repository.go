package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mss-edu/school-api/internal/models"
)

// FeeRepository manages persistence for fee invoices.
type FeeRepository struct {
	db *sqlx.DB
}

// NewFeeRepository constructs a FeeRepository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

const feeColumns = "id, student_id, student_name, type, amount, status, due_date, payment_date, created_at, updated_at"

// List returns invoices matching the filter, newest first.
func (r *FeeRepository) List(ctx context.Context, filter models.FeeFilter) ([]models.Fee, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StudentID > 0 {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	query := fmt.Sprintf("SELECT %s FROM fees WHERE %s ORDER BY id DESC", feeColumns, strings.Join(conditions, " AND "))

	var fees []models.Fee
	if err := r.db.SelectContext(ctx, &fees, query, args...); err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	return fees, nil
}

// FindByID fetches an invoice by primary key.
func (r *FeeRepository) FindByID(ctx context.Context, id int64) (*models.Fee, error) {
	query := fmt.Sprintf("SELECT %s FROM fees WHERE id = $1", feeColumns)
	var fee models.Fee
	if err := r.db.GetContext(ctx, &fee, query, id); err != nil {
		return nil, err
	}
	return &fee, nil
}

// Create raises a new invoice and assigns the generated id.
func (r *FeeRepository) Create(ctx context.Context, fee *models.Fee) error {
	now := time.Now().UTC()
	fee.CreatedAt = now
	fee.UpdatedAt = now
	const query = `INSERT INTO fees (student_id, student_name, type, amount, status, due_date, payment_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		fee.StudentID,
		fee.StudentName,
		fee.Type,
		fee.Amount,
		fee.Status,
		fee.DueDate,
		fee.PaymentDate,
		fee.CreatedAt,
		fee.UpdatedAt,
	).Scan(&fee.ID); err != nil {
		return fmt.Errorf("create fee: %w", err)
	}
	return nil
}

// MarkPaid transitions an unpaid invoice to Paid with the given payment
// date. The WHERE clause guards the state machine: a Paid invoice is
// terminal and matches no row.
func (r *FeeRepository) MarkPaid(ctx context.Context, id int64, paymentDate time.Time) (bool, error) {
	const query = `UPDATE fees SET status = $2, payment_date = $3, updated_at = $4 WHERE id = $1 AND status <> $2`
	res, err := r.db.ExecContext(ctx, query, id, models.FeePaid, paymentDate, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("mark fee paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark fee paid: %w", err)
	}
	return affected > 0, nil
}

// SumPaidAmount totals the amounts of Paid invoices. COALESCE keeps the
// result at zero when nothing has been paid.
func (r *FeeRepository) SumPaidAmount(ctx context.Context) (float64, error) {
	var total float64
	const query = `SELECT COALESCE(SUM(amount), 0) FROM fees WHERE status = $1`
	if err := r.db.GetContext(ctx, &total, query, models.FeePaid); err != nil {
		return 0, fmt.Errorf("sum paid fees: %w", err)
	}
	return total, nil
}

// OutstandingAmount totals the amounts of invoices not yet paid.
func (r *FeeRepository) OutstandingAmount(ctx context.Context) (float64, error) {
	var total float64
	const query = `SELECT COALESCE(SUM(amount), 0) FROM fees WHERE status <> $1`
	if err := r.db.GetContext(ctx, &total, query, models.FeePaid); err != nil {
		return 0, fmt.Errorf("sum outstanding fees: %w", err)
	}
	return total, nil
}
