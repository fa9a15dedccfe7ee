package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/pkg/dbmetrics"
	"github.com/bikawo/bikawo-booking-service/pkg/psqlbuilder"
)

const table = "payments"

var columns = []string{
	"id",
	"booking_id",
	"amount",
	"currency",
	"status",
	"gateway_reference",
	"refund_status",
	"refunded_amount",
	"refund_id",
	"refund_error",
	"refunded_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий платежей по бронированиям
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBookingID получает платеж бронирования.
// Внутри транзакции строка блокируется вместе с бронированием.
func (r *Repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"booking_id": bookingID.String()}).
		OrderBy("created_at DESC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	payment, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan payment: %v", ErrScanRow, err)
	}

	return payment, nil
}

// RecordRefund сохраняет результат попытки возврата.
// При успешном возврате статус платежа меняется на refunded или partially_refunded.
func (r *Repository) RecordRefund(ctx context.Context, payment *domain.Payment, outcome domain.RefundOutcome) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(table).
		Set("refund_status", string(outcome.Status)).
		Set("refunded_amount", outcome.Amount).
		Set("refund_id", outcome.RefundID).
		Set("refund_error", outcome.Error).
		Set("updated_at", squirrel.Expr("NOW()"))

	if outcome.Status == domain.RefundSucceeded {
		updateBuilder = updateBuilder.
			Set("status", string(payment.PaymentStatusAfterRefund(outcome.Amount))).
			Set("refunded_at", outcome.Timestamp)
	}

	query, args, err := updateBuilder.
		Where(squirrel.Eq{"id": payment.ID.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RecordRefund - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RecordRefund - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RecordRefund - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

// ListForReconciliation возвращает платежи с незавершенным или неудачным возвратом,
// начиная с самых старых
func (r *Repository) ListForReconciliation(ctx context.Context) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statuses := make([]string, 0, len(domain.ReconciliationStatuses))
	for _, s := range domain.ReconciliationStatuses {
		statuses = append(statuses, string(s))
	}

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"refund_status": statuses}).
		OrderBy("updated_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForReconciliation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForReconciliation - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListForReconciliation - scan row: %v", ErrScanRow, err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListForReconciliation - rows error: %v", ErrScanRow, err)
	}

	return payments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		payment          domain.Payment
		gatewayReference sql.NullString
		refundStatus     sql.NullString
		refundedAmount   sql.NullFloat64
		refundID         sql.NullString
		refundError      sql.NullString
		refundedAt       sql.NullTime
		createdAt        sql.NullTime
		updatedAt        sql.NullTime
	)

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&gatewayReference,
		&refundStatus,
		&refundedAmount,
		&refundID,
		&refundError,
		&refundedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if gatewayReference.Valid {
		ref := gatewayReference.String
		payment.GatewayReference = &ref
	}
	if refundStatus.Valid {
		status := domain.RefundStatus(refundStatus.String)
		payment.RefundStatus = &status
	}
	if refundedAmount.Valid {
		amount := refundedAmount.Float64
		payment.RefundedAmount = &amount
	}
	if refundID.Valid {
		id := refundID.String
		payment.RefundID = &id
	}
	if refundError.Valid {
		msg := refundError.String
		payment.RefundError = &msg
	}
	if refundedAt.Valid {
		at := refundedAt.Time
		payment.RefundedAt = &at
	}
	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return &payment, nil
}
