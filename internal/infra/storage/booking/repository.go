package booking

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

const table = "bookings"

var columns = []string{
	"id",
	"client_id",
	"provider_id",
	"service_type",
	"service_name",
	"booking_date",
	"start_time",
	"total_price",
	"status",
	"cancelled_by",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы параллельные
// отмены одного бронирования выполнялись последовательно.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id.String()})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetWithFilter получает список бронирований клиента или исполнителя.
// Сортировка: сначала ближайшие по дате услуги.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": filter.ClientID.String()})
	}
	if filter.ProviderID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"provider_id": filter.ProviderID.String()})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	query, args, err := selectBuilder.
		OrderBy("booking_date DESC", "start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWithFilter - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to.
// Если статус в БД уже не from, возвращает ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет бронирование одним условным UPDATE.
// Уже отменённое или завершённое бронирование не изменяется - в этом случае
// возвращается ErrStatusConflict, поэтому из двух параллельных отмен проходит одна.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, cancelledBy domain.CancelledBy, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(domain.StatusCancelled)).
		Set("cancelled_by", string(cancelledBy)).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String()}).
		Where(squirrel.NotEq{"status": []string{string(domain.StatusCancelled), string(domain.StatusCompleted)}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "Cancel", query, args)
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking            domain.Booking
		providerID         uuid.NullUUID
		cancelledBy        sql.NullString
		cancellationReason sql.NullString
		cancelledAt        sql.NullTime
		createdAt          sql.NullTime
		updatedAt          sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&providerID,
		&booking.ServiceType,
		&booking.ServiceName,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.TotalPrice,
		&booking.Status,
		&cancelledBy,
		&cancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if providerID.Valid {
		id := providerID.UUID
		booking.ProviderID = &id
	}
	if cancelledBy.Valid {
		actor := domain.CancelledBy(cancelledBy.String)
		booking.CancelledBy = &actor
	}
	if cancellationReason.Valid {
		reason := cancellationReason.String
		booking.CancellationReason = &reason
	}
	if cancelledAt.Valid {
		at := cancelledAt.Time
		booking.CancelledAt = &at
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
