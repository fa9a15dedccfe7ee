package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/pkg/dbmetrics"
	"github.com/bikawo/bikawo-booking-service/pkg/psqlbuilder"
)

const (
	table = "refund_policies"

	// uniqueViolation одна политика на тип услуги (и одна глобальная)
	uniqueViolation = pq.ErrorCode("23505")
)

var columns = []string{
	"id",
	"service_type",
	"more_than_24h",
	"between_24h_and_2h",
	"less_than_2h",
	"updated_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий политик возврата
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик возврата
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую политику возврата
func (r *Repository) Create(ctx context.Context, policy *domain.StoredRefundPolicy) (*domain.StoredRefundPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"service_type",
			"more_than_24h",
			"between_24h_and_2h",
			"less_than_2h",
			"updated_by",
		).
		Values(
			policy.ServiceType,
			policy.Policy.MoreThan24h,
			policy.Policy.Between24hAnd2h,
			policy.Policy.LessThan2h,
			policy.UpdatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&policy.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: Create - unique violation: %v", ErrPolicyExists, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return policy, nil
}

// Update обновляет проценты существующей политики
func (r *Repository) Update(ctx context.Context, id int64, policy *domain.StoredRefundPolicy) (*domain.StoredRefundPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("more_than_24h", policy.Policy.MoreThan24h).
		Set("between_24h_and_2h", policy.Policy.Between24hAnd2h).
		Set("less_than_2h", policy.Policy.LessThan2h).
		Set("updated_by", policy.UpdatedBy).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	policy.ID = id
	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return policy, nil
}

// GetByServiceType получает политику для типа услуги.
// serviceType nil - глобальная политика.
func (r *Repository) GetByServiceType(ctx context.Context, serviceType *string) (*domain.StoredRefundPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	// Фильтрация по service_type (NULL или конкретное значение)
	if serviceType == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_type": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_type": *serviceType})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceType - build select query: %v", ErrBuildQuery, err)
	}

	policy, err := scanPolicy(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceType - scan policy: %v", ErrScanRow, err)
	}

	return policy, nil
}

// GetWithHierarchy получает политику с учетом приоритетов:
// 1. Политика для конкретного типа услуги (если serviceType указан)
// 2. Глобальная политика (service_type IS NULL)
//
// Если политика не найдена ни на одном уровне, возвращает ErrPolicyNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, serviceType *string) (*domain.StoredRefundPolicy, error) {
	// 1. Политика для типа услуги
	if serviceType != nil {
		policy, err := r.GetByServiceType(ctx, serviceType)
		if err == nil {
			return policy, nil
		}
		if !errors.Is(err, ErrPolicyNotFound) {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level 1 (service type): %v", ErrExecQuery, err)
		}
	}

	// 2. Глобальная политика
	policy, err := r.GetByServiceType(ctx, nil)
	if err == nil {
		return policy, nil
	}
	if !errors.Is(err, ErrPolicyNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 2 (global): %v", ErrExecQuery, err)
	}

	return nil, ErrPolicyNotFound
}

// GetAll получает все сохраненные политики, глобальная первой
func (r *Repository) GetAll(ctx context.Context) ([]*domain.StoredRefundPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("service_type ASC NULLS FIRST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	policies := make([]*domain.StoredRefundPolicy, 0)
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAll - scan row: %v", ErrScanRow, err)
		}
		policies = append(policies, policy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAll - rows error: %v", ErrScanRow, err)
	}

	return policies, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPolicy(row rowScanner) (*domain.StoredRefundPolicy, error) {
	var (
		policy      domain.StoredRefundPolicy
		serviceType sql.NullString
		updatedBy   sql.NullString
		createdAt   sql.NullTime
		updatedAt   sql.NullTime
	)

	err := row.Scan(
		&policy.ID,
		&serviceType,
		&policy.Policy.MoreThan24h,
		&policy.Policy.Between24hAnd2h,
		&policy.Policy.LessThan2h,
		&updatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if serviceType.Valid {
		st := serviceType.String
		policy.ServiceType = &st
	}
	if updatedBy.Valid {
		by := updatedBy.String
		policy.UpdatedBy = &by
	}
	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return &policy, nil
}
