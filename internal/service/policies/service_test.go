package policies

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	policyRepo "github.com/bikawo/bikawo-booking-service/internal/infra/storage/policy"
	"github.com/bikawo/bikawo-booking-service/internal/service/policies/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, p *domain.StoredRefundPolicy) (*domain.StoredRefundPolicy, error) {
	args := m.Called(ctx, p)
	saved, _ := args.Get(0).(*domain.StoredRefundPolicy)
	return saved, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, id int64, p *domain.StoredRefundPolicy) (*domain.StoredRefundPolicy, error) {
	args := m.Called(ctx, id, p)
	saved, _ := args.Get(0).(*domain.StoredRefundPolicy)
	return saved, args.Error(1)
}

func (m *mockRepo) GetByServiceType(ctx context.Context, serviceType *string) (*domain.StoredRefundPolicy, error) {
	args := m.Called(ctx, serviceType)
	p, _ := args.Get(0).(*domain.StoredRefundPolicy)
	return p, args.Error(1)
}

func (m *mockRepo) GetWithHierarchy(ctx context.Context, serviceType *string) (*domain.StoredRefundPolicy, error) {
	args := m.Called(ctx, serviceType)
	p, _ := args.Get(0).(*domain.StoredRefundPolicy)
	return p, args.Error(1)
}

func (m *mockRepo) GetAll(ctx context.Context) ([]*domain.StoredRefundPolicy, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]*domain.StoredRefundPolicy)
	return p, args.Error(1)
}

// inlineTx выполняет функцию без транзакции
type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var admin = domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}

func strPtr(s string) *string { return &s }

func TestService_Resolve(t *testing.T) {
	cleaning := strPtr("cleaning")

	tests := []struct {
		name       string
		stored     *domain.StoredRefundPolicy
		repoErr    error
		wantPolicy domain.RefundPolicy
		wantSource string
		wantErr    error
	}{
		{
			name:       "service type policy",
			stored:     &domain.StoredRefundPolicy{ID: 2, ServiceType: cleaning, Policy: domain.RefundPolicy{MoreThan24h: 100, Between24hAnd2h: 80, LessThan2h: 10}},
			wantPolicy: domain.RefundPolicy{MoreThan24h: 100, Between24hAnd2h: 80, LessThan2h: 10},
			wantSource: models.SourceServiceType,
		},
		{
			name:       "global policy",
			stored:     &domain.StoredRefundPolicy{ID: 1, Policy: domain.AlternateRefundPolicy},
			wantPolicy: domain.AlternateRefundPolicy,
			wantSource: models.SourceGlobal,
		},
		{
			name:       "nothing stored",
			repoErr:    policyRepo.ErrPolicyNotFound,
			wantPolicy: domain.DefaultRefundPolicy,
			wantSource: models.SourceConfigured,
		},
		{
			name:       "stored policy out of range",
			stored:     &domain.StoredRefundPolicy{ID: 3, Policy: domain.RefundPolicy{MoreThan24h: 150}},
			wantPolicy: domain.DefaultRefundPolicy,
			wantSource: models.SourceConfigured,
		},
		{
			name:       "stored global policy NaN",
			stored:     &domain.StoredRefundPolicy{ID: 4, Policy: domain.RefundPolicy{MoreThan24h: math.NaN(), Between24hAnd2h: 50}},
			wantPolicy: domain.DefaultRefundPolicy,
			wantSource: models.SourceConfigured,
		},
		{
			name:    "repository failure",
			repoErr: errors.New("connection refused"),
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			repo.On("GetWithHierarchy", mock.Anything, mock.MatchedBy(func(s *string) bool {
				return s != nil && *s == "cleaning"
			})).Return(tt.stored, tt.repoErr)

			svc := NewService(repo, inlineTx{}, domain.DefaultRefundPolicy, nopLogger{})
			resolved, err := svc.Resolve(context.Background(), "cleaning")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPolicy, resolved.Policy)
			assert.Equal(t, tt.wantSource, resolved.Source)
		})
	}
}

func TestService_Resolve_InvalidServiceTypePolicyFallsBackToGlobal(t *testing.T) {
	cleaning := strPtr("cleaning")

	tests := []struct {
		name       string
		global     *domain.StoredRefundPolicy
		globalErr  error
		wantPolicy domain.RefundPolicy
		wantSource string
		wantErr    error
	}{
		{
			name:       "valid global policy",
			global:     &domain.StoredRefundPolicy{ID: 1, Policy: domain.AlternateRefundPolicy},
			wantPolicy: domain.AlternateRefundPolicy,
			wantSource: models.SourceGlobal,
		},
		{
			name:       "no global policy",
			globalErr:  policyRepo.ErrPolicyNotFound,
			wantPolicy: domain.DefaultRefundPolicy,
			wantSource: models.SourceConfigured,
		},
		{
			name:       "invalid global policy",
			global:     &domain.StoredRefundPolicy{ID: 1, Policy: domain.RefundPolicy{LessThan2h: -5}},
			wantPolicy: domain.DefaultRefundPolicy,
			wantSource: models.SourceConfigured,
		},
		{
			name:      "global lookup failure",
			globalErr: errors.New("connection reset"),
			wantErr:   ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			repo.On("GetWithHierarchy", mock.Anything, cleaning).Return(&domain.StoredRefundPolicy{
				ID:          2,
				ServiceType: cleaning,
				Policy:      domain.RefundPolicy{MoreThan24h: math.NaN(), Between24hAnd2h: 50},
			}, nil)
			repo.On("GetByServiceType", mock.Anything, (*string)(nil)).Return(tt.global, tt.globalErr)

			resolved, err := NewService(repo, inlineTx{}, domain.DefaultRefundPolicy, nopLogger{}).
				Resolve(context.Background(), "cleaning")

			repo.AssertExpectations(t)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPolicy, resolved.Policy)
			assert.Equal(t, tt.wantSource, resolved.Source)
		})
	}
}

func TestService_Resolve_EmptyServiceTypeQueriesGlobal(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetWithHierarchy", mock.Anything, (*string)(nil)).Return(nil, policyRepo.ErrPolicyNotFound)

	resolved, err := NewService(repo, inlineTx{}, domain.AlternateRefundPolicy, nopLogger{}).
		Resolve(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, domain.AlternateRefundPolicy, resolved.Policy)
	repo.AssertExpectations(t)
}

func TestService_Get(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetWithHierarchy", mock.Anything, (*string)(nil)).Return(nil, policyRepo.ErrPolicyNotFound)
	svc := NewService(repo, inlineTx{}, domain.DefaultRefundPolicy, nopLogger{})

	resp, err := svc.Get(context.Background(), admin, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SourceConfigured, resp.Source)
	assert.Equal(t, 50.0, resp.Between24hAnd2h)
	assert.Nil(t, resp.ID)

	_, err = svc.Get(context.Background(), domain.Actor{UserID: uuid.New(), Role: domain.RoleClient}, nil)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_List(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetAll", mock.Anything).Return([]*domain.StoredRefundPolicy{
		{ID: 1, Policy: domain.DefaultRefundPolicy, UpdatedAt: time.Now()},
		{ID: 2, ServiceType: strPtr("gardening"), Policy: domain.AlternateRefundPolicy, UpdatedAt: time.Now()},
	}, nil)

	resp, err := NewService(repo, inlineTx{}, domain.DefaultRefundPolicy, nopLogger{}).List(context.Background(), admin)

	require.NoError(t, err)
	require.Len(t, resp.Policies, 2)
	assert.Equal(t, models.SourceGlobal, resp.Policies[0].Source)
	assert.Equal(t, models.SourceServiceType, resp.Policies[1].Source)
}

func TestService_Update_CreatesWhenMissing(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByServiceType", mock.Anything, mock.Anything).Return(nil, policyRepo.ErrPolicyNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.StoredRefundPolicy) bool {
		return *p.ServiceType == "cleaning" && p.Policy.Between24hAnd2h == 70 && *p.UpdatedBy == admin.UserID.String()
	})).Return(&domain.StoredRefundPolicy{ID: 5, ServiceType: strPtr("cleaning"), Policy: domain.AlternateRefundPolicy}, nil)

	resp, err := NewService(repo, inlineTx{}, domain.DefaultRefundPolicy, nopLogger{}).Update(context.Background(), &models.UpdatePolicyRequest{
		Actor:           admin,
		ServiceType:     strPtr("  cleaning "),
		MoreThan24h:     100,
		Between24hAnd2h: 70,
		LessThan2h:      30,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), *resp.ID)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Update_ConcurrentCreate(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByServiceType", mock.Anything, mock.Anything).Return(nil, policyRepo.ErrPolicyNotFound)
	repo.On("Create", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: Create - unique violation", policyRepo.ErrPolicyExists))

	_, err := NewService(repo, inlineTx{}, domain.DefaultRefundPolicy, nopLogger{}).Update(context.Background(), &models.UpdatePolicyRequest{
		Actor:           admin,
		ServiceType:     strPtr("cleaning"),
		MoreThan24h:     100,
		Between24hAnd2h: 50,
		LessThan2h:      0,
	})

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestService_Update_UpdatesExisting(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByServiceType", mock.Anything, (*string)(nil)).
		Return(&domain.StoredRefundPolicy{ID: 1, Policy: domain.DefaultRefundPolicy}, nil)
	repo.On("Update", mock.Anything, int64(1), mock.Anything).
		Return(&domain.StoredRefundPolicy{ID: 1, Policy: domain.AlternateRefundPolicy}, nil)

	resp, err := NewService(repo, inlineTx{}, domain.DefaultRefundPolicy, nopLogger{}).Update(context.Background(), &models.UpdatePolicyRequest{
		Actor:           admin,
		MoreThan24h:     100,
		Between24hAnd2h: 70,
		LessThan2h:      30,
	})

	require.NoError(t, err)
	assert.Equal(t, models.SourceGlobal, resp.Source)
	repo.AssertExpectations(t)
}

func TestService_Update_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.UpdatePolicyRequest
		wantErr error
	}{
		{
			name:    "not an admin",
			req:     &models.UpdatePolicyRequest{Actor: domain.Actor{UserID: uuid.New(), Role: domain.RoleProvider}, MoreThan24h: 100},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "percentage above 100",
			req:     &models.UpdatePolicyRequest{Actor: admin, MoreThan24h: 120},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative percentage",
			req:     &models.UpdatePolicyRequest{Actor: admin, MoreThan24h: 100, LessThan2h: -1},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "blank service type",
			req:     &models.UpdatePolicyRequest{Actor: admin, ServiceType: strPtr("   "), MoreThan24h: 100},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			_, err := NewService(repo, inlineTx{}, domain.DefaultRefundPolicy, nopLogger{}).Update(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "GetByServiceType", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Update_RepositoryFailure(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByServiceType", mock.Anything, mock.Anything).Return(nil, errors.New("deadlock detected"))

	_, err := NewService(repo, inlineTx{}, domain.DefaultRefundPolicy, nopLogger{}).Update(context.Background(), &models.UpdatePolicyRequest{
		Actor:       admin,
		MoreThan24h: 100,
	})

	assert.ErrorIs(t, err, ErrInternal)
}
