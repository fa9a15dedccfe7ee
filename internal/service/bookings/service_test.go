package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	bookingRepo "github.com/bikawo/bikawo-booking-service/internal/infra/storage/booking"
	"github.com/bikawo/bikawo-booking-service/internal/service/bookings/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *mockRepo) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	b, _ := args.Get(0).([]*domain.Booking)
	return b, args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newBooking(status domain.BookingStatus) *domain.Booking {
	provider := uuid.New()
	return &domain.Booking{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		ProviderID:  &provider,
		ServiceType: "cleaning",
		ServiceName: "Ménage",
		BookingDate: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		TotalPrice:  100,
		Status:      status,
	}
}

func TestService_GetByID(t *testing.T) {
	booking := newBooking(domain.StatusConfirmed)

	tests := []struct {
		name    string
		actor   domain.Actor
		wantErr error
	}{
		{name: "client", actor: domain.Actor{UserID: booking.ClientID, Role: domain.RoleClient}},
		{name: "provider", actor: domain.Actor{UserID: *booking.ProviderID, Role: domain.RoleProvider}},
		{name: "admin", actor: domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}},
		{name: "stranger", actor: domain.Actor{UserID: uuid.New(), Role: domain.RoleClient}, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
			svc := NewService(repo, nopLogger{})

			resp, err := svc.GetByID(context.Background(), booking.ID, tt.actor)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, booking.ID, resp.ID)
			assert.Equal(t, "2026-03-11", resp.BookingDate)
			assert.Equal(t, "confirmed", resp.Status)
		})
	}
}

func TestService_GetByID_NotFound(t *testing.T) {
	repo := &mockRepo{}
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := NewService(repo, nopLogger{}).GetByID(context.Background(), id, domain.Actor{Role: domain.RoleAdmin})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_GetClientBookings(t *testing.T) {
	clientID := uuid.New()
	status := "cancelled"
	repo := &mockRepo{}
	repo.On("GetWithFilter", mock.Anything, mock.MatchedBy(func(f domain.BookingsFilter) bool {
		return f.ClientID != nil && *f.ClientID == clientID && f.Status != nil && *f.Status == domain.StatusCancelled
	})).Return([]*domain.Booking{newBooking(domain.StatusCancelled)}, nil)

	resp, err := NewService(repo, nopLogger{}).GetClientBookings(context.Background(), &models.GetUserBookingsRequest{
		Actor:  domain.Actor{UserID: clientID, Role: domain.RoleClient},
		UserID: clientID,
		Status: &status,
	})

	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}

func TestService_GetClientBookings_Errors(t *testing.T) {
	svc := NewService(&mockRepo{}, nopLogger{})
	clientID := uuid.New()

	_, err := svc.GetClientBookings(context.Background(), &models.GetUserBookingsRequest{
		Actor:  domain.Actor{UserID: uuid.New(), Role: domain.RoleClient},
		UserID: clientID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	bad := "archived"
	_, err = svc.GetClientBookings(context.Background(), &models.GetUserBookingsRequest{
		Actor:  domain.Actor{UserID: clientID, Role: domain.RoleClient},
		UserID: clientID,
		Status: &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetProviderBookings(t *testing.T) {
	providerID := uuid.New()
	repo := &mockRepo{}
	repo.On("GetWithFilter", mock.Anything, mock.MatchedBy(func(f domain.BookingsFilter) bool {
		return f.ProviderID != nil && *f.ProviderID == providerID && f.ClientID == nil
	})).Return([]*domain.Booking{}, nil)

	resp, err := NewService(repo, nopLogger{}).GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		Actor:      domain.Actor{UserID: providerID, Role: domain.RoleProvider},
		ProviderID: providerID,
	})

	require.NoError(t, err)
	assert.NotNil(t, resp.Bookings)
	assert.Empty(t, resp.Bookings)
}

func TestService_GetProviderBookings_InvalidPeriod(t *testing.T) {
	providerID := uuid.New()
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	_, err := NewService(&mockRepo{}, nopLogger{}).GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		Actor:      domain.Actor{UserID: providerID, Role: domain.RoleProvider},
		ProviderID: providerID,
		StartDate:  &start,
		EndDate:    &end,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UpdateStatus(t *testing.T) {
	booking := newBooking(domain.StatusConfirmed)
	repo := &mockRepo{}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	repo.On("UpdateStatus", mock.Anything, booking.ID, domain.StatusConfirmed, domain.StatusInProgress).Return(nil)

	resp, err := NewService(repo, nopLogger{}).UpdateStatus(context.Background(), booking.ID, &models.UpdateStatusRequest{
		Actor:  domain.Actor{UserID: *booking.ProviderID, Role: domain.RoleProvider},
		Status: "in_progress",
	})

	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Status)
	repo.AssertExpectations(t)
}

func TestService_UpdateStatus_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		current domain.BookingStatus
		target  string
		asAdmin bool
		repoErr error
		wantErr error
	}{
		{name: "unknown status", current: domain.StatusPending, target: "archived", asAdmin: true, wantErr: ErrInvalidStatus},
		{name: "cancel through status endpoint", current: domain.StatusPending, target: "cancelled", asAdmin: true, wantErr: ErrInvalidTransition},
		{name: "skip steps", current: domain.StatusPending, target: "completed", asAdmin: true, wantErr: ErrInvalidTransition},
		{name: "from terminal", current: domain.StatusCompleted, target: "in_progress", asAdmin: true, wantErr: ErrInvalidTransition},
		{name: "not the provider", current: domain.StatusPending, target: "confirmed", wantErr: ErrAccessDenied},
		{name: "concurrent change", current: domain.StatusPending, target: "confirmed", asAdmin: true, repoErr: bookingRepo.ErrStatusConflict, wantErr: ErrStatusConflict},
		{name: "repository failure", current: domain.StatusPending, target: "confirmed", asAdmin: true, repoErr: errors.New("db down"), wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := newBooking(tt.current)
			repo := &mockRepo{}
			repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
			repo.On("UpdateStatus", mock.Anything, booking.ID, mock.Anything, mock.Anything).Return(tt.repoErr)

			actor := domain.Actor{UserID: uuid.New(), Role: domain.RoleProvider}
			if tt.asAdmin {
				actor.Role = domain.RoleAdmin
			}

			_, err := NewService(repo, nopLogger{}).UpdateStatus(context.Background(), booking.ID, &models.UpdateStatusRequest{
				Actor:  actor,
				Status: tt.target,
			})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
