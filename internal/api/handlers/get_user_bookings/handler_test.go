package get_user_bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bikawo/bikawo-booking-service/internal/api/middleware"
	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/service/bookings"
	"github.com/bikawo/bikawo-booking-service/internal/service/bookings/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetClientBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.BookingListResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc BookingService, userID, query string, actor domain.Actor) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/bookings"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"userId": userID})
	req = req.WithContext(middleware.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandler_ListsWithStatusFilter(t *testing.T) {
	actor := domain.Actor{UserID: uuid.New(), Role: domain.RoleClient}
	svc := &mockService{}
	svc.On("GetClientBookings", mock.Anything, mock.MatchedBy(func(r *models.GetUserBookingsRequest) bool {
		return r.UserID == actor.UserID && r.Actor == actor && r.Status != nil && *r.Status == "cancelled"
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: uuid.New(), Status: "cancelled"}}}, nil)

	rec := serve(svc, actor.UserID.String(), "?status=cancelled", actor)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []models.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 1)
	svc.AssertExpectations(t)
}

func TestHandler_NoFilter(t *testing.T) {
	actor := domain.Actor{UserID: uuid.New(), Role: domain.RoleClient}
	svc := &mockService{}
	svc.On("GetClientBookings", mock.Anything, mock.MatchedBy(func(r *models.GetUserBookingsRequest) bool {
		return r.Status == nil
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil)

	rec := serve(svc, actor.UserID.String(), "", actor)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_Errors(t *testing.T) {
	actor := domain.Actor{UserID: uuid.New(), Role: domain.RoleClient}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid status", err: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "other user", err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "repository", err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetClientBookings", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(svc, uuid.NewString(), "?status=x", actor)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	t.Run("invalid user id", func(t *testing.T) {
		rec := serve(&mockService{}, "7", "", actor)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
