package update_booking_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bikawo/bikawo-booking-service/internal/api/middleware"
	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/service/bookings"
	"github.com/bikawo/bikawo-booking-service/internal/service/bookings/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	resp, _ := args.Get(0).(*models.BookingResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var provider = domain.Actor{UserID: uuid.New(), Role: domain.RoleProvider}

func serve(svc BookingService, bookingID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/status", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	req = req.WithContext(middleware.WithActor(req.Context(), provider))
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandler_UpdatesStatus(t *testing.T) {
	bookingID := uuid.New()
	svc := &mockService{}
	svc.On("UpdateStatus", mock.Anything, bookingID, &models.UpdateStatusRequest{Actor: provider, Status: "in_progress"}).
		Return(&models.BookingResponse{ID: bookingID, Status: "in_progress"}, nil)

	rec := serve(svc, bookingID.String(), `{"status":"in_progress"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"in_progress"`)
	svc.AssertExpectations(t)
}

func TestHandler_ValidationErrors(t *testing.T) {
	svc := &mockService{}

	rec := serve(svc, uuid.NewString(), `{"status":"paused"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"oneof=`)
	svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "not the provider", err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "cancel through status", err: bookings.ErrInvalidTransition, wantStatus: http.StatusConflict},
		{name: "concurrent update", err: bookings.ErrStatusConflict, wantStatus: http.StatusConflict},
		{name: "repository", err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(svc, uuid.NewString(), `{"status":"cancelled"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
