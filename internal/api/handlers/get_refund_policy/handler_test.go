package get_refund_policy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikawo/bikawo-booking-service/internal/api/middleware"
	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/service/policies"
	"github.com/bikawo/bikawo-booking-service/internal/service/policies/models"
)

type stubService struct {
	gotScope **string
	resp     *models.PolicyResponse
	err      error
}

func (s stubService) Get(_ context.Context, _ domain.Actor, serviceType *string) (*models.PolicyResponse, error) {
	*s.gotScope = serviceType
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc PolicyService, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/refund-policies"+query, nil)
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}))
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandler_ServiceTypeScope(t *testing.T) {
	var scope *string
	svc := stubService{gotScope: &scope, resp: &models.PolicyResponse{
		Source: models.SourceServiceType, MoreThan24h: 100, Between24hAnd2h: 70, LessThan2h: 30,
	}}

	rec := serve(svc, "?serviceType=cleaning")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, scope)
	assert.Equal(t, "cleaning", *scope)

	var resp models.PolicyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 70.0, resp.Between24hAnd2h)
}

func TestHandler_GlobalScope(t *testing.T) {
	var scope *string
	svc := stubService{gotScope: &scope, resp: &models.PolicyResponse{Source: models.SourceConfigured}}

	rec := serve(svc, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, scope)
}

func TestHandler_Errors(t *testing.T) {
	var scope *string

	rec := serve(stubService{gotScope: &scope, err: policies.ErrAccessDenied}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(stubService{gotScope: &scope, err: policies.ErrInternal}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
