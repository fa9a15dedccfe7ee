package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Reason      string `json:"reason" validate:"required,max=5"`
	CancelledBy string `json:"cancelledBy" validate:"oneof=client provider"`
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondConflict(rec, "booking is already cancelled")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "booking is already cancelled", body.Error)
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"reason":"ok","cancelledBy":"client"}`},
		{name: "unknown field", body: `{"reason":"ok","userId":1}`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
		{name: "malformed", body: `{"reason":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var req sampleRequest
			err := DecodeJSON(r, &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(&sampleRequest{Reason: "ok", CancelledBy: "client"}))

	details := Validate(&sampleRequest{Reason: "too long", CancelledBy: "admin"})
	assert.Equal(t, "max=5", details["reason"])
	assert.Equal(t, "oneof=client provider", details["cancelledBy"])
}
