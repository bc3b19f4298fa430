package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-tanvu/mateluxy-backend/internal/server/auth"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
)

type stubRecorder struct {
	logged *models.ActivityLog
	filter models.ActivityFilter
}

func (s *stubRecorder) Log(ctx context.Context, entry *models.ActivityLog) (*models.ActivityLog, error) {
	s.logged = entry
	return entry, nil
}

func (s *stubRecorder) List(ctx context.Context, filter models.ActivityFilter) ([]*models.ActivityLog, error) {
	s.filter = filter
	return nil, nil
}

func activityRouter(rec ActivityRecorder) http.Handler {
	h := &Handlers{
		Secrets:    NewSecretHandler(nil),
		AgentCreds: NewAgentCredHandler(nil),
		NOCs:       NewNOCHandler(nil),
		Watermarks: NewWatermarkHandler(nil),
		Drafts:     NewDraftHandler(nil),
		Activity:   NewActivityHandler(rec),
		Uploads:    NewUploadHandler(nil),
	}
	return NewRouter(h, testSecret, testLogger())
}

func TestActivityCreate_RecordsForwardedIP(t *testing.T) {
	store := &stubRecorder{}
	router := activityRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/api/activity",
		strings.NewReader(`{"action":"login"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, auth.Actor{ID: "u1", Name: "Jane", Email: "jane@x.test"}))
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, store.logged)
	assert.Equal(t, "203.0.113.7", store.logged.IP)
	assert.Equal(t, "u1", store.logged.UserID)
	assert.Equal(t, "jane@x.test", store.logged.UserEmail)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		realIP       string
		want         string
	}{
		{"first forwarded hop", "203.0.113.7, 10.0.0.1", "", "203.0.113.7"},
		{"single forwarded entry", " 203.0.113.7 ", "", "203.0.113.7"},
		{"real-ip fallback", "", "198.51.100.2", "198.51.100.2"},
		{"remote addr fallback", "", "", "192.0.2.1:1234"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = "192.0.2.1:1234"
			if tc.forwardedFor != "" {
				r.Header.Set("X-Forwarded-For", tc.forwardedFor)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}
			assert.Equal(t, tc.want, clientIP(r))
		})
	}
}
