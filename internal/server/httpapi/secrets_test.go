package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/auth"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/services"
)

// stubVault records calls and returns canned values.
type stubVault struct {
	secret  *models.Secret
	list    []*models.SecretSummary
	err     error
	actorID string
	gotID   string
	patch   *services.SecretPatch
}

func (s *stubVault) Create(ctx context.Context, actorID string, in *services.SecretInput) (*models.Secret, error) {
	s.actorID = actorID
	return s.secret, s.err
}

func (s *stubVault) List(ctx context.Context, actorID string) ([]*models.SecretSummary, error) {
	s.actorID = actorID
	return s.list, s.err
}

func (s *stubVault) Get(ctx context.Context, actorID, id string) (*models.Secret, error) {
	s.actorID, s.gotID = actorID, id
	return s.secret, s.err
}

func (s *stubVault) Update(ctx context.Context, actorID, id string, patch *services.SecretPatch) (*models.Secret, error) {
	s.actorID, s.gotID, s.patch = actorID, id, patch
	return s.secret, s.err
}

func (s *stubVault) Delete(ctx context.Context, actorID, id string) error {
	s.actorID, s.gotID = actorID, id
	return s.err
}

func secretsRouter(vault SecretVault) http.Handler {
	h := &Handlers{
		Secrets:    NewSecretHandler(vault),
		AgentCreds: NewAgentCredHandler(nil),
		NOCs:       NewNOCHandler(nil),
		Watermarks: NewWatermarkHandler(nil),
		Drafts:     NewDraftHandler(nil),
		Activity:   NewActivityHandler(nil),
		Uploads:    NewUploadHandler(nil),
	}
	return NewRouter(h, testSecret, testLogger())
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, auth.Actor{ID: "actor-1"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSecretsCreate_Created(t *testing.T) {
	vault := &stubVault{secret: &models.Secret{ID: "s1", Title: "Portal"}}
	router := secretsRouter(vault)

	rec := doJSON(t, router, http.MethodPost, "/api/secrets",
		`{"title":"Portal","username":"u","password":"p"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "actor-1", vault.actorID)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestSecretsCreate_ValidationFailure(t *testing.T) {
	vault := &stubVault{}
	router := secretsRouter(vault)

	rec := doJSON(t, router, http.MethodPost, "/api/secrets", `{"title":"no credentials"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSecretsCreate_RequiresAuth(t *testing.T) {
	router := secretsRouter(&stubVault{})

	req := httptest.NewRequest(http.MethodPost, "/api/secrets", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSecretsGet_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", common.ErrNotFound, http.StatusNotFound},
		{"forbidden", common.ErrForbidden, http.StatusForbidden},
		{"conflict", common.ErrConflict, http.StatusConflict},
		{"internal", anError(), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := secretsRouter(&stubVault{err: tc.err})
			rec := doJSON(t, router, http.MethodGet, "/api/secrets/abc", "")
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestSecretsUpdate_PatchSemantics(t *testing.T) {
	vault := &stubVault{secret: &models.Secret{ID: "s1"}}
	router := secretsRouter(vault)

	rec := doJSON(t, router, http.MethodPatch, "/api/secrets/s1", `{"note":"","password":"p2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, vault.patch)
	assert.Nil(t, vault.patch.Title, "absent field stays nil")
	require.NotNil(t, vault.patch.Note)
	assert.Equal(t, "", *vault.patch.Note, "empty string survives as explicit clear")
	require.NotNil(t, vault.patch.Password)
	assert.Equal(t, "p2", *vault.patch.Password)
}

func TestSecretsDelete(t *testing.T) {
	vault := &stubVault{}
	router := secretsRouter(vault)

	rec := doJSON(t, router, http.MethodDelete, "/api/secrets/s1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", vault.gotID)
}

func anError() error { return context.DeadlineExceeded }
