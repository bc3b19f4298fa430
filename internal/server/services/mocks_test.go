package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
	"github.com/dev-tanvu/mateluxy-backend/internal/dbx"
	"github.com/dev-tanvu/mateluxy-backend/internal/logging"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/models"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/activity"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/agentcreds"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/drafts"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/nocs"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/secrets"
	"github.com/dev-tanvu/mateluxy-backend/internal/server/repositories/watermarks"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func ptr[T any](v T) *T { return &v }

// fixedCipher is a trivially reversible cipher so tests can observe exactly
// what reaches the repositories.
type fixedCipher struct{}

func (fixedCipher) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (fixedCipher) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, "enc:") {
		return "", errors.New("malformed ciphertext")
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

// memSecrets is an in-memory secrets.Repository.
type memSecrets struct {
	rows map[string]*models.Secret
	seq  int
}

func newMemSecrets() *memSecrets { return &memSecrets{rows: map[string]*models.Secret{}} }

func (m *memSecrets) Create(ctx context.Context, s *models.Secret) (*models.Secret, error) {
	cp := *s
	cp.ID = uuid.NewString()
	m.seq++
	cp.CreatedAt = time.Unix(int64(m.seq), 0)
	cp.UpdatedAt = cp.CreatedAt
	m.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memSecrets) List(ctx context.Context) ([]*models.Secret, error) {
	out := make([]*models.Secret, 0, len(m.rows))
	for _, s := range m.rows {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memSecrets) Get(ctx context.Context, id string) (*models.Secret, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSecrets) Update(ctx context.Context, s *models.Secret) (*models.Secret, error) {
	if _, ok := m.rows[s.ID]; !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	cp.UpdatedAt = time.Now()
	m.rows[s.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memSecrets) Delete(ctx context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// memAgentCreds is an in-memory agentcreds.Repository.
type memAgentCreds struct {
	rows map[string]*models.AgentCredential
}

func newMemAgentCreds() *memAgentCreds {
	return &memAgentCreds{rows: map[string]*models.AgentCredential{}}
}

func (m *memAgentCreds) Create(ctx context.Context, c *models.AgentCredential) (*models.AgentCredential, error) {
	cp := *c
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memAgentCreds) List(ctx context.Context) ([]*models.AgentCredential, error) {
	out := make([]*models.AgentCredential, 0, len(m.rows))
	for _, c := range m.rows {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memAgentCreds) Get(ctx context.Context, id string) (*models.AgentCredential, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memAgentCreds) Update(ctx context.Context, c *models.AgentCredential) (*models.AgentCredential, error) {
	if _, ok := m.rows[c.ID]; !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	m.rows[c.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memAgentCreds) Delete(ctx context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// memNOCs is an in-memory nocs.Repository enforcing the unique client
// phone.
type memNOCs struct {
	rows map[string]*models.NOC
}

func newMemNOCs() *memNOCs { return &memNOCs{rows: map[string]*models.NOC{}} }

func (m *memNOCs) Insert(ctx context.Context, n *models.NOC) error {
	for _, existing := range m.rows {
		if existing.ClientPhone == n.ClientPhone {
			return common.ErrConflict
		}
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	for i := range n.Owners {
		n.Owners[i].ID = uuid.NewString()
		n.Owners[i].NOCID = n.ID
	}
	cp := *n
	cp.Owners = append([]models.NOCOwner(nil), n.Owners...)
	m.rows[n.ID] = &cp
	return nil
}

func (m *memNOCs) List(ctx context.Context) ([]*models.NOC, error) {
	out := make([]*models.NOC, 0, len(m.rows))
	for _, n := range m.rows {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memNOCs) Get(ctx context.Context, id string) (*models.NOC, error) {
	n, ok := m.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *n
	cp.Owners = append([]models.NOCOwner(nil), n.Owners...)
	return &cp, nil
}

func (m *memNOCs) SetPDFURL(ctx context.Context, id string, url string) error {
	n, ok := m.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	n.PDFURL = &url
	return nil
}

// memWatermarks is an in-memory watermarks.Repository.
type memWatermarks struct {
	rows map[string]*models.Watermark
}

func newMemWatermarks() *memWatermarks {
	return &memWatermarks{rows: map[string]*models.Watermark{}}
}

func (m *memWatermarks) Create(ctx context.Context, w *models.Watermark) (*models.Watermark, error) {
	cp := *w
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memWatermarks) List(ctx context.Context) ([]*models.Watermark, error) {
	out := make([]*models.Watermark, 0, len(m.rows))
	for _, w := range m.rows {
		cp := *w
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memWatermarks) Get(ctx context.Context, id string) (*models.Watermark, error) {
	w, ok := m.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memWatermarks) GetActive(ctx context.Context) (*models.Watermark, error) {
	for _, w := range m.rows {
		if w.IsActive {
			cp := *w
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memWatermarks) Update(ctx context.Context, w *models.Watermark) (*models.Watermark, error) {
	if _, ok := m.rows[w.ID]; !ok {
		return nil, common.ErrNotFound
	}
	cp := *w
	m.rows[w.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memWatermarks) DeactivateAll(ctx context.Context) error {
	for _, w := range m.rows {
		w.IsActive = false
	}
	return nil
}

func (m *memWatermarks) SetActive(ctx context.Context, id string, active bool) error {
	w, ok := m.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	w.IsActive = active
	return nil
}

func (m *memWatermarks) Delete(ctx context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// memDrafts is an in-memory drafts.Repository.
type memDrafts struct {
	rows map[string]*models.PropertyDraft
	seq  int
}

func newMemDrafts() *memDrafts { return &memDrafts{rows: map[string]*models.PropertyDraft{}} }

func (m *memDrafts) Create(ctx context.Context, d *models.PropertyDraft) (*models.PropertyDraft, error) {
	cp := *d
	cp.ID = uuid.NewString()
	m.seq++
	cp.CreatedAt = time.Unix(int64(m.seq), 0)
	cp.UpdatedAt = cp.CreatedAt
	m.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memDrafts) Update(ctx context.Context, d *models.PropertyDraft) (*models.PropertyDraft, error) {
	if _, ok := m.rows[d.ID]; !ok {
		return nil, common.ErrNotFound
	}
	cp := *d
	m.seq++
	cp.UpdatedAt = time.Unix(int64(m.seq), 0)
	m.rows[d.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memDrafts) Get(ctx context.Context, id string) (*models.PropertyDraft, error) {
	d, ok := m.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDrafts) List(ctx context.Context, userID string) ([]*models.PropertyDraft, error) {
	out := make([]*models.PropertyDraft, 0, len(m.rows))
	for _, d := range m.rows {
		if userID != "" && d.UserID != userID {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memDrafts) Delete(ctx context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// memActivity is an in-memory activity.Repository.
type memActivity struct {
	rows []*models.ActivityLog
}

func newMemActivity() *memActivity { return &memActivity{} }

func (m *memActivity) Create(ctx context.Context, l *models.ActivityLog) (*models.ActivityLog, error) {
	cp := *l
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	m.rows = append(m.rows, &cp)
	out := cp
	return &out, nil
}

func (m *memActivity) List(ctx context.Context, filter models.ActivityFilter) ([]*models.ActivityLog, error) {
	out := make([]*models.ActivityLog, 0, len(m.rows))
	for _, l := range m.rows {
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			hay := strings.ToLower(l.Action + " " + l.UserName + " " + l.UserEmail)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

// mockManager vends the in-memory repositories regardless of the DBTX it
// is handed, so transactional code paths run against the same state.
type mockManager struct {
	secrets    *memSecrets
	agentCreds *memAgentCreds
	nocs       *memNOCs
	watermarks *memWatermarks
	drafts     *memDrafts
	activity   *memActivity
}

func newMockManager() *mockManager {
	return &mockManager{
		secrets:    newMemSecrets(),
		agentCreds: newMemAgentCreds(),
		nocs:       newMemNOCs(),
		watermarks: newMemWatermarks(),
		drafts:     newMemDrafts(),
		activity:   newMemActivity(),
	}
}

func (m *mockManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (m *mockManager) Secrets(db dbx.DBTX) secrets.Repository          { return m.secrets }
func (m *mockManager) AgentCreds(db dbx.DBTX) agentcreds.Repository    { return m.agentCreds }
func (m *mockManager) NOCs(db dbx.DBTX) nocs.Repository                { return m.nocs }
func (m *mockManager) Watermarks(db dbx.DBTX) watermarks.Repository    { return m.watermarks }
func (m *mockManager) Drafts(db dbx.DBTX) drafts.Repository            { return m.drafts }
func (m *mockManager) Activity(db dbx.DBTX) activity.Repository        { return m.activity }

// fakeBlob is an in-memory blob.Store.
type fakeBlob struct {
	objects    map[string][]byte
	types      map[string]string
	seq        int
	failStore  bool
	failDelete bool
	deleted    []string
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBlob) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	if f.failStore {
		return "", errors.New("blob unavailable")
	}
	f.seq++
	url := fmt.Sprintf("https://blob.test/%d", f.seq)
	f.objects[url] = data
	f.types[url] = contentType
	return url, nil
}

func (f *fakeBlob) Fetch(ctx context.Context, url string) ([]byte, error) {
	data, ok := f.objects[url]
	if !ok {
		return nil, errors.New("no such object")
	}
	return data, nil
}

func (f *fakeBlob) Delete(ctx context.Context, url string) error {
	if f.failDelete {
		return errors.New("blob unavailable")
	}
	f.deleted = append(f.deleted, url)
	delete(f.objects, url)
	return nil
}

// fakeRenderer returns canned PDF bytes or a canned error.
type fakeRenderer struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeRenderer) RenderAgreement(ctx context.Context, noc *models.NOC) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}
