package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
)

func newSecretService(m *mockManager) *SecretService {
	return NewSecretService(nil, m, fixedCipher{})
}

func TestSecretService_CreateEncryptsAtRest(t *testing.T) {
	m := newMockManager()
	svc := newSecretService(m)

	created, err := svc.Create(context.Background(), "owner", &SecretInput{
		Title:    "Portal",
		Username: "jane",
		Password: "hunter2",
	})
	require.NoError(t, err)

	// caller sees plaintext
	assert.Equal(t, "jane", created.Username)
	assert.Equal(t, "hunter2", created.Password)
	assert.Equal(t, "owner", created.CreatedBy)
	assert.Equal(t, []string{}, created.AccessIDs)

	// repository sees ciphertext only
	stored := m.secrets.rows[created.ID]
	assert.Equal(t, "enc:jane", stored.Username)
	assert.Equal(t, "enc:hunter2", stored.Password)
}

func TestSecretService_GetRoundTrip(t *testing.T) {
	m := newMockManager()
	svc := newSecretService(m)

	created, err := svc.Create(context.Background(), "owner", &SecretInput{Username: "u", Password: "p"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "owner", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "u", got.Username)
	assert.Equal(t, "p", got.Password)
}

func TestSecretService_NotFoundPrecedesForbidden(t *testing.T) {
	m := newMockManager()
	svc := newSecretService(m)

	created, err := svc.Create(context.Background(), "owner", &SecretInput{Username: "u", Password: "p"})
	require.NoError(t, err)

	// unknown id: NotFound even for a caller with no access anywhere
	_, err = svc.Get(context.Background(), "stranger", "1e8f9f7e-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// malformed id never reaches the repository
	_, err = svc.Get(context.Background(), "stranger", "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// existing record without access: Forbidden
	_, err = svc.Get(context.Background(), "stranger", created.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestSecretService_AccessIDGrantsAccess(t *testing.T) {
	m := newMockManager()
	svc := newSecretService(m)

	created, err := svc.Create(context.Background(), "owner", &SecretInput{
		Username:  "u",
		Password:  "p",
		AccessIDs: []string{"colleague"},
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "colleague", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "u", got.Username)
}

func TestSecretService_ListSummariesHideCredentials(t *testing.T) {
	m := newMockManager()
	svc := newSecretService(m)

	first, err := svc.Create(context.Background(), "owner", &SecretInput{Title: "first", Username: "u", Password: "p"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), "owner", &SecretInput{
		Title: "second", Username: "u", Password: "p", AccessIDs: []string{"stranger"},
	})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), "stranger")
	require.NoError(t, err)
	require.Len(t, list, 2)

	// newest first
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	assert.True(t, list[0].HasAccess)
	assert.False(t, list[1].HasAccess)
}

func TestSecretService_UpdatePartialPatch(t *testing.T) {
	m := newMockManager()
	svc := newSecretService(m)

	created, err := svc.Create(context.Background(), "owner", &SecretInput{
		Title: "t", Note: "keep or clear", Username: "u", Password: "p",
	})
	require.NoError(t, err)

	oldCipher := m.secrets.rows[created.ID].Password

	updated, err := svc.Update(context.Background(), "owner", created.ID, &SecretPatch{
		Note:     ptr(""), // explicit clear
		Password: ptr("p2"),
	})
	require.NoError(t, err)

	assert.Equal(t, "t", updated.Title, "omitted field untouched")
	assert.Equal(t, "", updated.Note, "empty string clears")
	assert.Equal(t, "u", updated.Username)
	assert.Equal(t, "p2", updated.Password)

	stored := m.secrets.rows[created.ID]
	assert.Equal(t, "enc:u", stored.Username, "unchanged field keeps its ciphertext")
	assert.NotEqual(t, oldCipher, stored.Password, "changed field re-encrypted")
	assert.Equal(t, "enc:p2", stored.Password)
}

func TestSecretService_UpdateForbiddenForStranger(t *testing.T) {
	m := newMockManager()
	svc := newSecretService(m)

	created, err := svc.Create(context.Background(), "owner", &SecretInput{Username: "u", Password: "p"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "stranger", created.ID, &SecretPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestSecretService_Delete(t *testing.T) {
	m := newMockManager()
	svc := newSecretService(m)

	created, err := svc.Create(context.Background(), "owner", &SecretInput{Username: "u", Password: "p"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), "stranger", created.ID), common.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), "owner", created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), "owner", created.ID), common.ErrNotFound)
}
