package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
)

func newAgentCredService(m *mockManager) *AgentCredService {
	return NewAgentCredService(nil, m, fixedCipher{})
}

func TestAgentCredService_CreateEncryptsPassword(t *testing.T) {
	m := newMockManager()
	svc := newAgentCredService(m)

	created, err := svc.Create(context.Background(), &AgentCredInput{
		AgentID: "agent-7", Email: "a@x.com", Password: "pw",
	})
	require.NoError(t, err)

	assert.Equal(t, "pw", created.Password)
	assert.Equal(t, "enc:pw", m.agentCreds.rows[created.ID].Password)
}

func TestAgentCredService_ListDecrypts(t *testing.T) {
	m := newMockManager()
	svc := newAgentCredService(m)

	_, err := svc.Create(context.Background(), &AgentCredInput{AgentID: "a", Email: "a@x.com", Password: "pw-a"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &AgentCredInput{AgentID: "b", Email: "b@x.com", Password: "pw-b"})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, c := range list {
		assert.NotContains(t, c.Password, "enc:")
	}
}

func TestAgentCredService_UpdatePatch(t *testing.T) {
	m := newMockManager()
	svc := newAgentCredService(m)

	created, err := svc.Create(context.Background(), &AgentCredInput{
		AgentID: "agent-7", Email: "a@x.com", Password: "pw",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, &AgentCredPatch{Password: ptr("pw2")})
	require.NoError(t, err)
	assert.Equal(t, "agent-7", updated.AgentID)
	assert.Equal(t, "pw2", updated.Password)
	assert.Equal(t, "enc:pw2", m.agentCreds.rows[created.ID].Password)
}

func TestAgentCredService_UnknownIDs(t *testing.T) {
	m := newMockManager()
	svc := newAgentCredService(m)

	_, err := svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.Get(context.Background(), "1e8f9f7e-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = svc.Delete(context.Background(), "1e8f9f7e-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
