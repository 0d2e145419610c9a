package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionManager_IssueAndParse(t *testing.T) {
	m := NewSessionManager(testConfig())

	id, token, err := m.Issue()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := m.Parse(token)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestSessionManager_RejectsForeignSecret(t *testing.T) {
	cfg := testConfig()
	m := NewSessionManager(cfg)
	_, token, err := m.Issue()
	require.NoError(t, err)

	cfg.Session.Secret = "other-secret"
	other := NewSessionManager(cfg)
	_, err = other.Parse(token)
	require.Error(t, err)
}

func TestSessionManager_RejectsExpiredToken(t *testing.T) {
	m := NewSessionManager(testConfig())
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }
	_, token, err := m.Issue()
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Parse(token)
	require.Error(t, err)
}
