package client

import (
	"testing"

	"matchmaker_core/models"
	"matchmaker_core/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAdoptsCachedToken(t *testing.T) {
	dir := t.TempDir()
	cache, err := storage.NewCache(dir, "session.json")
	require.NoError(t, err)

	first := NewSession(cache, zerolog.Nop())
	first.SetToken("persisted")

	// A new process picks the credential back up.
	reopened, err := storage.NewCache(dir, "session.json")
	require.NoError(t, err)
	second := NewSession(reopened, zerolog.Nop())
	assert.Equal(t, "persisted", second.Token())
}

func TestAdoptProfileNarrowsActor(t *testing.T) {
	session := NewSession(nil, zerolog.Nop())
	assert.Empty(t, session.Role())

	session.adoptProfile(models.SessionProfile{
		User: models.Profile{ID: "alice", Role: models.RoleDater, FirstName: "Alice"},
	})
	_, isDater := session.Actor().(models.Dater)
	assert.True(t, isDater)
	assert.Equal(t, models.RoleDater, session.Role())

	referrer := &models.Profile{ID: "dave", Role: models.RoleDater}
	session.adoptProfile(models.SessionProfile{
		User:     models.Profile{ID: "mona", Role: models.RoleMatchmaker},
		Referrer: referrer,
	})
	_, isMatchmaker := session.Actor().(models.Matchmaker)
	assert.True(t, isMatchmaker)
	assert.Equal(t, referrer, session.Referrer())
}

func TestSelectedDaterPersistsToCache(t *testing.T) {
	cache, err := storage.NewCache(t.TempDir(), "session.json")
	require.NoError(t, err)
	session := NewSession(cache, zerolog.Nop())
	session.adoptProfile(models.SessionProfile{
		User: models.Profile{ID: "mona", Role: models.RoleMatchmaker},
	})

	session.setSelectedDater("alice")

	mm, ok := session.Actor().(models.Matchmaker)
	require.True(t, ok)
	assert.Equal(t, "alice", mm.SelectedDaterID)
	assert.Equal(t, "alice", cache.SelectedDaterID())
	assert.Equal(t, "alice", session.cachedSelectedDater())
}

func TestResetClearsEverything(t *testing.T) {
	cache, err := storage.NewCache(t.TempDir(), "session.json")
	require.NoError(t, err)
	session := NewSession(cache, zerolog.Nop())
	session.SetToken("tok-1")
	session.adoptProfile(models.SessionProfile{
		User: models.Profile{ID: "alice", Role: models.RoleDater},
	})

	session.Reset()

	assert.Empty(t, session.Token())
	assert.Nil(t, session.Actor())
	assert.Empty(t, cache.Token())

	// Idempotent.
	session.Reset()
}
