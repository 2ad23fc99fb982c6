package services

import (
	"testing"

	"matchmaker_core/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store   *Store
	matches *MatchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := NewStore()
	return &testEnv{
		store:   store,
		matches: &MatchService{Store: store, Log: zerolog.Nop()},
	}
}

func (e *testEnv) addDater(id, name string) string {
	return e.store.AddUser(User{ID: id, Role: models.RoleDater, FirstName: name})
}

func (e *testEnv) addMatchmaker(id, name string, linked ...string) string {
	mm := e.store.AddUser(User{ID: id, Role: models.RoleMatchmaker, FirstName: name})
	for _, d := range linked {
		e.store.LinkDater(mm, d)
	}
	return mm
}

func (e *testEnv) onlyMatch(t *testing.T, userID string) models.Match {
	t.Helper()
	list, err := e.matches.Matches(userID)
	require.NoError(t, err)
	all := append(append([]models.Match{}, list.Matched...), list.PendingApproval...)
	require.Len(t, all, 1)
	return all[0]
}

func TestLikeIsOneSidedUntilCrossed(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")

	require.NoError(t, env.matches.Like("alice", "bob"))

	list, err := env.matches.Matches("alice")
	require.NoError(t, err)
	assert.Empty(t, list.Matched)
	assert.Empty(t, list.PendingApproval)

	require.NoError(t, env.matches.Like("bob", "alice"))

	match := env.onlyMatch(t, "alice")
	assert.Equal(t, models.MatchStatusActive, match.Status)
	assert.Equal(t, models.BlindMatchRevealed, match.BlindMatch)
	assert.Equal(t, "bob", match.MatchUser.ID)
	assert.True(t, match.Direct())
}

func TestMediatedMatchStartsPendingApproval(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")
	env.addMatchmaker("mona", "Mona", "alice")

	require.NoError(t, env.matches.Like("mona", "bob"))
	require.NoError(t, env.matches.Like("bob", "alice"))

	match := env.onlyMatch(t, "bob")
	assert.Equal(t, models.MatchStatusPendingApproval, match.Status)
	assert.True(t, match.MatchmakerInvolved())
	assert.False(t, match.Direct())

	// The matchmaker sees the match scoped to the dater they act for.
	mmMatch := env.onlyMatch(t, "mona")
	assert.Equal(t, "bob", mmMatch.MatchUser.ID)
	require.NotNil(t, mmMatch.LinkedDater)
	assert.Equal(t, "alice", mmMatch.LinkedDater.ID)
}

func TestSendNoteRequiresNote(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")

	err := env.matches.SendNote("alice", "bob", "")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 400, serr.Status)

	require.NoError(t, env.matches.SendNote("alice", "bob", "hi bob"))

	// The note surfaces on bob's candidate card for alice.
	candidates, err := env.matches.Candidates("bob")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "alice", candidates[0].ID)
	assert.Equal(t, "hi bob", candidates[0].Note)
}

func TestBlindMatchIsImmediateAndHidden(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")
	env.addMatchmaker("mona", "Mona", "alice")

	require.NoError(t, env.matches.BlindMatch("mona", "bob"))

	match := env.onlyMatch(t, "bob")
	assert.Equal(t, models.BlindMatchBlind, match.BlindMatch)
	assert.Equal(t, models.MatchStatusPendingApproval, match.Status)
}

func TestBlindMatchForbiddenForDaters(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")

	err := env.matches.BlindMatch("alice", "bob")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 403, serr.Status)
}

func TestBlindMatchRejectedAfterLinkedDaterLiked(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")
	env.addMatchmaker("mona", "Mona", "alice")

	require.NoError(t, env.matches.Like("alice", "bob"))

	err := env.matches.BlindMatch("mona", "bob")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 400, serr.Status)
}

func TestRevealAndHide(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")
	env.addMatchmaker("mona", "Mona", "alice")

	require.NoError(t, env.matches.BlindMatch("mona", "bob"))
	matchID := env.onlyMatch(t, "mona").MatchID

	updated, err := env.matches.Reveal("mona", matchID)
	require.NoError(t, err)
	assert.Equal(t, models.BlindMatchRevealed, updated.BlindMatch)

	// Revealing again is a no-op success.
	updated, err = env.matches.Reveal("mona", matchID)
	require.NoError(t, err)
	assert.Equal(t, models.BlindMatchRevealed, updated.BlindMatch)

	updated, err = env.matches.Hide("mona", matchID)
	require.NoError(t, err)
	assert.Equal(t, models.BlindMatchBlind, updated.BlindMatch)

	// The counterpart dater is not a matchmaker party and cannot flip it.
	_, err = env.matches.Reveal("bob", matchID)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 403, serr.Status)
}

func TestApprovalFlow(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")
	env.addMatchmaker("mona", "Mona", "alice")

	require.NoError(t, env.matches.BlindMatch("mona", "bob"))
	matchID := env.onlyMatch(t, "mona").MatchID

	result, err := env.matches.Approve("bob", matchID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusPendingApproval, result.Status)
	assert.True(t, result.WaitingForOtherApproval)

	// Approving again from the same side changes nothing.
	result, err = env.matches.Approve("bob", matchID)
	require.NoError(t, err)
	assert.True(t, result.WaitingForOtherApproval)

	// The matchmaker approves for the side they mediate.
	result, err = env.matches.Approve("mona", matchID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusActive, result.Status)
	assert.False(t, result.WaitingForOtherApproval)

	// The transition is one-way.
	result, err = env.matches.Approve("bob", matchID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusActive, result.Status)

	match := env.onlyMatch(t, "bob")
	assert.Equal(t, models.MatchStatusActive, match.Status)
}

func TestUnmatchIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")
	env.addDater("eve", "Eve")

	require.NoError(t, env.matches.Like("alice", "bob"))
	require.NoError(t, env.matches.Like("bob", "alice"))
	matchID := env.onlyMatch(t, "alice").MatchID

	// A stranger cannot remove someone else's match.
	err := env.matches.Unmatch("eve", matchID)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 403, serr.Status)

	require.NoError(t, env.matches.Unmatch("bob", matchID))

	list, err := env.matches.Matches("alice")
	require.NoError(t, err)
	assert.Empty(t, list.Matched)
	assert.Empty(t, list.PendingApproval)

	err = env.matches.Unmatch("alice", matchID)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 404, serr.Status)
}

func TestCandidatesExcludeSelfAndMatched(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")
	env.addDater("carol", "Carol")

	require.NoError(t, env.matches.Like("alice", "bob"))
	require.NoError(t, env.matches.Like("bob", "alice"))

	candidates, err := env.matches.Candidates("alice")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "carol", candidates[0].ID)
}

func TestCandidatesExcludeAlreadyLikedForDaters(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")

	require.NoError(t, env.matches.Like("alice", "bob"))

	candidates, err := env.matches.Candidates("alice")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestCandidatesFlagLikedLinkedDaterForMatchmakers(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("bob", "Bob")
	env.addMatchmaker("mona", "Mona", "alice")

	require.NoError(t, env.matches.Like("alice", "bob"))

	candidates, err := env.matches.Candidates("mona")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "bob", candidates[0].ID)
	assert.True(t, candidates[0].LikedLinkedDater)
}

func TestCandidatesRespectSelectedDater(t *testing.T) {
	env := newTestEnv(t)
	env.addDater("alice", "Alice")
	env.addDater("dave", "Dave")
	env.addDater("bob", "Bob")
	env.addMatchmaker("mona", "Mona", "alice", "dave")
	referrals := &ReferralService{Store: env.store, Log: zerolog.Nop()}

	// Default acting context is the first linked dater.
	candidates, err := env.matches.Candidates("mona")
	require.NoError(t, err)
	ids := candidateIDs(candidates)
	assert.NotContains(t, ids, "alice")
	assert.Contains(t, ids, "dave")

	require.NoError(t, referrals.SetSelectedDater("mona", "dave"))

	candidates, err = env.matches.Candidates("mona")
	require.NoError(t, err)
	ids = candidateIDs(candidates)
	assert.Contains(t, ids, "alice")
	assert.NotContains(t, ids, "dave")
}

func TestMatchmakerWithoutLinkedDaters(t *testing.T) {
	env := newTestEnv(t)
	env.addMatchmaker("mona", "Mona")

	_, err := env.matches.Candidates("mona")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 400, serr.Status)
}

func candidateIDs(candidates []models.Candidate) []string {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	return ids
}
