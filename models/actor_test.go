package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorFromProfileNarrowing(t *testing.T) {
	dater := ActorFromProfile(Profile{ID: "alice", Role: RoleDater, FirstName: "Alice"})
	assert.Equal(t, RoleDater, dater.ActorRole())
	assert.IsType(t, Dater{}, dater)

	mm := ActorFromProfile(Profile{ID: "mona", Role: RoleMatchmaker, SelectedDaterID: "alice"})
	assert.Equal(t, RoleMatchmaker, mm.ActorRole())
	matchmaker, ok := mm.(Matchmaker)
	assert.True(t, ok)
	assert.Equal(t, "alice", matchmaker.SelectedDaterID)
}

func TestMatchmakerHasLinkedDater(t *testing.T) {
	mm := Matchmaker{LinkedDaters: []Dater{{ID: "alice"}, {ID: "dave"}}}
	assert.True(t, mm.HasLinkedDater("dave"))
	assert.False(t, mm.HasLinkedDater("bob"))
	assert.False(t, Matchmaker{}.HasLinkedDater("alice"))
}

func TestMatchPartitioning(t *testing.T) {
	direct := Match{}
	assert.True(t, direct.Direct())
	assert.False(t, direct.MatchmakerInvolved())

	mediated := Match{User1MatchmakerInvolved: true}
	assert.False(t, mediated.Direct())
	assert.True(t, mediated.MatchmakerInvolved())

	// A linked dater on the view alone keeps it out of the direct partition.
	withLinked := Match{LinkedDater: &Dater{ID: "alice"}}
	assert.False(t, withLinked.Direct())
}
