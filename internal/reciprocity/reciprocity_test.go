package reciprocity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anonto42/eventmatch/backend/internal/models"
)

const viewer = uint(5)

func TestResolve_IsLiked(t *testing.T) {
	tests := []struct {
		name   string
		likers []uint
		want   bool
	}{
		{"no like", nil, false},
		{"liked by viewer", []uint{viewer}, true},
		{"liked by someone else", []uint{9}, false},
		{"more than one like", []uint{viewer, viewer}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(Input{ViewerID: viewer, LikerIDs: tt.likers})
			assert.Equal(t, tt.want, got.IsLiked)
		})
	}
}

func TestResolve_AcceptedWithViewerAsReceiver(t *testing.T) {
	in := Input{
		ViewerID: viewer,
		Outgoing: []Relation{{SenderID: 8, ReceiverID: viewer, Status: models.FriendshipAccepted}},
	}

	got := Resolve(in)

	assert.Equal(t, Flags{IsFriend: true}, got)
}

func TestResolve_AcceptedWithViewerAsSender(t *testing.T) {
	in := Input{
		ViewerID: viewer,
		Incoming: []Relation{{SenderID: viewer, ReceiverID: 8, Status: models.FriendshipAccepted}},
	}

	assert.Equal(t, Flags{IsFriend: true}, Resolve(in))
}

func TestResolve_PendingFlags(t *testing.T) {
	incoming := Input{
		ViewerID: viewer,
		Incoming: []Relation{{SenderID: viewer, ReceiverID: 8, Status: models.FriendshipPending}},
	}
	outgoing := Input{
		ViewerID: viewer,
		Outgoing: []Relation{{SenderID: 8, ReceiverID: viewer, Status: models.FriendshipPending}},
	}

	assert.Equal(t, Flags{HasIncomingFriendship: true}, Resolve(incoming))
	assert.Equal(t, Flags{HasOutgoingFriendship: true}, Resolve(outgoing))
}

func TestResolve_AcceptedRowNotInvolvingViewerIsNoFriend(t *testing.T) {
	in := Input{
		ViewerID: viewer,
		Incoming: []Relation{{SenderID: 11, ReceiverID: 8, Status: models.FriendshipAccepted}},
	}

	assert.False(t, Resolve(in).IsFriend)
}

func TestResolve_BlockedIsNeitherFriendNorPending(t *testing.T) {
	in := Input{
		ViewerID: viewer,
		Incoming: []Relation{{SenderID: viewer, ReceiverID: 8, Status: models.FriendshipBlocked}},
	}

	assert.Equal(t, Flags{}, Resolve(in))
}

func TestResolve_BothRelationsPreferIncoming(t *testing.T) {
	in := Input{
		ViewerID: viewer,
		Incoming: []Relation{{SenderID: viewer, ReceiverID: 8, Status: models.FriendshipPending}},
		Outgoing: []Relation{{SenderID: 8, ReceiverID: viewer, Status: models.FriendshipAccepted}},
	}

	got := Resolve(in)

	assert.False(t, Exclusive(in))
	assert.Equal(t, Flags{HasIncomingFriendship: true}, got)
}

func TestResolve_IsPure(t *testing.T) {
	in := Input{
		ViewerID: viewer,
		LikerIDs: []uint{viewer},
		Outgoing: []Relation{{SenderID: 8, ReceiverID: viewer, Status: models.FriendshipPending}},
	}

	first := Resolve(in)
	second := Resolve(in)

	assert.Equal(t, first, second)
	assert.Equal(t, []uint{viewer}, in.LikerIDs)
	assert.Len(t, in.Outgoing, 1)
}

func TestExclusive(t *testing.T) {
	rel := []Relation{{SenderID: 1, ReceiverID: 2, Status: models.FriendshipPending}}

	assert.True(t, Exclusive(Input{}))
	assert.True(t, Exclusive(Input{Incoming: rel}))
	assert.True(t, Exclusive(Input{Outgoing: rel}))
	assert.False(t, Exclusive(Input{Incoming: rel, Outgoing: rel}))
}

func TestForFriendship(t *testing.T) {
	sent := &models.Friendship{SenderID: viewer, ReceiverID: 8, Status: models.FriendshipPending}
	received := &models.Friendship{SenderID: 8, ReceiverID: viewer, Status: models.FriendshipPending}

	assert.Equal(t, Flags{HasIncomingFriendship: true}, Resolve(ForFriendship(viewer, sent)))
	assert.Equal(t, Flags{HasOutgoingFriendship: true}, Resolve(ForFriendship(viewer, received)))
}

func TestForUser(t *testing.T) {
	u := &models.User{
		ID: 8,
		OutgoingFriendships: []models.Friendship{
			{SenderID: 8, ReceiverID: viewer, Status: models.FriendshipAccepted},
		},
	}

	in := ForUser(viewer, u)

	assert.True(t, Exclusive(in))
	assert.Equal(t, Flags{IsFriend: true}, Resolve(in))
}
