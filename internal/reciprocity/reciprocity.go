// Package reciprocity derives the like and friendship flags a viewer sees
// on a listed row from relations that were already fetched with it.
package reciprocity

import "github.com/anonto42/eventmatch/backend/internal/models"

// Relation is a friendship row between the listed user and the viewer.
type Relation struct {
	SenderID   uint
	ReceiverID uint
	Status     models.FriendshipStatus
}

// Input is what was fetched for one row, scoped to the viewer.
//
// Incoming holds friendships the listed user received from the viewer and
// Outgoing the ones it sent to the viewer. LikerIDs holds the user ids of the
// like relation, which is filtered to the viewer when it was fetched.
type Input struct {
	ViewerID uint
	LikerIDs []uint
	Incoming []Relation
	Outgoing []Relation
}

// Flags are the derived booleans.
type Flags struct {
	IsLiked               bool
	HasIncomingFriendship bool
	HasOutgoingFriendship bool
	IsFriend              bool
}

// Resolve computes the flags of one row. When both friendship relations are
// populated the incoming one is used and the outgoing one ignored.
func Resolve(in Input) Flags {
	var f Flags
	f.IsLiked = len(in.LikerIDs) == 1 && in.LikerIDs[0] == in.ViewerID

	incoming, outgoing := in.Incoming, in.Outgoing
	if len(incoming) > 0 {
		outgoing = nil
	}

	f.HasIncomingFriendship = len(incoming) > 0 && incoming[0].Status == models.FriendshipPending
	f.HasOutgoingFriendship = len(outgoing) > 0 && outgoing[0].Status == models.FriendshipPending

	switch {
	case len(incoming) == 1:
		f.IsFriend = accepted(incoming[0], in.ViewerID)
	case len(outgoing) == 1:
		f.IsFriend = accepted(outgoing[0], in.ViewerID)
	}
	return f
}

// Exclusive reports whether at most one of the friendship relations is
// populated. It holds whenever a single row exists per pair of users.
func Exclusive(in Input) bool {
	return len(in.Incoming) == 0 || len(in.Outgoing) == 0
}

func accepted(r Relation, viewerID uint) bool {
	return r.Status == models.FriendshipAccepted && (r.SenderID == viewerID || r.ReceiverID == viewerID)
}

// Relations converts friendship rows.
func Relations(rows []models.Friendship) []Relation {
	if len(rows) == 0 {
		return nil
	}
	out := make([]Relation, len(rows))
	for i, r := range rows {
		out[i] = Relation{SenderID: r.SenderID, ReceiverID: r.ReceiverID, Status: r.Status}
	}
	return out
}

// LikerIDs extracts the user ids of like rows.
func LikerIDs(rows []models.EventLike) []uint {
	if len(rows) == 0 {
		return nil
	}
	out := make([]uint, len(rows))
	for i, r := range rows {
		out[i] = r.UserID
	}
	return out
}

// ForUser builds the input for a listed user whose friendship relations were
// preloaded scoped to viewerID.
func ForUser(viewerID uint, u *models.User) Input {
	return Input{
		ViewerID: viewerID,
		Incoming: Relations(u.IncomingFriendships),
		Outgoing: Relations(u.OutgoingFriendships),
	}
}

// ForFriendship builds the input for a friendship row seen from viewerID:
// a row the viewer sent is incoming for the counterpart.
func ForFriendship(viewerID uint, f *models.Friendship) Input {
	rel := []Relation{{SenderID: f.SenderID, ReceiverID: f.ReceiverID, Status: f.Status}}
	if f.SenderID == viewerID {
		return Input{ViewerID: viewerID, Incoming: rel}
	}
	return Input{ViewerID: viewerID, Outgoing: rel}
}
