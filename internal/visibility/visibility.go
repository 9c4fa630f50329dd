// Package visibility builds the declarative filters that decide which users
// a viewer may see in discovery and friendship listings. The trees carry no
// SQL; a storage layer compiles them for its own schema.
package visibility

import "github.com/anonto42/eventmatch/backend/internal/models"

// Predicate is a node of a filter tree.
type Predicate interface {
	predicate()
}

// And holds when every child holds. An empty And always holds.
type And []Predicate

// Or holds when any child holds.
type Or []Predicate

// Not negates its child.
type Not struct {
	P Predicate
}

// SubjectIs holds when the row's subject user is UserID.
type SubjectIs struct {
	UserID uint
}

// EventIs holds when the row belongs to EventID.
type EventIs struct {
	EventID uint
}

// FriendsWith holds when the subject user has a friendship with UserID in
// either direction whose status is one of Statuses.
type FriendsWith struct {
	UserID   uint
	Statuses []models.FriendshipStatus
}

// Involves holds for friendship rows where UserID is sender or receiver and
// the status is one of Statuses.
type Involves struct {
	UserID   uint
	Statuses []models.FriendshipStatus
}

// HandlePrefix holds when the subject's handle starts with Prefix, ignoring
// case.
type HandlePrefix struct {
	Prefix string
}

// CounterpartHandlePrefix holds for friendship rows whose side other than
// ViewerID has a handle starting with Prefix, ignoring case.
type CounterpartHandlePrefix struct {
	ViewerID uint
	Prefix   string
}

func (And) predicate()                     {}
func (Or) predicate()                      {}
func (Not) predicate()                     {}
func (SubjectIs) predicate()               {}
func (EventIs) predicate()                 {}
func (FriendsWith) predicate()             {}
func (Involves) predicate()                {}
func (HandlePrefix) predicate()            {}
func (CounterpartHandlePrefix) predicate() {}

// ForEventLikers selects the users who liked eventID that the viewer should
// discover: never the viewer, never an accepted friend.
func ForEventLikers(viewerID, eventID uint) Predicate {
	return And{
		EventIs{EventID: eventID},
		Not{P: SubjectIs{UserID: viewerID}},
		Not{P: FriendsWith{UserID: viewerID, Statuses: []models.FriendshipStatus{models.FriendshipAccepted}}},
	}
}

// ForFriendships selects the viewer's friendship rows with one of statuses,
// ACCEPTED when none is given. A non empty handle further restricts the
// counterpart's handle by prefix.
func ForFriendships(viewerID uint, handle string, statuses ...models.FriendshipStatus) Predicate {
	if len(statuses) == 0 {
		statuses = []models.FriendshipStatus{models.FriendshipAccepted}
	}
	p := And{Involves{UserID: viewerID, Statuses: statuses}}
	if handle != "" {
		p = append(p, CounterpartHandlePrefix{ViewerID: viewerID, Prefix: handle})
	}
	return p
}

// ForUserSearch selects users other than the viewer whose handle starts
// with handle.
func ForUserSearch(viewerID uint, handle string) Predicate {
	p := And{Not{P: SubjectIs{UserID: viewerID}}}
	if handle != "" {
		p = append(p, HandlePrefix{Prefix: handle})
	}
	return p
}
