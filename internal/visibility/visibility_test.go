package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anonto42/eventmatch/backend/internal/models"
)

func TestForEventLikers(t *testing.T) {
	got := ForEventLikers(5, 42)

	assert.Equal(t, And{
		EventIs{EventID: 42},
		Not{P: SubjectIs{UserID: 5}},
		Not{P: FriendsWith{UserID: 5, Statuses: []models.FriendshipStatus{models.FriendshipAccepted}}},
	}, got)
}

func TestForFriendships_DefaultsToAccepted(t *testing.T) {
	got := ForFriendships(7, "")

	assert.Equal(t, And{
		Involves{UserID: 7, Statuses: []models.FriendshipStatus{models.FriendshipAccepted}},
	}, got)
}

func TestForFriendships_WithHandleAndPending(t *testing.T) {
	got := ForFriendships(7, "@ann", models.FriendshipPending)

	assert.Equal(t, And{
		Involves{UserID: 7, Statuses: []models.FriendshipStatus{models.FriendshipPending}},
		CounterpartHandlePrefix{ViewerID: 7, Prefix: "@ann"},
	}, got)
}

func TestForUserSearch(t *testing.T) {
	assert.Equal(t, And{Not{P: SubjectIs{UserID: 3}}}, ForUserSearch(3, ""))
	assert.Equal(t, And{Not{P: SubjectIs{UserID: 3}}, HandlePrefix{Prefix: "@jo"}}, ForUserSearch(3, "@jo"))
}

func TestBuildersNeverNormalizeHandles(t *testing.T) {
	got := ForUserSearch(3, "jo").(And)

	assert.Equal(t, HandlePrefix{Prefix: "jo"}, got[1])
}
