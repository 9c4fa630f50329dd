package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anonto42/eventmatch/backend/internal/models"
)

func seedUser(t *testing.T, db *gorm.DB, handle string) *models.User {
	t.Helper()
	u := &models.User{
		UID:      "uid-" + handle,
		Username: "@" + handle,
		Name:     handle,
		Email:    handle + "@example.com",
	}
	require.NoError(t, db.Create(u).Error)
	require.NoError(t, db.Create(&models.UserPhoto{UserID: u.ID, URL: "https://img/" + handle, Order: 0}).Error)
	return u
}

func seedEvents(t *testing.T, db *gorm.DB, n int, cats ...models.Category) []models.Event {
	t.Helper()
	events := make([]models.Event, n)
	for i := range events {
		events[i] = models.Event{Name: fmt.Sprintf("Event %d", i+1), Categories: cats}
		require.NoError(t, db.Create(&events[i]).Error)
	}
	return events
}

func seedLike(t *testing.T, db *gorm.DB, eventID, userID uint) *models.EventLike {
	t.Helper()
	l := &models.EventLike{EventID: eventID, UserID: userID}
	require.NoError(t, db.Create(l).Error)
	return l
}

func seedFriendship(t *testing.T, db *gorm.DB, sender, receiver uint, status models.FriendshipStatus) *models.Friendship {
	t.Helper()
	f := &models.Friendship{SenderID: sender, ReceiverID: receiver, Status: status}
	require.NoError(t, db.Create(f).Error)
	return f
}

func eventIDs(items []models.Event) []uint {
	out := make([]uint, len(items))
	for i, e := range items {
		out[i] = e.ID
	}
	return out
}
