package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
	"github.com/anonto42/eventmatch/backend/internal/testutil"
)

func TestNotifications_ReadFlow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	ctx := context.Background()
	ann := seedUser(t, db, "ann")
	bob := seedUser(t, db, "bob")

	for _, typ := range []models.NotificationType{models.NotificationFriendshipInvitation, models.NotificationFriendshipAccepted} {
		require.NoError(t, repo.CreateNotification(ctx, &models.Notification{
			Type:        typ,
			ActorID:     bob.ID,
			RecipientID: ann.ID,
		}))
	}

	page, err := repo.GetByRecipientID(ctx, ann.ID, pagination.NewPlan(10, 0))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, models.NotificationFriendshipAccepted, page.Items[0].Type)
	require.NotNil(t, page.Items[0].Actor)
	assert.Equal(t, "@bob", page.Items[0].Actor.Username)

	n, err := repo.GetUnreadCount(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, repo.MarkAsRead(ctx, page.Items[1].ID, ann.ID))
	assert.ErrorIs(t, repo.MarkAsRead(ctx, page.Items[0].ID, bob.ID), ErrNotFound)

	n, err = repo.GetUnreadCount(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.MarkAllAsRead(ctx, ann.ID))
	n, err = repo.GetUnreadCount(ctx, ann.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrganizations_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresOrganizationRepository(db)
	ctx := context.Background()

	org := &models.Organization{UID: "org-1", Name: "Venue", Email: "venue@example.com"}
	require.NoError(t, repo.Create(ctx, org))
	assert.ErrorIs(t, repo.Create(ctx, &models.Organization{UID: "org-2", Email: "venue@example.com"}), ErrEmailTaken)
	require.NoError(t, repo.Create(ctx, &models.Organization{UID: "org-3", Name: "Club", Email: "club@example.com"}))

	got, err := repo.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Venue", got.Name)

	page, err := repo.List(ctx, pagination.NewPlan(1, 0))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Club", page.Items[0].Name)
	assert.Equal(t, int64(2), page.Total)
	require.NotNil(t, page.NextCursor)
}
