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

func TestCreateUser_Uniqueness(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &models.User{UID: "u1", Username: "@ann", Email: "ann@example.com"}))

	err := repo.CreateUser(ctx, &models.User{UID: "u2", Username: "@other", Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	err = repo.CreateUser(ctx, &models.User{UID: "u3", Username: "@ann", Email: "new@example.com"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdateUser_KeepsOwnHandle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()
	ann := seedUser(t, db, "ann")
	seedUser(t, db, "bob")

	ann.Name = "Ann B."
	require.NoError(t, repo.UpdateUser(ctx, ann))

	got, err := repo.GetUserByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann B.", got.Name)
	assert.Len(t, got.Photos, 1)

	ann.Username = "@bob"
	assert.ErrorIs(t, repo.UpdateUser(ctx, ann), ErrUsernameTaken)
}

func TestFindUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()
	ann := seedUser(t, db, "ann")

	got, err := repo.FindUser(ctx, models.FindUserQuery{Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, ann.ID, got.ID)

	got, err = repo.FindUser(ctx, models.FindUserQuery{Username: "@ann"})
	require.NoError(t, err)
	assert.Equal(t, ann.ID, got.ID)

	_, err = repo.FindUser(ctx, models.FindUserQuery{Phone: "000"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindUser(ctx, models.FindUserQuery{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()
	viewer := seedUser(t, db, "mario")
	marta := seedUser(t, db, "marta")
	mark := seedUser(t, db, "mark")
	seedUser(t, db, "zoe")
	seedFriendship(t, db, viewer.ID, marta.ID, models.FriendshipPending)
	seedFriendship(t, db, mark.ID, viewer.ID, models.FriendshipAccepted)

	page, err := repo.SearchUsers(ctx, viewer.ID, "@MAR", pagination.NewPlan(10, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)

	assert.Equal(t, mark.ID, page.Items[0].ID)
	assert.True(t, page.Items[0].IsFriend)
	assert.Equal(t, marta.ID, page.Items[1].ID)
	assert.True(t, page.Items[1].HasIncomingFriendship)
	assert.False(t, page.Items[1].IsFriend)
	require.NotNil(t, page.Items[1].Photo)
	assert.Equal(t, "https://img/marta", page.Items[1].Photo.URL)

	page, err = repo.SearchUsers(ctx, viewer.ID, "@", pagination.NewPlan(10, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}

func TestProfile_LatestLikedEvents(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()
	ann := seedUser(t, db, "ann")
	events := seedEvents(t, db, 7)
	for _, e := range events {
		seedLike(t, db, e.ID, ann.ID)
	}

	profile, err := repo.Profile(ctx, ann.UID)
	require.NoError(t, err)
	assert.Equal(t, models.MaxUserPhotos, profile.MaxNumPhotos)
	assert.Equal(t, []uint{7, 6, 5, 4, 3}, eventIDs(profile.LikedEvents))
	for _, e := range profile.LikedEvents {
		assert.True(t, e.IsLiked)
	}

	_, err = repo.Profile(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTargetProfile_Flags(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()
	viewer := seedUser(t, db, "viewer")
	target := seedUser(t, db, "target")
	seedFriendship(t, db, target.ID, viewer.ID, models.FriendshipPending)

	view, err := repo.TargetProfile(ctx, viewer.ID, target.UID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, view.ID)
	assert.True(t, view.HasOutgoingFriendship)
	assert.False(t, view.HasIncomingFriendship)
	assert.False(t, view.IsFriend)
}

func TestUserPhotos_LimitAndReorder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()
	ann := seedUser(t, db, "ann")

	require.NoError(t, repo.AddPhotos(ctx, ann.ID, []models.UserPhoto{{URL: "b"}, {URL: "c"}, {URL: "d"}}))
	assert.ErrorIs(t, repo.AddPhotos(ctx, ann.ID, []models.UserPhoto{{URL: "e"}, {URL: "f"}}), ErrPhotoLimit)

	n, err := repo.PhotoCount(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	user, err := repo.GetUserByID(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, user.Photos, 4)
	require.NoError(t, repo.DeletePhoto(ctx, ann.ID, user.Photos[1].ID))

	user, err = repo.GetUserByID(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, user.Photos, 3)
	urls := make([]string, len(user.Photos))
	for i, p := range user.Photos {
		urls[i] = p.URL
		assert.Equal(t, i, p.Order)
	}
	assert.Equal(t, []string{"https://img/ann", "c", "d"}, urls)

	assert.ErrorIs(t, repo.DeletePhoto(ctx, ann.ID, 999), ErrNotFound)
}
