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

func TestSearchLatest_CursorWalk(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresEventRepository(db)
	ctx := context.Background()
	viewer := seedUser(t, db, "viewer")
	seedEvents(t, db, 10, models.CategoryBar)

	first, err := repo.SearchLatest(ctx, viewer.ID, EventFilter{}, pagination.NewPlan(2, 0))
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 9}, eventIDs(first.Items))
	assert.Equal(t, int64(10), first.Total)
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, uint(9), *first.NextCursor)

	second, err := repo.SearchLatest(ctx, viewer.ID, EventFilter{}, pagination.NewPlan(2, int64(*first.NextCursor)))
	require.NoError(t, err)
	assert.Equal(t, []uint{8, 7}, eventIDs(second.Items))
	require.NotNil(t, second.NextCursor)
	assert.Equal(t, uint(7), *second.NextCursor)

	last, err := repo.SearchLatest(ctx, viewer.ID, EventFilter{}, pagination.NewPlan(2, 3))
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 1}, eventIDs(last.Items))
	assert.Nil(t, last.NextCursor)
	assert.False(t, last.HasNextCursor())
}

func TestSearchLatest_Filters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresEventRepository(db)
	ctx := context.Background()
	viewer := seedUser(t, db, "viewer")

	jazz := &models.Event{Name: "Jazz Night", Categories: models.Categories{models.CategoryConcert, models.CategoryBar}}
	brunch := &models.Event{Name: "Sunday Brunch", Categories: models.Categories{models.CategoryBrunch}}
	gallery := &models.Event{Name: "Night at the gallery", Categories: models.Categories{models.CategoryGallery}}
	for _, e := range []*models.Event{jazz, brunch, gallery} {
		require.NoError(t, db.Create(e).Error)
	}

	page, err := repo.SearchLatest(ctx, viewer.ID, EventFilter{Name: "night"}, pagination.NewPlan(10, 0))
	require.NoError(t, err)
	assert.Equal(t, []uint{gallery.ID, jazz.ID}, eventIDs(page.Items))
	assert.Equal(t, int64(2), page.Total)

	page, err = repo.SearchLatest(ctx, viewer.ID, EventFilter{Categories: models.Categories{models.CategoryBar, models.CategoryBrunch}}, pagination.NewPlan(10, 0))
	require.NoError(t, err)
	assert.Equal(t, []uint{brunch.ID, jazz.ID}, eventIDs(page.Items))

	page, err = repo.SearchLatest(ctx, viewer.ID, EventFilter{Name: "night", Categories: models.Categories{models.CategoryConcert}}, pagination.NewPlan(10, 0))
	require.NoError(t, err)
	assert.Equal(t, []uint{jazz.ID}, eventIDs(page.Items))
	assert.Equal(t, models.Categories{models.CategoryConcert, models.CategoryBar}, page.Items[0].Categories)
}

func TestSearchLatest_AggregatesAndViewerLike(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresEventRepository(db)
	ctx := context.Background()
	viewer := seedUser(t, db, "viewer")
	other := seedUser(t, db, "other")
	events := seedEvents(t, db, 2)

	seedLike(t, db, events[0].ID, viewer.ID)
	seedLike(t, db, events[0].ID, other.ID)
	seedLike(t, db, events[1].ID, other.ID)
	require.NoError(t, db.Create(&models.EventShare{EventID: events[0].ID, UserID: other.ID}).Error)

	page, err := repo.SearchLatest(ctx, viewer.ID, EventFilter{}, pagination.NewPlan(10, 0))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	newest, oldest := page.Items[0], page.Items[1]
	assert.Equal(t, events[1].ID, newest.ID)
	assert.False(t, newest.IsLiked)
	assert.Equal(t, int64(1), newest.LikeCount)
	assert.True(t, oldest.IsLiked)
	assert.Equal(t, int64(2), oldest.LikeCount)
	assert.Equal(t, int64(1), oldest.ShareCount)
}

func TestToggleLike(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresEventRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "ann")
	event := seedEvents(t, db, 1)[0]

	like, created, err := repo.ToggleLike(ctx, event.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, like)
	assert.Equal(t, event.ID, like.EventID)

	like, created, err = repo.ToggleLike(ctx, event.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, like)

	var n int64
	require.NoError(t, db.Model(&models.EventLike{}).Count(&n).Error)
	assert.Zero(t, n)

	_, _, err = repo.ToggleLike(ctx, 999, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikers_ExcludesViewerAndFriends(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresEventRepository(db)
	ctx := context.Background()
	viewer := seedUser(t, db, "viewer")
	friend := seedUser(t, db, "friend")
	invited := seedUser(t, db, "invited")
	inviter := seedUser(t, db, "inviter")
	stranger := seedUser(t, db, "stranger")
	event := seedEvents(t, db, 1)[0]

	seedFriendship(t, db, friend.ID, viewer.ID, models.FriendshipAccepted)
	seedFriendship(t, db, viewer.ID, invited.ID, models.FriendshipPending)
	seedFriendship(t, db, inviter.ID, viewer.ID, models.FriendshipPending)
	for _, u := range []*models.User{viewer, friend, invited, inviter, stranger} {
		seedLike(t, db, event.ID, u.ID)
	}

	var seen []uint
	flags := map[uint]models.UserCard{}
	cursor := int64(0)
	for range 5 {
		page, err := repo.Likers(ctx, viewer.ID, event.ID, pagination.NewPlan(1, cursor))
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		for _, l := range page.Items {
			seen = append(seen, l.ID)
			flags[l.ID] = l.UserCard
		}
		if page.NextCursor == nil {
			break
		}
		cursor = int64(*page.NextCursor)
	}

	assert.ElementsMatch(t, []uint{invited.ID, inviter.ID, stranger.ID}, seen)
	assert.NotContains(t, seen, friend.ID)
	assert.NotContains(t, seen, viewer.ID)
	assert.True(t, flags[invited.ID].HasIncomingFriendship)
	assert.False(t, flags[invited.ID].HasOutgoingFriendship)
	assert.True(t, flags[inviter.ID].HasOutgoingFriendship)
	assert.False(t, flags[inviter.ID].HasIncomingFriendship)
	assert.Equal(t, models.UserCard{UserCompact: flags[stranger.ID].UserCompact}, flags[stranger.ID])
	require.NotNil(t, flags[stranger.ID].Photo)
	assert.Equal(t, "https://img/stranger", flags[stranger.ID].Photo.URL)
}

func TestLikers_UnknownEvent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresEventRepository(db)

	_, err := repo.Likers(context.Background(), 1, 404, pagination.NewPlan(10, 0))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikedEvents_OwnListCarriesSocialProof(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresEventRepository(db)
	ctx := context.Background()
	viewer := seedUser(t, db, "viewer")
	events := seedEvents(t, db, 2)

	seedLike(t, db, events[0].ID, viewer.ID)
	for _, h := range []string{"a", "b", "c", "d"} {
		u := seedUser(t, db, h)
		seedLike(t, db, events[0].ID, u.ID)
	}
	own := seedLike(t, db, events[1].ID, viewer.ID)

	page, err := repo.LikedEvents(ctx, viewer.ID, 0, pagination.NewPlan(10, 0))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	assert.Equal(t, own.ID, page.Items[0].LikeID)
	assert.Equal(t, events[1].ID, page.Items[0].ID)
	assert.Empty(t, page.Items[0].OtherLikers)
	assert.Len(t, page.Items[1].OtherLikers, maxSocialProof)
	assert.Equal(t, "https://img/d", page.Items[1].OtherLikers[0].URL)
	for _, item := range page.Items {
		assert.True(t, item.IsLiked)
		assert.True(t, item.LikedByViewer)
	}
}

func TestLikedEvents_OtherUsersList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresEventRepository(db)
	ctx := context.Background()
	viewer := seedUser(t, db, "viewer")
	target := seedUser(t, db, "target")
	events := seedEvents(t, db, 3)

	seedLike(t, db, events[0].ID, target.ID)
	seedLike(t, db, events[1].ID, target.ID)
	seedLike(t, db, events[1].ID, viewer.ID)

	page, err := repo.LikedEvents(ctx, viewer.ID, target.ID, pagination.NewPlan(10, 0))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)

	assert.Equal(t, events[1].ID, page.Items[0].ID)
	assert.True(t, page.Items[0].LikedByViewer)
	assert.Equal(t, int64(2), page.Items[0].LikeCount)
	assert.Equal(t, events[0].ID, page.Items[1].ID)
	assert.False(t, page.Items[1].LikedByViewer)
	assert.True(t, page.Items[1].IsLiked)
}

func TestMatches(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresEventRepository(db)
	ctx := context.Background()
	viewer := seedUser(t, db, "viewer")
	target := seedUser(t, db, "target")
	events := seedEvents(t, db, 3)

	seedLike(t, db, events[0].ID, target.ID)
	seedLike(t, db, events[0].ID, viewer.ID)
	seedLike(t, db, events[1].ID, target.ID)
	seedLike(t, db, events[2].ID, viewer.ID)

	page, err := repo.Matches(ctx, viewer.ID, target.ID, false, pagination.NewPlan(10, 0))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, events[0].ID, page.Items[0].ID)
	assert.True(t, page.Items[0].LikedByViewer)

	_, err = repo.Matches(ctx, viewer.ID, viewer.ID, false, pagination.NewPlan(10, 0))
	assert.ErrorIs(t, err, ErrSelfMatch)
}

func TestAddPhotos_Limit(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresEventRepository(db)
	ctx := context.Background()
	event := seedEvents(t, db, 1)[0]

	require.NoError(t, repo.AddPhotos(ctx, event.ID, []models.EventPhoto{{URL: "a"}, {URL: "b"}}))
	err := repo.AddPhotos(ctx, event.ID, []models.EventPhoto{{URL: "c"}, {URL: "d"}})
	assert.ErrorIs(t, err, ErrPhotoLimit)

	require.NoError(t, repo.AddPhotos(ctx, event.ID, []models.EventPhoto{{URL: "c"}}))
	got, err := repo.GetByID(ctx, 0, event.ID)
	require.NoError(t, err)
	require.Len(t, got.Photos, 3)
	for i, p := range got.Photos {
		assert.Equal(t, i, p.Order)
	}
}

func TestCreateEvent_RequiresLocationAndOrganization(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresEventRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, &models.Event{Name: "x", LocationID: 1, OrganizationID: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	loc := &models.Location{Name: "Hall"}
	org := &models.Organization{UID: "org-1", Name: "Org", Email: "org@example.com"}
	require.NoError(t, db.Create(loc).Error)
	require.NoError(t, db.Create(org).Error)

	event := &models.Event{Name: "x", LocationID: loc.ID, OrganizationID: org.ID, Categories: models.Categories{models.CategoryPark}}
	require.NoError(t, repo.Create(ctx, event))
	assert.NotZero(t, event.ID)
}
