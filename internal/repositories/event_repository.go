package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/anonto42/eventmatch/backend/internal/metrics"
	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
	"github.com/anonto42/eventmatch/backend/internal/reciprocity"
	"github.com/anonto42/eventmatch/backend/internal/visibility"
)

// maxSocialProof is how many other likers' photos an own bucket list row
// carries.
const maxSocialProof = 3

const eventColumns = "events.*, " +
	"(SELECT COUNT(*) FROM event_likes WHERE event_likes.event_id = events.id) AS like_count, " +
	"(SELECT COUNT(*) FROM event_shares WHERE event_shares.event_id = events.id) AS share_count"

// EventFilter narrows the latest events listing.
type EventFilter struct {
	Name       string
	Categories models.Categories
}

// EventRepository defines the interface for event data operations
type EventRepository interface {
	SearchLatest(ctx context.Context, viewerID uint, filter EventFilter, plan pagination.Plan) (pagination.Page[models.Event], error)
	GetByID(ctx context.Context, viewerID, eventID uint) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	PhotoCount(ctx context.Context, eventID uint) (int64, error)
	AddPhotos(ctx context.Context, eventID uint, photos []models.EventPhoto) error
	ToggleLike(ctx context.Context, eventID, userID uint) (*models.EventLike, bool, error)
	Share(ctx context.Context, eventID, userID uint) (*models.EventShare, error)
	LikedEvents(ctx context.Context, viewerID, targetID uint, plan pagination.Plan) (pagination.Page[models.LikedEventView], error)
	Likers(ctx context.Context, viewerID, eventID uint, plan pagination.Plan) (pagination.Page[models.LikerView], error)
	Matches(ctx context.Context, viewerID, targetID uint, allPhotos bool, plan pagination.Plan) (pagination.Page[models.LikedEventView], error)
}

// PostgresEventRepository implements EventRepository with gorm
type PostgresEventRepository struct {
	db *gorm.DB
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func eventID(e models.Event) uint     { return e.ID }
func likeID(l models.EventLike) uint  { return l.ID }
func withCounts(db *gorm.DB) *gorm.DB { return db.Select(eventColumns) }

// SearchLatest lists events newest first. Events must carry at least one of
// the filter's categories and contain its name, ignoring case.
func (r *PostgresEventRepository) SearchLatest(ctx context.Context, viewerID uint, filter EventFilter, plan pagination.Plan) (pagination.Page[models.Event], error) {
	l := listing{
		name:     "latest_events",
		idColumn: "events.id",
		base: func(ctx context.Context) *gorm.DB {
			q := r.db.WithContext(ctx).Model(&models.Event{})
			if name := strings.TrimSpace(filter.Name); name != "" {
				q = q.Where(`LOWER(events.name) LIKE ? ESCAPE '\'`, containsPattern(name))
			}
			if len(filter.Categories) > 0 {
				conds := make([]string, len(filter.Categories))
				vars := make([]any, len(filter.Categories))
				for i, c := range filter.Categories {
					conds[i] = "events.categories LIKE ?"
					vars[i] = `%"` + string(c) + `"%`
				}
				q = q.Where("("+strings.Join(conds, " OR ")+")", vars...)
			}
			return q
		},
		fetch: func(q *gorm.DB) *gorm.DB {
			return withCounts(q).
				Preload("Location").
				Preload("Photos", orderedPhotos).
				Preload("Likes", "user_id = ?", viewerID)
		},
	}
	page, err := readPage(ctx, l, plan, eventID)
	if err != nil {
		return page, err
	}
	for i := range page.Items {
		e := &page.Items[i]
		e.IsLiked = reciprocity.Resolve(reciprocity.Input{
			ViewerID: viewerID,
			LikerIDs: reciprocity.LikerIDs(e.Likes),
		}).IsLiked
	}
	return page, nil
}

// GetByID returns one event with its aggregates and the viewer's like flag.
func (r *PostgresEventRepository) GetByID(ctx context.Context, viewerID, id uint) (*models.Event, error) {
	var event models.Event
	err := withCounts(r.db.WithContext(ctx).Model(&models.Event{})).
		Preload("Location").
		Preload("Organization").
		Preload("Photos", orderedPhotos).
		Preload("Likes", "user_id = ?", viewerID).
		Where("events.id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, notFound(err)
	}
	event.IsLiked = reciprocity.Resolve(reciprocity.Input{
		ViewerID: viewerID,
		LikerIDs: reciprocity.LikerIDs(event.Likes),
	}).IsLiked
	return &event, nil
}

// Create stores a new event after checking its location and organization.
func (r *PostgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Location{}, event.LocationID).Error; err != nil {
			return fmt.Errorf("location %d: %w", event.LocationID, notFound(err))
		}
		if err := tx.Select("id").First(&models.Organization{}, event.OrganizationID).Error; err != nil {
			return fmt.Errorf("organization %d: %w", event.OrganizationID, notFound(err))
		}
		return tx.Create(event).Error
	})
}

// PhotoCount returns how many photos an event holds, ErrNotFound when the
// event does not exist.
func (r *PostgresEventRepository) PhotoCount(ctx context.Context, eventID uint) (int64, error) {
	if err := r.exists(r.db.WithContext(ctx), eventID); err != nil {
		return 0, err
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&models.EventPhoto{}).Where("event_id = ?", eventID).Count(&n).Error
	return n, err
}

// AddPhotos appends photos after the existing ones, up to MaxEventPhotos.
func (r *PostgresEventRepository) AddPhotos(ctx context.Context, eventID uint, photos []models.EventPhoto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.EventPhoto{}).Where("event_id = ?", eventID).Count(&n).Error; err != nil {
			return err
		}
		if int(n)+len(photos) > models.MaxEventPhotos {
			return ErrPhotoLimit
		}
		for i := range photos {
			photos[i].EventID = eventID
			photos[i].Order = int(n) + i
		}
		return tx.Create(&photos).Error
	})
}

// ToggleLike deletes the viewer's like of an event when it exists and
// creates it otherwise. The bool reports whether a like was created.
func (r *PostgresEventRepository) ToggleLike(ctx context.Context, eventID, userID uint) (*models.EventLike, bool, error) {
	var (
		like    *models.EventLike
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.exists(tx, eventID); err != nil {
			return err
		}
		var existing models.EventLike
		err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&existing).Error
		switch {
		case err == nil:
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			like = &models.EventLike{EventID: eventID, UserID: userID}
			created = true
			return tx.Create(like).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, err
	}
	action := "unliked"
	if created {
		action = "liked"
	}
	metrics.LikeTogglesTotal.WithLabelValues(action).Inc()
	return like, created, nil
}

// Share records a share of an event.
func (r *PostgresEventRepository) Share(ctx context.Context, eventID, userID uint) (*models.EventShare, error) {
	db := r.db.WithContext(ctx)
	if err := r.exists(db, eventID); err != nil {
		return nil, err
	}
	share := &models.EventShare{EventID: eventID, UserID: userID}
	if err := db.Create(share).Error; err != nil {
		return nil, err
	}
	return share, nil
}

// LikedEvents lists a bucket list by like id, newest first. With targetID 0
// or the viewer's own id the viewer's list is returned together with up to
// three other likers' lead photos per event; otherwise the target's list
// carries full photos and whether the viewer liked each event too.
func (r *PostgresEventRepository) LikedEvents(ctx context.Context, viewerID, targetID uint, plan pagination.Plan) (pagination.Page[models.LikedEventView], error) {
	own := targetID == 0 || targetID == viewerID
	owner := targetID
	if own {
		owner = viewerID
	}
	l := listing{
		name:     "liked_events",
		idColumn: "event_likes.id",
		base: func(ctx context.Context) *gorm.DB {
			return r.db.WithContext(ctx).Model(&models.EventLike{}).Where("event_likes.user_id = ?", owner)
		},
		fetch: func(q *gorm.DB) *gorm.DB {
			q = q.Preload("Event", withCounts).Preload("Event.Location")
			if own {
				return q.Preload("Event.Photos", leadPhoto)
			}
			return q.Preload("Event.Photos", orderedPhotos).Preload("Event.Likes", "user_id = ?", viewerID)
		},
	}
	likes, err := readPage(ctx, l, plan, likeID)
	if err != nil {
		return pagination.Page[models.LikedEventView]{}, err
	}

	page := pagination.Map(likes, func(like models.EventLike) models.LikedEventView {
		view := models.LikedEventView{LikeID: like.ID}
		if like.Event != nil {
			view.Event = *like.Event
		}
		view.IsLiked = true
		if own {
			view.LikedByViewer = true
		} else {
			view.LikedByViewer = reciprocity.Resolve(reciprocity.Input{
				ViewerID: viewerID,
				LikerIDs: reciprocity.LikerIDs(view.Event.Likes),
			}).IsLiked
		}
		return view
	})
	if !own || len(page.Items) == 0 {
		return page, nil
	}

	proof, err := r.otherLikerPhotos(ctx, viewerID, page.Items)
	if err != nil {
		return pagination.Page[models.LikedEventView]{}, err
	}
	for i := range page.Items {
		page.Items[i].OtherLikers = proof[page.Items[i].Event.ID]
	}
	return page, nil
}

type likerPhoto struct {
	EventID uint
	models.UserPhoto
}

// otherLikerPhotos returns, per event, the lead photos of the most recent
// other likers.
func (r *PostgresEventRepository) otherLikerPhotos(ctx context.Context, viewerID uint, views []models.LikedEventView) (map[uint][]models.UserPhoto, error) {
	ids := make([]uint, len(views))
	for i, v := range views {
		ids[i] = v.Event.ID
	}
	var rows []likerPhoto
	err := r.db.WithContext(ctx).Table("event_likes").
		Select("event_likes.event_id, user_photos.*").
		Joins("JOIN user_photos ON user_photos.user_id = event_likes.user_id AND user_photos.sort_order = 0").
		Where("event_likes.event_id IN ? AND event_likes.user_id <> ?", ids, viewerID).
		Order("event_likes.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint][]models.UserPhoto, len(ids))
	for _, row := range rows {
		if len(out[row.EventID]) < maxSocialProof {
			out[row.EventID] = append(out[row.EventID], row.UserPhoto)
		}
	}
	return out, nil
}

// Likers lists the users who liked an event, newest like first, without the
// viewer and the viewer's accepted friends.
func (r *PostgresEventRepository) Likers(ctx context.Context, viewerID, eventID uint, plan pagination.Plan) (pagination.Page[models.LikerView], error) {
	if err := r.exists(r.db.WithContext(ctx), eventID); err != nil {
		return pagination.Page[models.LikerView]{}, err
	}
	pred := visibility.ForEventLikers(viewerID, eventID)
	l := listing{
		name:     "event_likers",
		idColumn: "event_likes.id",
		base: func(ctx context.Context) *gorm.DB {
			return where(r.db.WithContext(ctx).Model(&models.EventLike{}), pred, likersScope)
		},
		fetch: func(q *gorm.DB) *gorm.DB {
			return q.Preload("User.Photos", leadPhoto).
				Preload("User.IncomingFriendships", "sender_id = ?", viewerID).
				Preload("User.OutgoingFriendships", "receiver_id = ?", viewerID)
		},
	}
	likes, err := readPage(ctx, l, plan, likeID)
	if err != nil {
		return pagination.Page[models.LikerView]{}, err
	}
	return pagination.Map(likes, func(like models.EventLike) models.LikerView {
		view := models.LikerView{LikeID: like.ID}
		if like.User != nil {
			view.UserCard = userCard(viewerID, like.User)
		}
		return view
	}), nil
}

// Matches lists the target's likes of events the viewer liked as well.
func (r *PostgresEventRepository) Matches(ctx context.Context, viewerID, targetID uint, allPhotos bool, plan pagination.Plan) (pagination.Page[models.LikedEventView], error) {
	if viewerID == targetID {
		return pagination.Page[models.LikedEventView]{}, ErrSelfMatch
	}
	l := listing{
		name:     "matched_events",
		idColumn: "event_likes.id",
		base: func(ctx context.Context) *gorm.DB {
			return r.db.WithContext(ctx).Model(&models.EventLike{}).
				Where("event_likes.user_id = ?", targetID).
				Where("EXISTS (SELECT 1 FROM event_likes vl WHERE vl.event_id = event_likes.event_id AND vl.user_id = ?)", viewerID)
		},
		fetch: func(q *gorm.DB) *gorm.DB {
			q = q.Preload("Event", withCounts).Preload("Event.Location")
			if allPhotos {
				return q.Preload("Event.Photos", orderedPhotos)
			}
			return q.Preload("Event.Photos", leadPhoto)
		},
	}
	likes, err := readPage(ctx, l, plan, likeID)
	if err != nil {
		return pagination.Page[models.LikedEventView]{}, err
	}
	return pagination.Map(likes, func(like models.EventLike) models.LikedEventView {
		view := models.LikedEventView{LikeID: like.ID, LikedByViewer: true}
		if like.Event != nil {
			view.Event = *like.Event
		}
		view.IsLiked = true
		return view
	}), nil
}

func (r *PostgresEventRepository) exists(db *gorm.DB, eventID uint) error {
	var n int64
	if err := db.Model(&models.Event{}).Where("id = ?", eventID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}
	return nil
}

// userCard builds a listed user's card from preloaded viewer scoped
// friendship relations.
func userCard(viewerID uint, u *models.User) models.UserCard {
	flags := reciprocity.Resolve(reciprocity.ForUser(viewerID, u))
	return models.UserCard{
		UserCompact:           u.ToCompact(),
		HasIncomingFriendship: flags.HasIncomingFriendship,
		HasOutgoingFriendship: flags.HasOutgoingFriendship,
		IsFriend:              flags.IsFriend,
	}
}
