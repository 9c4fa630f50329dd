package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/anonto42/eventmatch/backend/internal/metrics"
	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
	"github.com/anonto42/eventmatch/backend/internal/reciprocity"
	"github.com/anonto42/eventmatch/backend/internal/visibility"
)

// FriendshipRepository defines the interface for friendship data operations
type FriendshipRepository interface {
	List(ctx context.Context, viewerID uint, handle string, plan pagination.Plan, statuses ...models.FriendshipStatus) (pagination.Page[models.FriendView], error)
	Send(ctx context.Context, senderID, receiverID uint) (*models.Friendship, error)
	Accept(ctx context.Context, viewerID, targetID uint) (*models.Friendship, error)
	Reset(ctx context.Context, viewerID, targetID uint) (*models.Friendship, error)
	Delete(ctx context.Context, viewerID, targetID uint) error
	AcceptedWith(ctx context.Context, viewerID uint, targetUID string) (*models.FriendView, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

func friendshipID(f models.Friendship) uint { return f.ID }

// List returns the viewer's friendships newest first, each flattened to the
// counterpart. Without statuses only accepted friendships are listed.
func (r *PostgresFriendshipRepository) List(ctx context.Context, viewerID uint, handle string, plan pagination.Plan, statuses ...models.FriendshipStatus) (pagination.Page[models.FriendView], error) {
	pred := visibility.ForFriendships(viewerID, handle, statuses...)
	l := listing{
		name:     "friendships",
		idColumn: "friendships.id",
		base: func(ctx context.Context) *gorm.DB {
			return where(r.db.WithContext(ctx).Model(&models.Friendship{}), pred, friendshipsScope)
		},
		fetch: func(q *gorm.DB) *gorm.DB {
			return q.Preload("Sender.Photos", leadPhoto).Preload("Receiver.Photos", leadPhoto)
		},
	}
	rows, err := readPage(ctx, l, plan, friendshipID)
	if err != nil {
		return pagination.Page[models.FriendView]{}, err
	}
	return pagination.Map(rows, func(f models.Friendship) models.FriendView {
		return friendView(viewerID, &f)
	}), nil
}

func friendView(viewerID uint, f *models.Friendship) models.FriendView {
	flags := reciprocity.Resolve(reciprocity.ForFriendship(viewerID, f))
	view := models.FriendView{
		ID:                    f.ID,
		Status:                f.Status,
		IsFriend:              flags.IsFriend,
		HasIncomingFriendship: flags.HasIncomingFriendship,
		HasOutgoingFriendship: flags.HasOutgoingFriendship,
	}
	if friend := f.Counterpart(viewerID); friend != nil {
		view.Friend = friend.ToCompact()
	}
	return view
}

// Send creates a pending invitation from sender to receiver.
func (r *PostgresFriendshipRepository) Send(ctx context.Context, senderID, receiverID uint) (*models.Friendship, error) {
	if senderID == receiverID {
		return nil, ErrSelfFriendship
	}
	var created *models.Friendship
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, receiverID).Error; err != nil {
			return fmt.Errorf("user %d: %w", receiverID, notFound(err))
		}
		existing, err := r.byPair(tx, senderID, receiverID)
		switch {
		case err == nil:
			return statusConflict(existing.Status)
		case !errors.Is(err, ErrNotFound):
			return err
		}
		created = &models.Friendship{SenderID: senderID, ReceiverID: receiverID, Status: models.FriendshipPending}
		if err := tx.Create(created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrInvitationPending
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.FriendshipTransitionsTotal.WithLabelValues("invited").Inc()
	return created, nil
}

func statusConflict(status models.FriendshipStatus) error {
	switch status {
	case models.FriendshipAccepted:
		return ErrAlreadyFriends
	case models.FriendshipBlocked:
		return ErrBlocked
	default:
		return ErrInvitationPending
	}
}

// Accept turns the pending invitation between viewer and target into a
// friendship. Only the invitation's receiver may accept it.
func (r *PostgresFriendshipRepository) Accept(ctx context.Context, viewerID, targetID uint) (*models.Friendship, error) {
	return r.transition(ctx, viewerID, targetID, "accepted", func(f *models.Friendship) (models.FriendshipStatus, error) {
		if f.Status != models.FriendshipPending {
			return "", ErrInvitationMissing
		}
		if f.ReceiverID != viewerID {
			return "", ErrNotReceiver
		}
		return models.FriendshipAccepted, nil
	})
}

// Reset moves an accepted friendship back to pending.
func (r *PostgresFriendshipRepository) Reset(ctx context.Context, viewerID, targetID uint) (*models.Friendship, error) {
	return r.transition(ctx, viewerID, targetID, "reset", func(f *models.Friendship) (models.FriendshipStatus, error) {
		switch f.Status {
		case models.FriendshipAccepted:
			return models.FriendshipPending, nil
		case models.FriendshipBlocked:
			return "", ErrBlocked
		default:
			return "", ErrNotFriends
		}
	})
}

func (r *PostgresFriendshipRepository) transition(ctx context.Context, viewerID, targetID uint, label string, next func(*models.Friendship) (models.FriendshipStatus, error)) (*models.Friendship, error) {
	var f *models.Friendship
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		f, err = r.byPair(tx, viewerID, targetID)
		if errors.Is(err, ErrNotFound) {
			return ErrInvitationMissing
		}
		if err != nil {
			return err
		}
		status, err := next(f)
		if err != nil {
			return err
		}
		f.Status = status
		return tx.Model(f).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	metrics.FriendshipTransitionsTotal.WithLabelValues(label).Inc()
	return f, nil
}

// Delete removes the friendship row between viewer and target, whatever its
// status.
func (r *PostgresFriendshipRepository) Delete(ctx context.Context, viewerID, targetID uint) error {
	res := r.db.WithContext(ctx).Where("pair_key = ?", models.PairKey(viewerID, targetID)).Delete(&models.Friendship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("friendship with user %d: %w", targetID, ErrNotFound)
	}
	metrics.FriendshipTransitionsTotal.WithLabelValues("deleted").Inc()
	return nil
}

// AcceptedWith returns the accepted friendship between the viewer and the
// user with targetUID.
func (r *PostgresFriendshipRepository) AcceptedWith(ctx context.Context, viewerID uint, targetUID string) (*models.FriendView, error) {
	db := r.db.WithContext(ctx)
	var target models.User
	if err := db.Select("id").Where("uid = ?", targetUID).First(&target).Error; err != nil {
		return nil, fmt.Errorf("user %s: %w", targetUID, notFound(err))
	}
	var f models.Friendship
	err := db.Preload("Sender.Photos", leadPhoto).
		Preload("Receiver.Photos", leadPhoto).
		Where("pair_key = ? AND status = ?", models.PairKey(viewerID, target.ID), models.FriendshipAccepted).
		First(&f).Error
	if err != nil {
		return nil, fmt.Errorf("friendship: %w", notFound(err))
	}
	view := friendView(viewerID, &f)
	return &view, nil
}

func (r *PostgresFriendshipRepository) byPair(db *gorm.DB, a, b uint) (*models.Friendship, error) {
	var f models.Friendship
	if err := db.Where("pair_key = ?", models.PairKey(a, b)).First(&f).Error; err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}
