package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
	"github.com/anonto42/eventmatch/backend/internal/reciprocity"
	"github.com/anonto42/eventmatch/backend/internal/visibility"
)

// profileLikedEvents is how many recent likes a profile shows.
const profileLikedEvents = 5

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	FindUser(ctx context.Context, q models.FindUserQuery) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	SearchUsers(ctx context.Context, viewerID uint, handle string, plan pagination.Plan) (pagination.Page[models.UserCard], error)
	Profile(ctx context.Context, uid string) (*models.ProfileView, error)
	TargetProfile(ctx context.Context, viewerID uint, uid string) (*models.TargetProfileView, error)
	PhotoCount(ctx context.Context, userID uint) (int64, error)
	AddPhotos(ctx context.Context, userID uint, photos []models.UserPhoto) error
	DeletePhoto(ctx context.Context, userID, photoID uint) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func userID(u models.User) uint { return u.ID }

// CreateUser creates a new user, refusing a taken email or username.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	db := r.db.WithContext(ctx)
	if err := r.checkUnique(db, user); err != nil {
		return err
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) checkUnique(db *gorm.DB, user *models.User) error {
	var n int64
	if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", user.Email, user.ID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrEmailTaken
	}
	if err := db.Model(&models.User{}).Where("username = ? AND id <> ?", user.Username, user.ID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrUsernameTaken
	}
	return nil
}

// GetUserByID retrieves a user by ID with its photos
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Photos", orderedPhotos).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByUID retrieves a user by its external auth uid
func (r *PostgresUserRepository) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindUser looks a user up by username, email or phone, in that order.
func (r *PostgresUserRepository) FindUser(ctx context.Context, q models.FindUserQuery) (*models.User, error) {
	db := r.db.WithContext(ctx).Preload("Photos", orderedPhotos)
	switch {
	case q.Username != "":
		db = db.Where("username = ?", q.Username)
	case q.Email != "":
		db = db.Where("email = ?", q.Email)
	case q.Phone != "":
		db = db.Where("phone = ?", q.Phone)
	default:
		return nil, ErrNotFound
	}
	var user models.User
	if err := db.First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UpdateUser saves the user's columns, refusing a taken email or username.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	db := r.db.WithContext(ctx)
	if err := r.checkUnique(db, user); err != nil {
		return err
	}
	return db.Omit("Photos", "Likes", "IncomingFriendships", "OutgoingFriendships").Save(user).Error
}

// SearchUsers lists users other than the viewer whose handle starts with
// handle, newest first.
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, viewerID uint, handle string, plan pagination.Plan) (pagination.Page[models.UserCard], error) {
	pred := visibility.ForUserSearch(viewerID, handle)
	l := listing{
		name:     "user_search",
		idColumn: "users.id",
		base: func(ctx context.Context) *gorm.DB {
			return where(r.db.WithContext(ctx).Model(&models.User{}), pred, usersScope)
		},
		fetch: func(q *gorm.DB) *gorm.DB {
			return q.Preload("Photos", leadPhoto).
				Preload("IncomingFriendships", "sender_id = ?", viewerID).
				Preload("OutgoingFriendships", "receiver_id = ?", viewerID)
		},
	}
	users, err := readPage(ctx, l, plan, userID)
	if err != nil {
		return pagination.Page[models.UserCard]{}, err
	}
	return pagination.Map(users, func(u models.User) models.UserCard {
		return userCard(viewerID, &u)
	}), nil
}

// Profile returns a user's own profile with its latest liked events.
func (r *PostgresUserRepository) Profile(ctx context.Context, uid string) (*models.ProfileView, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Photos", orderedPhotos).
		Where("uid = ?", uid).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return r.profile(ctx, &user)
}

func (r *PostgresUserRepository) profile(ctx context.Context, user *models.User) (*models.ProfileView, error) {
	var likes []models.EventLike
	err := r.db.WithContext(ctx).
		Preload("Event.Photos", leadPhoto).
		Where("user_id = ?", user.ID).
		Order("id DESC").
		Limit(profileLikedEvents).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(likes))
	for _, l := range likes {
		if l.Event == nil {
			continue
		}
		e := *l.Event
		e.IsLiked = true
		events = append(events, e)
	}
	return &models.ProfileView{User: *user, LikedEvents: events, MaxNumPhotos: models.MaxUserPhotos}, nil
}

// TargetProfile returns another user's profile with the viewer's
// friendship flags.
func (r *PostgresUserRepository) TargetProfile(ctx context.Context, viewerID uint, uid string) (*models.TargetProfileView, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Photos", orderedPhotos).
		Preload("IncomingFriendships", "sender_id = ?", viewerID).
		Preload("OutgoingFriendships", "receiver_id = ?", viewerID).
		Where("uid = ?", uid).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	flags := reciprocity.Resolve(reciprocity.ForUser(viewerID, &user))
	profile, err := r.profile(ctx, &user)
	if err != nil {
		return nil, err
	}
	return &models.TargetProfileView{
		ProfileView:           *profile,
		HasIncomingFriendship: flags.HasIncomingFriendship,
		HasOutgoingFriendship: flags.HasOutgoingFriendship,
		IsFriend:              flags.IsFriend,
	}, nil
}

// PhotoCount returns how many photos a user holds.
func (r *PostgresUserRepository) PhotoCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserPhoto{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// AddPhotos appends photos after the existing ones, up to MaxUserPhotos.
func (r *PostgresUserRepository) AddPhotos(ctx context.Context, userID uint, photos []models.UserPhoto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.UserPhoto{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if int(n)+len(photos) > models.MaxUserPhotos {
			return ErrPhotoLimit
		}
		for i := range photos {
			photos[i].UserID = userID
			photos[i].Order = int(n) + i
		}
		return tx.Create(&photos).Error
	})
}

// DeletePhoto removes one photo and closes the gap in the order of the
// remaining ones.
func (r *PostgresUserRepository) DeletePhoto(ctx context.Context, userID, photoID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var photo models.UserPhoto
		if err := tx.Where("id = ? AND user_id = ?", photoID, userID).First(&photo).Error; err != nil {
			return fmt.Errorf("photo %d: %w", photoID, notFound(err))
		}
		if err := tx.Delete(&photo).Error; err != nil {
			return err
		}
		return tx.Model(&models.UserPhoto{}).
			Where("user_id = ? AND sort_order > ?", userID, photo.Order).
			Update("sort_order", gorm.Expr("sort_order - 1")).Error
	})
}
