package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvitationPending = errors.New("INVITATION_ALREADY_PENDING")
	ErrAlreadyFriends    = errors.New("ALREADY_FRIENDS")
	ErrInvitationMissing = errors.New("INVITATION_DOES_NOT_EXIST")
	ErrNotFriends        = errors.New("FRIENDSHIP_NOT_ACCEPTED")
	ErrNotReceiver       = errors.New("only the receiver can accept an invitation")
	ErrBlocked           = errors.New("friendship is blocked")
	ErrSelfFriendship    = errors.New("cannot befriend yourself")
	ErrSelfMatch         = errors.New("cannot match events with yourself")
	ErrPhotoLimit        = errors.New("photo limit reached")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUsernameTaken     = errors.New("username already taken")
)

// notFound maps gorm's missing record error onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
