package models

// UserCard is a listed user with the viewer's friendship flags.
type UserCard struct {
	UserCompact
	HasIncomingFriendship bool `json:"hasIncomingFriendship"`
	HasOutgoingFriendship bool `json:"hasOutgoingFriendship"`
	IsFriend              bool `json:"isFriend"`
}

// LikerView is a user who liked an event, keyed by the like id.
type LikerView struct {
	LikeID uint `json:"likeId"`
	UserCard
}

// FriendView flattens a friendship row to the viewer's counterpart.
type FriendView struct {
	ID                    uint             `json:"id"`
	Status                FriendshipStatus `json:"status"`
	Friend                UserCompact      `json:"friend"`
	IsFriend              bool             `json:"isFriend"`
	HasIncomingFriendship bool             `json:"hasIncomingFriendship"`
	HasOutgoingFriendship bool             `json:"hasOutgoingFriendship"`
}

// LikedEventView is an event seen through a like row of a bucket list.
type LikedEventView struct {
	LikeID uint `json:"likeId"`
	Event
	LikedByViewer bool        `json:"likedByViewer"`
	OtherLikers   []UserPhoto `json:"otherLikers,omitempty"`
}

// ProfileView is a user's own profile.
type ProfileView struct {
	User
	LikedEvents  []Event `json:"likedEvents"`
	MaxNumPhotos int     `json:"maxNumPhotos"`
}

// TargetProfileView is another user's profile seen by the viewer.
type TargetProfileView struct {
	ProfileView
	HasIncomingFriendship bool `json:"hasIncomingFriendship"`
	HasOutgoingFriendship bool `json:"hasOutgoingFriendship"`
	IsFriend              bool `json:"isFriend"`
}
