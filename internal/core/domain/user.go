package domain

import "time"

// Profile is a user profile record. Authentication itself is handled by an
// external identity provider; the core only trusts validated token claims.
type Profile struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FriendshipStatus is the state of a friend request
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipRejected FriendshipStatus = "rejected"
)

// Friendship links a requesting user to a friend
type Friendship struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	FriendID  string           `json:"friend_id"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TokenClaims are the claims carried in an identity token
type TokenClaims struct {
	UserID    string
	Email     string
	IssuedAt  int64
	ExpiresAt int64
}

// AuthContext is the validated identity attached to a request
type AuthContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
