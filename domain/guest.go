package domain

import (
	"strings"
	"time"
)

const GuestIDPrefix = "guest_"

// IsGuestIdentifier reports whether id was minted for an unauthenticated browser session.
func IsGuestIdentifier(id string) bool {
	return strings.HasPrefix(id, GuestIDPrefix)
}

// Identity is the caller as resolved by the auth middleware.
type Identity struct {
	UserID  string
	GuestID string
	IsGuest bool
	Role    string
}

// Identifier returns the user id for authenticated callers and the guest id otherwise.
func (i Identity) Identifier() string {
	if i.IsGuest {
		return i.GuestID
	}
	return i.UserID
}

// Authenticated reports whether the identity belongs to a registered user.
func (i Identity) Authenticated() bool {
	return !i.IsGuest && i.UserID != ""
}

// GuestAction is one entry of the guest's local action log.
type GuestAction struct {
	RecordID  string     `json:"recordId"`
	Action    ActionType `json:"action"`
	Timestamp int64      `json:"timestamp"`
	Duration  *float64   `json:"duration,omitempty"`
}

// GuestView is one historical view, timestamp in unix milliseconds.
type GuestView struct {
	RecordID  string   `json:"recordId"`
	Timestamp int64    `json:"timestamp"`
	Duration  *float64 `json:"duration,omitempty"`
}

// ViewedAt converts the millisecond timestamp, falling back to fallback when unset.
func (v GuestView) ViewedAt(fallback time.Time) time.Time {
	if v.Timestamp <= 0 {
		return fallback
	}
	return time.UnixMilli(v.Timestamp).UTC()
}

type GuestProfile struct {
	GuestID           string        `json:"guestId"`
	Actions           []GuestAction `json:"actions"`
	LikedRecords      []string      `json:"likedRecords"`
	BookmarkedRecords []string      `json:"bookmarkedRecords"`
	ViewHistory       []GuestView   `json:"viewHistory"`
	CreatedAt         int64         `json:"createdAt"`
}

type GuestChat struct {
	Title    string        `json:"title"`
	Time     string        `json:"time"`
	Messages []ChatMessage `json:"messages"`
}

// GuestSnapshot is everything a guest accumulated client-side before signing in.
type GuestSnapshot struct {
	GuestID string       `json:"guestId"`
	Chats   []GuestChat  `json:"chats"`
	Profile GuestProfile `json:"profile"`
}

type MigrationSummary struct {
	Chats     int `json:"chats"`
	Likes     int `json:"likes"`
	Bookmarks int `json:"bookmarks"`
	Views     int `json:"viewHistory"`
}
