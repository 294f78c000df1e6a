package domain

import "time"

// NotificationKind enumerates the events a user can be notified about.
type NotificationKind string

const (
	NotificationFollow NotificationKind = "follow"
	NotificationLike   NotificationKind = "like"
)

// Valid reports whether k is a known kind.
func (k NotificationKind) Valid() bool {
	return k == NotificationFollow || k == NotificationLike
}

// Notification is an immutable record of a directed event between two users.
type Notification struct {
	ID        string           `json:"_id"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Kind      NotificationKind `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
