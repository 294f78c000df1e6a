package domain

import "time"

const (
	MaxUsernameLength = 30
	MaxFullNameLength = 100
	MaxBioLength      = 500
)

// User models a registered account. Followers and Following are derived from
// the follow relation store and are never persisted on the user document.
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Followers    []string  `json:"followers"`
	Following    []string  `json:"following"`
	Avatar       *string   `json:"avatar"`
	CoverImg     *string   `json:"coverImg"`
	Bio          string    `json:"bio"`
	Link         string    `json:"link"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public returns a copy of u that is safe to hand outside the core.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	clone.Followers = append([]string{}, u.Followers...)
	clone.Following = append([]string{}, u.Following...)
	return &clone
}

// ProfileUpdate carries the optional profile fields a user may change.
// A nil field is left untouched.
type ProfileUpdate struct {
	FullName *string
	Username *string
	Bio      *string
	Link     *string
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.FullName == nil && p.Username == nil && p.Bio == nil && p.Link == nil
}
