package users

import (
	"time"
)

// User is an account record maintained by the external identity service.
// This core consumes it read-only: to authorize actions, to snapshot reply
// authors, and to resolve a viewer's following set for feed assembly.
type User struct {
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	AvatarURL   *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	ID          string    `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	DisplayName string    `json:"displayName" db:"display_name"`
}
