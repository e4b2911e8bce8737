package users

import "context"

// Directory is the read-only view onto the external identity service.
// Registration, profile updates, and follow management live outside this
// core; it only ever reads.
type Directory interface {
	// GetByID retrieves a user by their identifier
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername retrieves a user by their unique username
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Following returns the IDs of every user the given user follows.
	// A user who follows nobody gets an empty slice, not an error.
	Following(ctx context.Context, userID string) ([]string, error)
}
