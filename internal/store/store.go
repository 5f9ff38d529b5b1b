// Package store holds student profiles for the lifetime of the process
// (or across restarts with the sqlite backend). The tutor borrows profiles
// per request; the store owns them.
package store

import (
	"context"
	"errors"

	"github.com/zyvora/zyvora/internal/student"
)

// ErrNotFound is returned when no profile exists for a user id.
var ErrNotFound = errors.New("profile not found")

// Store is the profile repository used by the API and the orchestrator.
type Store interface {
	// Get returns the stored profile for userID, or ErrNotFound.
	Get(ctx context.Context, userID string) (student.Profile, error)
	// Put creates or replaces the profile keyed by its UserID.
	Put(ctx context.Context, p student.Profile) error
	// Delete removes the profile. Deleting an absent profile is not an error.
	Delete(ctx context.Context, userID string) error
	// List returns all stored profiles in unspecified order.
	List(ctx context.Context) ([]student.Profile, error)
}
