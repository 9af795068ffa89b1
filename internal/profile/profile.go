package profile

import (
	"context"
	"errors"
)

// Unspecified is the sentinel stored when a user skips the hobbies or bio step.
const Unspecified = "unspecified"

// Profile is one user's committed profile. Age and Hobbies are kept verbatim
// as entered; the matching engine owns all parsing.
type Profile struct {
	UserID  string
	Name    string
	Gender  string
	Age     string
	Hobbies string // comma-delimited tags
	Bio     string
}

// ErrNotFound is returned by Get when no profile exists for the user.
var ErrNotFound = errors.New("profile not found")

// Store persists one profile per user identifier.
//
// Upsert must be atomic: either the whole record is written or nothing is.
// Scan makes one pass over all profiles excluding the given user id and
// gender; no ordering is guaranteed.
type Store interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p Profile) error
	Scan(ctx context.Context, excludeUserID, excludeGender string) ([]Profile, error)
}
