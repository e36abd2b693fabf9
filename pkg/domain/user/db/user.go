package db

import (
	"context"

	"github.com/tasklane/tasklane/pkg/domain"
)

// Profile is the externally-sourced part of a user record, as resolved by
// the identity provider.
type Profile struct {
	// Id may be empty; the store assigns one on first upsert.
	Id              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageUrl string
}

type UserInterface interface {
	// Retrieve a user by id.
	//
	// Returns an error wrapping dberrors.ErrMissing when no such user exists.
	Get(ctx context.Context, id string) (domain.User, error)

	// GetAll returns every user, ordered by first name.
	GetAll(ctx context.Context) ([]domain.User, error)

	// Upsert inserts or refreshes a user from its profile.
	//
	// New users start unapproved, not admin, with zero xp at level 1.
	// Role flags and gamification fields of existing users are untouched.
	Upsert(ctx context.Context, profile Profile) (domain.User, error)

	// Approve marks the user approved.
	//
	// Returns an error wrapping dberrors.ErrMissing when no such user exists.
	Approve(ctx context.Context, id string) (domain.User, error)

	// Reject removes the user.
	// Rejecting an id which does not exist is not an error.
	Reject(ctx context.Context, id string) error

	// Leaderboard returns up to limit users, highest xp first.
	Leaderboard(ctx context.Context, limit int) ([]domain.User, error)
}
