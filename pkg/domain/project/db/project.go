package db

import (
	"context"

	"github.com/tasklane/tasklane/pkg/domain"
)

type NewProject struct {
	Name        string
	Description string
	Color       string
	OwnerId     string
}

type ProjectInterface interface {
	// Retrieve a project by id.
	//
	// Returns an error wrapping dberrors.ErrMissing when no such project exists.
	Get(ctx context.Context, id int) (domain.Project, error)

	// Find projects owned by ownerId, newest first.
	Find(ctx context.Context, ownerId string) ([]domain.Project, error)

	Create(ctx context.Context, spec NewProject) (domain.Project, error)

	Update(ctx context.Context, id int, patch domain.ProjectPatch) (domain.Project, error)

	// Delete removes a project and (by cascade) its tasks.
	// Deleting an id which does not exist is not an error.
	Delete(ctx context.Context, id int) error
}
