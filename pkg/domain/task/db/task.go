package db

import (
	"context"
	"time"

	"github.com/tasklane/tasklane/pkg/domain"
)

// NewTask is the store-level specification of a task to be created.
//
// Position is deliberately absent. The store appends the task to the end
// of its status column (see domain.NextPosition).
type NewTask struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
	ProjectId   *int
	AssigneeId  *string
	CreatorId   string
	Labels      []string
}

type TaskInterface interface {
	// Retrieve a task by id.
	//
	// Returns an error wrapping dberrors.ErrMissing when no such task exists.
	Get(ctx context.Context, id int) (domain.Task, error)

	// Find tasks matching filter, ordered by (position, id) ascending.
	Find(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)

	// Create a task appended to the end of its status column,
	// and return it with its assigned position and id.
	Create(ctx context.Context, spec NewTask) (domain.Task, error)

	// Update applies patch to the task identified by id and returns the
	// updated record.
	//
	// When the patch moves the task into Done and the task has an
	// assignee, the assignee is rewarded xp as a best-effort side effect:
	// a failure of the reward write is logged and does not fail Update.
	//
	// Returns an error wrapping dberrors.ErrMissing when no such task exists.
	Update(ctx context.Context, id int, patch domain.TaskPatch) (domain.Task, error)

	// Delete removes a task and (by cascade) its comments.
	//
	// Deleting an id which does not exist is not an error.
	Delete(ctx context.Context, id int) error

	// MaxPosition returns the highest position used in the status column,
	// or 0 when the column is empty.
	MaxPosition(ctx context.Context, status domain.TaskStatus) (int, error)
}
