package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownTaskStatus = errors.New("unknown task status")
var ErrUnknownTaskPriority = errors.New("unknown task priority")

// TaskStatus is a workflow stage of a Task.
//
// Each status is rendered as one Kanban column;
// tasks are ordered in a column by (Position, Id).
type TaskStatus string

const (
	Backlog    TaskStatus = "backlog"
	Todo       TaskStatus = "todo"
	InProgress TaskStatus = "inprogress"
	Review     TaskStatus = "review"
	Done       TaskStatus = "done"
)

// DefaultStatus is assigned to tasks created without an explicit status.
const DefaultStatus = Backlog

// TaskStatuses returns every status in board column order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{Backlog, Todo, InProgress, Review, Done}
}

func (s TaskStatus) String() string {
	return string(s)
}

func AsTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case Backlog, Todo, InProgress, Review, Done:
		return TaskStatus(s), nil
	default:
		return TaskStatus(s), fmt.Errorf("%w: %s", ErrUnknownTaskStatus, s)
	}
}

type TaskPriority string

const (
	Low    TaskPriority = "low"
	Medium TaskPriority = "medium"
	High   TaskPriority = "high"
)

const DefaultPriority = Medium

func (p TaskPriority) String() string {
	return string(p)
}

func AsTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case Low, Medium, High:
		return TaskPriority(s), nil
	default:
		return TaskPriority(s), fmt.Errorf("%w: %s", ErrUnknownTaskPriority, s)
	}
}

type Task struct {
	Id          int
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time

	// Position is the ordering key of this task within its status column.
	//
	// Positions in a column are not necessarily contiguous nor unique;
	// readers break ties by Id.
	Position int

	ProjectId  *int
	AssigneeId *string
	CreatorId  string
	Labels     []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t Task) Equal(other Task) bool {
	if len(t.Labels) != len(other.Labels) {
		return false
	}
	for nth, l := range t.Labels {
		if other.Labels[nth] != l {
			return false
		}
	}
	return t.Id == other.Id &&
		t.Title == other.Title &&
		t.Description == other.Description &&
		t.Status == other.Status &&
		t.Priority == other.Priority &&
		equalTimeRef(t.DueDate, other.DueDate) &&
		t.Position == other.Position &&
		equalRef(t.ProjectId, other.ProjectId) &&
		equalRef(t.AssigneeId, other.AssigneeId) &&
		t.CreatorId == other.CreatorId &&
		t.CreatedAt.Equal(other.CreatedAt) &&
		t.UpdatedAt.Equal(other.UpdatedAt)
}

func equalRef[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimeRef(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// TaskFilter narrows task searches. Nil fields do not filter; set fields are AND-combined.
type TaskFilter struct {
	ProjectId  *int
	AssigneeId *string
	Status     *TaskStatus
}

// TaskPatch is a partial change of a Task. Nil fields are left as they are.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority

	// Position is written verbatim on move. Siblings in the destination
	// column are not renumbered; collisions are tolerated and readers
	// order by (position, id).
	Position *int

	DueDate   *time.Time
	ProjectId *int

	// AssigneeId sets the assignee. UnsetAssignee clears it; when
	// UnsetAssignee is true, AssigneeId is ignored.
	AssigneeId    *string
	UnsetAssignee bool

	Labels []string
}

// Empty reports whether applying the patch would change nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.Position == nil && p.DueDate == nil &&
		p.ProjectId == nil && p.AssigneeId == nil && !p.UnsetAssignee &&
		p.Labels == nil
}

// NextPosition decides the position of a task newly created in a column
// whose current maximum position is maxPosition (0 for an empty column).
//
// New tasks are appended to the end of their column, so the whole column
// never needs renumbering on create.
func NextPosition(maxPosition int) int {
	return maxPosition + 1
}
