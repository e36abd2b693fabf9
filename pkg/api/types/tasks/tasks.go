package tasks

import (
	"time"

	"github.com/tasklane/tasklane/pkg/domain"
	"github.com/tasklane/tasklane/pkg/utils/rfctime"
)

// Unassigned is the sentinel an assignee field may carry to clear the
// assignment instead of setting one.
const Unassigned = "unassigned"

type Detail struct {
	Id          int              `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	Priority    string           `json:"priority"`
	DueDate     *rfctime.RFC3339 `json:"dueDate"`
	Position    int              `json:"position"`
	ProjectId   *int             `json:"projectId"`
	AssigneeId  *string          `json:"assigneeId"`
	CreatorId   string           `json:"creatorId"`
	Labels      []string         `json:"labels"`
	CreatedAt   rfctime.RFC3339  `json:"createdAt"`
	UpdatedAt   rfctime.RFC3339  `json:"updatedAt"`
}

func ComposeDetail(t domain.Task) Detail {
	labels := t.Labels
	if labels == nil {
		labels = []string{}
	}
	var due *rfctime.RFC3339
	if t.DueDate != nil {
		d := rfctime.New(*t.DueDate)
		due = &d
	}
	return Detail{
		Id:          t.Id,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     due,
		Position:    t.Position,
		ProjectId:   t.ProjectId,
		AssigneeId:  t.AssigneeId,
		CreatorId:   t.CreatorId,
		Labels:      labels,
		CreatedAt:   rfctime.New(t.CreatedAt),
		UpdatedAt:   rfctime.New(t.UpdatedAt),
	}
}

func (d Detail) Equal(o Detail) bool {
	return d.Id == o.Id &&
		d.Title == o.Title &&
		d.Status == o.Status &&
		d.Position == o.Position
}

// TaskSpec is the request body to create a task. Position is not
// accepted; new tasks are appended after the last sibling.
type TaskSpec struct {
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Status      *string          `json:"status"`
	Priority    *string          `json:"priority"`
	DueDate     *rfctime.RFC3339 `json:"dueDate"`
	ProjectId   *int             `json:"projectId"`
	AssigneeId  *string          `json:"assigneeId"`
	Labels      []string         `json:"labels"`
}

// Validate checks the spec and, when it is well-formed, returns the
// store-level representation of the new task. The second return value
// holds per-field problems and is empty on success.
func (s TaskSpec) Validate(creatorId string) (NewTaskFields, map[string]string) {
	fields := map[string]string{}

	if s.Title == "" {
		fields["title"] = "required"
	}

	status := domain.DefaultStatus
	if s.Status != nil {
		var err error
		if status, err = domain.AsTaskStatus(*s.Status); err != nil {
			fields["status"] = "unknown status: " + *s.Status
		}
	}

	priority := domain.DefaultPriority
	if s.Priority != nil {
		var err error
		if priority, err = domain.AsTaskPriority(*s.Priority); err != nil {
			fields["priority"] = "unknown priority: " + *s.Priority
		}
	}

	if len(fields) != 0 {
		return NewTaskFields{}, fields
	}

	assignee := s.AssigneeId
	if assignee != nil && *assignee == Unassigned {
		assignee = nil
	}
	var due *time.Time
	if s.DueDate != nil {
		t := s.DueDate.Time()
		due = &t
	}
	description := ""
	if s.Description != nil {
		description = *s.Description
	}

	return NewTaskFields{
		Title:       s.Title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     due,
		ProjectId:   s.ProjectId,
		AssigneeId:  assignee,
		CreatorId:   creatorId,
		Labels:      s.Labels,
	}, nil
}

// NewTaskFields is the normalized outcome of TaskSpec.Validate.
type NewTaskFields struct {
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

// TaskChange is the request body to update a task. All fields are
// optional; position, when given, is stored verbatim.
type TaskChange struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *string          `json:"status"`
	Priority    *string          `json:"priority"`
	Position    *int             `json:"position"`
	DueDate     *rfctime.RFC3339 `json:"dueDate"`
	ProjectId   *int             `json:"projectId"`
	AssigneeId  *string          `json:"assigneeId"`
	Labels      []string         `json:"labels"`
}

func (c TaskChange) Validate() (domain.TaskPatch, map[string]string) {
	fields := map[string]string{}
	patch := domain.TaskPatch{
		Title:       c.Title,
		Description: c.Description,
		Position:    c.Position,
		ProjectId:   c.ProjectId,
		Labels:      c.Labels,
	}

	if c.Title != nil && *c.Title == "" {
		fields["title"] = "must not be empty"
	}

	if c.Status != nil {
		status, err := domain.AsTaskStatus(*c.Status)
		if err != nil {
			fields["status"] = "unknown status: " + *c.Status
		} else {
			patch.Status = &status
		}
	}
	if c.Priority != nil {
		priority, err := domain.AsTaskPriority(*c.Priority)
		if err != nil {
			fields["priority"] = "unknown priority: " + *c.Priority
		} else {
			patch.Priority = &priority
		}
	}
	if c.DueDate != nil {
		t := c.DueDate.Time()
		patch.DueDate = &t
	}
	if c.AssigneeId != nil {
		if *c.AssigneeId == Unassigned {
			patch.UnsetAssignee = true
		} else {
			patch.AssigneeId = c.AssigneeId
		}
	}

	if len(fields) != 0 {
		return domain.TaskPatch{}, fields
	}
	return patch, nil
}
