package domain

import "time"

// Comment belongs to a task and is removed with it.
type Comment struct {
	Id        int
	Content   string
	TaskId    int
	AuthorId  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
