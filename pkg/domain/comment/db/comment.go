package db

import (
	"context"

	"github.com/tasklane/tasklane/pkg/domain"
)

type NewComment struct {
	Content  string
	TaskId   int
	AuthorId string
}

type CommentInterface interface {
	// Find comments on a task, oldest first.
	Find(ctx context.Context, taskId int) ([]domain.Comment, error)

	// Create a comment.
	//
	// Returns an error wrapping dberrors.ErrMissing when the task does not exist.
	Create(ctx context.Context, spec NewComment) (domain.Comment, error)

	// Delete removes a comment.
	// Deleting an id which does not exist is not an error.
	Delete(ctx context.Context, id int) error
}
