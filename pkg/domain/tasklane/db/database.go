package db

import (
	kcomment "github.com/tasklane/tasklane/pkg/domain/comment/db"
	kproject "github.com/tasklane/tasklane/pkg/domain/project/db"
	ktask "github.com/tasklane/tasklane/pkg/domain/task/db"
	kuser "github.com/tasklane/tasklane/pkg/domain/user/db"
)

type TasklaneDatabase interface {
	Tasks() ktask.TaskInterface
	Projects() kproject.ProjectInterface
	Comments() kcomment.CommentInterface
	Users() kuser.UserInterface
	Close() error
}
