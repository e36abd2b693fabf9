package mock

import (
	"context"
	"errors"

	kcomment "github.com/tasklane/tasklane/pkg/domain/comment/db"
	"github.com/tasklane/tasklane/pkg/domain"
	mocks "github.com/tasklane/tasklane/pkg/domain/internal/db/mock"
)

type CommentInterface struct {
	Impl struct {
		Find   func(context.Context, int) ([]domain.Comment, error)
		Create func(context.Context, kcomment.NewComment) (domain.Comment, error)
		Delete func(context.Context, int) error
	}
	Calls struct {
		Find   mocks.CallLog[struct{ TaskId int }]
		Create mocks.CallLog[struct{ Spec kcomment.NewComment }]
		Delete mocks.CallLog[struct{ Id int }]
	}
}

func NewCommentInterface() *CommentInterface {
	return &CommentInterface{}
}

var _ kcomment.CommentInterface = &CommentInterface{}

func (m *CommentInterface) Find(ctx context.Context, taskId int) ([]domain.Comment, error) {
	m.Calls.Find = append(m.Calls.Find, struct{ TaskId int }{TaskId: taskId})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, taskId)
	}
	panic(errors.New("it should not be called"))
}

func (m *CommentInterface) Create(ctx context.Context, spec kcomment.NewComment) (domain.Comment, error) {
	m.Calls.Create = append(m.Calls.Create, struct{ Spec kcomment.NewComment }{Spec: spec})
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *CommentInterface) Delete(ctx context.Context, id int) error {
	m.Calls.Delete = append(m.Calls.Delete, struct{ Id int }{Id: id})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}
