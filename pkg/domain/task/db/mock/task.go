package mock

import (
	"context"
	"errors"

	"github.com/tasklane/tasklane/pkg/domain"
	mocks "github.com/tasklane/tasklane/pkg/domain/internal/db/mock"
	ktask "github.com/tasklane/tasklane/pkg/domain/task/db"
)

type TaskInterface struct {
	Impl struct {
		Get         func(context.Context, int) (domain.Task, error)
		Find        func(context.Context, domain.TaskFilter) ([]domain.Task, error)
		Create      func(context.Context, ktask.NewTask) (domain.Task, error)
		Update      func(context.Context, int, domain.TaskPatch) (domain.Task, error)
		Delete      func(context.Context, int) error
		MaxPosition func(context.Context, domain.TaskStatus) (int, error)
	}
	Calls struct {
		Get    mocks.CallLog[struct{ Id int }]
		Find   mocks.CallLog[struct{ Filter domain.TaskFilter }]
		Create mocks.CallLog[struct{ Spec ktask.NewTask }]
		Update mocks.CallLog[struct {
			Id    int
			Patch domain.TaskPatch
		}]
		Delete      mocks.CallLog[struct{ Id int }]
		MaxPosition mocks.CallLog[struct{ Status domain.TaskStatus }]
	}
}

func NewTaskInterface() *TaskInterface {
	return &TaskInterface{}
}

var _ ktask.TaskInterface = &TaskInterface{}

func (m *TaskInterface) Get(ctx context.Context, id int) (domain.Task, error) {
	m.Calls.Get = append(m.Calls.Get, struct{ Id int }{Id: id})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Find(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	m.Calls.Find = append(m.Calls.Find, struct{ Filter domain.TaskFilter }{Filter: filter})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, filter)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Create(ctx context.Context, spec ktask.NewTask) (domain.Task, error) {
	m.Calls.Create = append(m.Calls.Create, struct{ Spec ktask.NewTask }{Spec: spec})
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Update(ctx context.Context, id int, patch domain.TaskPatch) (domain.Task, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		Id    int
		Patch domain.TaskPatch
	}{Id: id, Patch: patch})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, id, patch)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) Delete(ctx context.Context, id int) error {
	m.Calls.Delete = append(m.Calls.Delete, struct{ Id int }{Id: id})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *TaskInterface) MaxPosition(ctx context.Context, status domain.TaskStatus) (int, error) {
	m.Calls.MaxPosition = append(m.Calls.MaxPosition, struct{ Status domain.TaskStatus }{Status: status})
	if m.Impl.MaxPosition != nil {
		return m.Impl.MaxPosition(ctx, status)
	}
	panic(errors.New("it should not be called"))
}
