package mock

import (
	"context"
	"errors"

	"github.com/tasklane/tasklane/pkg/domain"
	mocks "github.com/tasklane/tasklane/pkg/domain/internal/db/mock"
	kproject "github.com/tasklane/tasklane/pkg/domain/project/db"
)

type ProjectInterface struct {
	Impl struct {
		Get    func(context.Context, int) (domain.Project, error)
		Find   func(context.Context, string) ([]domain.Project, error)
		Create func(context.Context, kproject.NewProject) (domain.Project, error)
		Update func(context.Context, int, domain.ProjectPatch) (domain.Project, error)
		Delete func(context.Context, int) error
	}
	Calls struct {
		Get    mocks.CallLog[struct{ Id int }]
		Find   mocks.CallLog[struct{ OwnerId string }]
		Create mocks.CallLog[struct{ Spec kproject.NewProject }]
		Update mocks.CallLog[struct {
			Id    int
			Patch domain.ProjectPatch
		}]
		Delete mocks.CallLog[struct{ Id int }]
	}
}

func NewProjectInterface() *ProjectInterface {
	return &ProjectInterface{}
}

var _ kproject.ProjectInterface = &ProjectInterface{}

func (m *ProjectInterface) Get(ctx context.Context, id int) (domain.Project, error) {
	m.Calls.Get = append(m.Calls.Get, struct{ Id int }{Id: id})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *ProjectInterface) Find(ctx context.Context, ownerId string) ([]domain.Project, error) {
	m.Calls.Find = append(m.Calls.Find, struct{ OwnerId string }{OwnerId: ownerId})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, ownerId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ProjectInterface) Create(ctx context.Context, spec kproject.NewProject) (domain.Project, error) {
	m.Calls.Create = append(m.Calls.Create, struct{ Spec kproject.NewProject }{Spec: spec})
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *ProjectInterface) Update(ctx context.Context, id int, patch domain.ProjectPatch) (domain.Project, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		Id    int
		Patch domain.ProjectPatch
	}{Id: id, Patch: patch})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, id, patch)
	}
	panic(errors.New("it should not be called"))
}

func (m *ProjectInterface) Delete(ctx context.Context, id int) error {
	m.Calls.Delete = append(m.Calls.Delete, struct{ Id int }{Id: id})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}
