package mock

import (
	"context"
	"errors"

	"github.com/tasklane/tasklane/pkg/domain"
	mocks "github.com/tasklane/tasklane/pkg/domain/internal/db/mock"
	kuser "github.com/tasklane/tasklane/pkg/domain/user/db"
)

type UserInterface struct {
	Impl struct {
		Get         func(context.Context, string) (domain.User, error)
		GetAll      func(context.Context) ([]domain.User, error)
		Upsert      func(context.Context, kuser.Profile) (domain.User, error)
		Approve     func(context.Context, string) (domain.User, error)
		Reject      func(context.Context, string) error
		Leaderboard func(context.Context, int) ([]domain.User, error)
	}
	Calls struct {
		Get         mocks.CallLog[struct{ Id string }]
		GetAll      mocks.CallLog[struct{}]
		Upsert      mocks.CallLog[struct{ Profile kuser.Profile }]
		Approve     mocks.CallLog[struct{ Id string }]
		Reject      mocks.CallLog[struct{ Id string }]
		Leaderboard mocks.CallLog[struct{ Limit int }]
	}
}

func NewUserInterface() *UserInterface {
	return &UserInterface{}
}

var _ kuser.UserInterface = &UserInterface{}

func (m *UserInterface) Get(ctx context.Context, id string) (domain.User, error) {
	m.Calls.Get = append(m.Calls.Get, struct{ Id string }{Id: id})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) GetAll(ctx context.Context) ([]domain.User, error) {
	m.Calls.GetAll = append(m.Calls.GetAll, struct{}{})
	if m.Impl.GetAll != nil {
		return m.Impl.GetAll(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Upsert(ctx context.Context, profile kuser.Profile) (domain.User, error) {
	m.Calls.Upsert = append(m.Calls.Upsert, struct{ Profile kuser.Profile }{Profile: profile})
	if m.Impl.Upsert != nil {
		return m.Impl.Upsert(ctx, profile)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Approve(ctx context.Context, id string) (domain.User, error) {
	m.Calls.Approve = append(m.Calls.Approve, struct{ Id string }{Id: id})
	if m.Impl.Approve != nil {
		return m.Impl.Approve(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Reject(ctx context.Context, id string) error {
	m.Calls.Reject = append(m.Calls.Reject, struct{ Id string }{Id: id})
	if m.Impl.Reject != nil {
		return m.Impl.Reject(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	m.Calls.Leaderboard = append(m.Calls.Leaderboard, struct{ Limit int }{Limit: limit})
	if m.Impl.Leaderboard != nil {
		return m.Impl.Leaderboard(ctx, limit)
	}
	panic(errors.New("it should not be called"))
}
