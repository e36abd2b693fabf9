package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/tasklane/tasklane/internal/testutils/http"
	apiusers "github.com/tasklane/tasklane/pkg/api/types/users"
	"github.com/tasklane/tasklane/pkg/auth"
	"github.com/tasklane/tasklane/pkg/domain"
	dberrors "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	userdb "github.com/tasklane/tasklane/pkg/domain/user/db"
	dbmock "github.com/tasklane/tasklane/pkg/domain/user/db/mock"
	"github.com/tasklane/tasklane/pkg/utils/cmp"
	"github.com/tasklane/tasklane/pkg/utils/slices"

	"github.com/tasklane/tasklane/cmd/tasklaned/handlers"
)

func fakeUser(id string, xp int) domain.User {
	return domain.User{
		Id: id, FirstName: id, IsApproved: true,
		Xp: xp, Level: domain.LevelFor(xp),
		CreatedAt: fixedTime, UpdatedAt: fixedTime,
	}
}

func TestGetCallerHandler(t *testing.T) {
	e := echo.New()

	t.Run("When the caller has a record, it should respond it", func(t *testing.T) {
		mckdb := dbmock.NewUserInterface()
		mckdb.Impl.Get = func(ctx context.Context, id string) (domain.User, error) {
			return fakeUser(id, 120), nil
		}

		c, resprec := httptestutil.Get(e, "/api/auth/user")
		auth.WithIdentity(c, domain.Identity{Id: "user-1"})

		testee := handlers.GetCallerHandler(mckdb)
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		payload := apiusers.Detail{}
		if err := json.Unmarshal(resprec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		if payload.Id != "user-1" || payload.Xp != 120 || payload.Level != 2 {
			t.Errorf("unexpected payload: %+v", payload)
		}
		if mckdb.Calls.Upsert.Times() != 0 {
			t.Errorf("Upsert should not be called for a known user")
		}
	})

	t.Run("When the caller is unknown, it should upsert a fresh record", func(t *testing.T) {
		mckdb := dbmock.NewUserInterface()
		mckdb.Impl.Get = func(ctx context.Context, id string) (domain.User, error) {
			return domain.User{}, dberrors.Missing{Table: "users", Identity: id}
		}
		mckdb.Impl.Upsert = func(ctx context.Context, profile userdb.Profile) (domain.User, error) {
			return domain.User{Id: profile.Id, Level: 1, CreatedAt: fixedTime, UpdatedAt: fixedTime}, nil
		}

		c, resprec := httptestutil.Get(e, "/api/auth/user")
		auth.WithIdentity(c, domain.Identity{Id: "newcomer"})

		testee := handlers.GetCallerHandler(mckdb)
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if mckdb.Calls.Upsert.Times() != 1 || mckdb.Calls.Upsert[0].Profile.Id != "newcomer" {
			t.Errorf("Upsert calls: %+v", mckdb.Calls.Upsert)
		}
		payload := apiusers.Detail{}
		if err := json.Unmarshal(resprec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		if payload.IsApproved {
			t.Error("a fresh record should start unapproved")
		}
	})
}

func TestLeaderboardHandler(t *testing.T) {
	e := echo.New()

	t.Run("When called without limit, it should request the top 10", func(t *testing.T) {
		ranked := []domain.User{fakeUser("a", 300), fakeUser("b", 120), fakeUser("c", 10)}
		mckdb := dbmock.NewUserInterface()
		mckdb.Impl.Leaderboard = func(ctx context.Context, limit int) ([]domain.User, error) {
			return ranked, nil
		}

		c, resprec := httptestutil.Get(e, "/api/leaderboard")

		testee := handlers.LeaderboardHandler(mckdb)
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if mckdb.Calls.Leaderboard.Times() != 1 || mckdb.Calls.Leaderboard[0].Limit != 10 {
			t.Errorf("Leaderboard calls: %+v", mckdb.Calls.Leaderboard)
		}
		var payload []apiusers.Detail
		if err := json.Unmarshal(resprec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		want := slices.Map(ranked, apiusers.ComposeDetail)
		if !cmp.SliceEqWith(payload, want, apiusers.Detail.Equal) {
			t.Errorf("leaderboard: got %+v, want %+v", payload, want)
		}
	})

	t.Run("When limit is not a positive integer, it should respond 400", func(t *testing.T) {
		mckdb := dbmock.NewUserInterface()

		c, _ := httptestutil.Get(e, "/api/leaderboard?limit=-3")

		testee := handlers.LeaderboardHandler(mckdb)
		err := testee(c)
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %v", err)
		}
	})
}

func TestAdminUserHandlers(t *testing.T) {
	e := echo.New()

	t.Run("When a user is approved, it should respond the updated record", func(t *testing.T) {
		mckdb := dbmock.NewUserInterface()
		mckdb.Impl.Approve = func(ctx context.Context, id string) (domain.User, error) {
			u := fakeUser(id, 0)
			u.IsApproved = true
			return u, nil
		}

		c, resprec := httptestutil.Post(e, "/api/admin/approve/user-2", nil)
		c.SetPath("/api/admin/approve/:userId")
		c.SetParamNames("userId")
		c.SetParamValues("user-2")

		testee := handlers.ApproveUserHandler(mckdb, "userId")
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		payload := apiusers.Detail{}
		if err := json.Unmarshal(resprec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		if !payload.IsApproved {
			t.Error("payload.IsApproved should be true")
		}
	})

	t.Run("When approving a missing user, it should respond 404", func(t *testing.T) {
		mckdb := dbmock.NewUserInterface()
		mckdb.Impl.Approve = func(ctx context.Context, id string) (domain.User, error) {
			return domain.User{}, dberrors.Missing{Table: "users", Identity: id}
		}

		c, _ := httptestutil.Post(e, "/api/admin/approve/ghost", nil)
		c.SetPath("/api/admin/approve/:userId")
		c.SetParamNames("userId")
		c.SetParamValues("ghost")

		testee := handlers.ApproveUserHandler(mckdb, "userId")
		err := testee(c)
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %v", err)
		}
	})

	t.Run("When pending users are listed, only unapproved non-admins should appear", func(t *testing.T) {
		mckdb := dbmock.NewUserInterface()
		mckdb.Impl.GetAll = func(ctx context.Context) ([]domain.User, error) {
			approved := fakeUser("approved", 50)
			pending := fakeUser("pending", 0)
			pending.IsApproved = false
			admin := fakeUser("root", 0)
			admin.IsApproved = false
			admin.IsAdmin = true
			return []domain.User{approved, pending, admin}, nil
		}

		c, resprec := httptestutil.Get(e, "/api/admin/notifications")

		testee := handlers.PendingUserHandler(mckdb)
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var payload []apiusers.Detail
		if err := json.Unmarshal(resprec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		if len(payload) != 1 || payload[0].Id != "pending" {
			t.Errorf("unexpected payload: %+v", payload)
		}
	})

	t.Run("When a user is rejected, it should respond 204 even if already gone", func(t *testing.T) {
		mckdb := dbmock.NewUserInterface()
		mckdb.Impl.Reject = func(ctx context.Context, id string) error { return nil }

		c, resprec := httptestutil.Post(e, "/api/admin/reject/ghost", nil)
		c.SetPath("/api/admin/reject/:userId")
		c.SetParamNames("userId")
		c.SetParamValues("ghost")

		testee := handlers.RejectUserHandler(mckdb, "userId")
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resprec.Code != http.StatusNoContent {
			t.Errorf("status: got %d, want %d", resprec.Code, http.StatusNoContent)
		}
	})
}
