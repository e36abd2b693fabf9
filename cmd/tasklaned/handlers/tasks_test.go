package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/tasklane/tasklane/internal/testutils/http"
	apitasks "github.com/tasklane/tasklane/pkg/api/types/tasks"
	"github.com/tasklane/tasklane/pkg/api/types/events"
	"github.com/tasklane/tasklane/pkg/auth"
	"github.com/tasklane/tasklane/pkg/domain"
	dberrors "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	taskdb "github.com/tasklane/tasklane/pkg/domain/task/db"
	dbmock "github.com/tasklane/tasklane/pkg/domain/task/db/mock"
	hubmock "github.com/tasklane/tasklane/pkg/hub/mock"
	"github.com/tasklane/tasklane/pkg/utils/cmp"
	"github.com/tasklane/tasklane/pkg/utils/pointer"
	"github.com/tasklane/tasklane/pkg/utils/slices"
	"github.com/tasklane/tasklane/pkg/utils/try"

	"github.com/tasklane/tasklane/cmd/tasklaned/handlers"
)

var fixedTime = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

func fakeTask(id int, status domain.TaskStatus, position int) domain.Task {
	return domain.Task{
		Id:        id,
		Title:     "task-" + status.String(),
		Status:    status,
		Priority:  domain.Medium,
		Position:  position,
		CreatorId: "user-creator",
		Labels:    []string{},
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}

func TestFindTaskHandler(t *testing.T) {
	e := echo.New()

	t.Run("When tasks are found, it should respond them in store order", func(t *testing.T) {
		stored := []domain.Task{
			fakeTask(1, domain.Todo, 1),
			fakeTask(3, domain.Todo, 2),
			fakeTask(2, domain.Todo, 2),
		}
		mckdb := dbmock.NewTaskInterface()
		mckdb.Impl.Find = func(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
			return stored, nil
		}

		c, resprec := httptestutil.Get(e, "/api/tasks")
		testee := handlers.FindTaskHandler(mckdb)
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resprec.Code != http.StatusOK {
			t.Errorf("status: got %d, want %d", resprec.Code, http.StatusOK)
		}
		var payload []apitasks.Detail
		if err := json.Unmarshal(resprec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		want := slices.Map(stored, apitasks.ComposeDetail)
		if !cmp.SliceEqWith(payload, want, apitasks.Detail.Equal) {
			t.Errorf("payload: got %+v, want %+v", payload, want)
		}
	})

	t.Run("When filters are passed, it should relay them to the store", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		mckdb.Impl.Find = func(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
			return []domain.Task{}, nil
		}

		c, _ := httptestutil.Get(e, "/api/tasks?projectId=7&assigneeId=user-a&status=inprogress")
		testee := handlers.FindTaskHandler(mckdb)
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if mckdb.Calls.Find.Times() != 1 {
			t.Fatalf("Find called %d times, want 1", mckdb.Calls.Find.Times())
		}
		filter := mckdb.Calls.Find[0].Filter
		if filter.ProjectId == nil || *filter.ProjectId != 7 {
			t.Errorf("filter.ProjectId: got %v", filter.ProjectId)
		}
		if filter.AssigneeId == nil || *filter.AssigneeId != "user-a" {
			t.Errorf("filter.AssigneeId: got %v", filter.AssigneeId)
		}
		if filter.Status == nil || *filter.Status != domain.InProgress {
			t.Errorf("filter.Status: got %v", filter.Status)
		}
	})

	t.Run("When the status filter is unknown, it should respond 400 without touching the store", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()

		c, _ := httptestutil.Get(e, "/api/tasks?status=blocked")
		testee := handlers.FindTaskHandler(mckdb)
		err := testee(c)
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %v", err)
		}
		if mckdb.Calls.Find.Times() != 0 {
			t.Errorf("Find should not be called, but called %d times", mckdb.Calls.Find.Times())
		}
	})
}

func TestGetTaskHandler(t *testing.T) {
	e := echo.New()

	t.Run("When the task exists, it should respond it", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		mckdb.Impl.Get = func(ctx context.Context, id int) (domain.Task, error) {
			return fakeTask(id, domain.Review, 4), nil
		}

		c, resprec := httptestutil.Get(e, "/api/tasks/42")
		c.SetPath("/api/tasks/:taskId")
		c.SetParamNames("taskId")
		c.SetParamValues("42")

		testee := handlers.GetTaskHandler(mckdb, "taskId")
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		payload := apitasks.Detail{}
		try.To(0, json.Unmarshal(resprec.Body.Bytes(), &payload)).OrFatal(t)
		if payload.Id != 42 {
			t.Errorf("payload.Id: got %d, want 42", payload.Id)
		}
		if payload.Status != "review" {
			t.Errorf("payload.Status: got %s, want review", payload.Status)
		}
	})

	t.Run("When the task is missing, it should respond 404", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		mckdb.Impl.Get = func(ctx context.Context, id int) (domain.Task, error) {
			return domain.Task{}, dberrors.Missing{Table: "tasks", Identity: "42"}
		}

		c, _ := httptestutil.Get(e, "/api/tasks/42")
		c.SetPath("/api/tasks/:taskId")
		c.SetParamNames("taskId")
		c.SetParamValues("42")

		testee := handlers.GetTaskHandler(mckdb, "taskId")
		err := testee(c)
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %v", err)
		}
	})

	t.Run("When the id is not an integer, it should respond 400", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()

		c, _ := httptestutil.Get(e, "/api/tasks/abc")
		c.SetPath("/api/tasks/:taskId")
		c.SetParamNames("taskId")
		c.SetParamValues("abc")

		testee := handlers.GetTaskHandler(mckdb, "taskId")
		err := testee(c)
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %v", err)
		}
	})
}

func TestCreateTaskHandler(t *testing.T) {
	e := echo.New()
	who := domain.Identity{Id: "user-1", IsApproved: true}

	t.Run("When a valid spec is posted, it should create, broadcast once, and respond 201", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		mckdb.Impl.Create = func(ctx context.Context, spec taskdb.NewTask) (domain.Task, error) {
			created := fakeTask(10, spec.Status, 3)
			created.Title = spec.Title
			created.CreatorId = spec.CreatorId
			return created, nil
		}
		pub := hubmock.NewPublisher()

		c, resprec := httptestutil.Post(
			e, "/api/tasks",
			strings.NewReader(`{"title": "write report", "status": "todo"}`),
			httptestutil.ContentType("application/json"),
		)
		auth.WithIdentity(c, who)

		testee := handlers.CreateTaskHandler(mckdb, pub)
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resprec.Code != http.StatusCreated {
			t.Errorf("status: got %d, want %d", resprec.Code, http.StatusCreated)
		}
		if mckdb.Calls.Create.Times() != 1 {
			t.Fatalf("Create called %d times, want 1", mckdb.Calls.Create.Times())
		}
		spec := mckdb.Calls.Create[0].Spec
		if spec.Title != "write report" || spec.Status != domain.Todo {
			t.Errorf("unexpected spec: %+v", spec)
		}
		if spec.CreatorId != who.Id {
			t.Errorf("spec.CreatorId: got %s, want %s", spec.CreatorId, who.Id)
		}

		if len(pub.Calls.Publish) != 1 {
			t.Fatalf("Publish called %d times, want 1", len(pub.Calls.Publish))
		}
		if pub.Calls.Publish[0].Type != events.TaskCreated {
			t.Errorf("event type: got %s, want %s", pub.Calls.Publish[0].Type, events.TaskCreated)
		}
	})

	t.Run("When title is missing, it should respond 400 and touch neither store nor hub", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		pub := hubmock.NewPublisher()

		c, _ := httptestutil.Post(
			e, "/api/tasks",
			strings.NewReader(`{"description": "no title here"}`),
			httptestutil.ContentType("application/json"),
		)
		auth.WithIdentity(c, who)

		testee := handlers.CreateTaskHandler(mckdb, pub)
		err := testee(c)
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %v", err)
		}
		if mckdb.Calls.Create.Times() != 0 {
			t.Errorf("Create should not be called, but called %d times", mckdb.Calls.Create.Times())
		}
		if len(pub.Calls.Publish) != 0 {
			t.Errorf("Publish should not be called, but called %d times", len(pub.Calls.Publish))
		}
	})

	t.Run("When the status is unknown, it should respond 400 with the field named", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		pub := hubmock.NewPublisher()

		c, _ := httptestutil.Post(
			e, "/api/tasks",
			strings.NewReader(`{"title": "x", "status": "paused"}`),
			httptestutil.ContentType("application/json"),
		)
		auth.WithIdentity(c, who)

		testee := handlers.CreateTaskHandler(mckdb, pub)
		err := testee(c)
		httperr, ok := err.(*echo.HTTPError)
		if !ok || httperr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %v", err)
		}
	})

	t.Run("When an unknown field is posted, it should respond 400", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		pub := hubmock.NewPublisher()

		c, _ := httptestutil.Post(
			e, "/api/tasks",
			strings.NewReader(`{"title": "x", "positionn": 3}`),
			httptestutil.ContentType("application/json"),
		)
		auth.WithIdentity(c, who)

		testee := handlers.CreateTaskHandler(mckdb, pub)
		err := testee(c)
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %v", err)
		}
	})

	t.Run("When the store fails, it should respond 500 and not broadcast", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		mckdb.Impl.Create = func(ctx context.Context, spec taskdb.NewTask) (domain.Task, error) {
			return domain.Task{}, errors.New("fake db error")
		}
		pub := hubmock.NewPublisher()

		c, _ := httptestutil.Post(
			e, "/api/tasks",
			strings.NewReader(`{"title": "x"}`),
			httptestutil.ContentType("application/json"),
		)
		auth.WithIdentity(c, who)

		testee := handlers.CreateTaskHandler(mckdb, pub)
		err := testee(c)
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %v", err)
		}
		if len(pub.Calls.Publish) != 0 {
			t.Errorf("Publish should not be called, but called %d times", len(pub.Calls.Publish))
		}
	})
}

func TestUpdateTaskHandler(t *testing.T) {
	e := echo.New()

	t.Run("When a move is patched, it should pass status and position verbatim and broadcast once", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		mckdb.Impl.Update = func(ctx context.Context, id int, patch domain.TaskPatch) (domain.Task, error) {
			moved := fakeTask(id, *patch.Status, *patch.Position)
			return moved, nil
		}
		pub := hubmock.NewPublisher()

		c, resprec := httptestutil.Patch(
			e, "/api/tasks/5",
			strings.NewReader(`{"status": "done", "position": 2}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetPath("/api/tasks/:taskId")
		c.SetParamNames("taskId")
		c.SetParamValues("5")

		testee := handlers.UpdateTaskHandler(mckdb, pub, "taskId")
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resprec.Code != http.StatusOK {
			t.Errorf("status: got %d, want %d", resprec.Code, http.StatusOK)
		}
		if mckdb.Calls.Update.Times() != 1 {
			t.Fatalf("Update called %d times, want 1", mckdb.Calls.Update.Times())
		}
		patch := mckdb.Calls.Update[0].Patch
		if !pointer.Equal(patch.Status, pointer.Ref(domain.Done)) {
			t.Errorf("patch.Status: got %v", patch.Status)
		}
		if !pointer.Equal(patch.Position, pointer.Ref(2)) {
			t.Errorf("patch.Position: got %v, want verbatim 2", patch.Position)
		}
		if len(pub.Calls.Publish) != 1 {
			t.Fatalf("Publish called %d times, want 1", len(pub.Calls.Publish))
		}
		if pub.Calls.Publish[0].Type != events.TaskUpdated {
			t.Errorf("event type: got %s, want %s", pub.Calls.Publish[0].Type, events.TaskUpdated)
		}
	})

	t.Run(`When assigneeId is "unassigned", it should be normalized to an unset`, func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		mckdb.Impl.Update = func(ctx context.Context, id int, patch domain.TaskPatch) (domain.Task, error) {
			return fakeTask(id, domain.Todo, 1), nil
		}
		pub := hubmock.NewPublisher()

		c, _ := httptestutil.Patch(
			e, "/api/tasks/5",
			strings.NewReader(`{"assigneeId": "unassigned"}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetPath("/api/tasks/:taskId")
		c.SetParamNames("taskId")
		c.SetParamValues("5")

		testee := handlers.UpdateTaskHandler(mckdb, pub, "taskId")
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		patch := mckdb.Calls.Update[0].Patch
		if !patch.UnsetAssignee {
			t.Error("patch.UnsetAssignee should be true")
		}
		if patch.AssigneeId != nil {
			t.Errorf("patch.AssigneeId should be nil, got %v", pointer.SafeDeref(patch.AssigneeId))
		}
	})

	t.Run("When the task is missing, it should respond 404 and not broadcast", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		mckdb.Impl.Update = func(ctx context.Context, id int, patch domain.TaskPatch) (domain.Task, error) {
			return domain.Task{}, dberrors.Missing{Table: "tasks", Identity: "5"}
		}
		pub := hubmock.NewPublisher()

		c, _ := httptestutil.Patch(
			e, "/api/tasks/5",
			strings.NewReader(`{"title": "renamed"}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetPath("/api/tasks/:taskId")
		c.SetParamNames("taskId")
		c.SetParamValues("5")

		testee := handlers.UpdateTaskHandler(mckdb, pub, "taskId")
		err := testee(c)
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %v", err)
		}
		if len(pub.Calls.Publish) != 0 {
			t.Errorf("Publish should not be called, but called %d times", len(pub.Calls.Publish))
		}
	})

	t.Run("When the patch has no fields, it should respond 400 without touching the store", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		pub := hubmock.NewPublisher()

		c, _ := httptestutil.Patch(
			e, "/api/tasks/5",
			strings.NewReader(`{}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetPath("/api/tasks/:taskId")
		c.SetParamNames("taskId")
		c.SetParamValues("5")

		testee := handlers.UpdateTaskHandler(mckdb, pub, "taskId")
		err := testee(c)
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %v", err)
		}
		if mckdb.Calls.Update.Times() != 0 {
			t.Errorf("Update should not be called, but called %d times", mckdb.Calls.Update.Times())
		}
	})
}

func TestDeleteTaskHandler(t *testing.T) {
	e := echo.New()

	t.Run("When a task is deleted, it should respond 204 and broadcast once", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		mckdb.Impl.Delete = func(ctx context.Context, id int) error { return nil }
		pub := hubmock.NewPublisher()

		c, resprec := httptestutil.Delete(e, "/api/tasks/9")
		c.SetPath("/api/tasks/:taskId")
		c.SetParamNames("taskId")
		c.SetParamValues("9")

		testee := handlers.DeleteTaskHandler(mckdb, pub, "taskId")
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resprec.Code != http.StatusNoContent {
			t.Errorf("status: got %d, want %d", resprec.Code, http.StatusNoContent)
		}
		if len(pub.Calls.Publish) != 1 {
			t.Fatalf("Publish called %d times, want 1", len(pub.Calls.Publish))
		}
		ev := pub.Calls.Publish[0]
		if ev.Type != events.TaskDeleted {
			t.Errorf("event type: got %s, want %s", ev.Type, events.TaskDeleted)
		}
		if payload, ok := ev.Payload.(events.DeletedPayload); !ok || payload.Id != 9 {
			t.Errorf("event payload: got %+v", ev.Payload)
		}
	})

	t.Run("When the task is already gone, it should still respond 204", func(t *testing.T) {
		mckdb := dbmock.NewTaskInterface()
		mckdb.Impl.Delete = func(ctx context.Context, id int) error { return nil }
		pub := hubmock.NewPublisher()

		c, resprec := httptestutil.Delete(e, "/api/tasks/404")
		c.SetPath("/api/tasks/:taskId")
		c.SetParamNames("taskId")
		c.SetParamValues("404")

		testee := handlers.DeleteTaskHandler(mckdb, pub, "taskId")
		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resprec.Code != http.StatusNoContent {
			t.Errorf("status: got %d, want %d", resprec.Code, http.StatusNoContent)
		}
	})
}
