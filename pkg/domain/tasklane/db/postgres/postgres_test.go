package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/tasklane/tasklane/pkg/domain"
	commentdb "github.com/tasklane/tasklane/pkg/domain/comment/db"
	dberrors "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	taskdb "github.com/tasklane/tasklane/pkg/domain/task/db"
	dbInterface "github.com/tasklane/tasklane/pkg/domain/tasklane/db"
	"github.com/tasklane/tasklane/pkg/domain/tasklane/db/postgres"
	userdb "github.com/tasklane/tasklane/pkg/domain/user/db"
	"github.com/tasklane/tasklane/pkg/utils/pointer"
	"github.com/tasklane/tasklane/pkg/utils/slices"
	"github.com/tasklane/tasklane/pkg/utils/try"
)

// testDatabase connects to the database pointed by TASKLANE_TEST_DBURI
// and resets its content. Tests are skipped when the variable is unset.
func testDatabase(ctx context.Context, t *testing.T) dbInterface.TasklaneDatabase {
	t.Helper()
	dburi := os.Getenv("TASKLANE_TEST_DBURI")
	if dburi == "" {
		t.Skip("TASKLANE_TEST_DBURI is not set")
	}

	db := try.To(postgres.New(ctx, dburi)).OrFatal(t)
	t.Cleanup(func() { db.Close() })

	pool := try.To(pgxpool.Connect(ctx, dburi)).OrFatal(t)
	t.Cleanup(pool.Close)
	try.To(pool.Exec(
		ctx, `truncate "comments", "tasks", "projects", "users" cascade`,
	)).OrFatal(t)

	return db
}

func member(ctx context.Context, t *testing.T, db dbInterface.TasklaneDatabase, id string) domain.User {
	t.Helper()
	u := try.To(db.Users().Upsert(ctx, userdb.Profile{
		Id: id, FirstName: id,
	})).OrFatal(t)
	return try.To(db.Users().Approve(ctx, u.Id)).OrFatal(t)
}

func TestTaskPositions(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(ctx, t)
	creator := member(ctx, t, db, "creator")

	newTask := func(status domain.TaskStatus) taskdb.NewTask {
		return taskdb.NewTask{
			Title: "task", Status: status, Priority: domain.Medium,
			CreatorId: creator.Id,
		}
	}

	t.Run("When tasks are created in a column, positions should grow 1, 2, 3", func(t *testing.T) {
		first := try.To(db.Tasks().Create(ctx, newTask(domain.Todo))).OrFatal(t)
		second := try.To(db.Tasks().Create(ctx, newTask(domain.Todo))).OrFatal(t)
		third := try.To(db.Tasks().Create(ctx, newTask(domain.Todo))).OrFatal(t)

		for i, task := range []domain.Task{first, second, third} {
			if task.Position != i+1 {
				t.Errorf("position: got %d, want %d", task.Position, i+1)
			}
		}

		got := try.To(db.Tasks().Get(ctx, first.Id)).OrFatal(t)
		if !got.Equal(first) {
			t.Errorf("round trip: got %+v, want %+v", got, first)
		}
	})

	t.Run("When a column is empty, MaxPosition should be 0", func(t *testing.T) {
		max := try.To(db.Tasks().MaxPosition(ctx, domain.Review)).OrFatal(t)
		if max != 0 {
			t.Errorf("MaxPosition: got %d, want 0", max)
		}
	})

	t.Run("When another column has tasks, a new column still starts at 1", func(t *testing.T) {
		created := try.To(db.Tasks().Create(ctx, newTask(domain.InProgress))).OrFatal(t)
		if created.Position != 1 {
			t.Errorf("position: got %d, want 1", created.Position)
		}
	})

	t.Run("When a move duplicates a position, reads should stay stable, ordered by id", func(t *testing.T) {
		a := try.To(db.Tasks().Create(ctx, newTask(domain.Done))).OrFatal(t)
		b := try.To(db.Tasks().Create(ctx, newTask(domain.Done))).OrFatal(t)

		// move b onto a's position; nothing reindexes.
		moved := try.To(db.Tasks().Update(
			ctx, b.Id, domain.TaskPatch{Position: pointer.Ref(a.Position)},
		)).OrFatal(t)
		if moved.Position != a.Position {
			t.Fatalf("position not overwritten verbatim: got %d, want %d", moved.Position, a.Position)
		}

		status := domain.Done
		found := try.To(db.Tasks().Find(ctx, domain.TaskFilter{Status: &status})).OrFatal(t)
		got := slices.Map(found, func(task domain.Task) int { return task.Id })
		if len(got) != 2 || got[0] != a.Id || got[1] != b.Id {
			t.Errorf("order: got %v, want [%d %d]", got, a.Id, b.Id)
		}
	})
}

func TestTaskCompletionReward(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(ctx, t)
	creator := member(ctx, t, db, "creator")
	assignee := member(ctx, t, db, "assignee")

	create := func(status domain.TaskStatus, assigneeId *string) domain.Task {
		t.Helper()
		return try.To(db.Tasks().Create(ctx, taskdb.NewTask{
			Title: "task", Status: status, Priority: domain.Medium,
			CreatorId: creator.Id, AssigneeId: assigneeId,
		})).OrFatal(t)
	}

	t.Run("When an assigned task moves to done, the assignee should gain xp", func(t *testing.T) {
		task := create(domain.InProgress, &assignee.Id)
		before := try.To(db.Users().Get(ctx, assignee.Id)).OrFatal(t)

		try.To(db.Tasks().Update(
			ctx, task.Id, domain.TaskPatch{Status: pointer.Ref(domain.Done)},
		)).OrFatal(t)

		after := try.To(db.Users().Get(ctx, assignee.Id)).OrFatal(t)
		if after.Xp != before.Xp+domain.CompletionReward {
			t.Errorf("xp: got %d, want %d", after.Xp, before.Xp+domain.CompletionReward)
		}
		if after.Level != domain.LevelFor(after.Xp) {
			t.Errorf("level: got %d, want %d", after.Level, domain.LevelFor(after.Xp))
		}
	})

	t.Run("When a done task is patched while staying done, no xp should be granted", func(t *testing.T) {
		task := create(domain.Done, &assignee.Id)
		before := try.To(db.Users().Get(ctx, assignee.Id)).OrFatal(t)

		try.To(db.Tasks().Update(
			ctx, task.Id, domain.TaskPatch{Position: pointer.Ref(99)},
		)).OrFatal(t)

		after := try.To(db.Users().Get(ctx, assignee.Id)).OrFatal(t)
		if after.Xp != before.Xp {
			t.Errorf("xp moved on a done→done edge: %d -> %d", before.Xp, after.Xp)
		}
	})

	t.Run("When a task leaves done, xp should not be revoked", func(t *testing.T) {
		task := create(domain.InProgress, &assignee.Id)
		try.To(db.Tasks().Update(
			ctx, task.Id, domain.TaskPatch{Status: pointer.Ref(domain.Done)},
		)).OrFatal(t)
		rewarded := try.To(db.Users().Get(ctx, assignee.Id)).OrFatal(t)

		try.To(db.Tasks().Update(
			ctx, task.Id, domain.TaskPatch{Status: pointer.Ref(domain.Todo)},
		)).OrFatal(t)

		after := try.To(db.Users().Get(ctx, assignee.Id)).OrFatal(t)
		if after.Xp != rewarded.Xp {
			t.Errorf("xp was revoked: %d -> %d", rewarded.Xp, after.Xp)
		}
	})

	t.Run("When an unassigned task moves to done, nobody should gain xp", func(t *testing.T) {
		task := create(domain.InProgress, nil)
		before := try.To(db.Users().Get(ctx, assignee.Id)).OrFatal(t)

		try.To(db.Tasks().Update(
			ctx, task.Id, domain.TaskPatch{Status: pointer.Ref(domain.Done)},
		)).OrFatal(t)

		after := try.To(db.Users().Get(ctx, assignee.Id)).OrFatal(t)
		if after.Xp != before.Xp {
			t.Errorf("xp moved without an assignee: %d -> %d", before.Xp, after.Xp)
		}
	})
}

func TestDeletes(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(ctx, t)
	creator := member(ctx, t, db, "creator")

	t.Run("When a task is deleted twice, the second delete should also succeed", func(t *testing.T) {
		task := try.To(db.Tasks().Create(ctx, taskdb.NewTask{
			Title: "task", Status: domain.Todo, Priority: domain.Medium, CreatorId: creator.Id,
		})).OrFatal(t)

		if err := db.Tasks().Delete(ctx, task.Id); err != nil {
			t.Fatalf("first delete failed: %v", err)
		}
		if err := db.Tasks().Delete(ctx, task.Id); err != nil {
			t.Errorf("second delete failed: %v", err)
		}

		if _, err := db.Tasks().Get(ctx, task.Id); !errors.Is(err, dberrors.ErrMissing) {
			t.Errorf("deleted task is still there: %v", err)
		}
	})

	t.Run("When a task is deleted, its comments should go with it", func(t *testing.T) {
		task := try.To(db.Tasks().Create(ctx, taskdb.NewTask{
			Title: "task", Status: domain.Todo, Priority: domain.Medium, CreatorId: creator.Id,
		})).OrFatal(t)
		try.To(db.Comments().Create(ctx, commentdb.NewComment{
			Content: "to be cascaded", TaskId: task.Id, AuthorId: creator.Id,
		})).OrFatal(t)

		if err := db.Tasks().Delete(ctx, task.Id); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		remaining := try.To(db.Comments().Find(ctx, task.Id)).OrFatal(t)
		if len(remaining) != 0 {
			t.Errorf("comments survived the task: %+v", remaining)
		}
	})

	t.Run("When a comment targets a missing task, Create should report ErrMissing", func(t *testing.T) {
		_, err := db.Comments().Create(ctx, commentdb.NewComment{
			Content: "void", TaskId: 999999, AuthorId: creator.Id,
		})
		if !errors.Is(err, dberrors.ErrMissing) {
			t.Errorf("expected ErrMissing, got %v", err)
		}
	})
}
