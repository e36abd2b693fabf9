package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/jackc/pgx/v4"
	kpool "github.com/tasklane/tasklane/pkg/conn/db/postgres/pool"
	"github.com/tasklane/tasklane/pkg/domain"
	kerr "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	ktask "github.com/tasklane/tasklane/pkg/domain/task/db"
	xe "github.com/tasklane/tasklane/pkg/errors"
)

type taskPG struct { // implements ktask.TaskInterface

	// connection pool for PostgreSQL
	pool kpool.Pool

	logger *log.Logger
}

var _ ktask.TaskInterface = &taskPG{}

type Option func(*taskPG) *taskPG

// WithLogger sets the logger used to report best-effort side-effect failures.
func WithLogger(logger *log.Logger) Option {
	return func(t *taskPG) *taskPG {
		t.logger = logger
		return t
	}
}

func New(pool kpool.Pool, option ...Option) *taskPG {
	t := &taskPG{
		pool:   pool,
		logger: log.Default(),
	}
	for _, opt := range option {
		t = opt(t)
	}
	return t
}

const taskColumns = `
	"id", "title", "description", "status", "priority", "due_date",
	"position", "project_id", "assignee_id", "creator_id", "labels",
	"created_at", "updated_at"
`

func scanTask(row pgx.Row) (domain.Task, error) {
	t := domain.Task{}
	var status, priority string
	err := row.Scan(
		&t.Id, &t.Title, &t.Description, &status, &priority, &t.DueDate,
		&t.Position, &t.ProjectId, &t.AssigneeId, &t.CreatorId, &t.Labels,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	return t, nil
}

func (s *taskPG) Get(ctx context.Context, id int) (domain.Task, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	defer conn.Release()

	return s.get(ctx, conn, id)
}

func (s *taskPG) get(ctx context.Context, q kpool.Queryer, id int) (domain.Task, error) {
	t, err := scanTask(q.QueryRow(
		ctx, `select `+taskColumns+` from "tasks" where "id" = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, kerr.Missing{Table: "tasks", Identity: strconv.Itoa(id)}
	}
	if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	return t, nil
}

func (s *taskPG) Find(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	query := `select ` + taskColumns + ` from "tasks" where true`
	args := []interface{}{}

	if filter.ProjectId != nil {
		args = append(args, *filter.ProjectId)
		query += fmt.Sprintf(` and "project_id" = $%d`, len(args))
	}
	if filter.AssigneeId != nil {
		args = append(args, *filter.AssigneeId)
		query += fmt.Sprintf(` and "assignee_id" = $%d`, len(args))
	}
	if filter.Status != nil {
		args = append(args, filter.Status.String())
		query += fmt.Sprintf(` and "status" = $%d`, len(args))
	}

	// duplicated positions are tolerated; id keeps the order stable.
	query += ` order by "position", "id"`

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	return tasks, nil
}

func (s *taskPG) Create(ctx context.Context, spec ktask.NewTask) (domain.Task, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	status := spec.Status
	if status == "" {
		status = domain.DefaultStatus
	}
	priority := spec.Priority
	if priority == "" {
		priority = domain.DefaultPriority
	}

	maxPosition, err := s.maxPosition(ctx, tx, status)
	if err != nil {
		return domain.Task{}, err
	}

	labels := spec.Labels
	if labels == nil {
		labels = []string{}
	}

	created, err := scanTask(tx.QueryRow(
		ctx,
		`
		insert into "tasks" (
			"title", "description", "status", "priority", "due_date",
			"position", "project_id", "assignee_id", "creator_id", "labels"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		returning `+taskColumns,
		spec.Title, spec.Description, status.String(), priority.String(),
		spec.DueDate, domain.NextPosition(maxPosition),
		spec.ProjectId, spec.AssigneeId, spec.CreatorId, labels,
	))
	if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	return created, nil
}

func (s *taskPG) Update(ctx context.Context, id int, patch domain.TaskPatch) (domain.Task, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	before, err := s.get(ctx, tx, id)
	if err != nil {
		return domain.Task{}, err
	}

	after := applyPatch(before, patch)

	updated, err := scanTask(tx.QueryRow(
		ctx,
		`
		update "tasks"
		set "title" = $2, "description" = $3, "status" = $4, "priority" = $5,
		    "due_date" = $6, "position" = $7, "project_id" = $8,
		    "assignee_id" = $9, "labels" = $10, "updated_at" = now()
		where "id" = $1
		returning `+taskColumns,
		id, after.Title, after.Description, after.Status.String(),
		after.Priority.String(), after.DueDate, after.Position,
		after.ProjectId, after.AssigneeId, after.Labels,
	))
	if err != nil {
		return domain.Task{}, xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Task{}, xe.Wrap(err)
	}

	// the reward write is best-effort: the task update above is already
	// committed, and a failure here must not fail the request.
	if domain.CompletesTask(before.Status, updated.Status) && updated.AssigneeId != nil {
		if err := s.reward(ctx, conn, *updated.AssigneeId); err != nil {
			s.logger.Printf(
				"failed to reward user %s for task %d: %s",
				*updated.AssigneeId, updated.Id, err,
			)
		}
	}

	return updated, nil
}

// applyPatch merges patch over base. Position and status move verbatim;
// no sibling renumbering happens here or anywhere else.
func applyPatch(base domain.Task, patch domain.TaskPatch) domain.Task {
	ret := base
	if patch.Title != nil {
		ret.Title = *patch.Title
	}
	if patch.Description != nil {
		ret.Description = *patch.Description
	}
	if patch.Status != nil {
		ret.Status = *patch.Status
	}
	if patch.Priority != nil {
		ret.Priority = *patch.Priority
	}
	if patch.Position != nil {
		ret.Position = *patch.Position
	}
	if patch.DueDate != nil {
		ret.DueDate = patch.DueDate
	}
	if patch.ProjectId != nil {
		ret.ProjectId = patch.ProjectId
	}
	if patch.UnsetAssignee {
		ret.AssigneeId = nil
	} else if patch.AssigneeId != nil {
		ret.AssigneeId = patch.AssigneeId
	}
	if patch.Labels != nil {
		ret.Labels = patch.Labels
	}
	return ret
}

func (s *taskPG) reward(ctx context.Context, q kpool.Queryer, userId string) error {
	_, err := q.Exec(
		ctx,
		`
		update "users"
		set "xp" = "xp" + $2,
		    "level" = ("xp" + $2) / 100 + 1,
		    "updated_at" = now()
		where "id" = $1
		`,
		userId, domain.CompletionReward,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (s *taskPG) Delete(ctx context.Context, id int) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	// idempotent: zero rows affected is fine.
	if _, err := conn.Exec(ctx, `delete from "tasks" where "id" = $1`, id); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (s *taskPG) MaxPosition(ctx context.Context, status domain.TaskStatus) (int, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	defer conn.Release()

	return s.maxPosition(ctx, conn, status)
}

func (s *taskPG) maxPosition(ctx context.Context, q kpool.Queryer, status domain.TaskStatus) (int, error) {
	var max int
	err := q.QueryRow(
		ctx,
		`select coalesce(max("position"), 0) from "tasks" where "status" = $1`,
		status.String(),
	).Scan(&max)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	return max, nil
}
