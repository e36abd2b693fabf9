package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	kcomment "github.com/tasklane/tasklane/pkg/domain/comment/db"
	kpool "github.com/tasklane/tasklane/pkg/conn/db/postgres/pool"
	"github.com/tasklane/tasklane/pkg/domain"
	kerr "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	xe "github.com/tasklane/tasklane/pkg/errors"
)

type commentPG struct { // implements kcomment.CommentInterface
	pool kpool.Pool
}

var _ kcomment.CommentInterface = &commentPG{}

func New(pool kpool.Pool) *commentPG {
	return &commentPG{pool: pool}
}

const commentColumns = `
	"id", "content", "task_id", "author_id", "created_at", "updated_at"
`

func scanComment(row pgx.Row) (domain.Comment, error) {
	c := domain.Comment{}
	err := row.Scan(
		&c.Id, &c.Content, &c.TaskId, &c.AuthorId, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Comment{}, err
	}
	return c, nil
}

func (s *commentPG) Find(ctx context.Context, taskId int) ([]domain.Comment, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`select `+commentColumns+` from "comments"
		where "task_id" = $1
		order by "created_at", "id"`,
		taskId,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	return comments, nil
}

func (s *commentPG) Create(ctx context.Context, spec kcomment.NewComment) (domain.Comment, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.Comment{}, xe.Wrap(err)
	}
	defer conn.Release()

	created, err := scanComment(conn.QueryRow(
		ctx,
		`
		insert into "comments" ("content", "task_id", "author_id")
		values ($1, $2, $3)
		returning `+commentColumns,
		spec.Content, spec.TaskId, spec.AuthorId,
	))
	if err != nil {
		// commenting on a removed task surfaces as an FK violation.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return domain.Comment{}, kerr.Missing{Table: "tasks", Identity: strconv.Itoa(spec.TaskId)}
		}
		return domain.Comment{}, xe.Wrap(err)
	}
	return created, nil
}

func (s *commentPG) Delete(ctx context.Context, id int) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `delete from "comments" where "id" = $1`, id); err != nil {
		return xe.Wrap(err)
	}
	return nil
}
