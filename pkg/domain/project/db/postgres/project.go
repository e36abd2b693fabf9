package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v4"
	kpool "github.com/tasklane/tasklane/pkg/conn/db/postgres/pool"
	"github.com/tasklane/tasklane/pkg/domain"
	kerr "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	kproject "github.com/tasklane/tasklane/pkg/domain/project/db"
	xe "github.com/tasklane/tasklane/pkg/errors"
)

type projectPG struct { // implements kproject.ProjectInterface
	pool kpool.Pool
}

var _ kproject.ProjectInterface = &projectPG{}

func New(pool kpool.Pool) *projectPG {
	return &projectPG{pool: pool}
}

const projectColumns = `
	"id", "name", "description", "color", "owner_id", "created_at", "updated_at"
`

func scanProject(row pgx.Row) (domain.Project, error) {
	p := domain.Project{}
	err := row.Scan(
		&p.Id, &p.Name, &p.Description, &p.Color, &p.OwnerId,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (s *projectPG) Get(ctx context.Context, id int) (domain.Project, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.Project{}, xe.Wrap(err)
	}
	defer conn.Release()

	p, err := scanProject(conn.QueryRow(
		ctx, `select `+projectColumns+` from "projects" where "id" = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Project{}, kerr.Missing{Table: "projects", Identity: strconv.Itoa(id)}
	}
	if err != nil {
		return domain.Project{}, xe.Wrap(err)
	}
	return p, nil
}

func (s *projectPG) Find(ctx context.Context, ownerId string) ([]domain.Project, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`select `+projectColumns+` from "projects"
		where "owner_id" = $1
		order by "created_at" desc, "id" desc`,
		ownerId,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	return projects, nil
}

func (s *projectPG) Create(ctx context.Context, spec kproject.NewProject) (domain.Project, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.Project{}, xe.Wrap(err)
	}
	defer conn.Release()

	color := spec.Color
	if color == "" {
		color = domain.DefaultProjectColor
	}

	created, err := scanProject(conn.QueryRow(
		ctx,
		`
		insert into "projects" ("name", "description", "color", "owner_id")
		values ($1, $2, $3, $4)
		returning `+projectColumns,
		spec.Name, spec.Description, color, spec.OwnerId,
	))
	if err != nil {
		return domain.Project{}, xe.Wrap(err)
	}
	return created, nil
}

func (s *projectPG) Update(ctx context.Context, id int, patch domain.ProjectPatch) (domain.Project, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.Project{}, xe.Wrap(err)
	}
	defer conn.Release()

	updated, err := scanProject(conn.QueryRow(
		ctx,
		`
		update "projects"
		set "name" = coalesce($2, "name"),
		    "description" = coalesce($3, "description"),
		    "color" = coalesce($4, "color"),
		    "updated_at" = now()
		where "id" = $1
		returning `+projectColumns,
		id, patch.Name, patch.Description, patch.Color,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Project{}, kerr.Missing{Table: "projects", Identity: strconv.Itoa(id)}
	}
	if err != nil {
		return domain.Project{}, xe.Wrap(err)
	}
	return updated, nil
}

func (s *projectPG) Delete(ctx context.Context, id int) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `delete from "projects" where "id" = $1`, id); err != nil {
		return xe.Wrap(err)
	}
	return nil
}
