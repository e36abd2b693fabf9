package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	kpool "github.com/tasklane/tasklane/pkg/conn/db/postgres/pool"
	"github.com/tasklane/tasklane/pkg/domain"
	kerr "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	kuser "github.com/tasklane/tasklane/pkg/domain/user/db"
	xe "github.com/tasklane/tasklane/pkg/errors"
)

type userPG struct { // implements kuser.UserInterface
	pool kpool.Pool
}

var _ kuser.UserInterface = &userPG{}

func New(pool kpool.Pool) *userPG {
	return &userPG{pool: pool}
}

const userColumns = `
	"id", "email", "first_name", "last_name", "profile_image_url",
	"is_admin", "is_approved", "xp", "level", "created_at", "updated_at"
`

func scanUser(row pgx.Row) (domain.User, error) {
	u := domain.User{}
	var email *string
	err := row.Scan(
		&u.Id, &email, &u.FirstName, &u.LastName, &u.ProfileImageUrl,
		&u.IsAdmin, &u.IsApproved, &u.Xp, &u.Level, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	if email != nil {
		u.Email = *email
	}
	return u, nil
}

func (s *userPG) Get(ctx context.Context, id string) (domain.User, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	defer conn.Release()

	u, err := scanUser(conn.QueryRow(
		ctx, `select `+userColumns+` from "users" where "id" = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, kerr.Missing{Table: "users", Identity: id}
	}
	if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	return u, nil
}

func (s *userPG) GetAll(ctx context.Context) ([]domain.User, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	return s.query(
		ctx, conn,
		`select `+userColumns+` from "users" order by "first_name", "id"`,
	)
}

func (s *userPG) query(ctx context.Context, q kpool.Queryer, sql string, args ...interface{}) ([]domain.User, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	return users, nil
}

func (s *userPG) Upsert(ctx context.Context, profile kuser.Profile) (domain.User, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	defer conn.Release()

	id := profile.Id
	if id == "" {
		id = uuid.NewString()
	}

	var email *string
	if profile.Email != "" {
		email = &profile.Email
	}

	u, err := scanUser(conn.QueryRow(
		ctx,
		`
		insert into "users" ("id", "email", "first_name", "last_name", "profile_image_url")
		values ($1, $2, $3, $4, $5)
		on conflict ("id") do update
		set "email" = excluded."email",
		    "first_name" = excluded."first_name",
		    "last_name" = excluded."last_name",
		    "profile_image_url" = excluded."profile_image_url",
		    "updated_at" = now()
		returning `+userColumns,
		id, email, profile.FirstName, profile.LastName, profile.ProfileImageUrl,
	))
	if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	return u, nil
}

func (s *userPG) Approve(ctx context.Context, id string) (domain.User, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	defer conn.Release()

	u, err := scanUser(conn.QueryRow(
		ctx,
		`
		update "users" set "is_approved" = true, "updated_at" = now()
		where "id" = $1
		returning `+userColumns,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, kerr.Missing{Table: "users", Identity: id}
	}
	if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	return u, nil
}

func (s *userPG) Reject(ctx context.Context, id string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `delete from "users" where "id" = $1`, id); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (s *userPG) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	return s.query(
		ctx, conn,
		`select `+userColumns+` from "users" order by "xp" desc, "id" limit $1`,
		limit,
	)
}
