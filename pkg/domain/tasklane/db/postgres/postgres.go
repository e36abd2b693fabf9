package postgres

import (
	"context"
	"log"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/tasklane/tasklane/pkg/conn/db/postgres/pool"
	kcomment "github.com/tasklane/tasklane/pkg/domain/comment/db"
	kpgcomment "github.com/tasklane/tasklane/pkg/domain/comment/db/postgres"
	kpgschema "github.com/tasklane/tasklane/pkg/domain/internal/db/postgres/schema"
	kproject "github.com/tasklane/tasklane/pkg/domain/project/db"
	kpgproject "github.com/tasklane/tasklane/pkg/domain/project/db/postgres"
	ktask "github.com/tasklane/tasklane/pkg/domain/task/db"
	kpgtask "github.com/tasklane/tasklane/pkg/domain/task/db/postgres"
	dbInterface "github.com/tasklane/tasklane/pkg/domain/tasklane/db"
	kuser "github.com/tasklane/tasklane/pkg/domain/user/db"
	kpguser "github.com/tasklane/tasklane/pkg/domain/user/db/postgres"
	xe "github.com/tasklane/tasklane/pkg/errors"
)

type tasklaneDBPostgres struct {
	pool     *pgxpool.Pool
	tasks    ktask.TaskInterface
	projects kproject.ProjectInterface
	comments kcomment.CommentInterface
	users    kuser.UserInterface
}

type Config struct {
	ApplySchema bool
	Logger      *log.Logger
}

func DefaultConfig() Config {
	return Config{
		ApplySchema: true,
		Logger:      log.Default(),
	}
}

type Option func(*Config) *Config

// WithoutSchema skips applying the embedded DDL on startup.
// Use it when migrations are managed outside the process.
func WithoutSchema() Option {
	return func(c *Config) *Config {
		c.ApplySchema = false
		return c
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Config) *Config {
		c.Logger = logger
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.TasklaneDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := DefaultConfig()
	for _, option := range options {
		c = *option(&c)
	}

	p := kpool.Wrap(pool)
	if c.ApplySchema {
		if err := kpgschema.Apply(ctx, p); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &tasklaneDBPostgres{
		pool:     pool,
		tasks:    kpgtask.New(p, kpgtask.WithLogger(c.Logger)),
		projects: kpgproject.New(p),
		comments: kpgcomment.New(p),
		users:    kpguser.New(p),
	}, nil
}

func (t *tasklaneDBPostgres) Tasks() ktask.TaskInterface {
	return t.tasks
}

func (t *tasklaneDBPostgres) Projects() kproject.ProjectInterface {
	return t.projects
}

func (t *tasklaneDBPostgres) Comments() kcomment.CommentInterface {
	return t.comments
}

func (t *tasklaneDBPostgres) Users() kuser.UserInterface {
	return t.users
}

func (t *tasklaneDBPostgres) Close() error {
	t.pool.Close()
	return nil
}
