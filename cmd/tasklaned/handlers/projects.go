package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/tasklane/tasklane/pkg/api/types/errors"
	apiprojects "github.com/tasklane/tasklane/pkg/api/types/projects"
	"github.com/tasklane/tasklane/pkg/auth"
	dberrors "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	projectdb "github.com/tasklane/tasklane/pkg/domain/project/db"
	"github.com/tasklane/tasklane/pkg/utils/slices"
)

func FindProjectHandler(dbProject projectdb.ProjectInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		who, ok := auth.Identity(c)
		if !ok {
			return apierr.Unauthorized("send a bearer token", nil)
		}

		projects, err := dbProject.Find(ctx, who.Id)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, slices.Map(projects, apiprojects.ComposeDetail))
	}
}

func GetProjectHandler(dbProject projectdb.ProjectInterface, paramProjectId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, herr := pathId(c, paramProjectId)
		if herr != nil {
			return herr
		}

		project, err := dbProject.Get(ctx, id)
		if errors.Is(err, dberrors.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apiprojects.ComposeDetail(project))
	}
}

func CreateProjectHandler(dbProject projectdb.ProjectInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		who, ok := auth.Identity(c)
		if !ok {
			return apierr.Unauthorized("send a bearer token", nil)
		}

		spec := new(apiprojects.ProjectSpec)
		if herr := decodeBody(c, spec); herr != nil {
			return herr
		}
		fields, problems := spec.Validate()
		if problems != nil {
			return apierr.InvalidInput(problems)
		}

		project, err := dbProject.Create(ctx, projectdb.NewProject{
			Name:        fields.Name,
			Description: fields.Description,
			Color:       fields.Color,
			OwnerId:     who.Id,
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusCreated, apiprojects.ComposeDetail(project))
	}
}

func UpdateProjectHandler(dbProject projectdb.ProjectInterface, paramProjectId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, herr := pathId(c, paramProjectId)
		if herr != nil {
			return herr
		}

		change := new(apiprojects.ProjectChange)
		if herr := decodeBody(c, change); herr != nil {
			return herr
		}
		patch, problems := change.Validate()
		if problems != nil {
			return apierr.InvalidInput(problems)
		}

		project, err := dbProject.Update(ctx, id, patch)
		if errors.Is(err, dberrors.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apiprojects.ComposeDetail(project))
	}
}

func DeleteProjectHandler(dbProject projectdb.ProjectInterface, paramProjectId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, herr := pathId(c, paramProjectId)
		if herr != nil {
			return herr
		}

		if err := dbProject.Delete(ctx, id); err != nil {
			return apierr.InternalServerError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
