package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/tasklane/tasklane/pkg/api/types/errors"
	"github.com/tasklane/tasklane/pkg/api/types/events"
	apitasks "github.com/tasklane/tasklane/pkg/api/types/tasks"
	"github.com/tasklane/tasklane/pkg/auth"
	"github.com/tasklane/tasklane/pkg/domain"
	dberrors "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	taskdb "github.com/tasklane/tasklane/pkg/domain/task/db"
	"github.com/tasklane/tasklane/pkg/hub"
	"github.com/tasklane/tasklane/pkg/utils/slices"
)

// decodeBody reads a JSON request body into dest, rejecting unknown
// fields so typos in client payloads surface as 400 instead of being
// dropped silently.
func decodeBody(c echo.Context, dest interface{}) *echo.HTTPError {
	req := c.Request()
	if ct := strings.ToLower(req.Header.Get("content-type")); !strings.HasPrefix(ct, "application/json") {
		return apierr.BadRequest("unexpected content type. it should be application/json", nil)
	}
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return apierr.BadRequest("can not understand the requested json", err)
	}
	return nil
}

func pathId(c echo.Context, param string) (int, *echo.HTTPError) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil {
		return 0, apierr.BadRequest(param+" should be an integer", err)
	}
	return id, nil
}

func FindTaskHandler(dbTask taskdb.TaskInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		filter := domain.TaskFilter{}
		if v := c.QueryParam("projectId"); v != "" {
			projectId, err := strconv.Atoi(v)
			if err != nil {
				return apierr.BadRequest("projectId should be an integer", err)
			}
			filter.ProjectId = &projectId
		}
		if v := c.QueryParam("assigneeId"); v != "" {
			filter.AssigneeId = &v
		}
		if v := c.QueryParam("status"); v != "" {
			status, err := domain.AsTaskStatus(v)
			if err != nil {
				return apierr.BadRequest("unknown status: "+v, err)
			}
			filter.Status = &status
		}

		tasks, err := dbTask.Find(ctx, filter)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, slices.Map(tasks, apitasks.ComposeDetail))
	}
}

func GetTaskHandler(dbTask taskdb.TaskInterface, paramTaskId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, herr := pathId(c, paramTaskId)
		if herr != nil {
			return herr
		}

		task, err := dbTask.Get(ctx, id)
		if errors.Is(err, dberrors.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apitasks.ComposeDetail(task))
	}
}

func CreateTaskHandler(dbTask taskdb.TaskInterface, pub hub.Publisher) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		who, ok := auth.Identity(c)
		if !ok {
			return apierr.Unauthorized("send a bearer token", nil)
		}

		spec := new(apitasks.TaskSpec)
		if herr := decodeBody(c, spec); herr != nil {
			return herr
		}
		fields, problems := spec.Validate(who.Id)
		if problems != nil {
			return apierr.InvalidInput(problems)
		}

		task, err := dbTask.Create(ctx, taskdb.NewTask{
			Title:       fields.Title,
			Description: fields.Description,
			Status:      fields.Status,
			Priority:    fields.Priority,
			DueDate:     fields.DueDate,
			ProjectId:   fields.ProjectId,
			AssigneeId:  fields.AssigneeId,
			CreatorId:   fields.CreatorId,
			Labels:      fields.Labels,
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		detail := apitasks.ComposeDetail(task)
		pub.Publish(events.Event{Type: events.TaskCreated, Payload: detail})
		return c.JSON(http.StatusCreated, detail)
	}
}

func UpdateTaskHandler(dbTask taskdb.TaskInterface, pub hub.Publisher, paramTaskId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, herr := pathId(c, paramTaskId)
		if herr != nil {
			return herr
		}

		change := new(apitasks.TaskChange)
		if herr := decodeBody(c, change); herr != nil {
			return herr
		}
		patch, problems := change.Validate()
		if problems != nil {
			return apierr.InvalidInput(problems)
		}
		if patch.Empty() {
			return apierr.BadRequest("no fields to update", nil)
		}

		task, err := dbTask.Update(ctx, id, patch)
		if errors.Is(err, dberrors.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		detail := apitasks.ComposeDetail(task)
		pub.Publish(events.Event{Type: events.TaskUpdated, Payload: detail})
		return c.JSON(http.StatusOK, detail)
	}
}

func DeleteTaskHandler(dbTask taskdb.TaskInterface, pub hub.Publisher, paramTaskId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, herr := pathId(c, paramTaskId)
		if herr != nil {
			return herr
		}

		if err := dbTask.Delete(ctx, id); err != nil {
			return apierr.InternalServerError(err)
		}

		pub.Publish(events.Event{
			Type:    events.TaskDeleted,
			Payload: events.DeletedPayload{Id: id},
		})
		return c.NoContent(http.StatusNoContent)
	}
}
