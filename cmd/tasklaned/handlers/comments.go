package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	apicomments "github.com/tasklane/tasklane/pkg/api/types/comments"
	apierr "github.com/tasklane/tasklane/pkg/api/types/errors"
	"github.com/tasklane/tasklane/pkg/api/types/events"
	"github.com/tasklane/tasklane/pkg/auth"
	commentdb "github.com/tasklane/tasklane/pkg/domain/comment/db"
	dberrors "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	"github.com/tasklane/tasklane/pkg/hub"
	"github.com/tasklane/tasklane/pkg/utils/slices"
)

func FindCommentHandler(dbComment commentdb.CommentInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		taskId, err := strconv.Atoi(c.QueryParam("taskId"))
		if err != nil {
			return apierr.BadRequest("taskId is required", err)
		}

		comments, err := dbComment.Find(ctx, taskId)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, slices.Map(comments, apicomments.ComposeDetail))
	}
}

func CreateCommentHandler(dbComment commentdb.CommentInterface, pub hub.Publisher, paramTaskId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		who, ok := auth.Identity(c)
		if !ok {
			return apierr.Unauthorized("send a bearer token", nil)
		}
		taskId, herr := pathId(c, paramTaskId)
		if herr != nil {
			return herr
		}

		spec := new(apicomments.CommentSpec)
		if herr := decodeBody(c, spec); herr != nil {
			return herr
		}
		if problems := spec.Validate(); problems != nil {
			return apierr.InvalidInput(problems)
		}

		comment, err := dbComment.Create(ctx, commentdb.NewComment{
			Content:  spec.Content,
			TaskId:   taskId,
			AuthorId: who.Id,
		})
		if errors.Is(err, dberrors.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		detail := apicomments.ComposeDetail(comment)
		pub.Publish(events.Event{Type: events.CommentCreated, Payload: detail})
		return c.JSON(http.StatusCreated, detail)
	}
}

func DeleteCommentHandler(dbComment commentdb.CommentInterface, paramCommentId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, herr := pathId(c, paramCommentId)
		if herr != nil {
			return herr
		}

		if err := dbComment.Delete(ctx, id); err != nil {
			return apierr.InternalServerError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
