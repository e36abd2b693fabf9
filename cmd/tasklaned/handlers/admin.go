package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/tasklane/tasklane/pkg/api/types/errors"
	apiusers "github.com/tasklane/tasklane/pkg/api/types/users"
	"github.com/tasklane/tasklane/pkg/domain"
	dberrors "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	userdb "github.com/tasklane/tasklane/pkg/domain/user/db"
	"github.com/tasklane/tasklane/pkg/utils/slices"
)

func AdminFindUserHandler(dbUser userdb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		users, err := dbUser.GetAll(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, slices.Map(users, apiusers.ComposeDetail))
	}
}

func ApproveUserHandler(dbUser userdb.UserInterface, paramUserId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param(paramUserId)

		user, err := dbUser.Approve(ctx, id)
		if errors.Is(err, dberrors.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apiusers.ComposeDetail(user))
	}
}

func RejectUserHandler(dbUser userdb.UserInterface, paramUserId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param(paramUserId)

		if err := dbUser.Reject(ctx, id); err != nil {
			return apierr.InternalServerError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// PendingUserHandler lists users awaiting approval.
func PendingUserHandler(dbUser userdb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		users, err := dbUser.GetAll(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		pending := slices.Filter(users, func(u domain.User) bool {
			return !u.IsApproved && !u.IsAdmin
		})
		return c.JSON(http.StatusOK, slices.Map(pending, apiusers.ComposeDetail))
	}
}
