package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	apierr "github.com/tasklane/tasklane/pkg/api/types/errors"
	apiusers "github.com/tasklane/tasklane/pkg/api/types/users"
	"github.com/tasklane/tasklane/pkg/auth"
	dberrors "github.com/tasklane/tasklane/pkg/domain/errors/dberrors"
	userdb "github.com/tasklane/tasklane/pkg/domain/user/db"
	"github.com/tasklane/tasklane/pkg/utils/slices"
)

const defaultLeaderboardSize = 10

// GetCallerHandler returns the caller's own record. A caller seen for
// the first time gets a fresh, unapproved record.
func GetCallerHandler(dbUser userdb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		who, ok := auth.Identity(c)
		if !ok {
			return apierr.Unauthorized("send a bearer token", nil)
		}

		user, err := dbUser.Get(ctx, who.Id)
		if errors.Is(err, dberrors.ErrMissing) {
			user, err = dbUser.Upsert(ctx, userdb.Profile{Id: who.Id})
		}
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apiusers.ComposeDetail(user))
	}
}

func FindUserHandler(dbUser userdb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		users, err := dbUser.GetAll(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, slices.Map(users, apiusers.ComposeDetail))
	}
}

func LeaderboardHandler(dbUser userdb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		limit := defaultLeaderboardSize
		if v := c.QueryParam("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed <= 0 {
				return apierr.BadRequest("limit should be a positive integer", err)
			}
			limit = parsed
		}

		users, err := dbUser.Leaderboard(ctx, limit)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, slices.Map(users, apiusers.ComposeDetail))
	}
}
