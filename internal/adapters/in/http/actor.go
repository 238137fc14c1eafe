package http

import (
	"net/http"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the gateway after authentication.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
	HeaderBranchID = "X-Branch-ID"
)

const actorKey = "actor"

// ActorFromHeaders turns the gateway identity headers into an actor.Actor.
// Requests without a valid identity are answered with 401.
func ActorFromHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, err := parseActor(c.Request().Header)
			if err != nil {
				return c.JSON(http.StatusUnauthorized,
					newErrorResponse(http.StatusUnauthorized, "unauthenticated", err.Error()))
			}
			c.Set(actorKey, a)
			return next(c)
		}
	}
}

func parseActor(h http.Header) (actor.Actor, error) {
	userID, err := kernel.UUIDFromString(h.Get(HeaderUserID))
	if err != nil {
		return actor.Actor{}, err
	}

	var branchID *kernel.UUID
	if raw := h.Get(HeaderBranchID); raw != "" {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return actor.Actor{}, err
		}
		branchID = &id
	}

	return actor.New(userID, actor.Role(h.Get(HeaderUserRole)), branchID)
}

func actorFrom(c echo.Context) actor.Actor {
	a, _ := c.Get(actorKey).(actor.Actor)
	return a
}
