package handler

import (
	"cafe/internal/domain/entity"
	"cafe/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// userIDFromContext pulls the authenticated user ID set by the auth middleware.
func userIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("user ID missing from context")
	}

	return userID, nil
}

// actorFromContext builds the acting identity from the auth middleware values.
func actorFromContext(c echo.Context) (usecase.Actor, error) {
	userID, err := userIDFromContext(c)
	if err != nil {
		return usecase.Actor{}, err
	}

	roles, _ := c.Get("roles").([]string)

	return usecase.Actor{
		ID:    userID,
		Roles: entity.RolesFromStrings(roles),
	}, nil
}
