package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/usecase"
	"github.com/hireos/hireos/internal/util"
)

func respondError(c *fiber.Ctx, err error, fallback string) error {
	var lerr *usecase.LifecycleError
	if errors.As(err, &lerr) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:      lerr.Code,
			Message:   lerr.Message,
			ErrorType: lerr.ErrorType,
			Details:   lerr.Details,
		})
	}
	return util.ErrorResponse(c, util.ErrorResponseFormat{Message: fallback}, err)
}

func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid " + name,
		}, err)
	}
	return id, nil
}
