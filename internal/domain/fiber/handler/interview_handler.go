package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hireos/hireos/internal/middleware"
	"github.com/hireos/hireos/internal/usecase"
	"github.com/hireos/hireos/internal/util"
)

type InterviewHandler struct {
	uc *usecase.InterviewUsecase
}

func NewInterviewHandler(uc *usecase.InterviewUsecase) *InterviewHandler {
	return &InterviewHandler{uc: uc}
}

func (h *InterviewHandler) RegisterRoutes(app *fiber.App, auth fiber.Handler) {
	g := app.Group("/api/interviews", auth)
	g.Post("/", h.Create)
	g.Patch("/:id", h.Update)
	g.Post("/:id/complete", h.Complete)
	g.Post("/:id/evaluate", h.Evaluate)
}

func (h *InterviewHandler) Create(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)

	var input usecase.CreateInterviewInput
	if err := c.BodyParser(&input); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	iv, err := h.uc.Create(c.Context(), actor.AccountID, actor, input)
	if err != nil {
		return respondError(c, err, "failed to create interview")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Interview created",
		Data:    iv,
	})
}

func (h *InterviewHandler) Update(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var patch usecase.UpdateInterviewInput
	if err := c.BodyParser(&patch); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	iv, err := h.uc.Update(c.Context(), actor.AccountID, id, actor, patch)
	if err != nil {
		return respondError(c, err, "failed to update interview")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Interview updated",
		Data:    iv,
	})
}

func (h *InterviewHandler) Complete(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	iv, err := h.uc.Complete(c.Context(), actor.AccountID, id, actor)
	if err != nil {
		return respondError(c, err, "failed to complete interview")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Interview completed",
		Data:    iv,
	})
}

func (h *InterviewHandler) Evaluate(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var input usecase.EvaluationInput
	if err := c.BodyParser(&input); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	ev, err := h.uc.Evaluate(c.Context(), actor.AccountID, id, actor, input)
	if err != nil {
		return respondError(c, err, "failed to submit evaluation")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Evaluation submitted",
		Data:    ev,
	})
}
