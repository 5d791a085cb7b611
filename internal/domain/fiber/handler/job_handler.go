package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hireos/hireos/internal/middleware"
	"github.com/hireos/hireos/internal/usecase"
	"github.com/hireos/hireos/internal/util"
)

type JobHandler struct {
	uc *usecase.JobUsecase
}

func NewJobHandler(uc *usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(app *fiber.App, auth fiber.Handler) {
	g := app.Group("/api/jobs", auth)
	g.Post("/", h.Create)
	g.Post("/:id/approve", h.Approve)
	g.Post("/:id/close", h.Close)
	g.Get("/:id/candidate-matches", h.CandidateMatches)
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)

	var input usecase.CreateJobInput
	if err := c.BodyParser(&input); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	job, err := h.uc.Create(c.Context(), actor.AccountID, actor, input)
	if err != nil {
		return respondError(c, err, "failed to create job")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Job created",
		Data:    job,
	})
}

func (h *JobHandler) Approve(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	job, err := h.uc.Approve(c.Context(), actor.AccountID, id, actor)
	if err != nil {
		return respondError(c, err, "failed to approve job")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Job approved",
		Data:    job,
	})
}

func (h *JobHandler) Close(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	job, err := h.uc.Close(c.Context(), actor.AccountID, id, actor)
	if err != nil {
		return respondError(c, err, "failed to close job")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Job closed",
		Data:    job,
	})
}

func (h *JobHandler) CandidateMatches(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	matches, err := h.uc.CandidateMatches(c.Context(), actor.AccountID, id, c.QueryInt("top_k", 10))
	if err != nil {
		return respondError(c, err, "failed to rank candidates")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Candidate matches",
		Data:    matches,
	})
}
