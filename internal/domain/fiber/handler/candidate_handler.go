package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/middleware"
	"github.com/hireos/hireos/internal/usecase"
	"github.com/hireos/hireos/internal/util"
)

type CandidateHandler struct {
	uc *usecase.CandidateUsecase
}

func NewCandidateHandler(uc *usecase.CandidateUsecase) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

func (h *CandidateHandler) RegisterRoutes(app *fiber.App, auth fiber.Handler) {
	g := app.Group("/api/candidates", auth)
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
	g.Get("/:id/interviews", h.Interviews)
	g.Patch("/:id", h.Update)
	g.Post("/:id/invite-to-interview", h.InviteToInterview)
	g.Post("/:id/talent-pool", h.AddToTalentPool)
	g.Post("/:id/reject", h.Reject)
	g.Post("/:id/send-offer", h.SendOffer)
	g.Post("/:id/accept-offer", h.AcceptOffer)
}

func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)

	var input usecase.CreateCandidateInput
	if err := c.BodyParser(&input); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	candidate, err := h.uc.CreateCandidate(c.Context(), actor.AccountID, actor, input)
	if err != nil {
		return respondError(c, err, "failed to create candidate")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Candidate created",
		Data:    candidate,
	})
}

func (h *CandidateHandler) List(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)

	var jobID *uuid.UUID
	if raw := c.Query("job_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "invalid job_id",
			}, err)
		}
		jobID = &id
	}

	candidates, err := h.uc.ListCandidates(actor.AccountID, jobID, c.Query("status"))
	if err != nil {
		return respondError(c, err, "failed to list candidates")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Candidates",
		Data:    candidates,
	})
}

func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	candidate, err := h.uc.GetCandidate(actor.AccountID, id)
	if err != nil {
		return respondError(c, err, "failed to get candidate")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Candidate",
		Data:    candidate,
	})
}

func (h *CandidateHandler) Interviews(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	interviews, err := h.uc.ListInterviews(actor.AccountID, id)
	if err != nil {
		return respondError(c, err, "failed to list interviews")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Interviews",
		Data:    interviews,
	})
}

func (h *CandidateHandler) Update(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var patch usecase.UpdateCandidateInput
	if err := c.BodyParser(&patch); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	candidate, err := h.uc.UpdateCandidate(c.Context(), actor.AccountID, id, actor, patch)
	if err != nil {
		return respondError(c, err, "failed to update candidate")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Candidate updated",
		Data:    candidate,
	})
}

func (h *CandidateHandler) InviteToInterview(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	candidate, err := h.uc.InviteToInterview(c.Context(), actor.AccountID, id, actor)
	if err != nil {
		return respondError(c, err, "failed to send interview invite")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Interview invite sent",
		Data:    candidate,
	})
}

func (h *CandidateHandler) AddToTalentPool(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	candidate, err := h.uc.AddToTalentPool(c.Context(), actor.AccountID, id, actor)
	if err != nil {
		return respondError(c, err, "failed to add candidate to talent pool")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Candidate added to talent pool",
		Data:    candidate,
	})
}

func (h *CandidateHandler) Reject(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	candidate, err := h.uc.Reject(c.Context(), actor.AccountID, id, actor)
	if err != nil {
		return respondError(c, err, "failed to reject candidate")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Candidate rejected",
		Data:    candidate,
	})
}

func (h *CandidateHandler) SendOffer(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var input usecase.OfferInput
	if err := c.BodyParser(&input); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	candidate, offer, err := h.uc.SendOffer(c.Context(), actor.AccountID, id, actor, input)
	if err != nil {
		return respondError(c, err, "failed to send offer")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Offer sent",
		Data:    fiber.Map{"candidate": candidate, "offer": offer},
	})
}

func (h *CandidateHandler) AcceptOffer(c *fiber.Ctx) error {
	actor := middleware.UserFrom(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	candidate, err := h.uc.AcceptOffer(c.Context(), actor.AccountID, id, actor)
	if err != nil {
		return respondError(c, err, "failed to accept offer")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Offer accepted",
		Data:    candidate,
	})
}
