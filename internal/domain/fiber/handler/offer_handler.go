package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hireos/hireos/internal/usecase"
	"github.com/hireos/hireos/internal/util"
)

// OfferHandler serves the public, token-authenticated offer surface. No
// session; the acceptance token in the path is the only credential.
type OfferHandler struct {
	uc *usecase.CandidateUsecase
}

func NewOfferHandler(uc *usecase.CandidateUsecase) *OfferHandler {
	return &OfferHandler{uc: uc}
}

func (h *OfferHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/offers/:token", h.Get)
	app.Post("/api/offers/:token/respond", h.Respond)
}

func (h *OfferHandler) Get(c *fiber.Ctx) error {
	offer, err := h.uc.GetPublicOffer(c.Params("token"))
	if err != nil {
		return respondError(c, err, "failed to load offer")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Offer",
		Data:    offer,
	})
}

func (h *OfferHandler) Respond(c *fiber.Ctx) error {
	var body struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&body); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	offer, err := h.uc.RespondToOffer(c.Context(), c.Params("token"), body.Action)
	if err != nil {
		return respondError(c, err, "failed to respond to offer")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Offer " + offer.Status,
		Data:    fiber.Map{"status": offer.Status},
	})
}
