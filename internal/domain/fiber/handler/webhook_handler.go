package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/repository"
	"github.com/hireos/hireos/internal/usecase"
	"github.com/hireos/hireos/internal/util"
	"github.com/hireos/hireos/internal/webhook"
)

// WebhookHandler receives calendar-provider callbacks. The userId query
// param identifies the staff member whose scheduling link was booked; the
// tenant scope is derived from that user, never from the payload.
type WebhookHandler struct {
	uc    *usecase.CandidateUsecase
	users *repository.UserRepository
}

func NewWebhookHandler(uc *usecase.CandidateUsecase, users *repository.UserRepository) *WebhookHandler {
	return &WebhookHandler{uc: uc, users: users}
}

func (h *WebhookHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/api/webhooks/calendar", h.Calendar)
	app.Post("/api/webhooks/crm", h.CRM)
}

func (h *WebhookHandler) Calendar(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "userId query param is required",
		}, err)
	}

	// Tenant scope comes from the webhook's user.
	owner, err := h.users.FindByPrimaryID(userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "unknown user",
		}, err)
	}

	body := c.Body()
	provider := c.Query("provider")
	if provider == "" {
		provider = webhook.DetectProvider(body)
	}
	if provider == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "could not determine calendar provider from payload",
		})
	}

	ev, err := webhook.Normalize(provider, body)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid webhook payload",
		}, err)
	}

	matched, err := h.uc.HandleBookingEvent(c.Context(), owner.AccountID, owner.ID, ev)
	if err != nil {
		return respondError(c, err, "failed to process booking")
	}
	if !matched {
		// Unknown invitees are acknowledged so providers stop retrying.
		log.Printf("calendar webhook: no candidate for %s, ignoring", ev.InviteeEmail)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Webhook processed",
		Data:    fiber.Map{"matched": matched},
	})
}

// CRM receives GHL contact updates; the candidate is looked up by the GHL
// contact id stored at sync time.
func (h *WebhookHandler) CRM(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "userId query param is required",
		}, err)
	}

	owner, err := h.users.FindByPrimaryID(userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "unknown user",
		}, err)
	}

	ev, err := webhook.NormalizeGHLContact(c.Body())
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid webhook payload",
		}, err)
	}

	matched, err := h.uc.HandleCRMContactEvent(c.Context(), owner.AccountID, owner.ID, ev)
	if err != nil {
		return respondError(c, err, "failed to process contact update")
	}
	if !matched {
		log.Printf("crm webhook: no candidate for contact %s, ignoring", ev.ContactID)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Webhook processed",
		Data:    fiber.Map{"matched": matched},
	})
}
