package usecase

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	ErrTypeNonExistentEmail    = "non_existent_email"
	ErrTypeMissingCalendarLink = "missing_calendar_link"
)

// LifecycleError is the operation-level failure the HTTP layer maps onto a
// response. Validation and authorization failures are returned before any
// write; side-effect failures never become one of these.
type LifecycleError struct {
	Code      int
	ErrorType string
	Message   string
	Details   map[string]any
}

func (e *LifecycleError) Error() string {
	if e.ErrorType != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.ErrorType)
	}
	return e.Message
}

func errNotFound(entity string) *LifecycleError {
	return &LifecycleError{Code: fiber.StatusNotFound, Message: entity + " not found"}
}

func errForbidden(message string) *LifecycleError {
	return &LifecycleError{Code: fiber.StatusForbidden, Message: message}
}

func errBadRequest(message string) *LifecycleError {
	return &LifecycleError{Code: fiber.StatusBadRequest, Message: message}
}

func errDuplicateCandidate(existingID uuid.UUID) *LifecycleError {
	return &LifecycleError{
		Code:    fiber.StatusConflict,
		Message: "a candidate with this name and email already exists",
		Details: map[string]any{"existingCandidateId": existingID},
	}
}

func errUndeliverableEmail(email string) *LifecycleError {
	return &LifecycleError{
		Code:      fiber.StatusUnprocessableEntity,
		ErrorType: ErrTypeNonExistentEmail,
		Message:   fmt.Sprintf("email address %q does not look deliverable", email),
	}
}

func errMissingCalendarLink() *LifecycleError {
	return &LifecycleError{
		Code:      fiber.StatusBadRequest,
		ErrorType: ErrTypeMissingCalendarLink,
		Message:   "you need a calendar scheduling link before inviting candidates to interview",
	}
}
