package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"github.com/hireos/hireos/internal/webhook"
)

// HandleCRMContactEvent folds a GHL contact update back onto the linked
// candidate. Assessment results land on the record, and a candidate still at
// the assessment-sent stage advances to assessment-completed. The bool
// result reports whether a linked candidate existed; unknown contacts are
// acknowledged so GHL stops retrying.
func (uc *CandidateUsecase) HandleCRMContactEvent(ctx context.Context, accountID, userID uuid.UUID, ev webhook.ContactEvent) (bool, error) {
	candidate, err := uc.candidates.FindByGHLContactID(accountID, ev.ContactID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if candidate.Phone == "" && ev.Phone != "" {
		candidate.Phone = ev.Phone
	}

	previousStatus := candidate.Status
	if ev.AssessmentScore != nil {
		candidate.HiPeopleScore = *ev.AssessmentScore
		if ev.AssessmentPercentile != nil {
			candidate.HiPeoplePercentile = *ev.AssessmentPercentile
		}
		if candidate.AssessmentCompletedAt == nil {
			now := time.Now()
			candidate.AssessmentCompletedAt = &now
		}
		if candidate.Status == model.StatusAssessmentSent {
			candidate.Status = model.StatusAssessmentCompleted
		}
	}

	candidate.UpdatedAt = time.Now()
	if err := uc.candidates.Update(candidate); err != nil {
		return true, err
	}

	if candidate.Status != previousStatus {
		uc.logActivity(accountID, &userID, "status_changed", "candidate", candidate.ID,
			fmt.Sprintf(`{"previousStatus":%q,"newStatus":%q,"source":"ghl"}`, previousStatus, candidate.Status))
	}
	uc.logActivity(accountID, &userID, "crm_contact_synced", "candidate", candidate.ID,
		fmt.Sprintf(`{"ghlContactId":%q}`, ev.ContactID))
	return true, nil
}
