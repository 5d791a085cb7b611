package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/effect"
	"github.com/hireos/hireos/internal/model"
	"github.com/hireos/hireos/internal/webhook"
)

// HandleBookingEvent applies a normalized calendar-webhook event to the
// candidate's interview. The bool result reports whether a matching
// candidate existed; unknown invitees are silently ignored by the caller.
func (uc *CandidateUsecase) HandleBookingEvent(ctx context.Context, accountID, userID uuid.UUID, ev webhook.BookingEvent) (bool, error) {
	if ev.Kind == webhook.EventIgnored {
		return false, nil
	}

	candidate, err := uc.candidates.FindByEmail(accountID, ev.InviteeEmail)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}

	unlock := uc.lockCandidate(candidate.ID)
	defer unlock()

	switch ev.Kind {
	case webhook.EventCancelled:
		uc.cancelActiveInterviews(accountID, candidate.ID,
			fmt.Sprintf("cancelled from %s webhook", ev.Provider))
		uc.logActivity(accountID, &userID, "booking_cancelled", "candidate", candidate.ID,
			fmt.Sprintf(`{"provider":%q}`, ev.Provider))
		return true, nil

	case webhook.EventBooked, webhook.EventRescheduled:
		if err := uc.upsertBookedInterview(accountID, userID, candidate, ev); err != nil {
			return true, err
		}

		if candidate.Status != model.StatusFirstInterviewBooked {
			previousStatus := candidate.Status
			candidate.Status = model.StatusFirstInterviewBooked
			candidate.UpdatedAt = time.Now()
			if err := uc.candidates.Update(candidate); err != nil {
				return true, err
			}
			uc.logActivity(accountID, &userID, "status_changed", "candidate", candidate.ID,
				fmt.Sprintf(`{"previousStatus":%q,"newStatus":%q,"source":%q}`,
					previousStatus, candidate.Status, ev.Provider))
		}

		effects := []effect.Effect{
			{
				Name: "slack_booking",
				Run: func(ctx context.Context) error {
					return uc.slack.Post(ctx, fmt.Sprintf("%s booked an interview via %s for %s",
						candidate.Name, ev.Provider, ev.ScheduledDate.Format(time.RFC1123)))
				},
			},
			uc.inAppNotificationEffect(accountID, userID, "interview_booked",
				fmt.Sprintf("%s booked an interview", candidate.Name)),
		}

		account, err := uc.users.FindAccount(accountID)
		if err != nil {
			log.Printf("account lookup failed for booking cross-sync: %v", err)
		} else if account.CrossCalendarSync {
			effects = append(effects, effect.Effect{
				Name: "calendar_cross_sync",
				Run: func(ctx context.Context) error {
					return uc.calendar.MirrorEvent(ctx,
						fmt.Sprintf("Interview: %s", candidate.Name), candidate.Email, ev.ScheduledDate)
				},
			})
		}

		report := effect.RunAll(ctx, effects)
		if failed := report.Failed(); len(failed) > 0 {
			uc.logActivity(accountID, &userID, "booking_effects_failed", "candidate", candidate.ID, report.JSON())
		}
		return true, nil
	}

	return false, nil
}

// upsertBookedInterview prefers the webhook user's own active interview,
// falls back to any active one, and only creates a row when none exists.
func (uc *CandidateUsecase) upsertBookedInterview(accountID, userID uuid.UUID, candidate *model.Candidate, ev webhook.BookingEvent) error {
	active, err := uc.interviews.ListActiveByCandidate(accountID, candidate.ID)
	if err != nil {
		return err
	}

	var target *model.Interview
	for i := range active {
		if active[i].InterviewerID != nil && *active[i].InterviewerID == userID {
			target = &active[i]
			break
		}
	}
	if target == nil && len(active) > 0 {
		target = &active[0]
	}

	start := ev.ScheduledDate
	if target != nil {
		target.ScheduledDate = &start
		target.Status = model.InterviewStatusScheduled
		target.AppendNote(fmt.Sprintf("booking update from %s: scheduled for %s",
			ev.Provider, start.Format(time.RFC3339)))
		target.UpdatedAt = time.Now()
		return uc.interviews.Update(target)
	}

	iv := &model.Interview{
		AccountID:     accountID,
		CandidateID:   candidate.ID,
		InterviewerID: &userID,
		Type:          "video",
		Status:        model.InterviewStatusScheduled,
		ScheduledDate: &start,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	iv.AppendNote(fmt.Sprintf("automatically created from %s booking", ev.Provider))
	return uc.interviews.Create(iv)
}
