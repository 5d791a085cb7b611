package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
)

// InterviewUsecase covers the direct interview endpoints: manual creation,
// edits, completion and evaluation submission. Status-driven interview
// bookkeeping (invites, webhook bookings, cancellation cascades) lives in
// CandidateUsecase.
type InterviewUsecase struct {
	interviews  InterviewStore
	candidates  CandidateStore
	evaluations EvaluationStore
	activity    ActivityStore
}

func NewInterviewUsecase(interviews InterviewStore, candidates CandidateStore, evaluations EvaluationStore, activity ActivityStore) *InterviewUsecase {
	return &InterviewUsecase{
		interviews:  interviews,
		candidates:  candidates,
		evaluations: evaluations,
		activity:    activity,
	}
}

type CreateInterviewInput struct {
	CandidateID   uuid.UUID  `json:"candidate_id"`
	InterviewerID *uuid.UUID `json:"interviewer_id"`
	Type          string     `json:"type"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

func (uc *InterviewUsecase) Create(ctx context.Context, accountID uuid.UUID, actor *model.User, input CreateInterviewInput) (*model.Interview, error) {
	if _, err := uc.candidates.FindByID(accountID, input.CandidateID); err != nil {
		if isNotFound(err) {
			return nil, errNotFound("candidate")
		}
		return nil, err
	}

	status := model.InterviewStatusPending
	if input.ScheduledDate != nil {
		status = model.InterviewStatusScheduled
	}
	ivType := input.Type
	if ivType == "" {
		ivType = "video"
	}

	iv := &model.Interview{
		AccountID:     accountID,
		CandidateID:   input.CandidateID,
		InterviewerID: input.InterviewerID,
		Type:          ivType,
		Status:        status,
		ScheduledDate: input.ScheduledDate,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := uc.interviews.Create(iv); err != nil {
		return nil, err
	}
	uc.log(accountID, actor, "interview_created", iv.ID)
	return iv, nil
}

type UpdateInterviewInput struct {
	Type          *string    `json:"type"`
	Status        *string    `json:"status"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Notes         *string    `json:"notes"`
}

func (uc *InterviewUsecase) Update(ctx context.Context, accountID, interviewID uuid.UUID, actor *model.User, patch UpdateInterviewInput) (*model.Interview, error) {
	iv, err := uc.interviews.FindByID(accountID, interviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("interview")
		}
		return nil, err
	}

	if patch.Type != nil {
		iv.Type = *patch.Type
	}
	if patch.Status != nil {
		iv.Status = *patch.Status
	}
	if patch.ScheduledDate != nil {
		iv.ScheduledDate = patch.ScheduledDate
	}
	if patch.Notes != nil {
		iv.AppendNote(*patch.Notes)
	}
	iv.UpdatedAt = time.Now()
	if err := uc.interviews.Update(iv); err != nil {
		return nil, err
	}
	uc.log(accountID, actor, "interview_updated", iv.ID)
	return iv, nil
}

func (uc *InterviewUsecase) Complete(ctx context.Context, accountID, interviewID uuid.UUID, actor *model.User) (*model.Interview, error) {
	iv, err := uc.interviews.FindByID(accountID, interviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("interview")
		}
		return nil, err
	}
	if iv.Status == model.InterviewStatusCancelled {
		return nil, errBadRequest("cancelled interviews cannot be completed")
	}

	now := time.Now()
	iv.Status = model.InterviewStatusCompleted
	iv.ConductedDate = &now
	iv.UpdatedAt = now
	if err := uc.interviews.Update(iv); err != nil {
		return nil, err
	}
	uc.log(accountID, actor, "interview_completed", iv.ID)
	return iv, nil
}

type EvaluationInput struct {
	TechnicalProficiency int    `json:"technical_proficiency"`
	LeadershipInitiative int    `json:"leadership_initiative"`
	ProblemSolving       int    `json:"problem_solving"`
	CommunicationSkills  int    `json:"communication_skills"`
	CulturalFit          int    `json:"cultural_fit"`
	Comments             string `json:"comments"`
}

func (in EvaluationInput) validate() error {
	for _, score := range []int{in.TechnicalProficiency, in.LeadershipInitiative, in.ProblemSolving, in.CommunicationSkills, in.CulturalFit} {
		if score < 1 || score > 5 {
			return errBadRequest("evaluation scores must be between 1 and 5")
		}
	}
	return nil
}

// Evaluate records an evaluation and marks the interview completed if it
// was not already.
func (uc *InterviewUsecase) Evaluate(ctx context.Context, accountID, interviewID uuid.UUID, actor *model.User, input EvaluationInput) (*model.Evaluation, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	iv, err := uc.interviews.FindByID(accountID, interviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("interview")
		}
		return nil, err
	}

	overall := float64(input.TechnicalProficiency+input.LeadershipInitiative+
		input.ProblemSolving+input.CommunicationSkills+input.CulturalFit) / 5.0

	ev := &model.Evaluation{
		AccountID:            accountID,
		InterviewID:          iv.ID,
		EvaluatorID:          actor.ID,
		TechnicalProficiency: input.TechnicalProficiency,
		LeadershipInitiative: input.LeadershipInitiative,
		ProblemSolving:       input.ProblemSolving,
		CommunicationSkills:  input.CommunicationSkills,
		CulturalFit:          input.CulturalFit,
		Comments:             input.Comments,
		OverallRating:        overall,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	if err := uc.evaluations.Create(ev); err != nil {
		return nil, err
	}

	if iv.Status != model.InterviewStatusCompleted {
		now := time.Now()
		iv.Status = model.InterviewStatusCompleted
		iv.ConductedDate = &now
		iv.AppendNote(fmt.Sprintf("completed via evaluation submission (overall %.1f)", overall))
		iv.UpdatedAt = now
		if err := uc.interviews.Update(iv); err != nil {
			log.Printf("failed to complete interview %s after evaluation: %v", iv.ID, err)
		}
	}

	uc.log(accountID, actor, "evaluation_submitted", ev.ID)
	return ev, nil
}

func (uc *InterviewUsecase) log(accountID uuid.UUID, actor *model.User, action string, entityID uuid.UUID) {
	l := &model.ActivityLog{
		AccountID:  accountID,
		UserID:     &actor.ID,
		Action:     action,
		EntityType: "interview",
		EntityID:   entityID,
		Details:    "{}",
		CreatedAt:  time.Now(),
	}
	if err := uc.activity.Create(l); err != nil {
		log.Printf("failed to write activity log %s/%s: %v", action, entityID, err)
	}
}
