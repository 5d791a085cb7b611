package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/config"
	"github.com/hireos/hireos/internal/effect"
	"github.com/hireos/hireos/internal/model"
	"github.com/hireos/hireos/internal/service"
	"github.com/hireos/hireos/internal/template"
	"github.com/hireos/hireos/internal/util"
	"gorm.io/gorm"
)

// CandidateUsecase is the single authority for candidate status transitions
// and their side effects: interview bookkeeping, offer bookkeeping, outbound
// email, Slack, CRM sync and activity logging. The state write always
// happens before the best-effort fan-out; fan-out failures are aggregated
// into the activity log and never unwind the write.
type CandidateUsecase struct {
	candidates    CandidateStore
	interviews    InterviewStore
	offers        OfferStore
	jobs          JobStore
	users         UserStore
	activity      ActivityStore
	notifications NotificationStore
	templates     TemplateStore
	crmConns      CRMConnectionStore
	mailer        service.MailerInterface
	slack         service.SlackInterface
	crms          []service.CRMInterface
	calendar      service.CalendarMirrorInterface
	resumes       service.ResumeFetcherInterface
	llm           service.ResumeLLM
	embeddings    EmbeddingService
	hooks         []WorkflowHook

	// Serializes the find-then-act interview bookkeeping per candidate so
	// concurrent invites/webhooks cannot create duplicate active rows.
	lockMu sync.Mutex
	locks  map[uuid.UUID]*candidateLock
}

// candidateLock entries are reference counted and dropped from the table on
// release, so the table only holds candidates with work in flight.
type candidateLock struct {
	mu   sync.Mutex
	refs int
}

type CandidateUsecaseDeps struct {
	Candidates    CandidateStore
	Interviews    InterviewStore
	Offers        OfferStore
	Jobs          JobStore
	Users         UserStore
	Activity      ActivityStore
	Notifications NotificationStore
	Templates     TemplateStore
	CRMConns      CRMConnectionStore
	Mailer        service.MailerInterface
	Slack         service.SlackInterface
	CRMs          []service.CRMInterface
	Calendar      service.CalendarMirrorInterface
	Resumes       service.ResumeFetcherInterface
	LLM           service.ResumeLLM
	Embeddings    EmbeddingService
	Hooks         []WorkflowHook
}

func NewCandidateUsecase(deps CandidateUsecaseDeps) *CandidateUsecase {
	return &CandidateUsecase{
		candidates:    deps.Candidates,
		interviews:    deps.Interviews,
		offers:        deps.Offers,
		jobs:          deps.Jobs,
		users:         deps.Users,
		activity:      deps.Activity,
		notifications: deps.Notifications,
		templates:     deps.Templates,
		crmConns:      deps.CRMConns,
		mailer:        deps.Mailer,
		slack:         deps.Slack,
		crms:          deps.CRMs,
		calendar:      deps.Calendar,
		resumes:       deps.Resumes,
		llm:           deps.LLM,
		embeddings:    deps.Embeddings,
		hooks:         deps.Hooks,
		locks:         make(map[uuid.UUID]*candidateLock),
	}
}

func (uc *CandidateUsecase) lockCandidate(id uuid.UUID) func() {
	uc.lockMu.Lock()
	l, ok := uc.locks[id]
	if !ok {
		l = &candidateLock{}
		uc.locks[id] = l
	}
	l.refs++
	uc.lockMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		uc.lockMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(uc.locks, id)
		}
		uc.lockMu.Unlock()
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ---- CreateCandidate ----

type CreateCandidateInput struct {
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Location        string     `json:"location"`
	ResumeURL       string     `json:"resume_url"`
	Skills          []string   `json:"skills"`
	ExperienceYears float64    `json:"experience_years"`
	JobID           *uuid.UUID `json:"job_id"`
}

func (uc *CandidateUsecase) CreateCandidate(ctx context.Context, accountID uuid.UUID, actor *model.User, input CreateCandidateInput) (*model.Candidate, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, errBadRequest("name and email are required")
	}

	existing, err := uc.candidates.FindByNameAndEmail(accountID, input.Name, input.Email)
	if err == nil {
		return nil, errDuplicateCandidate(existing.ID)
	}
	if !isNotFound(err) {
		return nil, err
	}

	var job *model.Job
	if input.JobID != nil {
		job, err = uc.jobs.FindByID(accountID, *input.JobID)
		if err != nil {
			if isNotFound(err) {
				return nil, errNotFound("job")
			}
			return nil, err
		}
	}

	candidate := &model.Candidate{
		ID:              uuid.New(),
		AccountID:       accountID,
		JobID:           input.JobID,
		Name:            strings.TrimSpace(input.Name),
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:           input.Phone,
		Location:        input.Location,
		ResumeURL:       input.ResumeURL,
		Skills:          strings.Join(input.Skills, ", "),
		ExperienceYears: input.ExperienceYears,
		Status:          model.StatusApplicationSubmitted,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := uc.candidates.Create(candidate); err != nil {
		return nil, err
	}

	// AI enrichment runs off the response path; parse failures only matter
	// to the logs.
	if candidate.ResumeURL != "" && actor.AIAPIKey != "" {
		go func(id uuid.UUID) {
			if err := uc.EnrichCandidate(context.Background(), accountID, id); err != nil {
				log.Printf("candidate %s enrichment failed: %v", id, err)
			}
		}(candidate.ID)
	}

	effects := []effect.Effect{}
	if job != nil {
		title := job.Title
		effects = append(effects, effect.Effect{
			Name: "slack_new_application",
			Run: func(ctx context.Context) error {
				return uc.slack.Post(ctx, fmt.Sprintf("New application: %s for %s", candidate.Name, title))
			},
		})
	}
	effects = append(effects, uc.crmSyncEffects(accountID, candidate)...)
	report := effect.RunAll(ctx, effects)

	uc.logActivity(accountID, &actor.ID, "candidate_created", "candidate", candidate.ID, report.JSON())
	uc.scheduleAssessment(accountID, candidate, job, actor)

	return candidate, nil
}

// scheduleAssessment queues the assessment email: immediately for express
// review jobs, after three hours otherwise.
func (uc *CandidateUsecase) scheduleAssessment(accountID uuid.UUID, candidate *model.Candidate, job *model.Job, actor *model.User) {
	if job == nil || job.HiPeopleLink == "" {
		return
	}
	processAfter := time.Now()
	if !job.ExpressReview {
		processAfter = processAfter.Add(3 * time.Hour)
	}
	payload, _ := json.Marshal(map[string]string{
		"email":           candidate.Email,
		"candidate_name":  candidate.Name,
		"job_title":       job.Title,
		"assessment_link": job.HiPeopleLink,
		"sender_name":     actor.Name,
	})
	q := &model.QueuedNotification{
		AccountID:    accountID,
		CandidateID:  candidate.ID,
		Kind:         model.QueuedKindAssessment,
		Payload:      string(payload),
		ProcessAfter: processAfter,
		CreatedAt:    time.Now(),
	}
	if err := uc.notifications.Enqueue(q); err != nil {
		log.Printf("failed to queue assessment notification for %s: %v", candidate.ID, err)
	}
}

// ---- UpdateCandidate ----

type UpdateCandidateInput struct {
	Name                *string  `json:"name"`
	Phone               *string  `json:"phone"`
	Location            *string  `json:"location"`
	ResumeURL           *string  `json:"resume_url"`
	Skills              []string `json:"skills"`
	ExperienceYears     *float64 `json:"experience_years"`
	Status              *string  `json:"status"`
	MatchScore          *float64 `json:"match_score"`
	HiPeopleScore       *float64 `json:"hi_people_score"`
	HiPeoplePercentile  *float64 `json:"hi_people_percentile"`
	AssessmentCompleted *bool    `json:"assessment_completed"`
}

func (p UpdateCandidateInput) touchesEvaluationFields() bool {
	return p.MatchScore != nil || p.HiPeopleScore != nil || p.HiPeoplePercentile != nil || p.AssessmentCompleted != nil
}

func (uc *CandidateUsecase) UpdateCandidate(ctx context.Context, accountID, candidateID uuid.UUID, actor *model.User, patch UpdateCandidateInput) (*model.Candidate, error) {
	if patch.touchesEvaluationFields() && !actor.Role.CanEditEvaluationFields() {
		return nil, errForbidden("your role cannot modify evaluation fields")
	}

	candidate, err := uc.candidates.FindByID(accountID, candidateID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("candidate")
		}
		return nil, err
	}

	// The canonical interview-invite path owns the 45 transition, including
	// its email and calendar-link gates. A PATCH asking for that status is
	// routed through it instead of silently bypassing the guards.
	if patch.Status != nil && *patch.Status == model.StatusFirstInterviewSent &&
		candidate.Status != model.StatusFirstInterviewSent {
		patchWithoutStatus := patch
		patchWithoutStatus.Status = nil
		if _, err := uc.applyPatch(ctx, candidate, actor, patchWithoutStatus); err != nil {
			return nil, err
		}
		return uc.InviteToInterview(ctx, accountID, candidateID, actor)
	}

	// Same for 95: the offer path owns offer creation, the offer email with
	// its acceptance link and the email gate.
	if patch.Status != nil && *patch.Status == model.StatusOfferSent &&
		candidate.Status != model.StatusOfferSent {
		patchWithoutStatus := patch
		patchWithoutStatus.Status = nil
		if _, err := uc.applyPatch(ctx, candidate, actor, patchWithoutStatus); err != nil {
			return nil, err
		}
		updated, _, err := uc.SendOffer(ctx, accountID, candidateID, actor, OfferInput{})
		return updated, err
	}

	return uc.applyPatch(ctx, candidate, actor, patch)
}

func (uc *CandidateUsecase) applyPatch(ctx context.Context, candidate *model.Candidate, actor *model.User, patch UpdateCandidateInput) (*model.Candidate, error) {
	previousStatus := candidate.Status
	resumeChanged := false

	if patch.Name != nil {
		candidate.Name = *patch.Name
	}
	if patch.Phone != nil {
		candidate.Phone = *patch.Phone
	}
	if patch.Location != nil {
		candidate.Location = *patch.Location
	}
	if patch.ResumeURL != nil && *patch.ResumeURL != candidate.ResumeURL {
		candidate.ResumeURL = *patch.ResumeURL
		resumeChanged = true
	}
	if len(patch.Skills) > 0 {
		candidate.MergeSkills(patch.Skills)
	}
	if patch.ExperienceYears != nil {
		candidate.ExperienceYears = *patch.ExperienceYears
	}
	if patch.MatchScore != nil {
		candidate.MatchScore = *patch.MatchScore
	}
	if patch.HiPeopleScore != nil {
		candidate.HiPeopleScore = *patch.HiPeopleScore
	}
	if patch.HiPeoplePercentile != nil {
		candidate.HiPeoplePercentile = *patch.HiPeoplePercentile
	}
	if patch.AssessmentCompleted != nil && *patch.AssessmentCompleted && candidate.AssessmentCompletedAt == nil {
		now := time.Now()
		candidate.AssessmentCompletedAt = &now
	}

	statusChanged := patch.Status != nil && *patch.Status != previousStatus
	if statusChanged {
		candidate.Status = *patch.Status
		switch candidate.Status {
		case model.StatusRejected:
			candidate.FinalDecisionStatus = model.DecisionRejected
		case model.StatusTalentPool:
			candidate.FinalDecisionStatus = model.DecisionTalentPool
		case model.StatusOfferSent, model.StatusOfferAccepted:
			candidate.FinalDecisionStatus = model.DecisionOffer
		}
	}

	candidate.UpdatedAt = time.Now()
	if err := uc.candidates.Update(candidate); err != nil {
		return nil, err
	}

	if statusChanged {
		if model.IsInterviewStage(previousStatus) && !model.IsInterviewStage(candidate.Status) {
			uc.cancelActiveInterviews(candidate.AccountID, candidate.ID,
				fmt.Sprintf("cancelled: candidate status changed to %s", candidate.Status))
		}

		uc.logActivity(candidate.AccountID, &actor.ID, "status_changed", "candidate", candidate.ID,
			fmt.Sprintf(`{"previousStatus":%q,"newStatus":%q}`, previousStatus, candidate.Status))

		for _, hook := range uc.hooks {
			if err := hook.OnStatusChange(ctx, candidate, previousStatus); err != nil {
				log.Printf("workflow hook failed for candidate %s: %v", candidate.ID, err)
			}
		}
	}

	if resumeChanged && candidate.ResumeURL != "" && actor.AIAPIKey != "" {
		go func(accountID, id uuid.UUID) {
			if err := uc.EnrichCandidate(context.Background(), accountID, id); err != nil {
				log.Printf("candidate %s re-enrichment failed: %v", id, err)
			}
		}(candidate.AccountID, candidate.ID)
	}

	report := effect.RunAll(ctx, uc.crmSyncEffects(candidate.AccountID, candidate))
	if failed := report.Failed(); len(failed) > 0 {
		uc.logActivity(candidate.AccountID, &actor.ID, "crm_sync_failed", "candidate", candidate.ID, report.JSON())
	}

	return candidate, nil
}

// ---- InviteToInterview ----

func (uc *CandidateUsecase) InviteToInterview(ctx context.Context, accountID, candidateID uuid.UUID, actor *model.User) (*model.Candidate, error) {
	candidate, err := uc.candidates.FindByID(accountID, candidateID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("candidate")
		}
		return nil, err
	}

	if !util.IsDeliverableEmail(candidate.Email) {
		uc.logActivity(accountID, &actor.ID, "interview_invite_blocked", "candidate", candidate.ID,
			fmt.Sprintf(`{"reason":%q,"email":%q}`, ErrTypeNonExistentEmail, candidate.Email))
		return nil, errUndeliverableEmail(candidate.Email)
	}
	if actor.CalendarLink == "" {
		return nil, errMissingCalendarLink()
	}

	unlock := uc.lockCandidate(candidate.ID)
	defer unlock()

	previousStatus := candidate.Status
	candidate.Status = model.StatusFirstInterviewSent
	candidate.UpdatedAt = time.Now()
	if err := uc.candidates.Update(candidate); err != nil {
		return nil, err
	}

	uc.logActivity(accountID, &actor.ID, "interview_invite_sent", "candidate", candidate.ID,
		fmt.Sprintf(`{"previousStatus":%q}`, previousStatus))

	if err := uc.upsertInvitedInterview(accountID, candidate, actor); err != nil {
		log.Printf("interview bookkeeping failed for candidate %s: %v", candidate.ID, err)
	}

	rendered := uc.renderTemplate(accountID, actor, model.TemplateKindInterview, candidate, template.Fields{
		CalendarLink: actor.CalendarLink,
	})
	report := effect.RunAll(ctx, []effect.Effect{
		uc.emailEffect(candidate.Email, rendered),
		uc.inAppNotificationEffect(accountID, actor.ID, "interview_invite",
			fmt.Sprintf("Interview invite sent to %s", candidate.Name)),
	})
	if failed := report.Failed(); len(failed) > 0 {
		uc.logActivity(accountID, &actor.ID, "interview_invite_effects_failed", "candidate", candidate.ID, report.JSON())
	}

	return candidate, nil
}

// upsertInvitedInterview keeps the "at most one active interview" invariant:
// repeated invites update the existing active row instead of inserting.
func (uc *CandidateUsecase) upsertInvitedInterview(accountID uuid.UUID, candidate *model.Candidate, actor *model.User) error {
	active, err := uc.interviews.ListActiveByCandidate(accountID, candidate.ID)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		iv := &active[0]
		iv.Status = model.InterviewStatusScheduled
		iv.AppendNote("interview invite re-sent")
		iv.UpdatedAt = time.Now()
		return uc.interviews.Update(iv)
	}

	iv := &model.Interview{
		AccountID:     accountID,
		CandidateID:   candidate.ID,
		InterviewerID: &actor.ID,
		Type:          "video",
		Status:        model.InterviewStatusScheduled,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	iv.AppendNote("created from interview invite, awaiting booking")
	return uc.interviews.Create(iv)
}

// ---- AddToTalentPool / Reject ----

func (uc *CandidateUsecase) AddToTalentPool(ctx context.Context, accountID, candidateID uuid.UUID, actor *model.User) (*model.Candidate, error) {
	return uc.closeOut(ctx, accountID, candidateID, actor,
		model.StatusTalentPool, model.DecisionTalentPool, model.TemplateKindTalentPool, "added_to_talent_pool")
}

func (uc *CandidateUsecase) Reject(ctx context.Context, accountID, candidateID uuid.UUID, actor *model.User) (*model.Candidate, error) {
	return uc.closeOut(ctx, accountID, candidateID, actor,
		model.StatusRejected, model.DecisionRejected, model.TemplateKindRejection, "rejected")
}

// closeOut moves a candidate to a terminal outcome. The email gate runs
// before any write; the email send itself is best-effort because the status
// is already committed by then.
func (uc *CandidateUsecase) closeOut(ctx context.Context, accountID, candidateID uuid.UUID, actor *model.User, status string, decision model.FinalDecision, templateKind, action string) (*model.Candidate, error) {
	candidate, err := uc.candidates.FindByID(accountID, candidateID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("candidate")
		}
		return nil, err
	}

	if !util.IsDeliverableEmail(candidate.Email) {
		uc.logActivity(accountID, &actor.ID, action+"_blocked", "candidate", candidate.ID,
			fmt.Sprintf(`{"reason":%q,"email":%q}`, ErrTypeNonExistentEmail, candidate.Email))
		return nil, errUndeliverableEmail(candidate.Email)
	}

	unlock := uc.lockCandidate(candidate.ID)
	defer unlock()

	previousStatus := candidate.Status
	candidate.Status = status
	candidate.FinalDecisionStatus = decision
	candidate.UpdatedAt = time.Now()
	if err := uc.candidates.Update(candidate); err != nil {
		return nil, err
	}

	if model.IsInterviewStage(previousStatus) {
		uc.cancelActiveInterviews(accountID, candidate.ID,
			fmt.Sprintf("cancelled: candidate status changed to %s", status))
	}

	uc.logActivity(accountID, &actor.ID, action, "candidate", candidate.ID,
		fmt.Sprintf(`{"previousStatus":%q}`, previousStatus))

	rendered := uc.renderTemplate(accountID, actor, templateKind, candidate, template.Fields{})
	report := effect.RunAll(ctx, []effect.Effect{
		uc.emailEffect(candidate.Email, rendered),
		uc.inAppNotificationEffect(accountID, actor.ID, action,
			fmt.Sprintf("%s: %s", action, candidate.Name)),
	})
	if failed := report.Failed(); len(failed) > 0 {
		uc.logActivity(accountID, &actor.ID, action+"_effects_failed", "candidate", candidate.ID, report.JSON())
	}

	return candidate, nil
}

// ---- SendOffer / offers ----

type OfferInput struct {
	OfferType    string     `json:"offer_type"`
	Compensation string     `json:"compensation"`
	StartDate    *time.Time `json:"start_date"`
}

func (uc *CandidateUsecase) SendOffer(ctx context.Context, accountID, candidateID uuid.UUID, actor *model.User, input OfferInput) (*model.Candidate, *model.Offer, error) {
	candidate, err := uc.candidates.FindByID(accountID, candidateID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, errNotFound("candidate")
		}
		return nil, nil, err
	}

	if !util.IsDeliverableEmail(candidate.Email) {
		uc.logActivity(accountID, &actor.ID, "send_offer_blocked", "candidate", candidate.ID,
			fmt.Sprintf(`{"reason":%q,"email":%q}`, ErrTypeNonExistentEmail, candidate.Email))
		return nil, nil, errUndeliverableEmail(candidate.Email)
	}

	unlock := uc.lockCandidate(candidate.ID)
	defer unlock()

	previousStatus := candidate.Status
	candidate.Status = model.StatusOfferSent
	candidate.FinalDecisionStatus = model.DecisionOffer
	candidate.UpdatedAt = time.Now()
	if err := uc.candidates.Update(candidate); err != nil {
		return nil, nil, err
	}

	if model.IsInterviewStage(previousStatus) {
		uc.cancelActiveInterviews(accountID, candidate.ID,
			fmt.Sprintf("cancelled: candidate status changed to %s", candidate.Status))
	}

	offer := uc.ensureOfferExists(ctx, candidate, actor, input)
	if offer == nil {
		return nil, nil, fmt.Errorf("failed to create offer for candidate %s", candidate.ID)
	}

	uc.logActivity(accountID, &actor.ID, "offer_sent", "candidate", candidate.ID,
		fmt.Sprintf(`{"previousStatus":%q,"offerId":%q}`, previousStatus, offer.ID))

	rendered := uc.renderTemplate(accountID, actor, model.TemplateKindOffer, candidate, template.Fields{
		OfferLink:    uc.offerLink(offer.AcceptanceToken),
		Compensation: offer.Compensation,
		StartDate:    formatDate(offer.StartDate),
	})
	report := effect.RunAll(ctx, []effect.Effect{
		uc.emailEffect(candidate.Email, rendered),
		uc.inAppNotificationEffect(accountID, actor.ID, "offer_sent",
			fmt.Sprintf("Offer sent to %s", candidate.Name)),
	})
	if failed := report.Failed(); len(failed) > 0 {
		uc.logActivity(accountID, &actor.ID, "offer_effects_failed", "candidate", candidate.ID, report.JSON())
	}

	return candidate, offer, nil
}

// ensureOfferExists creates the candidate's offer row if none exists yet;
// repeated sends reuse the outstanding row.
func (uc *CandidateUsecase) ensureOfferExists(ctx context.Context, candidate *model.Candidate, actor *model.User, input OfferInput) *model.Offer {
	existing, err := uc.offers.FindLatestByCandidate(candidate.AccountID, candidate.ID)
	if err == nil {
		return existing
	}
	if !isNotFound(err) {
		log.Printf("offer lookup failed for candidate %s: %v", candidate.ID, err)
		return nil
	}

	offer := &model.Offer{
		AccountID:       candidate.AccountID,
		CandidateID:     candidate.ID,
		OfferType:       input.OfferType,
		Compensation:    input.Compensation,
		StartDate:       input.StartDate,
		Status:          model.OfferStatusSent,
		SentDate:        time.Now(),
		ContractURL:     uc.contractURL(candidate.ID),
		AcceptanceToken: newAcceptanceToken(),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := uc.offers.Create(offer); err != nil {
		log.Printf("offer creation failed for candidate %s: %v", candidate.ID, err)
		return nil
	}
	uc.logActivity(candidate.AccountID, &actor.ID, "offer_created", "offer", offer.ID, "{}")
	return offer
}

func newAcceptanceToken() string {
	// Two UUIDs back to back; opaque and long enough to be unguessable.
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func (uc *CandidateUsecase) offerLink(token string) string {
	base := config.LoadCompanyConfig().PublicBaseURL
	return strings.TrimSuffix(base, "/") + "/offers/" + token
}

func (uc *CandidateUsecase) contractURL(candidateID uuid.UUID) string {
	base := config.LoadCompanyConfig().ContractBaseURL
	if base == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/contracts/" + candidateID.String() + ".pdf"
}

// AcceptOffer is the staff-initiated shortcut for marking the latest offer
// accepted on the candidate's behalf.
func (uc *CandidateUsecase) AcceptOffer(ctx context.Context, accountID, candidateID uuid.UUID, actor *model.User) (*model.Candidate, error) {
	candidate, err := uc.candidates.FindByID(accountID, candidateID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("candidate")
		}
		return nil, err
	}
	offer, err := uc.offers.FindLatestByCandidate(accountID, candidateID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("offer")
		}
		return nil, err
	}
	if offer.IsTerminal() {
		return nil, errBadRequest("offer has already been responded to")
	}
	return uc.acceptOffer(ctx, candidate, offer, &actor.ID, actor)
}

// RespondToOffer is the public, token-authenticated accept/decline action.
// No deliverability gate here: the offer already reached this address.
func (uc *CandidateUsecase) RespondToOffer(ctx context.Context, token, action string) (*model.Offer, error) {
	offer, err := uc.offers.FindByToken(token)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("offer")
		}
		return nil, err
	}
	if offer.IsTerminal() {
		return nil, errBadRequest("offer has already been responded to")
	}

	candidate, err := uc.candidates.FindByID(offer.AccountID, offer.CandidateID)
	if err != nil {
		return nil, err
	}

	switch action {
	case "accept":
		if _, err := uc.acceptOffer(ctx, candidate, offer, nil, nil); err != nil {
			return nil, err
		}
		return offer, nil
	case "decline":
		offer.Status = model.OfferStatusDeclined
		offer.UpdatedAt = time.Now()
		if err := uc.offers.Update(offer); err != nil {
			return nil, err
		}
		candidate.Status = model.StatusRejected
		candidate.FinalDecisionStatus = model.DecisionRejected
		candidate.UpdatedAt = time.Now()
		if err := uc.candidates.Update(candidate); err != nil {
			return nil, err
		}
		uc.logActivity(offer.AccountID, nil, "offer_declined", "offer", offer.ID, "{}")
		return offer, nil
	}
	return nil, errBadRequest("action must be accept or decline")
}

func (uc *CandidateUsecase) acceptOffer(ctx context.Context, candidate *model.Candidate, offer *model.Offer, actorID *uuid.UUID, sender *model.User) (*model.Candidate, error) {
	offer.Status = model.OfferStatusAccepted
	offer.UpdatedAt = time.Now()
	if err := uc.offers.Update(offer); err != nil {
		return nil, err
	}

	candidate.Status = model.StatusOfferAccepted
	candidate.FinalDecisionStatus = model.DecisionOffer
	candidate.UpdatedAt = time.Now()
	if err := uc.candidates.Update(candidate); err != nil {
		return nil, err
	}

	uc.logActivity(candidate.AccountID, actorID, "offer_accepted", "offer", offer.ID, "{}")

	rendered := uc.renderTemplate(candidate.AccountID, sender, model.TemplateKindOnboarding, candidate, template.Fields{})
	report := effect.RunAll(ctx, []effect.Effect{
		uc.emailEffect(candidate.Email, rendered),
		{
			Name: "slack_offer_accepted",
			Run: func(ctx context.Context) error {
				return uc.slack.Post(ctx, fmt.Sprintf("%s accepted their offer 🎉", candidate.Name))
			},
		},
	})
	if failed := report.Failed(); len(failed) > 0 {
		uc.logActivity(candidate.AccountID, actorID, "offer_accept_effects_failed", "candidate", candidate.ID, report.JSON())
	}

	return candidate, nil
}

// ---- reads ----

func (uc *CandidateUsecase) GetCandidate(accountID, candidateID uuid.UUID) (*model.Candidate, error) {
	candidate, err := uc.candidates.FindByID(accountID, candidateID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("candidate")
		}
		return nil, err
	}
	return candidate, nil
}

func (uc *CandidateUsecase) ListCandidates(accountID uuid.UUID, jobID *uuid.UUID, status string) ([]model.Candidate, error) {
	return uc.candidates.List(accountID, jobID, status)
}

// ListInterviews returns the candidate's full interview history, cancelled
// rows included.
func (uc *CandidateUsecase) ListInterviews(accountID, candidateID uuid.UUID) ([]model.Interview, error) {
	if _, err := uc.candidates.FindByID(accountID, candidateID); err != nil {
		if isNotFound(err) {
			return nil, errNotFound("candidate")
		}
		return nil, err
	}
	return uc.interviews.ListByCandidate(accountID, candidateID)
}

// ---- shared helpers ----

func (uc *CandidateUsecase) cancelActiveInterviews(accountID, candidateID uuid.UUID, note string) {
	active, err := uc.interviews.ListActiveByCandidate(accountID, candidateID)
	if err != nil {
		log.Printf("failed to list active interviews for candidate %s: %v", candidateID, err)
		return
	}
	for i := range active {
		iv := &active[i]
		iv.Status = model.InterviewStatusCancelled
		iv.AppendNote(note)
		iv.UpdatedAt = time.Now()
		if err := uc.interviews.Update(iv); err != nil {
			log.Printf("failed to cancel interview %s: %v", iv.ID, err)
		}
	}
}

func (uc *CandidateUsecase) logActivity(accountID uuid.UUID, userID *uuid.UUID, action, entityType string, entityID uuid.UUID, details string) {
	l := &model.ActivityLog{
		AccountID:  accountID,
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := uc.activity.Create(l); err != nil {
		log.Printf("failed to write activity log %s/%s: %v", action, entityID, err)
	}
}

// renderTemplate resolves the sender's custom template for the kind, falling
// back to the built-in default, and substitutes the escaped field set.
func (uc *CandidateUsecase) renderTemplate(accountID uuid.UUID, sender *model.User, kind string, candidate *model.Candidate, extra template.Fields) template.Rendered {
	subject, body := uc.templateSource(accountID, sender, kind)

	fields := extra
	fields.CandidateName = candidate.Name
	fields.CompanyName = config.LoadCompanyConfig().Name
	if sender != nil {
		fields.SenderName = sender.Name
	}
	if candidate.JobID != nil {
		if job, err := uc.jobs.FindByID(accountID, *candidate.JobID); err == nil {
			fields.JobTitle = job.Title
		}
	}
	return template.Render(subject, body, fields)
}

func (uc *CandidateUsecase) templateSource(accountID uuid.UUID, sender *model.User, kind string) (string, string) {
	if sender != nil {
		if custom, err := uc.templates.FindByUserAndKind(accountID, sender.ID, kind); err == nil {
			return custom.Subject, custom.Body
		}
	}
	d, ok := template.DefaultFor(kind)
	if !ok {
		log.Printf("no template for kind %q", kind)
		return "", ""
	}
	return d.Subject, d.Body
}

func (uc *CandidateUsecase) emailEffect(to string, rendered template.Rendered) effect.Effect {
	return effect.Effect{
		Name: "email_" + to,
		Run: func(ctx context.Context) error {
			return uc.mailer.Send(ctx, to, rendered.Subject, rendered.Body)
		},
	}
}

func (uc *CandidateUsecase) inAppNotificationEffect(accountID, userID uuid.UUID, kind, title string) effect.Effect {
	return effect.Effect{
		Name: "notification_" + kind,
		Run: func(ctx context.Context) error {
			return uc.notifications.Create(&model.Notification{
				AccountID: accountID,
				UserID:    userID,
				Type:      kind,
				Title:     title,
				CreatedAt: time.Now(),
			})
		},
	}
}

func (uc *CandidateUsecase) crmSyncEffects(accountID uuid.UUID, candidate *model.Candidate) []effect.Effect {
	conns, err := uc.crmConns.ListEnabled(accountID)
	if err != nil {
		log.Printf("failed to list CRM connections for account %s: %v", accountID, err)
		return nil
	}

	byProvider := make(map[string]service.CRMInterface, len(uc.crms))
	for _, crm := range uc.crms {
		byProvider[crm.Provider()] = crm
	}

	var effects []effect.Effect
	for _, conn := range conns {
		crm, ok := byProvider[conn.Provider]
		if !ok {
			continue
		}
		conn := conn
		effects = append(effects, effect.Effect{
			Name: "crm_sync_" + conn.Provider,
			Run: func(ctx context.Context) error {
				externalID, err := crm.SyncCandidate(ctx, conn, candidate)
				if err != nil {
					return err
				}
				if conn.Provider == model.CRMProviderGHL && externalID != "" && candidate.GHLContactID != externalID {
					candidate.GHLContactID = externalID
					return uc.candidates.Update(candidate)
				}
				return nil
			},
		})
	}
	return effects
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("January 2, 2006")
}
