package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"github.com/hireos/hireos/internal/service"
	"github.com/hireos/hireos/internal/webhook"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ---- in-memory fakes ----

type fakeCandidateStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Candidate
}

func newFakeCandidateStore() *fakeCandidateStore {
	return &fakeCandidateStore{rows: map[uuid.UUID]model.Candidate{}}
}

func (s *fakeCandidateStore) Create(c *model.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.rows[c.ID] = *c
	return nil
}

func (s *fakeCandidateStore) Update(c *model.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.rows[c.ID] = *c
	return nil
}

func (s *fakeCandidateStore) FindByID(accountID, id uuid.UUID) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok || c.AccountID != accountID {
		return nil, gorm.ErrRecordNotFound
	}
	out := c
	return &out, nil
}

func (s *fakeCandidateStore) FindByNameAndEmail(accountID uuid.UUID, name, email string) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if c.AccountID == accountID && strings.EqualFold(c.Name, name) && strings.EqualFold(c.Email, email) {
			out := c
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeCandidateStore) FindByEmail(accountID uuid.UUID, email string) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if c.AccountID == accountID && strings.EqualFold(c.Email, email) {
			out := c
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeCandidateStore) FindByGHLContactID(accountID uuid.UUID, contactID string) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if c.AccountID == accountID && c.GHLContactID == contactID {
			out := c
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeCandidateStore) List(accountID uuid.UUID, jobID *uuid.UUID, status string) ([]model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Candidate
	for _, c := range s.rows {
		if c.AccountID != accountID {
			continue
		}
		if jobID != nil && (c.JobID == nil || *c.JobID != *jobID) {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeCandidateStore) SearchByEmbedding(accountID uuid.UUID, embedding pgvector.Vector, topK int) ([]model.Candidate, error) {
	return nil, nil
}

func (s *fakeCandidateStore) get(t *testing.T, id uuid.UUID) model.Candidate {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	require.True(t, ok, "candidate %s not stored", id)
	return c
}

type fakeInterviewStore struct {
	mu   sync.Mutex
	rows []model.Interview
}

func (s *fakeInterviewStore) Create(i *model.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	s.rows = append(s.rows, *i)
	return nil
}

func (s *fakeInterviewStore) Update(i *model.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := range s.rows {
		if s.rows[idx].ID == i.ID {
			s.rows[idx] = *i
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *fakeInterviewStore) FindByID(accountID, id uuid.UUID) (*model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, iv := range s.rows {
		if iv.ID == id && iv.AccountID == accountID {
			out := iv
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeInterviewStore) ListByCandidate(accountID, candidateID uuid.UUID) ([]model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Interview
	for _, iv := range s.rows {
		if iv.AccountID == accountID && iv.CandidateID == candidateID {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (s *fakeInterviewStore) ListActiveByCandidate(accountID, candidateID uuid.UUID) ([]model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Interview
	for _, iv := range s.rows {
		if iv.AccountID == accountID && iv.CandidateID == candidateID && iv.IsActive() {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (s *fakeInterviewStore) all() []model.Interview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Interview(nil), s.rows...)
}

type fakeOfferStore struct {
	mu   sync.Mutex
	rows []model.Offer
}

func (s *fakeOfferStore) Create(o *model.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	s.rows = append(s.rows, *o)
	return nil
}

func (s *fakeOfferStore) Update(o *model.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := range s.rows {
		if s.rows[idx].ID == o.ID {
			s.rows[idx] = *o
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *fakeOfferStore) FindByToken(token string) (*model.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.rows {
		if o.AcceptanceToken == token {
			out := o
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeOfferStore) FindLatestByCandidate(accountID, candidateID uuid.UUID) (*model.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := len(s.rows) - 1; idx >= 0; idx-- {
		o := s.rows[idx]
		if o.AccountID == accountID && o.CandidateID == candidateID {
			out := o
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeJobStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Job
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{rows: map[uuid.UUID]model.Job{}}
}

func (s *fakeJobStore) Create(job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	s.rows[job.ID] = *job
	return nil
}

func (s *fakeJobStore) Update(job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[job.ID] = *job
	return nil
}

func (s *fakeJobStore) FindByID(accountID, id uuid.UUID) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.rows[id]
	if !ok || job.AccountID != accountID {
		return nil, gorm.ErrRecordNotFound
	}
	out := job
	return &out, nil
}

func (s *fakeJobStore) List(accountID uuid.UUID, status string) ([]model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Job
	for _, job := range s.rows {
		if job.AccountID == accountID && (status == "" || job.Status == status) {
			out = append(out, job)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	users    map[uuid.UUID]model.User
	accounts map[uuid.UUID]model.Account
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]model.User{}, accounts: map[uuid.UUID]model.Account{}}
}

func (s *fakeUserStore) FindByID(accountID, id uuid.UUID) (*model.User, error) {
	u, ok := s.users[id]
	if !ok || u.AccountID != accountID {
		return nil, gorm.ErrRecordNotFound
	}
	out := u
	return &out, nil
}

func (s *fakeUserStore) ListByAccount(accountID uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		if u.AccountID == accountID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) FindAccount(id uuid.UUID) (*model.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := a
	return &out, nil
}

type fakeActivityStore struct {
	mu   sync.Mutex
	rows []model.ActivityLog
}

func (s *fakeActivityStore) Create(l *model.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, *l)
	return nil
}

func (s *fakeActivityStore) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.rows))
	for i, l := range s.rows {
		out[i] = l.Action
	}
	return out
}

type fakeNotificationStore struct {
	mu     sync.Mutex
	inApp  []model.Notification
	queued []model.QueuedNotification
}

func (s *fakeNotificationStore) Create(n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inApp = append(s.inApp, *n)
	return nil
}

func (s *fakeNotificationStore) Enqueue(q *model.QueuedNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued = append(s.queued, *q)
	return nil
}

func (s *fakeNotificationStore) ClaimDue(limit int) ([]model.QueuedNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.QueuedNotification
	for _, q := range s.queued {
		if q.ProcessedAt == nil && !q.ProcessAfter.After(time.Now()) && len(out) < limit {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *fakeNotificationStore) MarkProcessed(q *model.QueuedNotification) error { return nil }

func (s *fakeNotificationStore) MarkFailed(q *model.QueuedNotification, failure error) error {
	return nil
}

type fakeTemplateStore struct {
	custom map[string]model.EmailTemplate // keyed by kind
}

func (s *fakeTemplateStore) FindByUserAndKind(accountID, userID uuid.UUID, kind string) (*model.EmailTemplate, error) {
	if tpl, ok := s.custom[kind]; ok {
		out := tpl
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCRMConnStore struct {
	conns []model.CRMConnection
}

func (s *fakeCRMConnStore) ListEnabled(accountID uuid.UUID) ([]model.CRMConnection, error) {
	var out []model.CRMConnection
	for _, c := range s.conns {
		if c.AccountID == accountID && c.Enabled {
			out = append(out, c)
		}
	}
	return out, nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeSlack struct {
	mu    sync.Mutex
	posts []string
	err   error
}

func (s *fakeSlack) Post(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.posts = append(s.posts, text)
	return nil
}

type fakeCRM struct {
	mu       sync.Mutex
	provider string
	returnID string
	err      error
	synced   int
}

func (c *fakeCRM) Provider() string { return c.provider }

func (c *fakeCRM) SyncCandidate(ctx context.Context, conn model.CRMConnection, cand *model.Candidate) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	c.synced++
	return c.returnID, nil
}

type fakeCalendar struct {
	mu       sync.Mutex
	mirrored int
}

func (c *fakeCalendar) MirrorEvent(ctx context.Context, title, inviteeEmail string, start time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mirrored++
	return nil
}

// ---- fixture ----

type lifecycleFixture struct {
	uc            *CandidateUsecase
	candidates    *fakeCandidateStore
	interviews    *fakeInterviewStore
	offers        *fakeOfferStore
	jobs          *fakeJobStore
	users         *fakeUserStore
	activity      *fakeActivityStore
	notifications *fakeNotificationStore
	crmConns      *fakeCRMConnStore
	mailer        *fakeMailer
	slack         *fakeSlack
	crm           *fakeCRM
	calendar      *fakeCalendar

	accountID uuid.UUID
	actor     *model.User
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	f := &lifecycleFixture{
		candidates:    newFakeCandidateStore(),
		interviews:    &fakeInterviewStore{},
		offers:        &fakeOfferStore{},
		jobs:          newFakeJobStore(),
		users:         newFakeUserStore(),
		activity:      &fakeActivityStore{},
		notifications: &fakeNotificationStore{},
		crmConns:      &fakeCRMConnStore{},
		mailer:        &fakeMailer{},
		slack:         &fakeSlack{},
		crm:           &fakeCRM{provider: model.CRMProviderGHL, returnID: "ghl-contact-1"},
		calendar:      &fakeCalendar{},
		accountID:     uuid.New(),
	}
	f.users.accounts[f.accountID] = model.Account{ID: f.accountID, Name: "Acme"}
	f.actor = &model.User{
		ID:           uuid.New(),
		AccountID:    f.accountID,
		Name:         "Riley Recruiter",
		Email:        "riley@acme.com",
		Role:         model.RoleRecruiter,
		CalendarLink: "https://calendly.com/riley",
	}
	f.users.users[f.actor.ID] = *f.actor

	f.uc = NewCandidateUsecase(CandidateUsecaseDeps{
		Candidates:    f.candidates,
		Interviews:    f.interviews,
		Offers:        f.offers,
		Jobs:          f.jobs,
		Users:         f.users,
		Activity:      f.activity,
		Notifications: f.notifications,
		Templates:     &fakeTemplateStore{},
		CRMConns:      f.crmConns,
		Mailer:        f.mailer,
		Slack:         f.slack,
		CRMs:          []service.CRMInterface{f.crm},
		Calendar:      f.calendar,
	})
	return f
}

func (f *lifecycleFixture) seedCandidate(t *testing.T, status string) *model.Candidate {
	t.Helper()
	c := &model.Candidate{
		ID:        uuid.New(),
		AccountID: f.accountID,
		Name:      "Jane Doe",
		Email:     "jane.doe@gmail.com",
		Status:    status,
	}
	require.NoError(t, f.candidates.Create(c))
	return c
}

// ---- tests ----

func TestCreateCandidateRejectsDuplicateInSameTenant(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	first, err := f.uc.CreateCandidate(ctx, f.accountID, f.actor, CreateCandidateInput{
		Name: "Jane Doe", Email: "Jane.Doe@Gmail.com",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApplicationSubmitted, first.Status)
	assert.Equal(t, "jane.doe@gmail.com", first.Email)

	_, err = f.uc.CreateCandidate(ctx, f.accountID, f.actor, CreateCandidateInput{
		Name: "Jane Doe", Email: "jane.doe@gmail.com",
	})
	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 409, lerr.Code)
	assert.Equal(t, first.ID, lerr.Details["existingCandidateId"])
}

func TestCreateCandidateAllowsSameIdentityAcrossTenants(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateCandidate(ctx, f.accountID, f.actor, CreateCandidateInput{
		Name: "Jane Doe", Email: "jane.doe@gmail.com",
	})
	require.NoError(t, err)

	otherAccount := uuid.New()
	f.users.accounts[otherAccount] = model.Account{ID: otherAccount, Name: "Globex"}
	otherActor := &model.User{ID: uuid.New(), AccountID: otherAccount, Name: "Max", Role: model.RoleRecruiter}

	_, err = f.uc.CreateCandidate(ctx, otherAccount, otherActor, CreateCandidateInput{
		Name: "Jane Doe", Email: "jane.doe@gmail.com",
	})
	assert.NoError(t, err)
}

func TestCreateCandidateRequiresNameAndEmail(t *testing.T) {
	f := newLifecycleFixture(t)
	_, err := f.uc.CreateCandidate(context.Background(), f.accountID, f.actor, CreateCandidateInput{Name: "  "})
	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 400, lerr.Code)
}

func TestCreateCandidateQueuesDeferredAssessment(t *testing.T) {
	f := newLifecycleFixture(t)
	job := &model.Job{AccountID: f.accountID, Title: "Backend Engineer", Status: model.JobStatusActive, HiPeopleLink: "https://hipeople.io/a/1"}
	require.NoError(t, f.jobs.Create(job))

	before := time.Now()
	_, err := f.uc.CreateCandidate(context.Background(), f.accountID, f.actor, CreateCandidateInput{
		Name: "Jane Doe", Email: "jane.doe@gmail.com", JobID: &job.ID,
	})
	require.NoError(t, err)

	require.Len(t, f.notifications.queued, 1)
	q := f.notifications.queued[0]
	assert.Equal(t, model.QueuedKindAssessment, q.Kind)
	// Non express-review jobs defer the assessment email by three hours.
	assert.True(t, q.ProcessAfter.After(before.Add(170*time.Minute)), "ProcessAfter = %v", q.ProcessAfter)
	assert.Contains(t, q.Payload, "hipeople.io")
}

func TestCreateCandidateExpressReviewSendsAssessmentImmediately(t *testing.T) {
	f := newLifecycleFixture(t)
	job := &model.Job{AccountID: f.accountID, Title: "Backend Engineer", ExpressReview: true, HiPeopleLink: "https://hipeople.io/a/1"}
	require.NoError(t, f.jobs.Create(job))

	_, err := f.uc.CreateCandidate(context.Background(), f.accountID, f.actor, CreateCandidateInput{
		Name: "Jane Doe", Email: "jane.doe@gmail.com", JobID: &job.ID,
	})
	require.NoError(t, err)

	require.Len(t, f.notifications.queued, 1)
	assert.False(t, f.notifications.queued[0].ProcessAfter.After(time.Now()))
}

func TestCreateCandidateJobWithoutAssessmentLinkQueuesNothing(t *testing.T) {
	f := newLifecycleFixture(t)
	job := &model.Job{AccountID: f.accountID, Title: "Backend Engineer"}
	require.NoError(t, f.jobs.Create(job))

	_, err := f.uc.CreateCandidate(context.Background(), f.accountID, f.actor, CreateCandidateInput{
		Name: "Jane Doe", Email: "jane.doe@gmail.com", JobID: &job.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, f.notifications.queued)
}

func TestInviteToInterview(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusAssessmentCompleted)

	updated, err := f.uc.InviteToInterview(context.Background(), f.accountID, c.ID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFirstInterviewSent, updated.Status)

	ivs := f.interviews.all()
	require.Len(t, ivs, 1)
	assert.Equal(t, model.InterviewStatusScheduled, ivs[0].Status)
	assert.Equal(t, f.actor.ID, *ivs[0].InterviewerID)
	assert.Nil(t, ivs[0].ScheduledDate)

	require.Equal(t, 1, f.mailer.sentCount())
	assert.Equal(t, "jane.doe@gmail.com", f.mailer.sent[0].To)
	assert.Contains(t, f.mailer.sent[0].Body, "https://calendly.com/riley")
	assert.Contains(t, f.activity.actions(), "interview_invite_sent")
}

func TestRepeatedInviteKeepsSingleActiveInterview(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusAssessmentCompleted)
	ctx := context.Background()

	_, err := f.uc.InviteToInterview(ctx, f.accountID, c.ID, f.actor)
	require.NoError(t, err)
	_, err = f.uc.InviteToInterview(ctx, f.accountID, c.ID, f.actor)
	require.NoError(t, err)

	ivs := f.interviews.all()
	require.Len(t, ivs, 1)
	assert.Contains(t, ivs[0].Notes, "re-sent")
}

func TestInviteBlockedByUndeliverableEmailLeavesStateUntouched(t *testing.T) {
	f := newLifecycleFixture(t)
	c := &model.Candidate{
		ID:        uuid.New(),
		AccountID: f.accountID,
		Name:      "Test Person",
		Email:     "test@nonexistent.fake",
		Status:    model.StatusAssessmentCompleted,
	}
	require.NoError(t, f.candidates.Create(c))

	_, err := f.uc.InviteToInterview(context.Background(), f.accountID, c.ID, f.actor)
	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 422, lerr.Code)
	assert.Equal(t, ErrTypeNonExistentEmail, lerr.ErrorType)

	stored := f.candidates.get(t, c.ID)
	assert.Equal(t, model.StatusAssessmentCompleted, stored.Status)
	assert.Empty(t, f.interviews.all())
	assert.Zero(t, f.mailer.sentCount())
	assert.Contains(t, f.activity.actions(), "interview_invite_blocked")
}

func TestInviteRequiresCalendarLink(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusAssessmentCompleted)
	actor := *f.actor
	actor.CalendarLink = ""

	_, err := f.uc.InviteToInterview(context.Background(), f.accountID, c.ID, &actor)
	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 400, lerr.Code)
	assert.Equal(t, ErrTypeMissingCalendarLink, lerr.ErrorType)

	stored := f.candidates.get(t, c.ID)
	assert.Equal(t, model.StatusAssessmentCompleted, stored.Status)
}

func TestRejectCancelsActiveInterview(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusAssessmentCompleted)
	ctx := context.Background()

	_, err := f.uc.InviteToInterview(ctx, f.accountID, c.ID, f.actor)
	require.NoError(t, err)

	updated, err := f.uc.Reject(ctx, f.accountID, c.ID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, updated.Status)
	assert.Equal(t, model.DecisionRejected, updated.FinalDecisionStatus)

	ivs := f.interviews.all()
	require.Len(t, ivs, 1)
	assert.Equal(t, model.InterviewStatusCancelled, ivs[0].Status)
	assert.Contains(t, ivs[0].Notes, "status changed to "+model.StatusRejected)
}

func TestAddToTalentPoolSetsDecision(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusAssessmentCompleted)

	updated, err := f.uc.AddToTalentPool(context.Background(), f.accountID, c.ID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTalentPool, updated.Status)
	assert.Equal(t, model.DecisionTalentPool, updated.FinalDecisionStatus)
	assert.Equal(t, 1, f.mailer.sentCount())
}

func TestPatchStatusRoutesThroughInvitePath(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusAssessmentCompleted)
	status := model.StatusFirstInterviewSent

	updated, err := f.uc.UpdateCandidate(context.Background(), f.accountID, c.ID, f.actor, UpdateCandidateInput{
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusFirstInterviewSent, updated.Status)

	// The invite guards and bookkeeping fire exactly as on the direct path.
	require.Len(t, f.interviews.all(), 1)
	assert.Equal(t, 1, f.mailer.sentCount())
}

func TestPatchStatusRoutesThroughOfferPath(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusFirstInterviewBooked)
	status := model.StatusOfferSent

	updated, err := f.uc.UpdateCandidate(context.Background(), f.accountID, c.ID, f.actor, UpdateCandidateInput{
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOfferSent, updated.Status)
	assert.Equal(t, model.DecisionOffer, updated.FinalDecisionStatus)

	// The offer row, its email and the acceptance link all come from the
	// dedicated send-offer path.
	require.Len(t, f.offers.rows, 1)
	require.Equal(t, 1, f.mailer.sentCount())
	assert.Contains(t, f.mailer.sent[0].Body, f.offers.rows[0].AcceptanceToken)
	assert.Contains(t, f.activity.actions(), "offer_sent")
}

func TestPatchStatusToOfferHonorsEmailGate(t *testing.T) {
	f := newLifecycleFixture(t)
	c := &model.Candidate{
		ID:        uuid.New(),
		AccountID: f.accountID,
		Name:      "Test Person",
		Email:     "noreply@example.com",
		Status:    model.StatusFirstInterviewBooked,
	}
	require.NoError(t, f.candidates.Create(c))
	status := model.StatusOfferSent

	_, err := f.uc.UpdateCandidate(context.Background(), f.accountID, c.ID, f.actor, UpdateCandidateInput{
		Status: &status,
	})
	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 422, lerr.Code)
	assert.Empty(t, f.offers.rows)
	assert.Zero(t, f.mailer.sentCount())
}

func TestPatchStatusToInviteHonorsEmailGate(t *testing.T) {
	f := newLifecycleFixture(t)
	c := &model.Candidate{
		ID:        uuid.New(),
		AccountID: f.accountID,
		Name:      "Test Person",
		Email:     "noreply@example.com",
		Status:    model.StatusAssessmentCompleted,
	}
	require.NoError(t, f.candidates.Create(c))
	status := model.StatusFirstInterviewSent

	_, err := f.uc.UpdateCandidate(context.Background(), f.accountID, c.ID, f.actor, UpdateCandidateInput{
		Status: &status,
	})
	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 422, lerr.Code)
	assert.Empty(t, f.interviews.all())
}

func TestPatchTerminalStatusKeepsDecisionConsistent(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusFirstInterviewBooked)
	iv := &model.Interview{AccountID: f.accountID, CandidateID: c.ID, Status: model.InterviewStatusScheduled}
	require.NoError(t, f.interviews.Create(iv))
	status := model.StatusTalentPool

	updated, err := f.uc.UpdateCandidate(context.Background(), f.accountID, c.ID, f.actor, UpdateCandidateInput{
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DecisionTalentPool, updated.FinalDecisionStatus)

	// Leaving an interview stage cancels the outstanding interview.
	ivs := f.interviews.all()
	require.Len(t, ivs, 1)
	assert.Equal(t, model.InterviewStatusCancelled, ivs[0].Status)
}

func TestUpdateCandidateMergesSkills(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusApplicationSubmitted)
	c.Skills = "Go, SQL"
	require.NoError(t, f.candidates.Update(c))

	updated, err := f.uc.UpdateCandidate(context.Background(), f.accountID, c.ID, f.actor, UpdateCandidateInput{
		Skills: []string{"go", "Kubernetes"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL", "Kubernetes"}, updated.SkillList())
}

func TestEvaluationFieldsRequirePrivilegedRole(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusApplicationSubmitted)
	score := 87.5

	interviewer := &model.User{ID: uuid.New(), AccountID: f.accountID, Name: "Ivy", Role: model.RoleInterviewer}
	_, err := f.uc.UpdateCandidate(context.Background(), f.accountID, c.ID, interviewer, UpdateCandidateInput{
		MatchScore: &score,
	})
	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 403, lerr.Code)

	director := &model.User{ID: uuid.New(), AccountID: f.accountID, Name: "Dana", Role: model.RoleDirector}
	updated, err := f.uc.UpdateCandidate(context.Background(), f.accountID, c.ID, director, UpdateCandidateInput{
		MatchScore: &score,
	})
	require.NoError(t, err)
	assert.Equal(t, 87.5, updated.MatchScore)
}

func TestSendOfferCreatesSingleOffer(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusFirstInterviewBooked)
	ctx := context.Background()

	updated, offer, err := f.uc.SendOffer(ctx, f.accountID, c.ID, f.actor, OfferInput{
		Compensation: "90k EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOfferSent, updated.Status)
	assert.Equal(t, model.DecisionOffer, updated.FinalDecisionStatus)
	assert.Equal(t, model.OfferStatusSent, offer.Status)
	assert.NotEmpty(t, offer.AcceptanceToken)

	// A second send reuses the outstanding offer row.
	_, second, err := f.uc.SendOffer(ctx, f.accountID, c.ID, f.actor, OfferInput{})
	require.NoError(t, err)
	assert.Equal(t, offer.ID, second.ID)
	require.Len(t, f.offers.rows, 1)

	// The offer email carries the acceptance link.
	require.GreaterOrEqual(t, f.mailer.sentCount(), 1)
	assert.Contains(t, f.mailer.sent[0].Body, offer.AcceptanceToken)
}

func TestRespondToOfferAccept(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusOfferSent)
	ctx := context.Background()

	_, offer, err := f.uc.SendOffer(ctx, f.accountID, c.ID, f.actor, OfferInput{})
	require.NoError(t, err)

	responded, err := f.uc.RespondToOffer(ctx, offer.AcceptanceToken, "accept")
	require.NoError(t, err)
	assert.Equal(t, offer.ID, responded.ID)

	stored := f.candidates.get(t, c.ID)
	assert.Equal(t, model.StatusOfferAccepted, stored.Status)
	assert.Equal(t, model.DecisionOffer, stored.FinalDecisionStatus)

	// Terminal offers reject further responses.
	_, err = f.uc.RespondToOffer(ctx, offer.AcceptanceToken, "decline")
	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 400, lerr.Code)
}

func TestRespondToOfferDecline(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusOfferSent)
	ctx := context.Background()

	_, offer, err := f.uc.SendOffer(ctx, f.accountID, c.ID, f.actor, OfferInput{})
	require.NoError(t, err)

	_, err = f.uc.RespondToOffer(ctx, offer.AcceptanceToken, "decline")
	require.NoError(t, err)

	stored := f.candidates.get(t, c.ID)
	assert.Equal(t, model.StatusRejected, stored.Status)
	assert.Equal(t, model.DecisionRejected, stored.FinalDecisionStatus)
}

func TestRespondToOfferUnknownToken(t *testing.T) {
	f := newLifecycleFixture(t)
	_, err := f.uc.RespondToOffer(context.Background(), "nope", "accept")
	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 404, lerr.Code)
}

func TestRespondToOfferBadAction(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusOfferSent)
	_, offer, err := f.uc.SendOffer(context.Background(), f.accountID, c.ID, f.actor, OfferInput{})
	require.NoError(t, err)

	_, err = f.uc.RespondToOffer(context.Background(), offer.AcceptanceToken, "maybe")
	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 400, lerr.Code)
}

func TestAcceptOfferByStaff(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusOfferSent)
	ctx := context.Background()

	_, _, err := f.uc.SendOffer(ctx, f.accountID, c.ID, f.actor, OfferInput{})
	require.NoError(t, err)

	updated, err := f.uc.AcceptOffer(ctx, f.accountID, c.ID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOfferAccepted, updated.Status)
	assert.Contains(t, f.activity.actions(), "offer_accepted")
}

func TestSideEffectFailureDoesNotFailTransition(t *testing.T) {
	f := newLifecycleFixture(t)
	f.mailer.err = errors.New("smtp relay down")
	f.slack.err = errors.New("webhook 500")
	c := f.seedCandidate(t, model.StatusAssessmentCompleted)

	updated, err := f.uc.Reject(context.Background(), f.accountID, c.ID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, updated.Status)

	stored := f.candidates.get(t, c.ID)
	assert.Equal(t, model.StatusRejected, stored.Status)
	assert.Contains(t, f.activity.actions(), "rejected_effects_failed")
}

func TestCRMSyncWritesBackContactID(t *testing.T) {
	f := newLifecycleFixture(t)
	f.crmConns.conns = []model.CRMConnection{
		{ID: uuid.New(), AccountID: f.accountID, Provider: model.CRMProviderGHL, Enabled: true},
	}

	created, err := f.uc.CreateCandidate(context.Background(), f.accountID, f.actor, CreateCandidateInput{
		Name: "Jane Doe", Email: "jane.doe@gmail.com",
	})
	require.NoError(t, err)

	stored := f.candidates.get(t, created.ID)
	assert.Equal(t, "ghl-contact-1", stored.GHLContactID)
	assert.Equal(t, 1, f.crm.synced)
}

func TestCRMSyncSkipsDisabledConnections(t *testing.T) {
	f := newLifecycleFixture(t)
	f.crmConns.conns = []model.CRMConnection{
		{ID: uuid.New(), AccountID: f.accountID, Provider: model.CRMProviderGHL, Enabled: false},
	}

	_, err := f.uc.CreateCandidate(context.Background(), f.accountID, f.actor, CreateCandidateInput{
		Name: "Jane Doe", Email: "jane.doe@gmail.com",
	})
	require.NoError(t, err)
	assert.Zero(t, f.crm.synced)
}

// ---- booking webhook ----

func TestBookingEventSchedulesInvitedInterview(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusAssessmentCompleted)
	ctx := context.Background()

	_, err := f.uc.InviteToInterview(ctx, f.accountID, c.ID, f.actor)
	require.NoError(t, err)

	start := time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC)
	matched, err := f.uc.HandleBookingEvent(ctx, f.accountID, f.actor.ID, webhook.BookingEvent{
		Kind:          webhook.EventBooked,
		Provider:      webhook.ProviderCalendly,
		InviteeEmail:  "jane.doe@gmail.com",
		ScheduledDate: start,
	})
	require.NoError(t, err)
	assert.True(t, matched)

	ivs := f.interviews.all()
	require.Len(t, ivs, 1)
	require.NotNil(t, ivs[0].ScheduledDate)
	assert.Equal(t, start, *ivs[0].ScheduledDate)

	stored := f.candidates.get(t, c.ID)
	assert.Equal(t, model.StatusFirstInterviewBooked, stored.Status)
}

func TestBookingEventCreatesInterviewWhenNoneActive(t *testing.T) {
	f := newLifecycleFixture(t)
	f.seedCandidate(t, model.StatusAssessmentCompleted)

	matched, err := f.uc.HandleBookingEvent(context.Background(), f.accountID, f.actor.ID, webhook.BookingEvent{
		Kind:          webhook.EventBooked,
		Provider:      webhook.ProviderCalCom,
		InviteeEmail:  "jane.doe@gmail.com",
		ScheduledDate: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, matched)

	ivs := f.interviews.all()
	require.Len(t, ivs, 1)
	assert.Contains(t, ivs[0].Notes, "automatically created from cal.com booking")
}

func TestBookingEventUnknownInvitee(t *testing.T) {
	f := newLifecycleFixture(t)

	matched, err := f.uc.HandleBookingEvent(context.Background(), f.accountID, f.actor.ID, webhook.BookingEvent{
		Kind:         webhook.EventBooked,
		Provider:     webhook.ProviderCalendly,
		InviteeEmail: "stranger@gmail.com",
	})
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Empty(t, f.interviews.all())
}

func TestBookingCancellationCancelsInterview(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusFirstInterviewBooked)
	iv := &model.Interview{AccountID: f.accountID, CandidateID: c.ID, Status: model.InterviewStatusScheduled}
	require.NoError(t, f.interviews.Create(iv))

	matched, err := f.uc.HandleBookingEvent(context.Background(), f.accountID, f.actor.ID, webhook.BookingEvent{
		Kind:         webhook.EventCancelled,
		Provider:     webhook.ProviderCalendly,
		InviteeEmail: "jane.doe@gmail.com",
	})
	require.NoError(t, err)
	assert.True(t, matched)

	ivs := f.interviews.all()
	require.Len(t, ivs, 1)
	assert.Equal(t, model.InterviewStatusCancelled, ivs[0].Status)
}

func TestBookingCrossSyncMirrorsWhenAccountOptsIn(t *testing.T) {
	f := newLifecycleFixture(t)
	account := f.users.accounts[f.accountID]
	account.CrossCalendarSync = true
	f.users.accounts[f.accountID] = account
	f.seedCandidate(t, model.StatusAssessmentCompleted)

	_, err := f.uc.HandleBookingEvent(context.Background(), f.accountID, f.actor.ID, webhook.BookingEvent{
		Kind:          webhook.EventBooked,
		Provider:      webhook.ProviderGoogle,
		InviteeEmail:  "jane.doe@gmail.com",
		ScheduledDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.calendar.mirrored)
}

func TestBookingIgnoredEventIsNoop(t *testing.T) {
	f := newLifecycleFixture(t)
	f.seedCandidate(t, model.StatusAssessmentCompleted)

	matched, err := f.uc.HandleBookingEvent(context.Background(), f.accountID, f.actor.ID, webhook.BookingEvent{
		Kind: webhook.EventIgnored,
	})
	require.NoError(t, err)
	assert.False(t, matched)
}

// ---- CRM contact webhook ----

func TestCRMContactEventAppliesAssessmentResults(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusAssessmentSent)
	c.GHLContactID = "ghl-contact-1"
	require.NoError(t, f.candidates.Update(c))

	score, pct := 78.0, 91.0
	matched, err := f.uc.HandleCRMContactEvent(context.Background(), f.accountID, f.actor.ID, webhook.ContactEvent{
		ContactID:            "ghl-contact-1",
		Phone:                "+49 170 0000",
		AssessmentScore:      &score,
		AssessmentPercentile: &pct,
	})
	require.NoError(t, err)
	assert.True(t, matched)

	stored := f.candidates.get(t, c.ID)
	assert.Equal(t, model.StatusAssessmentCompleted, stored.Status)
	assert.Equal(t, 78.0, stored.HiPeopleScore)
	assert.Equal(t, 91.0, stored.HiPeoplePercentile)
	assert.NotNil(t, stored.AssessmentCompletedAt)
	assert.Equal(t, "+49 170 0000", stored.Phone)
	assert.Contains(t, f.activity.actions(), "crm_contact_synced")
}

func TestCRMContactEventLeavesAdvancedStatusAlone(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusFirstInterviewBooked)
	c.GHLContactID = "ghl-contact-1"
	require.NoError(t, f.candidates.Update(c))

	score := 60.0
	_, err := f.uc.HandleCRMContactEvent(context.Background(), f.accountID, f.actor.ID, webhook.ContactEvent{
		ContactID:       "ghl-contact-1",
		AssessmentScore: &score,
	})
	require.NoError(t, err)

	stored := f.candidates.get(t, c.ID)
	assert.Equal(t, model.StatusFirstInterviewBooked, stored.Status)
	assert.Equal(t, 60.0, stored.HiPeopleScore)
}

func TestCRMContactEventUnknownContact(t *testing.T) {
	f := newLifecycleFixture(t)
	f.seedCandidate(t, model.StatusAssessmentSent)

	matched, err := f.uc.HandleCRMContactEvent(context.Background(), f.accountID, f.actor.ID, webhook.ContactEvent{
		ContactID: "no-such-contact",
	})
	require.NoError(t, err)
	assert.False(t, matched)
}

// ---- interview history ----

func TestListInterviewsIncludesCancelledRows(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusAssessmentCompleted)
	ctx := context.Background()

	_, err := f.uc.InviteToInterview(ctx, f.accountID, c.ID, f.actor)
	require.NoError(t, err)
	_, err = f.uc.Reject(ctx, f.accountID, c.ID, f.actor)
	require.NoError(t, err)

	history, err := f.uc.ListInterviews(f.accountID, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.InterviewStatusCancelled, history[0].Status)

	_, err = f.uc.ListInterviews(f.accountID, uuid.New())
	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 404, lerr.Code)
}

// ---- per-candidate locking ----

func TestCandidateLockTableIsEmptiedAfterUse(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusAssessmentCompleted)

	_, err := f.uc.InviteToInterview(context.Background(), f.accountID, c.ID, f.actor)
	require.NoError(t, err)

	f.uc.lockMu.Lock()
	defer f.uc.lockMu.Unlock()
	assert.Empty(t, f.uc.locks)
}

func TestConcurrentInvitesKeepSingleActiveInterview(t *testing.T) {
	f := newLifecycleFixture(t)
	c := f.seedCandidate(t, model.StatusAssessmentCompleted)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.InviteToInterview(context.Background(), f.accountID, c.ID, f.actor)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, f.interviews.all(), 1)

	f.uc.lockMu.Lock()
	defer f.uc.lockMu.Unlock()
	assert.Empty(t, f.uc.locks)
}
