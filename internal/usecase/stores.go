package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"github.com/pgvector/pgvector-go"
)

// Store interfaces mirror the repository structs one-to-one so the
// lifecycle controller can be exercised against in-memory fakes. All reads
// and writes are account scoped; a result from the wrong tenant is a bug in
// the store, not something callers re-check.

type CandidateStore interface {
	Create(c *model.Candidate) error
	Update(c *model.Candidate) error
	FindByID(accountID, id uuid.UUID) (*model.Candidate, error)
	FindByNameAndEmail(accountID uuid.UUID, name, email string) (*model.Candidate, error)
	FindByEmail(accountID uuid.UUID, email string) (*model.Candidate, error)
	FindByGHLContactID(accountID uuid.UUID, contactID string) (*model.Candidate, error)
	List(accountID uuid.UUID, jobID *uuid.UUID, status string) ([]model.Candidate, error)
	SearchByEmbedding(accountID uuid.UUID, embedding pgvector.Vector, topK int) ([]model.Candidate, error)
}

type InterviewStore interface {
	Create(i *model.Interview) error
	Update(i *model.Interview) error
	FindByID(accountID, id uuid.UUID) (*model.Interview, error)
	ListByCandidate(accountID, candidateID uuid.UUID) ([]model.Interview, error)
	ListActiveByCandidate(accountID, candidateID uuid.UUID) ([]model.Interview, error)
}

type OfferStore interface {
	Create(o *model.Offer) error
	Update(o *model.Offer) error
	FindByToken(token string) (*model.Offer, error)
	FindLatestByCandidate(accountID, candidateID uuid.UUID) (*model.Offer, error)
}

type JobStore interface {
	Create(job *model.Job) error
	Update(job *model.Job) error
	FindByID(accountID, id uuid.UUID) (*model.Job, error)
	List(accountID uuid.UUID, status string) ([]model.Job, error)
}

type UserStore interface {
	FindByID(accountID, id uuid.UUID) (*model.User, error)
	ListByAccount(accountID uuid.UUID) ([]model.User, error)
	FindAccount(id uuid.UUID) (*model.Account, error)
}

type ActivityStore interface {
	Create(l *model.ActivityLog) error
}

type NotificationStore interface {
	Create(n *model.Notification) error
	Enqueue(q *model.QueuedNotification) error
	ClaimDue(limit int) ([]model.QueuedNotification, error)
	MarkProcessed(q *model.QueuedNotification) error
	MarkFailed(q *model.QueuedNotification, failure error) error
}

type TemplateStore interface {
	FindByUserAndKind(accountID, userID uuid.UUID, kind string) (*model.EmailTemplate, error)
}

type CRMConnectionStore interface {
	ListEnabled(accountID uuid.UUID) ([]model.CRMConnection, error)
}

type EvaluationStore interface {
	Create(e *model.Evaluation) error
	FindLatestByInterview(accountID, interviewID uuid.UUID) (*model.Evaluation, error)
}

// EmbeddingService is the slice of the Gemini service the controller needs.
type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// WorkflowHook receives status transitions for downstream automation. Hook
// failures are logged and swallowed.
type WorkflowHook interface {
	OnStatusChange(ctx context.Context, c *model.Candidate, previousStatus string) error
}
