package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/model"
	"github.com/pgvector/pgvector-go"
)

type JobUsecase struct {
	jobs       JobStore
	candidates CandidateStore
	activity   ActivityStore
	embeddings EmbeddingService
}

func NewJobUsecase(jobs JobStore, candidates CandidateStore, activity ActivityStore, embeddings EmbeddingService) *JobUsecase {
	return &JobUsecase{jobs: jobs, candidates: candidates, activity: activity, embeddings: embeddings}
}

type CreateJobInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Skills        string `json:"skills"`
	Department    string `json:"department"`
	Type          string `json:"type"`
	ExpressReview bool   `json:"express_review"`
	HiPeopleLink  string `json:"hi_people_link"`
}

func (uc *JobUsecase) Create(ctx context.Context, accountID uuid.UUID, actor *model.User, input CreateJobInput) (*model.Job, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errBadRequest("title is required")
	}
	job := &model.Job{
		AccountID:     accountID,
		Title:         input.Title,
		Description:   input.Description,
		Skills:        input.Skills,
		Department:    input.Department,
		Type:          input.Type,
		Status:        model.JobStatusDraft,
		ExpressReview: input.ExpressReview,
		HiPeopleLink:  input.HiPeopleLink,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := uc.jobs.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

// Approve moves a draft job live and computes its description embedding so
// candidate matching can rank against it.
func (uc *JobUsecase) Approve(ctx context.Context, accountID, jobID uuid.UUID, actor *model.User) (*model.Job, error) {
	job, err := uc.jobs.FindByID(accountID, jobID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("job")
		}
		return nil, err
	}
	if job.Status == model.JobStatusClosed {
		return nil, errBadRequest("closed jobs cannot be approved")
	}

	now := time.Now()
	job.Status = model.JobStatusActive
	job.PostedDate = &now
	job.UpdatedAt = now

	if uc.embeddings != nil && job.Description != "" {
		vec, err := uc.embeddings.GenerateEmbedding(ctx, job.Title+"\n\n"+job.Description)
		if err != nil {
			log.Printf("job %s embedding failed: %v", job.ID, err)
		} else {
			job.Embedding = pgvector.NewVector(vec)
		}
	}

	if err := uc.jobs.Update(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (uc *JobUsecase) Close(ctx context.Context, accountID, jobID uuid.UUID, actor *model.User) (*model.Job, error) {
	job, err := uc.jobs.FindByID(accountID, jobID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("job")
		}
		return nil, err
	}
	job.Status = model.JobStatusClosed
	job.UpdatedAt = time.Now()
	if err := uc.jobs.Update(job); err != nil {
		return nil, err
	}
	return job, nil
}

// CandidateMatches ranks the account's candidates against a job's
// description embedding, nearest first.
func (uc *JobUsecase) CandidateMatches(ctx context.Context, accountID, jobID uuid.UUID, topK int) ([]model.Candidate, error) {
	job, err := uc.jobs.FindByID(accountID, jobID)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("job")
		}
		return nil, err
	}
	if job.Embedding.Slice() == nil {
		return nil, errBadRequest("job has no embedding yet; approve it first")
	}
	if topK <= 0 {
		topK = 10
	}
	return uc.candidates.SearchByEmbedding(accountID, job.Embedding, topK)
}
