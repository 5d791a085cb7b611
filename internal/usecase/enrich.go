package usecase

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hireos/hireos/internal/util"
	"github.com/pgvector/pgvector-go"
)

// EnrichCandidate downloads and parses the candidate's resume, fills in
// fields the record is missing, unions skills, computes the AI match score
// against the linked job and stores a searchable embedding. It runs off the
// request path; every failure is logged and the synchronous caller never
// sees it.
//
// Parsed fields only land in currently-empty columns. Skills are the one
// exception: the parsed set is unioned into whatever is already there.
func (uc *CandidateUsecase) EnrichCandidate(ctx context.Context, accountID, candidateID uuid.UUID) error {
	candidate, err := uc.candidates.FindByID(accountID, candidateID)
	if err != nil {
		return fmt.Errorf("enrich: candidate lookup: %w", err)
	}
	if candidate.ResumeURL == "" {
		return nil
	}

	path, err := uc.resumes.Fetch(ctx, candidate.ResumeURL)
	if err != nil {
		return fmt.Errorf("enrich: resume download: %w", err)
	}
	defer os.Remove(path)

	text, err := extractResume(path)
	if err != nil {
		return fmt.Errorf("enrich: resume extraction: %w", err)
	}

	parsed, err := uc.llm.ParseResume(text)
	if err != nil {
		return fmt.Errorf("enrich: resume parse: %w", err)
	}

	if candidate.Phone == "" {
		candidate.Phone = parsed.Phone
	}
	if candidate.Location == "" {
		candidate.Location = parsed.Location
	}
	if candidate.ExperienceYears == 0 {
		candidate.ExperienceYears = parsed.ExperienceYears
	}
	candidate.MergeSkills(parsed.Skills)

	if candidate.JobID != nil {
		if job, err := uc.jobs.FindByID(accountID, *candidate.JobID); err == nil {
			score, err := uc.llm.MatchScore(text, job.Title, job.Description)
			if err != nil {
				log.Printf("enrich: match score for candidate %s: %v", candidateID, err)
			} else {
				candidate.MatchScore = score
			}
		}
	}

	if uc.embeddings != nil {
		vec, err := uc.embeddings.GenerateEmbedding(ctx, text)
		if err != nil {
			log.Printf("enrich: embedding for candidate %s: %v", candidateID, err)
		} else {
			candidate.Embedding = pgvector.NewVector(vec)
		}
	}

	candidate.UpdatedAt = time.Now()
	if err := uc.candidates.Update(candidate); err != nil {
		return fmt.Errorf("enrich: save: %w", err)
	}
	uc.logActivity(accountID, nil, "candidate_enriched", "candidate", candidate.ID,
		fmt.Sprintf(`{"matchScore":%g,"skillsParsed":%d}`, candidate.MatchScore, len(parsed.Skills)))
	return nil
}

// extractResume is swapped out in tests; PDF extraction needs native deps.
var extractResume = func(path string) (string, error) {
	return util.ExtractResumeText(path)
}
