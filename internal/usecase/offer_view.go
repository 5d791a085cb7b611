package usecase

import (
	"github.com/hireos/hireos/internal/config"
	"github.com/hireos/hireos/internal/dto"
)

// GetPublicOffer resolves an acceptance token into the sanitized summary the
// public offer page renders.
func (uc *CandidateUsecase) GetPublicOffer(token string) (*dto.PublicOfferDTO, error) {
	offer, err := uc.offers.FindByToken(token)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound("offer")
		}
		return nil, err
	}

	out := &dto.PublicOfferDTO{
		OfferType:    offer.OfferType,
		Compensation: offer.Compensation,
		StartDate:    offer.StartDate,
		Status:       offer.Status,
		SentDate:     offer.SentDate,
		ContractURL:  offer.ContractURL,
		CompanyName:  config.LoadCompanyConfig().Name,
	}

	candidate, err := uc.candidates.FindByID(offer.AccountID, offer.CandidateID)
	if err != nil {
		return nil, err
	}
	out.CandidateName = candidate.Name

	if candidate.JobID != nil {
		if job, err := uc.jobs.FindByID(offer.AccountID, *candidate.JobID); err == nil {
			out.JobTitle = job.Title
		}
	}
	return out, nil
}
