package dto

import "time"

// PublicOfferDTO is the sanitized view served to the unauthenticated offer
// page. No ids, tokens or tenant internals.
type PublicOfferDTO struct {
	OfferType     string     `json:"offer_type"`
	Compensation  string     `json:"compensation"`
	StartDate     *time.Time `json:"start_date"`
	Status        string     `json:"status"`
	SentDate      time.Time  `json:"sent_date"`
	ContractURL   string     `json:"contract_url"`
	CandidateName string     `json:"candidate_name"`
	JobTitle      string     `json:"job_title"`
	CompanyName   string     `json:"company_name"`
}
