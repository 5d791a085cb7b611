package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/hireos/hireos/internal/model"
	"github.com/tidwall/gjson"
)

const airtableBaseURL = "https://api.airtable.com/v0"

// AirtableService mirrors candidates into a base's Candidates table.
// conn.ExternalID holds the base id.
type AirtableService struct {
	client *resty.Client
}

func NewAirtableService() *AirtableService {
	return &AirtableService{client: resty.New().SetBaseURL(airtableBaseURL)}
}

func (s *AirtableService) Provider() string {
	return model.CRMProviderAirtable
}

func (s *AirtableService) SyncCandidate(ctx context.Context, conn model.CRMConnection, c *model.Candidate) (string, error) {
	fields := map[string]interface{}{
		"Name":        c.Name,
		"Email":       c.Email,
		"Phone":       c.Phone,
		"Location":    c.Location,
		"Status":      c.Status,
		"Skills":      c.Skills,
		"Match Score": c.MatchScore,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+conn.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"records": []map[string]interface{}{{"fields": fields}},
			// Candidate email is the upsert key; re-syncs update the row.
			"performUpsert": map[string]interface{}{"fieldsToMergeOn": []string{"Email"}},
		}).
		Patch(fmt.Sprintf("/%s/Candidates", conn.ExternalID))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("airtable returned %d: %s", resp.StatusCode(), resp.String())
	}
	return gjson.Get(resp.String(), "records.0.id").String(), nil
}
