package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/hireos/hireos/internal/model"
	"github.com/tidwall/gjson"
)

const sheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// SheetsService appends candidates to a Google Sheet. conn.ExternalID holds
// the spreadsheet id; the target tab is assumed to be "Candidates".
type SheetsService struct {
	client *resty.Client
}

func NewSheetsService() *SheetsService {
	return &SheetsService{client: resty.New().SetBaseURL(sheetsBaseURL)}
}

func (s *SheetsService) Provider() string {
	return model.CRMProviderSheets
}

func (s *SheetsService) SyncCandidate(ctx context.Context, conn model.CRMConnection, c *model.Candidate) (string, error) {
	row := []interface{}{
		c.Name, c.Email, c.Phone, c.Location, c.Status,
		string(c.FinalDecisionStatus), c.Skills, c.MatchScore,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+conn.APIKey).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("valueInputOption", "USER_ENTERED").
		SetBody(map[string]interface{}{
			"values": [][]interface{}{row},
		}).
		Post(fmt.Sprintf("/%s/values/Candidates!A1:append", conn.ExternalID))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("sheets append returned %d: %s", resp.StatusCode(), resp.String())
	}
	return gjson.Get(resp.String(), "updates.updatedRange").String(), nil
}
