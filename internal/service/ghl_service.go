package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hireos/hireos/internal/model"
	"github.com/tidwall/gjson"
)

const ghlBaseURL = "https://services.leadconnectorhq.com"

// GHLService pushes candidates into a GoHighLevel location as contacts.
type GHLService struct {
	client *resty.Client
}

func NewGHLService() *GHLService {
	return &GHLService{client: resty.New().SetBaseURL(ghlBaseURL)}
}

func (s *GHLService) Provider() string {
	return model.CRMProviderGHL
}

func (s *GHLService) SyncCandidate(ctx context.Context, conn model.CRMConnection, c *model.Candidate) (string, error) {
	nameParts := strings.SplitN(c.Name, " ", 2)
	firstName := nameParts[0]
	lastName := ""
	if len(nameParts) > 1 {
		lastName = nameParts[1]
	}

	body := map[string]interface{}{
		"locationId": conn.ExternalID,
		"firstName":  firstName,
		"lastName":   lastName,
		"email":      c.Email,
		"phone":      c.Phone,
		"tags":       []string{"hireos", c.Status},
	}

	req := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+conn.APIKey).
		SetHeader("Version", "2021-07-28").
		SetHeader("Content-Type", "application/json").
		SetBody(body)

	// Existing contacts are updated in place, new ones created.
	if c.GHLContactID != "" {
		resp, err := req.Put("/contacts/" + c.GHLContactID)
		if err != nil {
			return "", err
		}
		if resp.IsError() {
			return "", fmt.Errorf("GHL update returned %d: %s", resp.StatusCode(), resp.String())
		}
		return c.GHLContactID, nil
	}

	resp, err := req.Post("/contacts/")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("GHL create returned %d: %s", resp.StatusCode(), resp.String())
	}
	return gjson.Get(resp.String(), "contact.id").String(), nil
}
