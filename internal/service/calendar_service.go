package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hireos/hireos/internal/config"
)

type CalendarMirrorInterface interface {
	MirrorEvent(ctx context.Context, title, inviteeEmail string, start time.Time) error
}

// CalendarMirrorService creates a mirror event in the tenant's secondary
// calendar when cross-sync is enabled. The primary booking already exists
// on the provider side; this call is advisory.
type CalendarMirrorService struct {
	client *resty.Client
}

func NewCalendarMirrorService() *CalendarMirrorService {
	return &CalendarMirrorService{client: resty.New()}
}

func (s *CalendarMirrorService) MirrorEvent(ctx context.Context, title, inviteeEmail string, start time.Time) error {
	base := config.LoadCompanyConfig().PublicBaseURL
	if base == "" {
		return fmt.Errorf("PUBLIC_BASE_URL not configured for calendar mirror")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"summary":   title,
			"attendees": []map[string]string{{"email": inviteeEmail}},
			"start":     map[string]string{"dateTime": start.Format(time.RFC3339)},
			"end":       map[string]string{"dateTime": start.Add(time.Hour).Format(time.RFC3339)},
		}).
		Post(base + "/internal/calendar/events")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("calendar mirror returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
