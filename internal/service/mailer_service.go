package service

import (
	"context"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
	"github.com/hireos/hireos/internal/config"
)

type MailerInterface interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// MailerService delivers HTML email through the transactional mail
// provider's HTTP API.
type MailerService struct {
	apiURL string
	apiKey string
	from   string
	client *resty.Client
}

func NewMailerService() *MailerService {
	cfg := config.LoadMailerConfig()
	return &MailerService{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		from:   cfg.FromEmail,
		client: resty.New(),
	}
}

func (s *MailerService) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.apiURL == "" {
		log.Printf("mailer not configured, dropping email to %s (%s)", to, subject)
		return nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"from":    s.from,
			"to":      []string{to},
			"subject": subject,
			"html":    htmlBody,
		}).
		Post(s.apiURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("mailer API returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
