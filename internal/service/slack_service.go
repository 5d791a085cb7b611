package service

import (
	"context"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
	"github.com/hireos/hireos/internal/config"
)

type SlackInterface interface {
	Post(ctx context.Context, text string) error
}

// SlackService posts to the tenant workspace's incoming webhook.
type SlackService struct {
	webhookURL string
	client     *resty.Client
}

func NewSlackService() *SlackService {
	return &SlackService{
		webhookURL: config.LoadSlackConfig().WebhookURL,
		client:     resty.New(),
	}
}

func (s *SlackService) Post(ctx context.Context, text string) error {
	if s.webhookURL == "" {
		log.Printf("slack not configured, dropping message: %s", text)
		return nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"text": text}).
		Post(s.webhookURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
