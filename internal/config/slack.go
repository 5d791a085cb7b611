package config

import (
	"os"
	"sync"
)

type SlackConfig struct {
	WebhookURL string
}

var (
	slackConfig *SlackConfig
	slackOnce   sync.Once
)

func LoadSlackConfig() *SlackConfig {
	slackOnce.Do(func() {
		slackConfig = &SlackConfig{
			WebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
		}
	})
	return slackConfig
}
