package config

import (
	"os"
	"sync"
)

type MailerConfig struct {
	APIURL    string
	APIKey    string
	FromEmail string
}

var (
	mailerConfig *MailerConfig
	mailerOnce   sync.Once
)

func LoadMailerConfig() *MailerConfig {
	mailerOnce.Do(func() {
		mailerConfig = &MailerConfig{
			APIURL:    os.Getenv("MAILER_API_URL"),
			APIKey:    os.Getenv("MAILER_API_KEY"),
			FromEmail: os.Getenv("MAILER_FROM_EMAIL"),
		}
	})
	return mailerConfig
}
