package service

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
)

type ResumeFetcherInterface interface {
	Fetch(ctx context.Context, resumeURL string) (string, error)
}

// ResumeFetcher downloads a resume PDF to a temp file and returns its path.
// The caller owns cleanup.
type ResumeFetcher struct {
	client *resty.Client
}

func NewResumeFetcher() *ResumeFetcher {
	return &ResumeFetcher{client: resty.New()}
}

func (s *ResumeFetcher) Fetch(ctx context.Context, resumeURL string) (string, error) {
	tmp, err := os.CreateTemp("", "resume-*.pdf")
	if err != nil {
		return "", err
	}
	path := tmp.Name()
	tmp.Close()

	resp, err := s.client.R().
		SetContext(ctx).
		SetOutput(path).
		Get(resumeURL)
	if err != nil {
		os.Remove(path)
		return "", err
	}
	if resp.IsError() {
		os.Remove(path)
		return "", fmt.Errorf("resume download returned %d", resp.StatusCode())
	}
	return path, nil
}
