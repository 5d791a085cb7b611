package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/hireos/hireos/internal/config"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

const (
	geminiEmbeddingModel  = "gemini-embedding-001"
	geminiGenerationModel = "gemini-2.5-flash"
	maxEmbeddingInput     = 10000
)

// GeminiService wraps the genai client with retry, backoff and a consecutive
// -error circuit breaker. It backs candidate and job embeddings, and doubles
// as the ResumeLLM backend when no OpenRouter key is configured.
type GeminiService struct {
	client         *genai.Client
	maxRetries     int
	baseDelay      time.Duration
	maxDelay       time.Duration
	requestTimeout time.Duration

	mu                sync.Mutex
	consecutiveErrors int
	breakerThreshold  int
}

func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	apiKey := config.LoadGeminiConfig().APIKey
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiService{
		client:           client,
		maxRetries:       3,
		baseDelay:        time.Second,
		maxDelay:         90 * time.Second,
		requestTimeout:   90 * time.Second,
		breakerThreshold: 5,
	}, nil
}

// GenerateEmbedding returns the embedding vector for the given text,
// truncated to the model's input limit.
func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text for embedding is empty")
	}
	if len(text) > maxEmbeddingInput {
		text = text[:maxEmbeddingInput]
	}
	content := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	var vec []float32
	err := s.withRetry(ctx, "embedding", func(ctx context.Context) error {
		resp, err := s.client.Models.EmbedContent(ctx, geminiEmbeddingModel, content, nil)
		if err != nil {
			return err
		}
		values, err := embeddingValues(resp)
		if err != nil {
			return err
		}
		vec = values
		return nil
	})
	return vec, err
}

// ParseResume implements ResumeLLM via the generation model.
func (s *GeminiService) ParseResume(resumeText string) (*ParsedResume, error) {
	text, err := s.generateText(context.Background(), resumeParsePrompt(resumeText))
	if err != nil {
		return nil, err
	}
	return decodeParsedResume(text), nil
}

// MatchScore implements ResumeLLM via the generation model.
func (s *GeminiService) MatchScore(resumeText, jobTitle, jobDescription string) (float64, error) {
	text, err := s.generateText(context.Background(), matchScorePrompt(resumeText, jobTitle, jobDescription))
	if err != nil {
		return 0, err
	}
	return gjson.Get(text, "score").Float(), nil
}

func (s *GeminiService) generateText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is empty")
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}

	var text string
	err := s.withRetry(ctx, "generate", func(ctx context.Context) error {
		resp, err := s.client.Models.GenerateContent(ctx, geminiGenerationModel, genai.Text(prompt), genConfig)
		if err != nil {
			return err
		}
		out := strings.TrimSpace(resp.Text())
		if out == "" {
			return fmt.Errorf("empty completion")
		}
		text = out
		return nil
	})
	return stripCodeFence(text), err
}

// withRetry runs call under the request timeout, retrying retryable errors
// with jittered exponential backoff. The breaker opens after
// breakerThreshold consecutive failed calls and closes on the next success.
func (s *GeminiService) withRetry(ctx context.Context, op string, call func(context.Context) error) error {
	if n, open := s.breakerState(); open {
		return fmt.Errorf("gemini %s: circuit breaker open after %d consecutive errors", op, n)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.backoff(attempt)):
			case <-timeoutCtx.Done():
				return fmt.Errorf("gemini %s: %w", op, timeoutCtx.Err())
			}
		}

		err := call(timeoutCtx)
		if err == nil {
			s.recordSuccess()
			return nil
		}
		lastErr = err

		if !retryableGeminiError(err) {
			s.recordFailure()
			return fmt.Errorf("gemini %s: %w", op, err)
		}
		log.Printf("gemini %s attempt %d/%d failed: %v", op, attempt+1, s.maxRetries+1, err)
	}

	s.recordFailure()
	return fmt.Errorf("gemini %s: max retries exceeded: %w", op, lastErr)
}

func (s *GeminiService) backoff(attempt int) time.Duration {
	delay := s.baseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.maxDelay {
		delay = s.maxDelay
	}
	// Spread the delay within ±12.5% to avoid retry bursts.
	return delay - delay/8 + time.Duration(rand.Int63n(int64(delay)/4+1))
}

func (s *GeminiService) breakerState() (consecutiveErrors int, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consecutiveErrors, s.consecutiveErrors >= s.breakerThreshold
}

func (s *GeminiService) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consecutiveErrors = 0
}

func (s *GeminiService) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consecutiveErrors++
}

func retryableGeminiError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	if strings.Contains(msg, "context canceled") ||
		strings.Contains(msg, "context deadline exceeded") {
		return false
	}

	if apiErr, ok := err.(*genai.APIError); ok {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		case 400, 401, 403, 404:
			return false
		}
	}

	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "temporary failure") ||
		strings.Contains(msg, "EOF")
}

func embeddingValues(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil || len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}
	for i, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, v)
		}
	}
	return values, nil
}
