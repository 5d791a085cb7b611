package service

import (
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hireos/hireos/internal/config"
	"github.com/tidwall/gjson"
)

// ParsedResume holds the fields the LLM could extract from a resume. Empty
// fields stay empty; the caller decides what to merge.
type ParsedResume struct {
	Name            string
	Email           string
	Phone           string
	Location        string
	Skills          []string
	ExperienceYears float64
}

// ResumeLLM is the language-model surface the enrichment pipeline needs.
// OpenRouter is the default backend; the Gemini client stands in for
// deployments configured with only a Gemini key.
type ResumeLLM interface {
	ParseResume(resumeText string) (*ParsedResume, error)
	MatchScore(resumeText, jobTitle, jobDescription string) (float64, error)
}

type OpenRouterService struct {
	APIKey string
	client *resty.Client
}

func NewOpenRouterService() *OpenRouterService {
	return &OpenRouterService{
		APIKey: config.LoadOpenRouterConfig().APIKey,
		client: resty.New(),
	}
}

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// ParseResume extracts structured candidate fields from raw resume text.
func (s *OpenRouterService) ParseResume(resumeText string) (*ParsedResume, error) {
	text, err := s.chat("You are a resume parser for an applicant tracking system.", resumeParsePrompt(resumeText))
	if err != nil {
		return nil, err
	}
	return decodeParsedResume(text), nil
}

// MatchScore rates resume-to-job fit on a 0-100 scale.
func (s *OpenRouterService) MatchScore(resumeText, jobTitle, jobDescription string) (float64, error) {
	text, err := s.chat("You are an AI screening job applications.", matchScorePrompt(resumeText, jobTitle, jobDescription))
	if err != nil {
		return 0, err
	}
	return gjson.Get(text, "score").Float(), nil
}

func (s *OpenRouterService) chat(system, prompt string) (string, error) {
	resp, err := s.client.R().
		SetHeader("Authorization", "Bearer "+s.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model": "openai/gpt-4o-mini",
			"messages": []map[string]string{
				{"role": "system", "content": system},
				{"role": "user", "content": prompt},
			},
		}).
		Post(openRouterURL)
	if err != nil {
		return "", err
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return "", fmt.Errorf("no response from LLM")
	}
	return stripCodeFence(text), nil
}

// Prompts and response decoding are shared by both ResumeLLM backends.

func resumeParsePrompt(resumeText string) string {
	return fmt.Sprintf(`
Extract candidate information from the resume below.
Return your answer STRICTLY in JSON format with this schema:
{
  "name": "<full name or empty string>",
  "email": "<email or empty string>",
  "phone": "<phone or empty string>",
  "location": "<city, country or empty string>",
  "skills": ["<skill>", ...],
  "experience_years": <number, total years of professional experience>
}

Resume:
%s
`, resumeText)
}

func matchScorePrompt(resumeText, jobTitle, jobDescription string) string {
	return fmt.Sprintf(`
Rate how well the candidate below matches the job.
Return your answer STRICTLY in JSON format:
{
  "score": <number 0-100>,
  "reasoning": "<short explanation>"
}

Job: %s
Description:
%s

Resume:
%s
`, jobTitle, jobDescription, resumeText)
}

func decodeParsedResume(text string) *ParsedResume {
	parsed := &ParsedResume{
		Name:            gjson.Get(text, "name").String(),
		Email:           gjson.Get(text, "email").String(),
		Phone:           gjson.Get(text, "phone").String(),
		Location:        gjson.Get(text, "location").String(),
		ExperienceYears: gjson.Get(text, "experience_years").Float(),
	}
	for _, sk := range gjson.Get(text, "skills").Array() {
		if v := strings.TrimSpace(sk.String()); v != "" {
			parsed.Skills = append(parsed.Skills, v)
		}
	}
	return parsed
}

// Models under instruction sometimes still wrap JSON in a code fence.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
