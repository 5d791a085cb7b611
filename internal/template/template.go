package template

import (
	"html"
	"regexp"
	"strings"
)

// Fields is the closed set of placeholders email templates may reference.
// Values are HTML-escaped before substitution; a template can never inject
// raw markup from candidate-supplied data.
type Fields struct {
	CandidateName  string
	JobTitle       string
	SenderName     string
	CompanyName    string
	CalendarLink   string
	OfferLink      string
	Compensation   string
	StartDate      string
	AssessmentLink string
}

type Rendered struct {
	Subject string
	Body    string
}

var placeholderRe = regexp.MustCompile(`\{\{\s*\w+\s*\}\}`)

// Render substitutes the field set into subject and body. Placeholders
// outside the closed set are stripped so no literal {{...}} ever reaches a
// recipient.
func Render(subject, body string, f Fields) Rendered {
	return Rendered{
		Subject: substitute(subject, f),
		Body:    substitute(body, f),
	}
}

func substitute(s string, f Fields) string {
	pairs := []struct {
		name  string
		value string
	}{
		{"candidateName", f.CandidateName},
		{"jobTitle", f.JobTitle},
		{"senderName", f.SenderName},
		{"companyName", f.CompanyName},
		{"calendarLink", f.CalendarLink},
		{"offerLink", f.OfferLink},
		{"compensation", f.Compensation},
		{"startDate", f.StartDate},
		{"assessmentLink", f.AssessmentLink},
	}
	for _, p := range pairs {
		escaped := html.EscapeString(p.value)
		s = strings.ReplaceAll(s, "{{"+p.name+"}}", escaped)
		s = strings.ReplaceAll(s, "{{ "+p.name+" }}", escaped)
	}
	return placeholderRe.ReplaceAllString(s, "")
}
