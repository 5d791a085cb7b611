package util

import (
	"regexp"
	"strings"
)

// Shape check only; real deliverability is the mail provider's problem.
var emailShapeRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Placeholder/test addresses that should never receive outbound mail. These
// show up from demo data, QA runs, and scraped applications.
var blockedLocalParts = []string{"test", "fake", "example", "noreply", "no-reply", "placeholder", "asdf", "dummy"}

var blockedDomains = []string{
	"example.com", "example.org", "example.net",
	"test.com", "testing.com", "nonexistent.fake", "fake.com",
	"mailinator.com", "invalid.com",
}

var blockedTLDs = []string{".fake", ".invalid", ".test", ".localhost", ".example"}

// IsDeliverableEmail is the heuristic gate run before every outbound
// candidate communication. It rejects addresses that fail basic
// local@domain.tld shape or match test/placeholder patterns.
func IsDeliverableEmail(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !emailShapeRe.MatchString(email) {
		return false
	}

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]

	for _, b := range blockedLocalParts {
		if local == b || strings.HasPrefix(local, b+".") || strings.HasPrefix(local, b+"+") {
			return false
		}
	}
	for _, d := range blockedDomains {
		if domain == d {
			return false
		}
	}
	for _, tld := range blockedTLDs {
		if strings.HasSuffix(domain, tld) {
			return false
		}
	}
	return true
}
