package webhook

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ContactEvent is a normalized GHL contact webhook: assessment results and
// contact details flowing back onto the linked candidate.
type ContactEvent struct {
	ContactID            string
	Phone                string
	AssessmentScore      *float64
	AssessmentPercentile *float64
}

// NormalizeGHLContact maps a GHL workflow webhook to a ContactEvent. GHL
// sends contact_id from workflows and contactId from the REST hooks; both
// are accepted.
func NormalizeGHLContact(body []byte) (ContactEvent, error) {
	doc := gjson.ParseBytes(body)

	ev := ContactEvent{
		ContactID: doc.Get("contact_id").String(),
		Phone:     strings.TrimSpace(doc.Get("phone").String()),
	}
	if ev.ContactID == "" {
		ev.ContactID = doc.Get("contactId").String()
	}
	if ev.ContactID == "" {
		return ev, fmt.Errorf("ghl payload missing contact id")
	}

	if score := doc.Get("assessment.score"); score.Exists() {
		v := score.Float()
		ev.AssessmentScore = &v
	}
	if pct := doc.Get("assessment.percentile"); pct.Exists() {
		v := pct.Float()
		ev.AssessmentPercentile = &v
	}
	return ev, nil
}
