package webhook

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	ProviderCalendly = "calendly"
	ProviderCalCom   = "cal.com"
	ProviderGoogle   = "google"
)

type EventKind string

const (
	EventBooked      EventKind = "booked"
	EventCancelled   EventKind = "cancelled"
	EventRescheduled EventKind = "rescheduled"
	EventIgnored     EventKind = "ignored"
)

// BookingEvent is the provider-independent shape the lifecycle controller
// consumes.
type BookingEvent struct {
	Kind          EventKind
	Provider      string
	InviteeEmail  string
	ScheduledDate time.Time
}

// DetectProvider guesses the calendar provider from the payload shape. Used
// when the webhook URL carries no provider query param.
func DetectProvider(body []byte) string {
	doc := gjson.ParseBytes(body)
	switch {
	case doc.Get("event").Exists() && doc.Get("payload.invitee").Exists():
		return ProviderCalendly
	case doc.Get("triggerEvent").Exists() && doc.Get("payload.attendee").Exists():
		return ProviderCalCom
	case strings.HasPrefix(doc.Get("kind").String(), "calendar#") || doc.Get("attendees").Exists():
		return ProviderGoogle
	}
	return ""
}

// Normalize maps a raw provider payload to a BookingEvent.
func Normalize(provider string, body []byte) (BookingEvent, error) {
	doc := gjson.ParseBytes(body)
	switch provider {
	case ProviderCalendly:
		return normalizeCalendly(doc)
	case ProviderCalCom:
		return normalizeCalCom(doc)
	case ProviderGoogle:
		return normalizeGoogle(doc)
	}
	return BookingEvent{}, fmt.Errorf("unknown calendar provider %q", provider)
}

func normalizeCalendly(doc gjson.Result) (BookingEvent, error) {
	ev := BookingEvent{Provider: ProviderCalendly}
	switch doc.Get("event").String() {
	case "invitee.created":
		ev.Kind = EventBooked
	case "invitee.canceled":
		ev.Kind = EventCancelled
	case "invitee.updated":
		ev.Kind = EventRescheduled
	default:
		ev.Kind = EventIgnored
		return ev, nil
	}

	ev.InviteeEmail = strings.ToLower(doc.Get("payload.invitee.email").String())
	if ev.InviteeEmail == "" {
		return ev, fmt.Errorf("calendly payload missing invitee email")
	}
	if ev.Kind != EventCancelled {
		start, err := parseWebhookTime(doc.Get("payload.scheduled_event.start_time").String())
		if err != nil {
			return ev, fmt.Errorf("calendly payload: %w", err)
		}
		ev.ScheduledDate = start
	}
	return ev, nil
}

func normalizeCalCom(doc gjson.Result) (BookingEvent, error) {
	ev := BookingEvent{Provider: ProviderCalCom}
	switch doc.Get("triggerEvent").String() {
	case "BOOKING_CREATED":
		ev.Kind = EventBooked
	case "BOOKING_CANCELLED":
		ev.Kind = EventCancelled
	case "BOOKING_RESCHEDULED":
		ev.Kind = EventRescheduled
	default:
		ev.Kind = EventIgnored
		return ev, nil
	}

	ev.InviteeEmail = strings.ToLower(doc.Get("payload.attendee.email").String())
	if ev.InviteeEmail == "" {
		// Some cal.com payload versions carry an attendees array instead.
		ev.InviteeEmail = strings.ToLower(doc.Get("payload.attendees.0.email").String())
	}
	if ev.InviteeEmail == "" {
		return ev, fmt.Errorf("cal.com payload missing attendee email")
	}
	if ev.Kind != EventCancelled {
		start, err := parseWebhookTime(doc.Get("payload.startTime").String())
		if err != nil {
			return ev, fmt.Errorf("cal.com payload: %w", err)
		}
		ev.ScheduledDate = start
	}
	return ev, nil
}

func normalizeGoogle(doc gjson.Result) (BookingEvent, error) {
	ev := BookingEvent{Provider: ProviderGoogle}
	if doc.Get("status").String() == "cancelled" {
		ev.Kind = EventCancelled
	} else {
		ev.Kind = EventBooked
	}

	// First non-organizer attendee is the invitee.
	for _, att := range doc.Get("attendees").Array() {
		if att.Get("organizer").Bool() {
			continue
		}
		ev.InviteeEmail = strings.ToLower(att.Get("email").String())
		break
	}
	if ev.InviteeEmail == "" {
		return ev, fmt.Errorf("google payload missing attendee email")
	}
	if ev.Kind != EventCancelled {
		start, err := parseWebhookTime(doc.Get("start.dateTime").String())
		if err != nil {
			return ev, fmt.Errorf("google payload: %w", err)
		}
		ev.ScheduledDate = start
	}
	return ev, nil
}

func parseWebhookTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing start time")
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad start time %q: %w", raw, err)
	}
	return t, nil
}
