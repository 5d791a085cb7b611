package effect

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
)

// Effect is one best-effort side action of a lifecycle transition (an email
// send, a Slack post, one CRM's sync). Effects never influence the primary
// state write; their outcomes are collected into a Report.
type Effect struct {
	Name string
	Run  func(ctx context.Context) error
}

type Outcome struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Failed returns the names of effects that errored or panicked.
func (r Report) Failed() []string {
	var names []string
	for _, o := range r.Outcomes {
		if !o.OK {
			names = append(names, o.Name)
		}
	}
	return names
}

// JSON renders the report for attachment to an activity log row.
func (r Report) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// RunAll executes the effects concurrently and waits for all of them. A
// panicking or failing effect is recorded and logged, never propagated.
func RunAll(ctx context.Context, effects []Effect) Report {
	outcomes := make([]Outcome, len(effects))
	var wg sync.WaitGroup
	for i, e := range effects {
		wg.Add(1)
		go func(i int, e Effect) {
			defer wg.Done()
			outcomes[i] = run(ctx, e)
		}(i, e)
	}
	wg.Wait()
	return Report{Outcomes: outcomes}
}

func run(ctx context.Context, e Effect) (out Outcome) {
	out.Name = e.Name
	start := time.Now()
	defer func() {
		out.Duration = time.Since(start)
		if rec := recover(); rec != nil {
			out.OK = false
			out.Error = fmt.Sprintf("panic: %v", rec)
			log.Printf("effect %s panicked: %v", e.Name, rec)
		}
	}()

	if err := e.Run(ctx); err != nil {
		out.Error = err.Error()
		log.Printf("effect %s failed: %v", e.Name, err)
		return out
	}
	out.OK = true
	return out
}
