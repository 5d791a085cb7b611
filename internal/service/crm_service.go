package service

import (
	"context"

	"github.com/hireos/hireos/internal/model"
)

// CRMInterface is one external CRM the sync fan-out can push candidates to.
// SyncCandidate returns the remote record id so it can be stored for later
// updates (GHL contact id, Airtable record id, sheet row).
type CRMInterface interface {
	Provider() string
	SyncCandidate(ctx context.Context, conn model.CRMConnection, c *model.Candidate) (string, error)
}
