// Package journal keeps the append-only interaction log and builds usage
// reports from it.
//
// Every session appends an incomplete record when it starts and a completed
// record when a decision is produced. Records are never updated; reports take
// the latest record per session.
package journal

import (
	"context"
	"time"

	"github.com/aretw0/admitcheck/pkg/domain"
)

// Record is one journal line.
type Record struct {
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"session_id"`
	Category  string         `json:"category"`
	Program   string         `json:"program"`
	Goal      string         `json:"goal"`
	Verdict   domain.Verdict `json:"verdict,omitempty"`
	Completed bool           `json:"completed"`
}

// Log is an append-only record store.
type Log interface {
	Append(ctx context.Context, r Record) error
	// Since returns all records with a timestamp at or after t, oldest first.
	Since(ctx context.Context, t time.Time) ([]Record, error)
	Close() error
}

// Started builds the incomplete record written when a session begins and
// again once its category is resolved.
func Started(state *domain.State, at time.Time) Record {
	return Record{
		Timestamp: at.UTC(),
		SessionID: state.SessionID,
		Category:  string(state.Category()),
		Goal:      string(state.Goal()),
	}
}

// Finished builds the record written when a decision is produced.
func Finished(sessionID string, d *domain.Decision, at time.Time) Record {
	return Record{
		Timestamp: at.UTC(),
		SessionID: sessionID,
		Category:  string(d.Category),
		Program:   d.Program,
		Goal:      string(d.Goal),
		Verdict:   d.Verdict,
		Completed: true,
	}
}

// Discard is a Log that drops every record.
type Discard struct{}

func (Discard) Append(context.Context, Record) error { return nil }

func (Discard) Since(context.Context, time.Time) ([]Record, error) { return nil, nil }

func (Discard) Close() error { return nil }
