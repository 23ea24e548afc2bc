package journal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/admitcheck/pkg/domain"
)

var csvHeader = []string{"timestamp", "session_id", "category", "program", "goal", "verdict", "completed"}

// CSVLog appends records to a CSV file, writing the header on creation.
type CSVLog struct {
	path string
	mu   sync.Mutex
}

// OpenCSV prepares a CSV journal at path, creating the file and header if needed.
func OpenCSV(path string) (*CSVLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat journal: %w", err)
	}
	if info.Size() == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			return nil, fmt.Errorf("writing journal header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("writing journal header: %w", err)
		}
	}

	return &CSVLog{path: path}, nil
}

// Append writes one row.
func (l *CSVLog) Append(_ context.Context, r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.SessionID,
		r.Category,
		r.Program,
		r.Goal,
		string(r.Verdict),
		strconv.FormatBool(r.Completed),
	}); err != nil {
		return fmt.Errorf("writing journal row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Since reads the file and returns rows at or after t. Malformed rows are skipped.
func (l *CSVLog) Since(ctx context.Context, t time.Time) ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading journal: %w", err)
		}
		rec, ok := parseRow(row)
		if !ok || rec.Timestamp.Before(t) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close is a no-op; the file is opened per operation.
func (l *CSVLog) Close() error { return nil }

func parseRow(row []string) (Record, bool) {
	if len(row) < len(csvHeader) {
		return Record{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, row[0])
	if err != nil {
		return Record{}, false
	}
	completed, _ := strconv.ParseBool(row[6])
	return Record{
		Timestamp: ts,
		SessionID: row[1],
		Category:  row[2],
		Program:   row[3],
		Goal:      row[4],
		Verdict:   domain.Verdict(row[5]),
		Completed: completed,
	}, true
}
