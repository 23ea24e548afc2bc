package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Load reads a rule table from path. The format is chosen by file extension.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadSpreadsheet(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, &LoadError{Source: path, Err: fmt.Errorf("unsupported rule source extension %q", filepath.Ext(path))}
	}
}

// LoadOrEmpty loads the rule table and falls back to Empty() on failure.
// The failure is logged as a warning; the process keeps serving in degraded mode.
func LoadOrEmpty(path string, logger *slog.Logger) *Table {
	if path == "" {
		logger.Warn("No rule source configured, serving with empty rules")
		return Empty()
	}

	table, err := Load(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			logger.Warn("Rule source unavailable, serving with empty rules",
				"source", loadErr.Source,
				"sheet", loadErr.Sheet,
				"err", loadErr.Err,
			)
		} else {
			logger.Warn("Rule source unavailable, serving with empty rules", "source", path, "err", err)
		}
		return Empty()
	}

	logger.Info("Rules loaded",
		"source", path,
		"programs", len(table.Programs),
		"modules", len(table.Modules),
		"compositions", len(table.Compositions),
	)
	return table
}
