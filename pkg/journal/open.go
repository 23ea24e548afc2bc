package journal

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Open selects a backend by file extension: .db, .sqlite and .sqlite3 use
// SQLite, everything else is CSV. An empty path discards records.
func Open(path string) (Log, error) {
	if path == "" {
		return Discard{}, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	case ".csv", "":
		return OpenCSV(path)
	default:
		return nil, fmt.Errorf("unsupported journal format %q", filepath.Ext(path))
	}
}
