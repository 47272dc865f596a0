// Package sqliteutil prepares modernc SQLite DSNs for the vector store.
package sqliteutil

import (
	"fmt"
	"strings"
	"time"
)

// Pragmas are connection settings passed as _pragma DSN parameters.
type Pragmas struct {
	JournalMode string
	Synchronous string
	BusyTimeout time.Duration
}

// StorePragmas suit a single process writing while MCP and CLI readers query.
func StorePragmas() Pragmas {
	return Pragmas{JournalMode: "WAL", Synchronous: "NORMAL", BusyTimeout: 5 * time.Second}
}

// Apply appends every pragma that dsn does not already set.
// In-memory databases are returned unchanged.
func (p Pragmas) Apply(dsn string) string {
	if dsn == "" || IsMemory(dsn) {
		return dsn
	}
	lower := strings.ToLower(dsn)
	add := func(name, value string) {
		if value == "" || strings.Contains(lower, "_pragma="+name) {
			return
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=" + name + "(" + value + ")"
	}
	add("journal_mode", p.JournalMode)
	add("synchronous", p.Synchronous)
	if p.BusyTimeout > 0 {
		add("busy_timeout", fmt.Sprintf("%d", p.BusyTimeout.Milliseconds()))
	}
	return dsn
}

// IsMemory reports whether dsn names an in-memory database.
func IsMemory(dsn string) bool {
	path := strings.ToLower(FilePath(dsn))
	return path == ":memory:" || strings.HasPrefix(strings.ToLower(dsn), "file::memory:") || strings.Contains(strings.ToLower(dsn), "mode=memory")
}

// FilePath strips the file: scheme and query parameters from dsn.
func FilePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	return path
}
