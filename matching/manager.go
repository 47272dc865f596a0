package matching

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/viant/afs/url"
	"github.com/viant/sovereign/matching/option"
)

// Manager decides which files the bootstrap scan may ingest, using
// .gitignore style patterns and a size limit.
type Manager struct {
	options *option.Options
}

// New creates a new exclusion manager with the given options
func New(opts ...option.Option) *Manager {
	return &Manager{options: option.NewOptions(opts...)}
}

// Options returns the effective options.
func (m *Manager) Options() *option.Options {
	return m.options
}

// IsExcluded checks if a path should be excluded based on the patterns.
// Later patterns win, and a leading "!" re-includes a path.
func (m *Manager) IsExcluded(location string, size int) bool {
	if m.options.MaxFileSize > 0 && size > m.options.MaxFileSize {
		return true
	}
	path := normalize(location)
	if len(m.options.Inclusions) > 0 && !m.isIncluded(path) {
		return true
	}
	excluded := false
	for _, pattern := range m.options.Exclusions {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		negate := strings.HasPrefix(pattern, "!")
		if negate {
			pattern = pattern[1:]
		}
		if match(pattern, path) {
			excluded = !negate
		}
	}
	return excluded
}

func (m *Manager) isIncluded(path string) bool {
	hasPattern := false
	for _, pattern := range m.options.Inclusions {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		hasPattern = true
		if match(pattern, path) {
			return true
		}
	}
	return !hasPattern
}

func match(pattern, path string) bool {
	dirOnly := strings.HasSuffix(pattern, "/")
	pattern = strings.TrimSuffix(pattern, "/")
	anchored := strings.HasPrefix(pattern, "/") || strings.Contains(pattern, "/")
	pattern = strings.TrimPrefix(pattern, "/")
	if pattern == "" {
		return false
	}
	if !anchored {
		pattern = "**/" + pattern
	}
	if !dirOnly {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	ok, _ := doublestar.Match(pattern+"/**", path)
	return ok
}

func normalize(location string) string {
	path := location
	if strings.Contains(location, "://") {
		path = url.Path(location)
	}
	path = strings.ReplaceAll(path, `\`, "/")
	if len(path) > 1 && path[1] == ':' {
		path = path[2:]
	}
	return strings.TrimLeft(path, "/")
}
