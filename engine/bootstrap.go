package engine

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/sovereign/matching"
	"github.com/viant/sovereign/matching/option"
)

// IgnoreFile holds extra .gitignore style exclusions inside the data folder.
const IgnoreFile = ".sovereignignore"

// EnsureSeeded ingests every recognised file directly under folder when the
// index is empty. A non-empty index skips the scan entirely, so files added
// after the first seed must be ingested explicitly.
func (e *Engine) EnsureSeeded(ctx context.Context, folder string) (*SeedReport, error) {
	if folder == "" {
		folder = e.dataFolder
	}
	report := &SeedReport{Folder: folder}
	local := absPath(folder)
	ok, err := e.fs.Exists(ctx, local)
	if err != nil {
		return report, fmt.Errorf("engine: stat data folder %s: %w", folder, err)
	}
	if !ok {
		if err := e.fs.Create(ctx, local, file.DefaultDirOsMode, true); err != nil {
			return report, fmt.Errorf("engine: create data folder %s: %w", folder, err)
		}
		e.logger.Info("created data folder", "folder", folder)
	}

	count, err := e.Count(ctx)
	if err != nil {
		e.logger.Error("failed to count index", "error", err)
		return report, err
	}
	report.Existing = count
	if count > 0 {
		report.Skipped = true
		e.logger.Info(fmt.Sprintf("Database ready with %d document chunks.", count))
		return report, nil
	}

	candidates, err := e.scan(ctx, folder, local)
	if err != nil {
		return report, err
	}
	if len(candidates) == 0 {
		e.logger.Warn("database empty and no documents found", "folder", folder)
		return report, nil
	}
	e.logger.Info("database empty, ingesting documents", "folder", folder, "files", len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		entry := SeedFile{Path: candidate}
		result, err := e.IngestFile(ctx, candidate)
		if err != nil {
			entry.Status = SeedFailed
			entry.Message = IngestMessage(candidate, err)
		} else {
			entry.Status = SeedIngested
			entry.Chunks = result.Chunks
			entry.Message = SuccessMessage(result)
		}
		report.Files = append(report.Files, entry)
	}
	e.logger.Info("auto-ingestion complete", "ingested", report.Ingested(), "files", len(report.Files))
	return report, nil
}

// scan lists ingestible files directly under folder, sorted by name.
func (e *Engine) scan(ctx context.Context, folder, local string) ([]string, error) {
	objects, err := e.fs.List(ctx, local)
	if err != nil {
		return nil, fmt.Errorf("engine: list %s: %w", folder, err)
	}
	matcher := e.folderMatcher(ctx, local)
	var candidates []string
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		name := object.Name()
		if !e.loaders.Supports(name) {
			continue
		}
		if matcher.IsExcluded(name, int(object.Size())) {
			e.logger.Debug("excluded from scan", "file", name)
			continue
		}
		candidates = append(candidates, filepath.Join(folder, name))
	}
	sort.Strings(candidates)
	return candidates, nil
}

func (e *Engine) folderMatcher(ctx context.Context, local string) *matching.Manager {
	ignoreURL := url.Join(local, IgnoreFile)
	ok, err := e.fs.Exists(ctx, ignoreURL)
	if err != nil {
		e.logger.Warn("failed to stat ignore file", "path", ignoreURL, "error", err)
	}
	if !ok {
		return e.matcher
	}
	data, err := e.fs.DownloadWithURL(ctx, ignoreURL)
	if err != nil {
		e.logger.Warn("failed to read ignore file", "path", ignoreURL, "error", err)
		return e.matcher
	}
	opts := append(e.matcher.Options().Options(), option.WithGitignore(bytes.NewReader(data)))
	return matching.New(opts...)
}
