package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/sovereign/logger"
	"github.com/viant/sovereign/vectordb"
)

const (
	ingestSuccess  = "success"
	ingestFailed   = "failed"
	ingestNotFound = "not_found"
)

// IngestFile loads, chunks and indexes the document at location.
// A missing file yields ErrNotFound; other failures yield *IngestError.
func (e *Engine) IngestFile(ctx context.Context, location string) (*IngestResult, error) {
	return e.ingest(ctx, location, location)
}

// Ingest is IngestFile reported as a status message. It never fails.
func (e *Engine) Ingest(ctx context.Context, location string) string {
	result, err := e.IngestFile(ctx, location)
	if err != nil {
		return IngestMessage(location, err)
	}
	return SuccessMessage(result)
}

// SuccessMessage renders a successful ingestion.
func SuccessMessage(result *IngestResult) string {
	return fmt.Sprintf("Successfully ingested %s (%d chunks).", result.Name, result.Chunks)
}

// IngestMessage renders an ingestion failure.
func IngestMessage(location string, err error) string {
	if KindOf(err) == KindNotFound {
		return fmt.Sprintf("Error: File %s not found.", location)
	}
	cause := err
	var ingestErr *IngestError
	if errors.As(err, &ingestErr) {
		cause = ingestErr.Err
	}
	return fmt.Sprintf("Failed to ingest %s: %s", location, cause)
}

// IngestContent stages uploaded bytes in a temporary file, ingests it under
// name, and removes the staged copy.
func (e *Engine) IngestContent(ctx context.Context, name string, data []byte) (*IngestResult, error) {
	name = path.Base(filepath.ToSlash(strings.TrimSpace(name)))
	if name == "." || name == "/" || name == "" {
		return nil, &IngestError{Path: name, Kind: KindLoader, Err: fmt.Errorf("file name is required")}
	}
	stageDir := url.Join(os.TempDir(), "sovereign-upload-"+uuid.NewString())
	staged := url.Join(stageDir, name)
	if err := e.fs.Upload(ctx, staged, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return nil, &IngestError{Path: name, Kind: KindLoader, Err: fmt.Errorf("stage upload: %w", err)}
	}
	defer func() {
		if err := e.fs.Delete(ctx, stageDir); err != nil {
			e.logger.Warn("failed to remove staged upload", "path", stageDir, "error", err)
		}
	}()
	return e.ingest(ctx, url.Path(staged), name)
}

func (e *Engine) ingest(ctx context.Context, location, source string) (*IngestResult, error) {
	started := time.Now()
	log := e.logger.With("path", source)
	local := absPath(location)
	ok, err := e.fs.Exists(ctx, local)
	if err != nil {
		return nil, e.ingestFailed(log, source, KindLoader, fmt.Errorf("stat %s: %w", source, err))
	}
	if !ok {
		log.Warn("file not found")
		e.metrics.IngestDone(ingestNotFound, 0)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, source)
	}
	if object, err := e.fs.Object(ctx, local); err == nil && object.IsDir() {
		return nil, e.ingestFailed(log, source, KindLoader, fmt.Errorf("%s is a directory", source))
	}

	log.Info("ingesting")
	src, err := e.loaders.Load(ctx, local)
	if err != nil {
		return nil, e.ingestFailed(log, source, KindLoader, err)
	}
	src.Path = source
	chunks := e.chunker.SplitSource(src)
	written, err := e.index.Add(ctx, chunks)
	if err != nil {
		kind := KindIndex
		var embedErr *vectordb.EmbeddingError
		if errors.As(err, &embedErr) {
			kind = KindEmbedding
		}
		return nil, e.ingestFailed(log, source, kind, err)
	}
	result := &IngestResult{
		Path:     source,
		Name:     filepath.Base(source),
		Chunks:   written,
		Pages:    len(src.Pages),
		Duration: time.Since(started),
	}
	e.metrics.IngestDone(ingestSuccess, written)
	log.Info("ingested", "chunks", written, "pages", result.Pages, "duration", result.Duration)
	return result, nil
}

func (e *Engine) ingestFailed(log logger.Logger, source string, kind Kind, err error) error {
	log.Error("ingestion failed", "kind", kind, "error", err)
	e.metrics.IngestDone(ingestFailed, 0)
	return &IngestError{Path: source, Kind: kind, Err: err}
}

func absPath(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}
