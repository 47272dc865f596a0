package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/sovereign/inference"
)

func TestEngine_EnsureSeeded(t *testing.T) {
	ctx := context.Background()
	folder := filepath.Join(t.TempDir(), "data")
	writeFile(t, folder, "b.md", "# Travel\n\nEconomy class is required for flights under six hours.")
	writeFile(t, folder, "a.txt", encryptionPolicy)
	writeFile(t, folder, "broken.pdf", "not a pdf at all")
	writeFile(t, folder, "logo.png", "\x89PNG\r\n\x1a\n")
	writeFile(t, folder, "~$draft.docx", "lock")
	writeFile(t, folder, "secret-plan.txt", "Project codename is Falcon.")
	writeFile(t, folder, IgnoreFile, "secret*.txt\n")
	writeFile(t, filepath.Join(folder, "archive"), "old.txt", "Superseded policy.")

	e := newTestEngine(t, inference.New(""), WithDataFolder(folder))

	report, err := e.Initialize(ctx)
	require.NoError(t, err)
	assert.False(t, report.Skipped)
	assert.Equal(t, 0, report.Existing)
	require.Len(t, report.Files, 3)
	assert.Equal(t, filepath.Join(folder, "a.txt"), report.Files[0].Path)
	assert.Equal(t, SeedIngested, report.Files[0].Status)
	assert.Equal(t, "Successfully ingested a.txt (1 chunks).", report.Files[0].Message)
	assert.Equal(t, filepath.Join(folder, "b.md"), report.Files[1].Path)
	assert.Equal(t, SeedIngested, report.Files[1].Status)
	assert.Equal(t, filepath.Join(folder, "broken.pdf"), report.Files[2].Path)
	assert.Equal(t, SeedFailed, report.Files[2].Status)
	assert.Contains(t, report.Files[2].Message, "Failed to ingest ")
	assert.Equal(t, 2, report.Ingested())

	count, err := e.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	again, err := e.EnsureSeeded(ctx, folder)
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, 2, again.Existing)
	assert.Empty(t, again.Files)

	count, err = e.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEngine_EnsureSeeded_CreatesFolder(t *testing.T) {
	ctx := context.Background()
	folder := filepath.Join(t.TempDir(), "missing", "data")
	e := newTestEngine(t, inference.New(""))

	report, err := e.EnsureSeeded(ctx, folder)
	require.NoError(t, err)
	assert.False(t, report.Skipped)
	assert.Empty(t, report.Files)
	info, err := os.Stat(folder)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEngine_EnsureSeeded_Cancelled(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "data")
	writeFile(t, folder, "a.txt", encryptionPolicy)
	e := newTestEngine(t, inference.New(""))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := e.EnsureSeeded(ctx, folder)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Files)
}

func TestEngine_EnsureSeeded_StatFailure(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "data")
	e := newTestEngine(t, inference.New(""), WithFS(deniedFS{afs.New()}))

	_, err := e.EnsureSeeded(context.Background(), folder)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	_, statErr := os.Stat(folder)
	assert.True(t, os.IsNotExist(statErr))
}
