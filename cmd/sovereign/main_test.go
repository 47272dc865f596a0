package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/sovereign/engine"
)

func writeConfig(t *testing.T, inferenceURL string) (string, string) {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	config := fmt.Sprintf(`dataFolder: %s
collection: test_docs
store:
  driver: memory
  dir: %s
embedder:
  provider: hash
inference:
  url: %s
log:
  level: error
`, dataDir, filepath.Join(root, "index"), inferenceURL)
	path := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))
	return path, dataDir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_Flow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"text":"Encryption at rest is mandatory for all vector databases."}]}`))
	}))
	defer srv.Close()
	configPath, dataDir := writeConfig(t, srv.URL+"/v1/completions")

	out, err := run(t, "--config", configPath, "ask", "What", "are", "the", "encryption", "requirements?")
	require.NoError(t, err)
	assert.Equal(t, engine.NoContextAnswer+"\n", out)

	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	docPath := filepath.Join(dataDir, "policy.txt")
	require.NoError(t, os.WriteFile(docPath, []byte("Encryption at rest is mandatory for all vector databases."), 0o644))

	out, err = run(t, "--config", configPath, "--no-seed", "ask", "What are the encryption requirements?")
	require.NoError(t, err)
	assert.Equal(t, engine.NoContextAnswer+"\n", out)

	out, err = run(t, "--config", configPath, "ask", "What are the encryption requirements?")
	require.NoError(t, err)
	assert.Equal(t, "Encryption at rest is mandatory for all vector databases.\n", out)

	out, err = run(t, "--config", configPath, "seed")
	require.NoError(t, err)
	assert.Equal(t, "Database ready with 1 document chunks.\n", out)

	out, err = run(t, "--config", configPath, "ingest", docPath, filepath.Join(dataDir, "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, out, "Successfully ingested policy.txt (1 chunks).")
	assert.Contains(t, out, "Error: File "+filepath.Join(dataDir, "missing.pdf")+" not found.")

	out, err = run(t, "--config", configPath, "count")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = run(t, "--config", configPath, "ask", "--sources", "What are the encryption requirements?")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Encryption at rest is mandatory for all vector databases.", lines[0])
	assert.Len(t, lines, 3)

	out, err = run(t, "--config", configPath, "search", "--limit", "1", "encryption")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1. "+docPath), out)
}

func TestCLI_Seed(t *testing.T) {
	configPath, dataDir := writeConfig(t, "http://127.0.0.1:1/v1/completions")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "policy.txt"), []byte("Encryption at rest is mandatory."), 0o644))

	out, err := run(t, "--config", configPath, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully ingested policy.txt (1 chunks).")
	assert.Contains(t, out, "Ingested 1 of 1 documents from "+dataDir+".")

	out, err = run(t, "--config", configPath, "count")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestCLI_InferenceDown(t *testing.T) {
	configPath, dataDir := writeConfig(t, "http://127.0.0.1:1/v1/completions")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	docPath := filepath.Join(dataDir, "policy.txt")
	require.NoError(t, os.WriteFile(docPath, []byte("Encryption at rest is mandatory."), 0o644))

	out, err := run(t, "--config", configPath, "ask", "encryption?")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "System Error: Could not connect to the AI Engine."), out)
}

func TestResolveMCPAddr(t *testing.T) {
	cfg := engine.DefaultConfig()
	assert.Equal(t, "localhost:6061", resolveMCPAddr("", cfg))
	assert.Equal(t, ":7000", resolveMCPAddr(":7000", cfg))
	cfg.MCPServer.Addr = ""
	assert.Equal(t, "127.0.0.1:6061", resolveMCPAddr("", cfg))
	assert.Equal(t, "127.0.0.1:6061", resolveMCPAddr("", nil))
}
