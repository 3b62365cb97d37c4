package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	vaultPath  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	vaultPath := newTestVault(t, base)
	logDir := filepath.Join(base, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, vaultPath, logDir)

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		vaultPath:  vaultPath,
	}
}

func writeTestConfig(t *testing.T, path, vaultPath, logDir string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
vault_db = %q
log_dir = %q

[acoustid]
api_key = "test-acoustid-key"

[llm]
api_key = "test-openrouter-key"

[matching]
min_confidence = 0.6
search_limit = 5

[logging]
format = "json"
level = "error"
`, vaultPath, logDir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func newTestVault(t *testing.T, base string) string {
	t.Helper()
	path := filepath.Join(base, "vault.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	schema := `CREATE TABLE songs (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		page_id INTEGER NOT NULL,
		revision_id INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		contributor TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	rows := [][]any{
		{int64(1), "Purple Rain", "| performer = [[Prince]]\n| writer(s) = [[Prince]]", int64(101), int64(1001), "2024-01-01T00:00:00Z", "editor-a"},
		{int64(2), "Raspberry Beret", "| performer = [[Prince and The Revolution]]", int64(102), int64(1002), "2024-01-02T00:00:00Z", "editor-b"},
	}
	for _, row := range rows {
		if _, err := db.Exec(
			"INSERT INTO songs (id, title, content, page_id, revision_id, timestamp, contributor) VALUES (?, ?, ?, ?, ?, ?, ?)",
			row...,
		); err != nil {
			t.Fatalf("insert fixture row: %v", err)
		}
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}
