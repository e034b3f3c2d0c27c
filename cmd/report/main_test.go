package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateAndAnalyze(t *testing.T) {
	t.Setenv("DEVBRACKET_CONFIG", "")
	t.Setenv("DEVBRACKET_ENV_FILE", "")
	dir := t.TempDir()

	for _, name := range []string{"cohort.csv", "cohort.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			_, err := run(t, "generate", "--users", "12", "--seed", "3", "--out", path)
			require.NoError(t, err)
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))

			out, err := run(t, "analyze", path)
			require.NoError(t, err)

			var report struct {
				Users struct {
					Total int `json:"total"`
				} `json:"users"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &report))
			assert.Equal(t, 12, report.Users.Total)
		})
	}
}

func TestGenerateToStdout(t *testing.T) {
	out, err := run(t, "generate", "--users", "2", "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "user name,exercise name,dominance"))
}

func TestAnalyzeErrors(t *testing.T) {
	t.Setenv("DEVBRACKET_CONFIG", "")
	t.Setenv("DEVBRACKET_ENV_FILE", "")

	_, err := run(t, "analyze")
	assert.Error(t, err)

	_, err = run(t, "analyze", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = run(t, "analyze", "cohort.json")
	assert.Error(t, err)
}
