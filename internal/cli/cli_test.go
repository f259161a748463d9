// Package cli_test tests the multistage commands end to end.
// Related: internal/cli/root.go, internal/cli/demo.go, internal/cli/parallel.go, internal/cli/fit.go
// Tags: cli, cobra, demo, parallel, fit, exit-codes
package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/multistage/internal/build"
	"github.com/ariel-frischer/multistage/internal/cli"
	apperrors "github.com/ariel-frischer/multistage/internal/errors"
)

type summary struct {
	Stages []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"stages"`
}

func (s summary) statuses() map[string]string {
	out := make(map[string]string, len(s.Stages))
	for _, st := range s.Stages {
		out[st.Name] = st.Status
	}
	return out
}

// run executes the root command with an isolated home and config path.
func run(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	var out bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(home, "none.json")}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func decodeSummary(t *testing.T, out string) summary {
	t.Helper()
	var s summary
	require.NoError(t, json.Unmarshal([]byte(out), &s), out)
	return s
}

func TestDemo_JSONSummary(t *testing.T) {
	tests := map[string]struct {
		args    []string
		want    map[string]string
		wantErr bool
	}{
		"full run": {
			args: []string{"demo", "--sleep", "0", "--json"},
			want: map[string]string{
				"Checkout": "completed", "Install": "completed", "Build": "completed",
				"Test": "completed", "Package": "completed", "Publish": "completed",
			},
		},
		"skip ahead": {
			args: []string{"demo", "--sleep", "0", "--json", "--skip-to", "Test"},
			want: map[string]string{
				"Checkout": "completed", "Install": "skipped", "Build": "skipped",
				"Test": "completed", "Package": "completed", "Publish": "completed",
			},
		},
		"fail at build": {
			args: []string{"demo", "--sleep", "0", "--json", "--fail-at", "Build"},
			want: map[string]string{
				"Checkout": "completed", "Install": "completed", "Build": "failed",
				"Test": "pending", "Package": "pending", "Publish": "pending",
			},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := run(t, context.Background(), tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, cli.ExitFailed, cli.ExitCode(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, decodeSummary(t, out).statuses())
		})
	}
}

func TestDemo_CIOutput(t *testing.T) {
	out, err := run(t, context.Background(), "demo", "--sleep", "0")
	require.NoError(t, err)

	assert.Contains(t, out, "Deploying multistage")
	assert.Contains(t, out, "Stages:")
	assert.Contains(t, out, "6. Publish")
	assert.Contains(t, out, "Artifact: dist/multistage_0.1.0.tar.gz")
	assert.Contains(t, out, "Elapsed time:")
}

func TestDemo_InvalidStage(t *testing.T) {
	_, err := run(t, context.Background(), "demo", "--fail-at", "Lint")
	require.Error(t, err)
	assert.True(t, apperrors.IsCLIError(err))
	assert.Equal(t, cli.ExitInvalidArguments, cli.ExitCode(err))
}

func TestDemo_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := run(t, ctx, "demo", "--sleep", "1h", "--json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, cli.ExitInterrupted, cli.ExitCode(err))
	assert.Empty(t, out)
}

func TestParallel_JSONSummary(t *testing.T) {
	out, err := run(t, context.Background(), "parallel", "--workers", "3", "--sleep", "1ms", "--json")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"worker-1": "completed",
		"worker-2": "completed",
		"worker-3": "completed",
	}, decodeSummary(t, out).statuses())
}

func TestParallel_InvalidWorkers(t *testing.T) {
	_, err := run(t, context.Background(), "parallel", "--workers", "0")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidArguments, cli.ExitCode(err))
}

func TestFit(t *testing.T) {
	tests := map[string]struct {
		args      []string
		wantLevel int
	}{
		"tall terminal": {
			args:      []string{"fit", "--rows", "100", "--columns", "80"},
			wantLevel: 0,
		},
		"collapse to current stage": {
			args:      []string{"fit", "--rows", "10", "--columns", "80", "--stages", "a,b,c,d,e"},
			wantLevel: 1,
		},
		"one row": {
			args:      []string{"fit", "--rows", "1", "--columns", "80", "--pre", "2", "--post", "2", "--info", "2"},
			wantLevel: 8,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := run(t, context.Background(), append(tt.args, "--json")...)
			require.NoError(t, err)

			var report struct {
				Level       int `json:"level"`
				TotalHeight int `json:"total_height"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &report), out)
			assert.Equal(t, tt.wantLevel, report.Level)
			assert.Positive(t, report.TotalHeight)
		})
	}
}

func TestFit_TextOutput(t *testing.T) {
	out, err := run(t, context.Background(), "fit", "--rows", "100", "--columns", "80")
	require.NoError(t, err)
	assert.Contains(t, out, "level: 0 (everything shown)")
	assert.Contains(t, out, "terminal: 80x100")
}

func TestFit_UnknownCurrent(t *testing.T) {
	_, err := run(t, context.Background(), "fit", "--stages", "a,b", "--current", "c")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidArguments, cli.ExitCode(err))
}

func TestVersion(t *testing.T) {
	out, err := run(t, context.Background(), "version", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "multistage "+build.Version)
	assert.Contains(t, out, "go:")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":         {err: nil, want: cli.ExitSuccess},
		"argument":    {err: apperrors.NewArgumentError("bad"), want: cli.ExitInvalidArguments},
		"runtime":     {err: apperrors.NewRuntimeError("boom"), want: cli.ExitFailed},
		"plain":       {err: errors.New("boom"), want: cli.ExitFailed},
		"interrupted": {err: context.Canceled, want: cli.ExitInterrupted},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestDemo_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")

	_, err := run(t, context.Background(), "--log-file", logPath, "--log-level", "debug", "demo", "--sleep", "0", "--json")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	logs := string(data)
	assert.Contains(t, logs, `"msg":"command started"`)
	assert.Contains(t, logs, `"msg":"stage transition"`)
	assert.Contains(t, logs, `"run_id"`)
	assert.Contains(t, logs, `"msg":"command finished"`)
}
