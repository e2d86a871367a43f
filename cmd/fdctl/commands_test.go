package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/muurk/factorydata/internal/config"
	"github.com/muurk/factorydata/internal/factorydata"
	"github.com/muurk/factorydata/internal/runner"
)

// boardStub answers get/set like the board tool, backed by a map.
type boardStub struct {
	values map[string]string
	tools  []string
	sets   int
	err    error // returned for every call when set
}

func (b *boardStub) Run(ctx context.Context, name string, args ...string) (string, error) {
	b.tools = append(b.tools, name)
	if b.err != nil {
		return "", b.err
	}
	switch {
	case len(args) == 2 && args[0] == "get":
		return b.values[args[1]] + "\n", nil
	case len(args) == 3 && args[0] == "set":
		if strings.ContainsAny(args[2], " ") {
			return "ERROR: bad value\n", nil
		}
		b.sets++
		b.values[args[1]] = args[2]
		return "", nil
	}
	return "ERROR\n", nil
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, board *boardStub, stdin string, args ...string) result {
	t.Helper()
	return executeWithConfig(t, filepath.Join(t.TempDir(), "config.yaml"), board, stdin, args...)
}

func executeWithConfig(t *testing.T, configPath string, board *boardStub, stdin string, args ...string) result {
	t.Helper()
	clearEnv(t)
	return run(t, configPath, board, stdin, args...)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{config.ToolEnvVar, config.TimeoutEnvVar, config.LogLevelEnvVar} {
		t.Setenv(env, "")
	}
}

// run executes the command tree with the current environment.
func run(t *testing.T, configPath string, board *boardStub, stdin string, args ...string) result {
	t.Helper()
	a := newApp()
	a.newRunner = func(cfg *config.Config, logger *zap.Logger) runner.Runner { return board }

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))

	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func newBoard() *boardStub {
	return &boardStub{values: map[string]string{
		"sn":       "ABC123",
		"basemac":  "00:11:22:33:44:55",
		"wifi-pwd": "hunter2",
	}}
}

func TestGet_Plain(t *testing.T) {
	board := newBoard()
	res := execute(t, board, "", "get", "serial")

	require.NoError(t, res.err)
	assert.Equal(t, "ABC123\n", res.stdout)
	assert.Equal(t, []string{factorydata.DefaultTool}, board.tools)
}

func TestGet_JSON(t *testing.T) {
	res := execute(t, newBoard(), "", "get", "base-mac", "--format", "json")
	require.NoError(t, res.err)

	var got fieldJSON
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, "base-mac", got.ID)
	assert.Equal(t, "basemac", got.Key)
	assert.Equal(t, "00:11:22:33:44:55", got.Value)
	assert.Equal(t, 17, got.Length)
	assert.False(t, got.Masked)
}

func TestGet_SensitiveUnmaskedWhenPiped(t *testing.T) {
	res := execute(t, newBoard(), "", "get", "ssid-pass")
	require.NoError(t, res.err)
	assert.Equal(t, "hunter2\n", res.stdout)
}

func TestGet_Failures(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown identifier", []string{"get", "no-such-field"}, 2},
		{"reserved identifier", []string{"get", "onu-serial"}, 2},
		{"empty value", []string{"get", "device-seed"}, 5},
		{"missing argument", []string{"get"}, 1},
		{"bad format", []string{"get", "serial", "--format", "xml"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, newBoard(), "", tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, tt.code, factorydata.ExitCode(res.err))
			assert.Empty(t, res.stdout)
		})
	}
}

func TestGet_FailureReportedOnStderr(t *testing.T) {
	res := execute(t, newBoard(), "", "get", "no-such-field")

	var silent *silentError
	require.ErrorAs(t, res.err, &silent)
	assert.Contains(t, res.stderr, "Error: ")
	assert.Contains(t, res.stderr, "no-such-field")
}

func TestSet_Argument(t *testing.T) {
	board := newBoard()
	res := execute(t, board, "", "set", "ssid", "myNetwork", "--yes")

	require.NoError(t, res.err)
	assert.Equal(t, "myNetwork", board.values["wifi-ssid"])
	assert.Empty(t, res.stdout)
}

func TestSet_Stdin(t *testing.T) {
	board := newBoard()
	res := execute(t, board, "secret-value\n", "set", "ssid-pass", "--stdin", "--yes")

	require.NoError(t, res.err)
	assert.Equal(t, "secret-value", board.values["wifi-pwd"])
}

func TestSet_RequiresConfirmationWhenNotInteractive(t *testing.T) {
	board := newBoard()
	res := execute(t, board, "", "set", "ssid", "myNetwork")

	require.Error(t, res.err)
	assert.Equal(t, 1, factorydata.ExitCode(res.err))
	assert.Contains(t, res.stderr, "--yes")
	assert.Zero(t, board.sets)
}

func TestSet_Failures(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"read-only", []string{"set", "serial", "X", "--yes"}, 3},
		{"unknown", []string{"set", "no-such-field", "X", "--yes"}, 2},
		{"rejected by tool", []string{"set", "ssid", "two words", "--yes"}, 1},
		{"too long", []string{"set", "ssid", strings.Repeat("a", 120), "--yes"}, 4},
		{"argument and stdin", []string{"set", "ssid", "x", "--stdin", "--yes"}, 1},
		{"no value", []string{"set", "ssid", "--yes"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := newBoard()
			res := execute(t, board, "", tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, tt.code, factorydata.ExitCode(res.err))
			assert.Zero(t, board.sets)
		})
	}
}

func TestSet_ReadOnlyReportedBeforePrompt(t *testing.T) {
	board := newBoard()
	res := execute(t, board, "", "set", "serial")

	require.Error(t, res.err)
	assert.True(t, factorydata.IsPermissionDenied(res.err))
	assert.Empty(t, board.tools)
}

func TestList_JSON(t *testing.T) {
	res := execute(t, newBoard(), "", "list", "--format", "json")
	require.NoError(t, res.err)

	var entries []entryJSON
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
	require.Len(t, entries, 18)

	byID := make(map[string]entryJSON)
	for _, e := range entries {
		byID[e.ID] = e
	}
	assert.Equal(t, entryJSON{ID: "serial", Key: "sn", Backed: true}, byID["serial"])
	assert.True(t, byID["ssid"].Writable)
	assert.True(t, byID["ssid-pass"].Sensitive)
	assert.False(t, byID["onu-serial"].Backed)
}

func TestList_Table(t *testing.T) {
	res := execute(t, newBoard(), "", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "serial")
	assert.Contains(t, res.stdout, "reserved")
}

func TestDump_JSON(t *testing.T) {
	res := execute(t, newBoard(), "", "dump", "--format", "json")

	// Most fields are empty on the stub board.
	require.Error(t, res.err)
	assert.True(t, factorydata.IsInvalidResult(res.err))

	var fields []fieldJSON
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &fields))
	require.NotEmpty(t, fields)
	assert.Equal(t, "base-mac", fields[0].ID)
	assert.Equal(t, "00:11:22:33:44:55", fields[0].Value)

	for _, f := range fields {
		assert.NotEqual(t, "onu-serial", f.ID)
	}
}

func TestBrowse_RequiresTerminal(t *testing.T) {
	res := execute(t, newBoard(), "", "browse")
	require.Error(t, res.err)
	assert.True(t, factorydata.IsInvalidArgument(res.err))
}

func TestToolFlag(t *testing.T) {
	board := newBoard()
	res := execute(t, board, "", "--tool", "/opt/bin/arc-board", "get", "serial")

	require.NoError(t, res.err)
	assert.Equal(t, []string{"/opt/bin/arc-board"}, board.tools)
}

func TestInvalidTimeoutFlag(t *testing.T) {
	res := execute(t, newBoard(), "", "--timeout", "-1s", "get", "serial")
	require.Error(t, res.err)
}

func TestVersion(t *testing.T) {
	res := execute(t, newBoard(), "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "fdctl")
}

func TestSet_ToolUnavailable(t *testing.T) {
	board := newBoard()
	board.err = &runner.CommandError{Command: factorydata.DefaultTool, ExitCode: -1, Err: errors.New("exec: not found")}

	res := execute(t, board, "", "set", "ssid", "myNetwork", "--yes")
	require.Error(t, res.err)
	assert.True(t, factorydata.IsUnavailable(res.err))
	assert.Equal(t, factorydata.ExitUnavailable, factorydata.ExitCode(res.err))
}

func TestCheck_MissingTool(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "arc-board")
	res := execute(t, newBoard(), "", "--tool", missing, "check")

	require.Error(t, res.err)
	assert.Equal(t, factorydata.ExitUnavailable, factorydata.ExitCode(res.err))
	assert.Contains(t, res.stderr, missing)
	assert.Empty(t, res.stdout)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fd", "config.yaml")

	res := executeWithConfig(t, path, newBoard(), "", "--tool", "/usr/sbin/arc-board", "--timeout", "10s", "config", "init")
	require.NoError(t, res.err)
	assert.Equal(t, path+"\n", res.stdout)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/sbin/arc-board", cfg.Tool)
	assert.Equal(t, 10*time.Second, cfg.Timeout)

	// A second init must not clobber the file.
	res = executeWithConfig(t, path, newBoard(), "", "config", "init")
	require.Error(t, res.err)
	assert.True(t, factorydata.IsInvalidArgument(res.err))

	res = executeWithConfig(t, path, newBoard(), "", "config", "init", "--force")
	require.NoError(t, res.err)
	cfg, err = config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Tool, cfg.Tool)
}

func TestConfigSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	board := newBoard()

	res := executeWithConfig(t, path, board, "", "config", "set", "tool", "/opt/arc-board")
	require.NoError(t, res.err)
	res = executeWithConfig(t, path, board, "", "config", "set", "timeout", "2s")
	require.NoError(t, res.err)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/arc-board", cfg.Tool)
	assert.Equal(t, 2*time.Second, cfg.Timeout)

	// The saved tool is used by later commands.
	res = executeWithConfig(t, path, board, "", "get", "serial")
	require.NoError(t, res.err)
	assert.Equal(t, []string{"/opt/arc-board"}, board.tools)
}

func TestConfigSet_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "colour", "blue"}},
		{"bad timeout", []string{"config", "set", "timeout", "soon"}},
		{"negative timeout", []string{"config", "set", "timeout", "-1s"}},
		{"empty tool", []string{"config", "set", "tool", ""}},
		{"bad log level", []string{"config", "set", "log-level", "loud"}},
		{"missing value", []string{"config", "set", "tool"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			res := executeWithConfig(t, path, newBoard(), "", tt.args...)
			require.Error(t, res.err)
			assert.True(t, factorydata.IsInvalidArgument(res.err), "%v", res.err)

			_, err := os.Stat(path)
			assert.True(t, os.IsNotExist(err), "nothing must be written")
		})
	}
}

func TestConfigSet_IgnoresEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.ToolEnvVar, "/env/arc-board")

	path := filepath.Join(t.TempDir(), "config.yaml")
	res := run(t, path, newBoard(), "", "config", "set", "timeout", "3s")
	require.NoError(t, res.err)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Tool, cfg.Tool)
}

func TestConfigShow(t *testing.T) {
	res := execute(t, newBoard(), "", "--timeout", "750ms", "config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "tool: arc-board")
	assert.Contains(t, res.stdout, "timeout: 750ms")
}
