package factorydata

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/factorydata/internal/registry"
	"github.com/muurk/factorydata/internal/runner"
)

// call records one board tool invocation.
type call struct {
	name string
	args []string
}

// fakeTool simulates the board tool. Values written with "set" are returned
// by later "get" calls with a trailing newline, like the real tool.
type fakeTool struct {
	values map[string]string
	output map[string]string // "get key" / "set key value" -> raw stdout
	err    error
	calls  []call
	reject string // set values containing this are answered with ERROR
}

func newFakeTool() *fakeTool {
	return &fakeTool{
		values: make(map[string]string),
		output: make(map[string]string),
	}
}

func (f *fakeTool) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{name: name, args: append([]string(nil), args...)})

	if out, ok := f.output[strings.Join(args, " ")]; ok {
		return out, f.err
	}
	if f.err != nil {
		return "", f.err
	}

	switch {
	case len(args) == 2 && args[0] == "get":
		if v, ok := f.values[args[1]]; ok {
			return v + "\n", nil
		}
		return "", nil
	case len(args) == 3 && args[0] == "set":
		if f.reject != "" && strings.Contains(args[2], f.reject) {
			return "ERROR: invalid char\n", nil
		}
		f.values[args[1]] = args[2]
		return "OK\n", nil
	}
	return "ERROR: usage\n", nil
}

func testTable(t *testing.T) *registry.Table {
	t.Helper()
	table, err := registry.New(
		registry.Entry{ID: "serial", Key: "sn"},
		registry.Entry{ID: "ssid", Key: "wifi-ssid", Writable: true},
		registry.Entry{ID: "onu-serial"},
	)
	require.NoError(t, err)
	return table
}

func newTestAccessor(t *testing.T, tool *fakeTool) *Accessor {
	t.Helper()
	return NewAccessor(DefaultConfig(), testTable(t), tool, nil)
}

func TestNewAccessor_Defaults(t *testing.T) {
	a := NewAccessor(Config{}, nil, nil, nil)

	assert.Equal(t, DefaultTool, a.Tool())
	assert.Same(t, registry.Default(), a.Registry())
	assert.NotNil(t, a.runner)
	assert.NotNil(t, a.logger)
}

func TestGet_Serial(t *testing.T) {
	tool := newFakeTool()
	tool.output["get sn"] = "ABC123\n"
	a := newTestAccessor(t, tool)

	value, err := a.Get(context.Background(), "serial")
	require.NoError(t, err)
	assert.Equal(t, []byte("ABC123"), value)
	assert.Len(t, value, 6)

	require.Len(t, tool.calls, 1)
	assert.Equal(t, DefaultTool, tool.calls[0].name)
	assert.Equal(t, []string{"get", "sn"}, tool.calls[0].args)
}

func TestGet_Sanitization(t *testing.T) {
	long := strings.Repeat("x", 200)

	tests := []struct {
		name     string
		output   string
		expected string
	}{
		{"newline", "value\n", "value"},
		{"crlf", "value\r\n", "value"},
		{"no terminator", "value", "value"},
		{"first line only", "first\nsecond\n", "first"},
		{"cr mid line", "abc\rdef\n", "abc"},
		{"nul", "abc\x00def\n", "abc"},
		{"truncated", long + "\n", long[:MaxValueLength]},
		{"exactly max", long[:MaxValueLength] + "\n", long[:MaxValueLength]},
		{"keeps spaces", "  padded value  \n", "  padded value  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := newFakeTool()
			tool.output["get sn"] = tt.output
			a := newTestAccessor(t, tool)

			value, err := a.Get(context.Background(), "serial")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(value))
			assert.LessOrEqual(t, len(value), MaxValueLength)
		})
	}
}

func TestGet_EmptyOutput(t *testing.T) {
	for _, out := range []string{"", "\n", "\r\n", "\x00abc"} {
		tool := newFakeTool()
		tool.output["get sn"] = out
		a := newTestAccessor(t, tool)

		value, err := a.Get(context.Background(), "serial")
		assert.Nil(t, value)
		assert.True(t, IsInvalidResult(err), "output %q: %v", out, err)
		assert.ErrorIs(t, err, ErrInvalidResult)
	}
}

func TestGet_UnknownIdentifier(t *testing.T) {
	tool := newFakeTool()
	a := newTestAccessor(t, tool)

	for _, id := range []string{"unknown-field", "onu-serial", "sn"} {
		value, err := a.Get(context.Background(), id)
		assert.Nil(t, value)
		assert.True(t, IsNotFound(err), "id %q: %v", id, err)
	}
	assert.Empty(t, tool.calls, "no process may be started for unknown identifiers")
}

func TestGet_EmptyIdentifier(t *testing.T) {
	tool := newFakeTool()
	a := newTestAccessor(t, tool)

	_, err := a.Get(context.Background(), "")
	assert.True(t, IsInvalidArgument(err))
	assert.Empty(t, tool.calls)
}

func TestGet_ToolFailures(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		err      error
		expected Kind
		value    string
	}{
		{
			name:     "timeout",
			err:      &runner.TimeoutError{Command: DefaultTool},
			expected: KindTimeout,
		},
		{
			name:     "not started",
			err:      &runner.CommandError{Command: DefaultTool, ExitCode: -1, Err: errors.New("not found")},
			expected: KindInvalidResult,
		},
		{
			name:     "non-zero exit without output",
			err:      &runner.CommandError{Command: DefaultTool, ExitCode: 1, Started: true},
			expected: KindInvalidResult,
		},
		{
			name:   "non-zero exit with output",
			output: "ABC123\n",
			err:    &runner.CommandError{Command: DefaultTool, ExitCode: 1, Started: true},
			value:  "ABC123",
		},
		{
			name:     "foreign error",
			err:      errors.New("boom"),
			expected: KindInvalidResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := newFakeTool()
			tool.err = tt.err
			if tt.output != "" {
				tool.output["get sn"] = tt.output
			}
			a := newTestAccessor(t, tool)

			value, err := a.Get(context.Background(), "serial")
			if tt.value != "" {
				require.NoError(t, err)
				assert.Equal(t, tt.value, string(value))
				return
			}
			require.Error(t, err)
			assert.Nil(t, value)
			assert.Equal(t, tt.expected, KindOf(err))
		})
	}
}

func TestSet_Accepted(t *testing.T) {
	tool := newFakeTool()
	tool.output["set wifi-ssid myNetwork"] = "OK\n"
	a := newTestAccessor(t, tool)

	err := a.Set(context.Background(), "ssid", []byte("myNetwork"))
	require.NoError(t, err)

	require.Len(t, tool.calls, 1)
	assert.Equal(t, []string{"set", "wifi-ssid", "myNetwork"}, tool.calls[0].args)
}

func TestSet_Rejected(t *testing.T) {
	tool := newFakeTool()
	tool.output["set wifi-ssid bad value"] = "ERROR: invalid char\n"
	a := newTestAccessor(t, tool)

	err := a.Set(context.Background(), "ssid", []byte("bad value"))
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	var fdErr *Error
	require.ErrorAs(t, err, &fdErr)
	assert.Equal(t, "ERROR: invalid char", fdErr.Output)

	require.Len(t, tool.calls, 1)
	assert.Equal(t, []string{"set", "wifi-ssid", "bad value"}, tool.calls[0].args,
		"value must be passed as one argument")
}

func TestSet_RejectMarkerAnywhere(t *testing.T) {
	tool := newFakeTool()
	tool.output["set wifi-ssid x"] = "write failed: ERROR 22\n"
	a := newTestAccessor(t, tool)

	assert.True(t, IsInvalidArgument(a.Set(context.Background(), "ssid", []byte("x"))))
}

func TestSet_OnlyFirstLineInspected(t *testing.T) {
	tool := newFakeTool()
	tool.output["set wifi-ssid x"] = "OK\nERROR on second line\n"
	a := newTestAccessor(t, tool)

	assert.NoError(t, a.Set(context.Background(), "ssid", []byte("x")))
}

func TestSet_NoOutputIsSuccess(t *testing.T) {
	tool := newFakeTool()
	tool.output["set wifi-ssid x"] = ""
	a := newTestAccessor(t, tool)

	assert.NoError(t, a.Set(context.Background(), "ssid", []byte("x")))
}

func TestSet_ReadOnly(t *testing.T) {
	tool := newFakeTool()
	tool.output["get sn"] = "ABC123\n"
	a := newTestAccessor(t, tool)

	err := a.Set(context.Background(), "serial", []byte("XYZ"))
	assert.True(t, IsPermissionDenied(err))
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Empty(t, tool.calls)

	value, err := a.Get(context.Background(), "serial")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", string(value))
}

func TestSet_UnknownIdentifier(t *testing.T) {
	tool := newFakeTool()
	a := newTestAccessor(t, tool)

	for _, id := range []string{"unknown-field", "onu-serial"} {
		err := a.Set(context.Background(), id, []byte("v"))
		assert.True(t, IsNotFound(err), "id %q: %v", id, err)
	}
	assert.Empty(t, tool.calls)
}

func TestCheckWritable(t *testing.T) {
	tool := newFakeTool()
	a := newTestAccessor(t, tool)

	assert.NoError(t, a.CheckWritable("ssid"))
	assert.True(t, IsPermissionDenied(a.CheckWritable("serial")))
	assert.True(t, IsNotFound(a.CheckWritable("onu-serial")))
	assert.True(t, IsNotFound(a.CheckWritable("unknown-field")))
	assert.True(t, IsInvalidArgument(a.CheckWritable("")))
	assert.Empty(t, tool.calls)
}

func TestSet_InvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		value []byte
	}{
		{"empty id", "", []byte("v")},
		{"nil value", "ssid", nil},
		{"empty value", "ssid", []byte{}},
		{"nul in value", "ssid", []byte("a\x00b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := newFakeTool()
			a := newTestAccessor(t, tool)

			err := a.Set(context.Background(), tt.id, tt.value)
			assert.True(t, IsInvalidArgument(err), "%v", err)
			assert.Empty(t, tool.calls)
		})
	}
}

func TestSet_CommandLengthLimit(t *testing.T) {
	// "arc-board set wifi-ssid " is 24 bytes.
	prefix := len(DefaultTool) + len(" set ") + len("wifi-ssid") + len(" ")
	fits := strings.Repeat("a", MaxCommandLength-prefix)
	tooLong := fits + "a"

	tool := newFakeTool()
	a := newTestAccessor(t, tool)

	err := a.Set(context.Background(), "ssid", []byte(tooLong))
	assert.True(t, IsOutOfMemory(err), "%v", err)
	assert.Empty(t, tool.calls, "oversized command must not be run")

	err = a.Set(context.Background(), "ssid", []byte(fits))
	assert.NoError(t, err)
	assert.Len(t, tool.calls, 1)
}

func TestSet_CommandLengthIgnoresToolPath(t *testing.T) {
	prefix := len(DefaultTool) + len(" set ") + len("wifi-ssid") + len(" ")
	fits := strings.Repeat("a", MaxCommandLength-prefix)

	tool := newFakeTool()
	a := NewAccessor(Config{Tool: "/usr/local/sbin/arc-board"}, testTable(t), tool, nil)

	require.NoError(t, a.Set(context.Background(), "ssid", []byte(fits)))
	require.Len(t, tool.calls, 1)
	assert.Equal(t, "/usr/local/sbin/arc-board", tool.calls[0].name)

	err := a.Set(context.Background(), "ssid", []byte(fits+"a"))
	assert.True(t, IsOutOfMemory(err))
	assert.Len(t, tool.calls, 1)
}

func TestSet_ToolFailures(t *testing.T) {
	tool := newFakeTool()
	tool.err = &runner.TimeoutError{Command: DefaultTool}
	a := newTestAccessor(t, tool)
	assert.True(t, IsTimeout(a.Set(context.Background(), "ssid", []byte("x"))))

	tool = newFakeTool()
	tool.err = &runner.CommandError{Command: DefaultTool, ExitCode: -1, Err: errors.New("exec: not found")}
	a = newTestAccessor(t, tool)
	err := a.Set(context.Background(), "ssid", []byte("x"))
	assert.True(t, IsUnavailable(err))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, IsInvalidResult(err), "InvalidResult is reserved for Get")

	tool = newFakeTool()
	tool.err = errors.New("boom")
	a = newTestAccessor(t, tool)
	assert.True(t, IsUnavailable(a.Set(context.Background(), "ssid", []byte("x"))))

	tool = newFakeTool()
	tool.output["set wifi-ssid x"] = "ERROR: locked\n"
	tool.err = &runner.CommandError{Command: DefaultTool, ExitCode: 2, Started: true}
	a = newTestAccessor(t, tool)
	assert.True(t, IsInvalidArgument(a.Set(context.Background(), "ssid", []byte("x"))))
}

func TestSetThenGet_RoundTrip(t *testing.T) {
	table := registry.Default()
	long := strings.Repeat("v", 90)

	for _, entry := range table.Entries() {
		if !entry.Writable || !entry.Backed() {
			continue
		}
		t.Run(entry.ID, func(t *testing.T) {
			tool := newFakeTool()
			a := NewAccessor(DefaultConfig(), table, tool, nil)

			for _, v := range []string{"myNetwork", "with space", "x", long} {
				limit := MaxCommandLength - setCommandLength(entry.Key, nil)
				if len(v) > limit {
					v = v[:limit]
				}
				require.NoError(t, a.Set(context.Background(), entry.ID, []byte(v)))

				got, err := a.Get(context.Background(), entry.ID)
				require.NoError(t, err)
				assert.Equal(t, firstLine(v), string(got))
			}
		})
	}
}

func TestSet_CustomTool(t *testing.T) {
	tool := newFakeTool()
	a := NewAccessor(Config{Tool: "/usr/sbin/arc-board"}, testTable(t), tool, nil)

	require.NoError(t, a.Set(context.Background(), "ssid", []byte("net")))
	require.Len(t, tool.calls, 1)
	assert.Equal(t, "/usr/sbin/arc-board", tool.calls[0].name)
}

func TestReadAll(t *testing.T) {
	tool := newFakeTool()
	tool.values["sn"] = "ABC123"
	a := newTestAccessor(t, tool)

	fields, err := a.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, fields, 2, "reserved entries are skipped")

	assert.Equal(t, "serial", fields[0].Entry.ID)
	assert.NoError(t, fields[0].Err)
	assert.Equal(t, "ABC123", string(fields[0].Value))

	assert.Equal(t, "ssid", fields[1].Entry.ID)
	assert.True(t, IsInvalidResult(fields[1].Err))
}

func TestReadAll_Cancelled(t *testing.T) {
	tool := newFakeTool()
	a := newTestAccessor(t, tool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fields, err := a.ReadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fields)
	assert.Empty(t, tool.calls)
}
