package factorydata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/factorydata/internal/registry"
	"github.com/muurk/factorydata/internal/runner"
)

// DefaultTool is the board configuration tool invoked when none is configured.
const DefaultTool = "arc-board"

const (
	cmdGet = "get"
	cmdSet = "set"

	// rejectMarker in the tool's output means a write was refused.
	rejectMarker = "ERROR"
)

// Config holds the accessor configuration.
type Config struct {
	// Tool is the board configuration tool, as a name in PATH or a path.
	// Default: "arc-board"
	Tool string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Tool: DefaultTool,
	}
}

// Accessor reads and writes factory-data fields.
type Accessor struct {
	config Config
	table  *registry.Table
	runner runner.Runner
	logger *zap.Logger
}

// NewAccessor creates an accessor. A nil table selects registry.Default(),
// a nil runner selects an ExecRunner with runner.DefaultConfig(), and a nil
// logger disables logging.
func NewAccessor(config Config, table *registry.Table, r runner.Runner, logger *zap.Logger) *Accessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table == nil {
		table = registry.Default()
	}
	if r == nil {
		r = runner.NewExecRunner(runner.DefaultConfig(), logger)
	}
	if config.Tool == "" {
		config.Tool = DefaultTool
	}
	return &Accessor{
		config: config,
		table:  table,
		runner: r,
		logger: logger,
	}
}

// Registry returns the identifier table the accessor resolves against.
func (a *Accessor) Registry() *registry.Table {
	return a.table
}

// Tool returns the configured board tool.
func (a *Accessor) Tool() string {
	return a.config.Tool
}

// Get returns the current value of the field named id. The returned slice
// is owned by the caller and is never empty; its length is the value size.
func (a *Accessor) Get(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, newError(KindInvalidArgument, id, "identifier is empty", nil)
	}

	entry, ok := a.table.Resolve(id)
	if !ok {
		return nil, newError(KindNotFound, id, "identifier not found", nil)
	}

	out, err := a.runner.Run(ctx, a.config.Tool, cmdGet, entry.Key)
	if err != nil {
		// A tool that never ran printed no line.
		if fdErr := a.invocationError(id, err, KindInvalidResult); fdErr != nil {
			return nil, fdErr
		}
	}

	line := firstLine(out)
	if line == "" {
		return nil, newError(KindInvalidResult, id, "board tool returned no value", err)
	}

	a.logger.Debug("factory data read",
		zap.String("id", id),
		zap.String("key", entry.Key),
		zap.Int("size", len(line)),
	)

	return []byte(line), nil
}

// Set stores value in the writable field named id.
func (a *Accessor) Set(ctx context.Context, id string, value []byte) error {
	if id == "" {
		return newError(KindInvalidArgument, id, "identifier is empty", nil)
	}
	if len(value) == 0 {
		return newError(KindInvalidArgument, id, "value is empty", nil)
	}
	if bytes.IndexByte(value, 0) >= 0 {
		return newError(KindInvalidArgument, id, "value contains a NUL byte", nil)
	}

	entry, fdErr := a.writableEntry(id)
	if fdErr != nil {
		return fdErr
	}

	if n := setCommandLength(entry.Key, value); n > MaxCommandLength {
		return newError(KindOutOfMemory, id,
			fmt.Sprintf("command would be %d bytes, limit is %d", n, MaxCommandLength), nil)
	}

	out, err := a.runner.Run(ctx, a.config.Tool, cmdSet, entry.Key, string(value))
	if err != nil {
		if fdErr := a.invocationError(id, err, KindUnavailable); fdErr != nil {
			return fdErr
		}
	}

	line := firstLine(out)
	if strings.Contains(line, rejectMarker) {
		return &Error{
			Kind:    KindInvalidArgument,
			ID:      id,
			Message: "board tool rejected the value",
			Output:  line,
		}
	}

	a.logger.Debug("factory data written",
		zap.String("id", id),
		zap.String("key", entry.Key),
		zap.Int("size", len(value)),
	)

	return nil
}

// CheckWritable reports whether Set would accept id, without running the
// board tool. It returns the same errors Set returns for the identifier.
func (a *Accessor) CheckWritable(id string) error {
	if id == "" {
		return newError(KindInvalidArgument, id, "identifier is empty", nil)
	}
	if _, err := a.writableEntry(id); err != nil {
		return err
	}
	return nil
}

func (a *Accessor) writableEntry(id string) (registry.Entry, *Error) {
	entry, ok := a.table.Resolve(id)
	if !ok {
		return entry, newError(KindNotFound, id, "identifier not found", nil)
	}
	if !entry.Writable {
		return entry, newError(KindPermissionDenied, id, "identifier is read-only", nil)
	}
	return entry, nil
}

// invocationError maps a runner failure to an *Error, using notRun when the
// tool could not be started. A tool that ran and exited non-zero is not a
// failure by itself: nil is returned and the caller interprets the output.
func (a *Accessor) invocationError(id string, err error, notRun Kind) *Error {
	if runner.IsTimeout(err) {
		return newError(KindTimeout, id, "board tool did not finish in time", err)
	}

	var cmdErr *runner.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Started {
		a.logger.Debug("board tool exited non-zero",
			zap.String("id", id),
			zap.Int("exit_code", cmdErr.ExitCode),
		)
		return nil
	}

	return newError(notRun, id, "board tool could not be run", err)
}
