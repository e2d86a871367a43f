package runner

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Runner runs an external command and returns its captured standard output.
//
// When the command runs but exits with a non-zero status, implementations
// return the captured output together with a *CommandError so callers can
// still inspect what the tool printed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Config holds the configuration for command execution.
type Config struct {
	// Timeout is the maximum time to wait for the command to complete.
	// Zero disables the bound.
	// Default: 5 seconds
	Timeout time.Duration

	// OutputLimit caps the number of stdout and stderr bytes kept.
	// Output beyond the limit is read and discarded. Zero means unlimited.
	// Default: 4096
	OutputLimit int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     5 * time.Second,
		OutputLimit: 4096,
	}
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	config Config
	logger *zap.Logger
}

// NewExecRunner creates a new runner with the given configuration.
// A nil logger disables logging.
func NewExecRunner(config Config, logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{
		config: config,
		logger: logger,
	}
}

// Config returns the runner configuration.
func (r *ExecRunner) Config() Config {
	return r.config
}

// Run starts name with args, waits for it to exit and returns its stdout.
//
// Argument values are never logged; only the command name and argument count.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if r.config.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.config.Timeout)
	}
	defer cancel()

	stdout := &limitedBuffer{limit: r.config.OutputLimit}
	stderr := &limitedBuffer{limit: r.config.OutputLimit}

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// Do not hang on descendants that keep the output pipes open after kill.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		exitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
	}

	r.logger.Debug("command finished",
		zap.String("command", name),
		zap.Int("args", len(args)),
		zap.Duration("duration", duration),
		zap.Int("exit_code", exitCode),
		zap.Int("stdout_size", stdout.Len()),
		zap.Int("stderr_size", stderr.Len()),
		zap.Bool("truncated", stdout.Truncated()),
	)

	if err == nil {
		return stdout.String(), nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		r.logger.Warn("command timed out",
			zap.String("command", name),
			zap.Duration("timeout", r.config.Timeout),
		)
		return "", &TimeoutError{Command: name, Timeout: r.config.Timeout}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", &CommandError{Command: name, ExitCode: -1, Started: cmd.Process != nil, Err: ctxErr}
	}

	if cmd.Process == nil {
		return "", &CommandError{Command: name, ExitCode: -1, Err: err}
	}
	return stdout.String(), &CommandError{
		Command:  name,
		ExitCode: exitCode,
		Started:  true,
		Stderr:   stderr.String(),
		Err:      err,
	}
}

// limitedBuffer keeps at most limit bytes and silently drops the rest, so a
// chatty child is never blocked on a full pipe.
type limitedBuffer struct {
	buf       []byte
	limit     int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if b.limit > 0 {
		room := b.limit - len(b.buf)
		if room <= 0 {
			b.truncated = b.truncated || n > 0
			return n, nil
		}
		if len(p) > room {
			p = p[:room]
			b.truncated = true
		}
	}
	b.buf = append(b.buf, p...)
	return n, nil
}

func (b *limitedBuffer) String() string {
	return string(b.buf)
}

func (b *limitedBuffer) Len() int {
	return len(b.buf)
}

func (b *limitedBuffer) Truncated() bool {
	return b.truncated
}
