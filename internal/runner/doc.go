// Package runner runs the board configuration tool as a child process.
//
// Commands are always started from an explicit argument vector; no shell is
// involved, so values supplied by callers are never interpreted as shell
// syntax. The [Runner] interface lets callers substitute a fake tool in tests:
//
//	type fakeTool struct{}
//
//	func (fakeTool) Run(ctx context.Context, name string, args ...string) (string, error) {
//	    return "ABC123\n", nil
//	}
//
// [ExecRunner] is the production implementation. It bounds the wait with a
// timeout and caps how much output it keeps in memory.
package runner
