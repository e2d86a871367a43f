package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/factorydata/internal/factorydata"
	"github.com/muurk/factorydata/internal/logging"
	"github.com/muurk/factorydata/internal/ui"
)

func newSetCmd(a *app) *cobra.Command {
	var (
		yes       bool
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "set <id> [value]",
		Short: "Write a factory data value",
		Long: `Write one writable factory data field.

The value may be given as an argument, read from stdin with --stdin, or
typed at a prompt (without echo for sensitive fields). Writes must be
confirmed by typing "I AGREE" unless --yes is given.`,
		Example: `  fdctl set ssid myNetwork
  fdctl set ssid-pass
  printf '%s' "$CERT" | fdctl set client-cert --stdin --yes`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			in := cmd.InOrStdin()
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			logging.LogCommand("set", id)

			fail := func(err error) error {
				return reportFailure(errOut, "set", id, err)
			}

			// Report unknown and read-only fields before prompting.
			if err := a.accessor.CheckWritable(id); err != nil {
				return fail(err)
			}
			entry, _ := a.accessor.Registry().Resolve(id)

			var value []byte
			switch {
			case len(args) == 2 && fromStdin:
				return fail(&factorydata.Error{
					Kind:    factorydata.KindInvalidArgument,
					ID:      id,
					Message: "value given both as argument and --stdin",
				})
			case len(args) == 2:
				value = []byte(args[1])
			case fromStdin:
				data, err := io.ReadAll(in)
				if err != nil {
					return fmt.Errorf("failed to read value from stdin: %w", err)
				}
				value = []byte(strings.TrimRight(string(data), "\r\n"))
			default:
				v, err := promptValue(in, errOut, id, entry.Sensitive)
				if err != nil {
					return fail(err)
				}
				value = v
			}

			if !yes {
				if fromStdin || !isTTYReader(in) {
					return fail(&factorydata.Error{
						Kind:    factorydata.KindInvalidArgument,
						ID:      id,
						Message: "refusing to write without confirmation; pass --yes",
					})
				}
				if !ui.ConfirmWrite(in, errOut, id, len(value)) {
					return &silentError{err: fmt.Errorf("write to %q cancelled", id)}
				}
			}

			if err := a.accessor.Set(cmd.Context(), id, value); err != nil {
				return fail(err)
			}

			if isTTY(out) {
				fmt.Fprintln(out, ui.RenderSuccess("Wrote "+id,
					ui.Detail{Key: "Identifier", Value: id},
					ui.Detail{Key: "Board key", Value: entry.Key},
					ui.Detail{Key: "Size", Value: fmt.Sprintf("%d bytes", len(value))},
				))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the value from stdin")
	return cmd
}

func isTTYReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && ui.IsTerminal(f)
}

// promptValue asks for a value on a terminal. Sensitive values are read
// without echo and must be typed twice.
func promptValue(in io.Reader, out io.Writer, id string, sensitive bool) ([]byte, error) {
	f, ok := in.(*os.File)
	if !ok || !ui.IsTerminal(f) {
		return nil, &factorydata.Error{
			Kind:    factorydata.KindInvalidArgument,
			ID:      id,
			Message: "no value given; pass it as an argument or use --stdin",
		}
	}

	if !sensitive {
		fmt.Fprintf(out, "Value for %s: ", id)
		line, err := bufio.NewReader(f).ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("failed to read value: %w", err)
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}

	fd := int(f.Fd())
	fmt.Fprintf(out, "Value for %s (hidden): ", id)
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read value: %w", err)
	}

	fmt.Fprintf(out, "Repeat value for %s: ", id)
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read value: %w", err)
	}

	if string(first) != string(second) {
		return nil, &factorydata.Error{
			Kind:    factorydata.KindInvalidArgument,
			ID:      id,
			Message: "values do not match",
		}
	}
	return first, nil
}
