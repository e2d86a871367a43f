package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/factorydata/internal/logging"
	"github.com/muurk/factorydata/internal/ui"
)

// isTTY reports whether w is a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTerminal(f)
}

// fieldJSON is the JSON form of one value.
type fieldJSON struct {
	ID     string `json:"id"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
	Length int    `json:"length"`
	Masked bool   `json:"masked,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

func newGetCmd(a *app) *cobra.Command {
	var (
		format string
		reveal bool
	)

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a factory data value",
		Long: `Read one factory data field and print its value.

Plain output is the bare value followed by a newline. Sensitive fields
(passwords, private keys, seeds) are printed only when stdout is not a
terminal or --reveal is given.`,
		Example: `  fdctl get serial
  fdctl get base-mac --format json
  fdctl get ssid-pass --reveal`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatPlain, formatJSON); err != nil {
				return err
			}
			id := args[0]
			out := cmd.OutOrStdout()
			tty := isTTY(out)
			logging.LogCommand("get", id)

			value, err := a.accessor.Get(cmd.Context(), id)
			if err != nil {
				return reportFailure(cmd.ErrOrStderr(), "get", id, err)
			}

			entry, _ := a.accessor.Registry().Lookup(id)
			// Piped output is for scripts and is never masked.
			shown := ui.Mask(string(value), entry.Sensitive, reveal || !tty)

			if format == formatJSON {
				data, err := json.MarshalIndent(fieldJSON{
					ID:     id,
					Key:    entry.Key,
					Value:  shown,
					Length: len(value),
					Masked: shown != string(value),
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintln(out, shown)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatPlain, "output format (plain, json)")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print sensitive values on a terminal")
	return cmd
}
