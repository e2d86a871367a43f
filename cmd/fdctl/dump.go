package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/factorydata/internal/factorydata"
	"github.com/muurk/factorydata/internal/logging"
	"github.com/muurk/factorydata/internal/ui"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		format string
		reveal bool
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Read every factory data field",
		Long: `Read every backed identifier in table order and print the results.

A field that cannot be read is reported in place and does not stop the
dump. The exit status is non-zero if any field failed.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			show := reveal || !isTTY(out)
			logging.LogCommand("dump", "")

			fields, err := a.accessor.ReadAll(cmd.Context())
			if err != nil {
				return reportFailure(cmd.ErrOrStderr(), "dump", "", err)
			}

			var (
				firstErr error
				failed   int
			)
			for _, f := range fields {
				if f.Err == nil {
					continue
				}
				if firstErr == nil {
					firstErr = f.Err
				}
				failed++
			}
			if failed > 0 {
				logging.Warn("dump incomplete",
					zap.Int("failed", failed),
					zap.Int("fields", len(fields)),
				)
			}

			if format == formatJSON {
				list := make([]fieldJSON, 0, len(fields))
				for _, f := range fields {
					item := fieldJSON{ID: f.Entry.ID, Key: f.Entry.Key}
					if f.Err != nil {
						item.Error = f.Err.Error()
						item.Kind = factorydata.KindOf(f.Err).String()
					} else {
						item.Value = ui.Mask(string(f.Value), f.Entry.Sensitive, show)
						item.Length = len(f.Value)
						item.Masked = item.Value != string(f.Value)
					}
					list = append(list, item)
				}
				data, err := json.MarshalIndent(list, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
			} else {
				rows := make([][]string, 0, len(fields))
				muted := make(map[int]map[int]bool)
				for i, f := range fields {
					value := ui.Mask(string(f.Value), f.Entry.Sensitive, show)
					if f.Err != nil {
						value = factorydata.KindOf(f.Err).String()
						muted[i] = map[int]bool{2: true}
					}
					rows = append(rows, []string{f.Entry.ID, f.Entry.Key, value})
				}
				fmt.Fprintln(out, ui.FieldTable([]string{"ID", "KEY", "VALUE"}, rows, muted))
			}

			if firstErr != nil {
				return &silentError{err: firstErr}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format (table, json)")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print sensitive values on a terminal")
	return cmd
}
