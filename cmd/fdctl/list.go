package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/factorydata/internal/registry"
	"github.com/muurk/factorydata/internal/ui"
)

type entryJSON struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	Writable  bool   `json:"writable"`
	Sensitive bool   `json:"sensitive"`
	Backed    bool   `json:"backed"`
}

func newListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List factory data identifiers",
		Long: `List every known identifier with its board key and access.

Reserved identifiers have no board key and always report not found.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			entries := a.accessor.Registry().Entries()
			out := cmd.OutOrStdout()

			if format == formatJSON {
				list := make([]entryJSON, 0, len(entries))
				for _, e := range entries {
					list = append(list, entryJSON{
						ID:        e.ID,
						Key:       e.Key,
						Writable:  e.Writable,
						Sensitive: e.Sensitive,
						Backed:    e.Backed(),
					})
				}
				data, err := json.MarshalIndent(list, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			rows, muted := entryRows(entries)
			fmt.Fprintln(out, ui.FieldTable([]string{"ID", "KEY", "ACCESS", "SENSITIVE"}, rows, muted))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format (table, json)")
	return cmd
}

func entryRows(entries []registry.Entry) ([][]string, map[int]map[int]bool) {
	rows := make([][]string, 0, len(entries))
	muted := make(map[int]map[int]bool)
	for i, e := range entries {
		key, access := e.Key, "ro"
		if e.Writable {
			access = "rw"
		}
		if !e.Backed() {
			key, access = "-", "reserved"
			muted[i] = map[int]bool{0: true, 1: true, 2: true, 3: true}
		}
		sensitive := ""
		if e.Sensitive {
			sensitive = "yes"
		}
		rows = append(rows, []string{e.ID, key, access, sensitive})
	}
	return rows, muted
}
