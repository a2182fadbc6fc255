package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/prasetyowira/qrgen/domain/payload"
	"github.com/prasetyowira/qrgen/domain/qr"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated QR codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.open(cmd); err != nil {
				return err
			}
			entries := app.history.Entries(cmd.Context())
			out := cmd.OutOrStdout()

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "No history")
				return nil
			}
			table := tablewriter.NewWriter(out)
			table.Header("#", "Type", "Timestamp", "Data")
			for i, e := range entries {
				if err := table.Append([]string{strconv.Itoa(i), e.Type, e.Timestamp, strconv.Quote(e.Data)}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	cmd.Flags().Bool("json", false, "Print entries as JSON")

	cmd.AddCommand(newHistoryShowCmd(app))
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.open(cmd); err != nil {
				return err
			}
			if err := app.history.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	})
	return cmd
}

func newHistoryShowCmd(app *cliApp) *cobra.Command {
	flags := &renderFlags{}
	var regenerate bool

	cmd := &cobra.Command{
		Use:   "show <index>",
		Short: "Show one history entry, optionally regenerating its QR code",
		Long: `Show prints the entry at index (0 is the most recent).
With --regenerate the stored payload is encoded again and saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index must be an integer: %q", args[0])
			}
			if err := app.open(cmd); err != nil {
				return err
			}

			entry, err := app.history.Get(cmd.Context(), index)
			if err != nil {
				return fmt.Errorf("%w: %d", err, index)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n%s\n", entry.Type, entry.Timestamp, entry.Data)

			if !regenerate {
				return nil
			}
			style, logo, err := flags.style(app.service.Style())
			if err != nil {
				return err
			}
			result, err := app.service.Generate(cmd.Context(), qr.Request{
				Payload: entry.Data,
				Kind:    payload.Kind(entry.Type),
				Style:   style,
				Logo:    logo,
			})
			if err != nil {
				return err
			}
			return flags.save(cmd, app, result)
		},
	}

	cmd.Flags().BoolVarP(&regenerate, "regenerate", "r", false, "Encode the entry again and save it")
	flags.register(cmd)
	return cmd
}
