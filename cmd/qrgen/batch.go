package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prasetyowira/qrgen/domain/qr"
	"github.com/prasetyowira/qrgen/infrastructure/output"
	"github.com/spf13/cobra"
)

func newBatchCmd(app *cliApp) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Generate one QR code per input line",
		Long: `Batch reads one input per line from file (or stdin when file is omitted
or "-") and writes qr_batch_01.png, qr_batch_02.png, ... into --dir.

Blank lines are skipped. Items that fail are reported and do not stop the run.
Batch codes use the configured style, carry no logo and are not added to history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			lines := qr.SplitBatch(string(data))
			if len(lines) == 0 {
				return errors.New("no input lines")
			}

			if err := app.open(cmd); err != nil {
				return err
			}
			sink, err := output.NewDirSink(dir)
			if err != nil {
				return err
			}

			report := app.service.Batch(cmd.Context(), lines, sink)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d of %d QR codes in %s\n", report.SuccessCount, report.Total, dir)
			for _, f := range report.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "  item %d %q: %v\n", f.Index, f.Input, f.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Output directory")
	return cmd
}
