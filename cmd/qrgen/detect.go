package main

import (
	"fmt"

	"github.com/prasetyowira/qrgen/domain/classifier"
	"github.com/spf13/cobra"
)

// sampleInputs are classified when detect is run without arguments.
var sampleInputs = []string{"playerkomona.top", "google.com", "test.org", "ac.ke", "example.com"}

// NewDetectCmd creates the detect command.
func NewDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [input...]",
		Short: "Show how inputs are classified",
		Long: `Detect prints the detected type and the payload that would be encoded
for each input, one per line:

  'example.com' -> website: https://example.com

With no arguments a built-in list of domain samples is checked.
Use --rules to print the detection rules in the order they are tried.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if rules, _ := cmd.Flags().GetBool("rules"); rules {
				for i, name := range classifier.RuleNames() {
					fmt.Fprintf(out, "%d. %s\n", i+1, name)
				}
				return nil
			}

			inputs := args
			if len(inputs) == 0 {
				inputs = sampleInputs
			}
			for _, input := range inputs {
				res := classifier.Classify(input)
				fmt.Fprintf(out, "'%s' -> %s: %s\n", input, res.Kind, res.Payload)
			}
			return nil
		},
	}

	cmd.Flags().Bool("rules", false, "List detection rules in priority order")
	return cmd
}
