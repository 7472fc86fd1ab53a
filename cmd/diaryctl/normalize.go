package main

import (
	"fmt"
	"strings"

	"github.com/nikhilbhutani/voicediary/internal/quality"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize TEXT...",
		Short: "Print a transcript with whitespace and punctuation removed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized := quality.Normalize(strings.Join(args, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nlength: %d\n", normalized, quality.NormalizedLength(normalized))
			return nil
		},
	}
}
