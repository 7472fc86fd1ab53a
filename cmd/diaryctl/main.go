// Command diaryctl runs the diary quality gates and inspects stored entries
// from the shell.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nikhilbhutani/voicediary/internal/config"
	"github.com/spf13/cobra"
)

// errRejected makes the process exit 1 after the rejection was printed.
var errRejected = errors.New("input rejected")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "diaryctl",
		Short:         "Voice diary quality gate and inspection tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(os.Getenv("DOTENV_PATH"))
		},
	}

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newNormalizeCmd())
	rootCmd.AddCommand(newCountCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
