package main

import (
	"encoding/json"
	"fmt"

	"github.com/nikhilbhutani/voicediary/internal/config"
	"github.com/nikhilbhutani/voicediary/internal/diary"
	"github.com/nikhilbhutani/voicediary/internal/quality"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var (
		duration   int
		size       int64
		lang       string
		transcript string
	)

	cmd := &cobra.Command{
		Use:   "check --duration N --size N [--lang English] [--transcript TEXT]",
		Short: "Run the audio and transcript gates on the given input",
		Long: "Run the audio gate on a recording's duration and size and, when --transcript is set,\n" +
			"the transcript gate on its text. Exits 1 when the input is rejected.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gate, err := diary.GateFromConfig(cfg.Gate)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := gate.ValidateAudio(duration, size, quality.ParseLanguage(lang)); err != nil {
				return printRejection(cmd, err)
			}
			fmt.Fprintln(out, "audio: ok")

			if cmd.Flags().Changed("transcript") {
				if err := gate.ValidateTranscript(transcript, &duration); err != nil {
					return printRejection(cmd, err)
				}
				fmt.Fprintf(out, "transcript: ok (%d chars)\n", quality.NormalizedLength(transcript))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&duration, "duration", 0, "Recording duration in seconds")
	cmd.Flags().Int64Var(&size, "size", 0, "Audio file size in bytes")
	cmd.Flags().StringVar(&lang, "lang", "", "Message language (English or Chinese, default Chinese)")
	cmd.Flags().StringVar(&transcript, "transcript", "", "Transcript text to check")
	cmd.MarkFlagRequired("duration")
	cmd.MarkFlagRequired("size")

	return cmd
}

// printRejection writes the body the API would answer with.
func printRejection(cmd *cobra.Command, err error) error {
	rej, ok := quality.AsRejection(err)
	if !ok {
		return err
	}
	data, mErr := json.Marshal(map[string]any{"detail": rej.Detail()})
	if mErr != nil {
		return mErr
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rejected: %s\n%s\n", rej.Kind, data)
	return errRejected
}
