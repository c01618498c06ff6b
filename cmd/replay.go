// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Thermoquad/aurorastat/pkg/aurora"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <transcript>",
	Short: "Print a transcript recorded with --record",
	Long: `Read a CBOR transcript written by --record and print every entry.

Outgoing bytes are shown as sent. Incoming bytes are run through the reply
decoder again, so CRC failures seen during the session show up here too.
No connection flags are needed.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open transcript: %w", err)
	}
	defer f.Close()

	summary, err := replayTranscript(f, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", summary)
	return nil
}

// replaySummary counts what a transcript contained
type replaySummary struct {
	Entries int
	Sent    int
	Replies int
	Errors  int
}

func (r replaySummary) String() string {
	return fmt.Sprintf("%d entries: %d sent, %d replies, %d errors", r.Entries, r.Sent, r.Replies, r.Errors)
}

// replayTranscript prints every entry of a transcript to w
func replayTranscript(r io.Reader, w io.Writer) (replaySummary, error) {
	var summary replaySummary
	reader := aurora.NewTranscriptReader(r)
	decoder := aurora.NewDecoder()

	for {
		entry, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return summary, nil
		}
		if err != nil {
			return summary, err
		}
		summary.Entries++

		switch entry.Direction {
		case aurora.DirectionTx:
			summary.Sent++
			fmt.Fprintf(w, "%s TX %s\n", entry.Time.Format("15:04:05.000"), aurora.FormatWire(entry.Data))

		case aurora.DirectionRx:
			fmt.Fprintf(w, "%s RX %s\n", entry.Time.Format("15:04:05.000"), aurora.FormatWire(entry.Data))
			decoder.Decode(entry.Data, func(reply *aurora.Reply, err error) {
				if err != nil {
					summary.Errors++
					fmt.Fprintf(w, "  [ERROR] %v\n", err)
					return
				}
				summary.Replies++
				fmt.Fprint(w, aurora.FormatReply(reply))
			})

		default:
			fmt.Fprintf(w, "%s %s (unknown direction %d)\n", entry.Time.Format("15:04:05.000"),
				aurora.FormatWire(entry.Data), entry.Direction)
		}
	}
}
