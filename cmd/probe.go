// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Thermoquad/aurorastat/pkg/aurora"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test the connection by asking the system for its API revision",
	Long: `Send APIREV and wait for a valid reply until --timeout.

Any reply ending in a matching CRC counts, including a device ERROR.
Unterminated bytes received before the command are dropped, and corrupted
lines are skipped while waiting.

Exit codes:
  0 - Valid reply received before timeout
  1 - Timeout reached without a valid reply
  2 - Connection error

Useful for checking the cable, the baud rate and the WebSocket bridge.`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Aurorastat - Probe\n")
	fmt.Printf("Connection: %s\n", s.connInfo)
	fmt.Printf("Timeout: %d seconds\n", commandTimeout)
	fmt.Printf("Waiting for APIREV reply...\n\n")

	ctx, cancel := commandContext()
	start := time.Now()
	reply, skipped, err := awaitProbeReply(ctx, s.client)
	rtt := time.Since(start)
	cancel()
	s.Close()

	if skipped > 0 {
		fmt.Printf("(skipped %d corrupted replies)\n", skipped)
	}

	switch {
	case reply != nil:
		// A device ERROR still proves the line works
		fmt.Printf("SUCCESS: Received valid reply\n")
		fmt.Printf("  Reply: %s %q\n", reply.Kind(), reply.Body())
		fmt.Printf("  Round trip: %v\n", rtt.Round(time.Millisecond))
		os.Exit(0)

	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No valid reply within %d seconds\n", commandTimeout)
		os.Exit(1)

	case errors.Is(err, aurora.ErrClientClosed):
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(2)

	default:
		fmt.Fprintf(os.Stderr, "FAILED: %v\n", err)
		os.Exit(1)
	}

	return nil
}

// awaitProbeReply sends APIREV and returns the first CRC-valid reply,
// skipping corrupted lines until ctx expires
func awaitProbeReply(ctx context.Context, client *aurora.Client) (*aurora.Reply, int, error) {
	reply, err := client.Do(ctx, aurora.NewAPIRev())
	skipped := 0
	for err != nil && aurora.IsLineError(err) {
		skipped++
		reply, err = client.Wait(ctx)
	}
	return reply, skipped, err
}
