// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/Thermoquad/aurorastat/pkg/aurora"
	"github.com/spf13/cobra"
)

var pingCount int

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Measure round trips with ECHO commands",
	Long: `Send ECHO commands and check that each reply echoes the payload back.

This tests bidirectional traffic end to end. Each ping carries a sequence
number so a late reply from an earlier ping is not mistaken for the current
one.

Exit codes:
  0 - All pings successful
  1 - One or more pings failed or timed out
  2 - Connection error`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVar(&pingCount, "count", 3, "Number of pings to send")
}

// pingSummary reports replies and matching echoes separately; a mismatched
// echo still arrived
func pingSummary(sent, replies, successful int) string {
	var loss float64
	if sent > 0 {
		loss = float64(sent-successful) / float64(sent) * 100
	}
	return fmt.Sprintf("%d pings sent, %d replies received, %d successful, %.0f%% loss\n",
		sent, replies, successful, loss)
}

// pingPayload is the ECHO text for ping seq
func pingPayload(seq int) string {
	return fmt.Sprintf("PING%04d", seq)
}

func runPing(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Aurorastat - Echo Ping Test\n")
	fmt.Printf("Connection: %s\n", s.connInfo)
	fmt.Printf("Timeout: %d seconds per ping\n", commandTimeout)
	fmt.Printf("Count: %d pings\n\n", pingCount)

	stats := aurora.NewStatistics()
	successCount := 0
	replyCount := 0
	failCount := 0

	for i := 1; i <= pingCount; i++ {
		fmt.Printf("Ping %d/%d: ", i, pingCount)

		payload := pingPayload(i)
		ctx, cancel := commandContext()
		stats.RecordCommand()
		start := time.Now()
		reply, err := s.client.Do(ctx, aurora.NewEcho(payload))
		rtt := time.Since(start)
		cancel()
		stats.Update(reply, err, rtt)
		if reply != nil {
			replyCount++
		}

		switch {
		case err != nil:
			fmt.Printf("FAILED: %v\n", err)
			failCount++
		case reply.Body() != payload:
			fmt.Printf("MISMATCH: sent %q, got %q\n", payload, reply.Body())
			failCount++
		default:
			fmt.Printf("echo %q, rtt=%v\n", reply.Body(), rtt.Round(time.Millisecond))
			successCount++
		}

		// Small delay between pings
		if i < pingCount {
			time.Sleep(100 * time.Millisecond)
		}
	}
	s.Close()

	// Summary
	fmt.Printf("\n--- Ping statistics ---\n")
	fmt.Print(pingSummary(pingCount, replyCount, successCount))
	fmt.Print(stats.String())

	if failCount > 0 {
		os.Exit(1)
	}
	return nil
}
