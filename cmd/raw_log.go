// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/Thermoquad/aurorastat/pkg/aurora"
	"github.com/spf13/cobra"
)

var rawLogCmd = &cobra.Command{
	Use:   "raw_log",
	Short: "Display replies in human-readable format as they arrive",
	Long: `Continuously decode and display Aurora replies without sending anything.

Each CR-terminated reply is checked against its CRC trailer and printed with a
timestamp, its kind and its decoded body. Useful while another program drives
the system, or after a serial break.

Supports both serial and WebSocket connections.`,
	Args: cobra.NoArgs,
	RunE: runRawLog,
}

func init() {
	rootCmd.AddCommand(rawLogCmd)
}

func runRawLog(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Aurorastat - Raw Reply Log\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder := aurora.NewDecoder()
	buf := make([]byte, 128)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			// A closed WebSocket will not come back
			if errors.Is(err, ErrConnectionClosed) {
				log.Printf("Connection closed")
				return nil
			}
			log.Printf("Read error: %v", err)
			continue
		}

		decoder.Decode(buf[:n], func(reply *aurora.Reply, err error) {
			if err != nil {
				fmt.Printf("[ERROR] %v\n", err)
				return
			}
			fmt.Print(aurora.FormatReply(reply))
		})
	}
}
