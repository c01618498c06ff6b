// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Session flags
	commandTimeout int
	recordPath     string
)

// demoText is checksummed when the tool is run without a subcommand
const demoText = "RESET"

var rootCmd = &cobra.Command{
	Use:   "aurorastat",
	Short: "NDI Aurora serial protocol tool",
	Long: `Aurorastat - A CLI tool for talking to NDI Aurora tracking systems.

Every Aurora command and reply carries a CRC-16/ARC trailer. Run without a
subcommand, aurorastat prints the CRC16 of 'RESET'. Subcommands send API
calls, decode replies, and record sessions.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 9600]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the AURORA_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version:      "1.0.0",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDemo,
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 9600, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Session flags
	rootCmd.PersistentFlags().IntVar(&commandTimeout, "timeout", 5, "Seconds to wait for each reply")
	rootCmd.PersistentFlags().StringVar(&recordPath, "record", "", "Write a CBOR transcript of the session to this file")
}

func runDemo(cmd *cobra.Command, args []string) error {
	return printChecksum(cmd.OutOrStdout(), demoText, defaultSeed, false)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
