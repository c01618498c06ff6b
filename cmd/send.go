// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"strings"

	"github.com/Thermoquad/aurorastat/pkg/aurora"
	"github.com/spf13/cobra"
)

var sendPlain bool

var sendCmd = &cobra.Command{
	Use:   "send <command> [params]",
	Short: "Send an arbitrary Aurora command",
	Long: `Send any Aurora command and print the decoded reply.

The command name and its parameters may be separated by a space or a colon.
The CRC trailer and terminator are added automatically. With --plain the
command is sent in the space-separated form without a CRC.

Examples:
  aurorastat send -p /dev/ttyUSB0 APIREV
  aurorastat send -p /dev/ttyUSB0 "VER 4"
  aurorastat send -p /dev/ttyUSB0 PHSR:00`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().BoolVar(&sendPlain, "plain", false, "Send without CRC using a space separator")
}

func runSend(cmd *cobra.Command, args []string) error {
	c, err := aurora.ParseCommand(strings.Join(args, " "))
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	return exchange(cmd.OutOrStdout(), s.client, c, sendPlain)
}
