// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive TUI for sending Aurora commands",
	Long: `Talk to an Aurora system through an interactive terminal UI.

Type a command such as APIREV, "VER 4" or PHSR:00 and press Enter. The CRC
trailer is added automatically and every reply is checked and decoded.

Features:
  - Command input with history (Up/Down)
  - Decoded replies, error codes and port handle status
  - Statistics tracking
  - Session transcript with --record

Supports both serial and WebSocket connections.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
	// Client logs would tear the alternate screen
	s, err := openSessionLogging(io.Discard)
	if err != nil {
		return err
	}
	defer s.Close()

	m := initialConsoleModel(s.client, s.connInfo)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Tell the TUI when the reader stops
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-s.client.Done():
			p.Send(connectionLostMsg{})
		case <-stop:
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}
