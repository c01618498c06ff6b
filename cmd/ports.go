// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Long: `List the serial ports on this machine.

USB adapters are shown with their vendor and product IDs, which helps pick
the right --port for an Aurora on a USB-serial cable.`,
	Args: cobra.NoArgs,
	RunE: runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return fmt.Errorf("failed to list serial ports: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(ports) == 0 {
		fmt.Fprintln(w, "No serial ports found")
		return nil
	}

	for _, port := range ports {
		if !port.IsUSB {
			fmt.Fprintf(w, "%s\n", port.Name)
			continue
		}
		fmt.Fprintf(w, "%s  USB %s:%s", port.Name, port.VID, port.PID)
		if port.SerialNumber != "" {
			fmt.Fprintf(w, "  serial=%s", port.SerialNumber)
		}
		if port.Product != "" {
			fmt.Fprintf(w, "  %s", port.Product)
		}
		fmt.Fprintln(w)
	}
	return nil
}
