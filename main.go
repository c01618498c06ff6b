// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Aurorastat - NDI Aurora Serial Protocol Tool
//
// Prints the CRC16 of 'RESET' when run without arguments. Subcommands send
// Aurora API calls and decode the CRC-checked replies.

package main

import (
	"os"

	"github.com/Thermoquad/aurorastat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
