// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Thermoquad/aurorastat/pkg/crc16"
	"github.com/spf13/cobra"
)

const defaultSeed = crc16.RegisterInit

var (
	crcInit string
	crcHex  bool
)

var crcCmd = &cobra.Command{
	Use:   "crc [text...]",
	Short: "Print the CRC16 of a text",
	Long: `Compute the CRC16 of a text using the nibble-parity CRC-16/ARC update.

Multiple arguments are joined with single spaces. With no arguments the text
is 'RESET'. The register is seeded with 0xFFFF unless --init is given; Aurora
command and reply trailers use --init 0.

Examples:
  aurorastat crc
  aurorastat crc --init 0 --hex "BEEP:1"`,
	RunE: runCRC,
}

func init() {
	rootCmd.AddCommand(crcCmd)
	crcCmd.Flags().StringVar(&crcInit, "init", "0xFFFF", "Initial register value (decimal or 0x hex)")
	crcCmd.Flags().BoolVar(&crcHex, "hex", false, "Also print the value as a four-digit wire trailer")
}

func runCRC(cmd *cobra.Command, args []string) error {
	text := demoText
	if len(args) > 0 {
		text = strings.Join(args, " ")
	}

	seed, err := parseSeed(crcInit)
	if err != nil {
		return err
	}

	return printChecksum(cmd.OutOrStdout(), text, seed, crcHex)
}

// parseSeed parses a 16-bit register value in decimal, 0x hex or 0 octal
func parseSeed(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid --init value %q: must be a 16-bit number", s)
	}
	return uint16(v), nil
}

// checksumText folds the bytes of text into the register starting at seed.
// Only 7-bit ASCII is accepted so every character is exactly one byte.
func checksumText(text string, seed uint16) (uint16, error) {
	for i := 0; i < len(text); i++ {
		if text[i] >= 0x80 {
			return 0, fmt.Errorf("text contains non-ASCII byte 0x%02X at offset %d", text[i], i)
		}
	}
	return crc16.Sum(seed, []byte(text)), nil
}

// formatChecksumLine renders the one-line CRC report
func formatChecksumLine(text string, crc uint16) string {
	return fmt.Sprintf("The CRC16 of '%s' is %d.", text, crc)
}

func printChecksum(w io.Writer, text string, seed uint16, withHex bool) error {
	crc, err := checksumText(text, seed)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, formatChecksumLine(text, crc))
	if withHex {
		fmt.Fprintf(w, "Wire trailer: %04X\n", crc)
	}
	return nil
}
