// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"fmt"
	"strings"
)

// FormatCommand formats an outgoing command into a human-readable string
func FormatCommand(c Command) string {
	wire, err := c.Encode()
	if err != nil {
		return fmt.Sprintf("%s (invalid: %v)\n", c.String(), err)
	}
	return fmt.Sprintf("> %s  [%s]\n", c.String(), FormatWire(wire))
}

// FormatReply formats a reply into a human-readable string
func FormatReply(r *Reply) string {
	timestamp := r.timestamp.Format("15:04:05.000")
	result := fmt.Sprintf("[%s] %s crc=%04X\n", timestamp, r.kind, r.crc)

	switch r.kind {
	case ReplyError, ReplyWarning:
		for _, code := range r.codes {
			result += fmt.Sprintf("  * Code: %s - %s\n", code, DescribeErrorCode(code))
		}
	case ReplyData:
		for _, line := range r.Lines() {
			result += "  " + line + "\n"
		}
	}

	return result
}

// FormatReplyFor formats a reply, decoding the body for commands that have a
// structured reply format
func FormatReplyFor(c Command, r *Reply) string {
	result := FormatReply(r)
	if c.Name != CmdPHSR || r.kind != ReplyData {
		return result
	}

	handles, err := ParsePHSR(r.body)
	if err != nil {
		return result + fmt.Sprintf("  (PHSR decode failed: %v)\n", err)
	}
	result += formatPortHandles(handles)
	return result
}

func formatPortHandles(handles []PortHandle) string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("  Port handles: %d\n", len(handles)))
	for _, h := range handles {
		s.WriteString(fmt.Sprintf("    Handle %s: 0x%03X (%s)\n", h.Handle, uint16(h.Status), h.Status))
	}
	return s.String()
}

// FormatWire renders raw line bytes with CR and LF made visible
func FormatWire(data []byte) string {
	var s strings.Builder
	for _, b := range data {
		switch {
		case b == Terminator:
			s.WriteString(`\r`)
		case b == LineFeed:
			s.WriteString(`\n`)
		case b < 0x20 || b >= 0x7F:
			s.WriteString(fmt.Sprintf(`\x%02X`, b))
		default:
			s.WriteByte(b)
		}
	}
	return s.String()
}
