// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"fmt"
	"strconv"
	"strings"
)

// PortStatus is the 12-bit status reported for each port handle by PHSR
type PortStatus uint16

// Port status bits
const (
	PortOccupied    PortStatus = 0x001
	PortGPIO1       PortStatus = 0x002
	PortGPIO2       PortStatus = 0x004
	PortGPIO3       PortStatus = 0x008
	PortInitialized PortStatus = 0x010
	PortEnabled     PortStatus = 0x020
)

var portStatusNames = []struct {
	bit  PortStatus
	name string
}{
	{PortOccupied, "occupied"},
	{PortGPIO1, "gpio1"},
	{PortGPIO2, "gpio2"},
	{PortGPIO3, "gpio3"},
	{PortInitialized, "initialized"},
	{PortEnabled, "enabled"},
}

// Has reports whether all bits in flag are set
func (s PortStatus) Has(flag PortStatus) bool {
	return s&flag == flag
}

func (s PortStatus) String() string {
	if s == 0 {
		return "none"
	}
	parts := []string{}
	rest := s
	for _, n := range portStatusNames {
		if s&n.bit != 0 {
			parts = append(parts, n.name)
			rest &^= n.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%03X", uint16(rest)))
	}
	return strings.Join(parts, "|")
}

// PortHandle is one entry of a PHSR reply
type PortHandle struct {
	Handle string // Two hex digits, e.g. "0A"
	Status PortStatus
}

// PHSR field widths
const (
	phsrCountDigits  = 2
	phsrHandleDigits = 2
	phsrStatusDigits = 3
)

// ParsePHSR decodes a PHSR reply body (CRC already removed)
func ParsePHSR(body string) ([]PortHandle, error) {
	if len(body) < phsrCountDigits {
		return nil, fmt.Errorf("PHSR reply too short: %q", body)
	}

	count, err := strconv.ParseUint(body[:phsrCountDigits], 16, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid PHSR handle count %q: %w", body[:phsrCountDigits], err)
	}

	entrySize := phsrHandleDigits + phsrStatusDigits
	rest := body[phsrCountDigits:]
	if len(rest) != int(count)*entrySize {
		return nil, fmt.Errorf("PHSR reply length mismatch: %d handles need %d bytes, got %d",
			count, int(count)*entrySize, len(rest))
	}

	handles := make([]PortHandle, 0, count)
	for i := 0; i < int(count); i++ {
		entry := rest[i*entrySize : (i+1)*entrySize]
		handle := strings.ToUpper(entry[:phsrHandleDigits])
		status, err := strconv.ParseUint(entry[phsrHandleDigits:], 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid status for port handle %s: %w", handle, err)
		}
		handles = append(handles, PortHandle{Handle: handle, Status: PortStatus(status)})
	}

	return handles, nil
}
