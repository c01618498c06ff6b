// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	ErrReplyTooShort  = errors.New("reply shorter than CRC trailer")
	ErrReplyOverflow  = errors.New("reply exceeds max size")
	ErrInvalidCRC     = errors.New("invalid CRC digits")
	ErrCRCMismatch    = errors.New("CRC mismatch")
	ErrInvalidCommand = errors.New("invalid command")
	ErrClientClosed   = errors.New("client closed")
)

// CRCError reports a reply whose trailer does not match its body
type CRCError struct {
	Expected uint16 // calculated over the body
	Received uint16 // parsed from the trailer
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("CRC mismatch: expected 0x%04X, got 0x%04X", e.Expected, e.Received)
}

// Is makes errors.Is(err, ErrCRCMismatch) match
func (e *CRCError) Is(target error) bool {
	return target == ErrCRCMismatch
}

// DeviceError is returned for ERROR replies
type DeviceError struct {
	Command string
	Codes   []string
}

func (e *DeviceError) Error() string {
	parts := make([]string, 0, len(e.Codes))
	for _, code := range e.Codes {
		parts = append(parts, fmt.Sprintf("%s (%s)", code, DescribeErrorCode(code)))
	}
	detail := strings.Join(parts, ", ")
	if e.Command == "" {
		return "device error: " + detail
	}
	return fmt.Sprintf("%s: device error: %s", e.Command, detail)
}

// splitCodes splits a run of two-character codes; a trailing odd character
// is kept as its own code so nothing is silently dropped
func splitCodes(s string) []string {
	codes := make([]string, 0, (len(s)+1)/2)
	for i := 0; i < len(s); i += 2 {
		end := i + 2
		if end > len(s) {
			end = len(s)
		}
		codes = append(codes, strings.ToUpper(s[i:end]))
	}
	return codes
}
