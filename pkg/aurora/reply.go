// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Thermoquad/aurorastat/pkg/crc16"
)

// ReplyKind classifies a decoded reply
type ReplyKind int

// Reply kinds
const (
	ReplyData ReplyKind = iota
	ReplyOkay
	ReplyError
	ReplyWarning
	ReplyReset
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyData:
		return "DATA"
	case ReplyOkay:
		return "OKAY"
	case ReplyError:
		return "ERROR"
	case ReplyWarning:
		return "WARNING"
	case ReplyReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

// Reply represents a decoded, CRC-checked Aurora reply
type Reply struct {
	raw       []byte // body + CRC digits, no terminator
	body      string
	crc       uint16
	kind      ReplyKind
	codes     []string
	timestamp time.Time
}

// ParseReply decodes one reply line. A trailing CR is accepted and ignored.
// The CRC trailer is validated against the body.
func ParseReply(line []byte) (*Reply, error) {
	if n := len(line); n > 0 && line[n-1] == Terminator {
		line = line[:n-1]
	}
	if len(line) < CRCDigits {
		return nil, fmt.Errorf("%w: %d bytes", ErrReplyTooShort, len(line))
	}

	split := len(line) - CRCDigits
	body := line[:split]
	trailer := string(line[split:])

	received, err := strconv.ParseUint(trailer, 16, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCRC, trailer)
	}

	calculated := crc16.Checksum(body)
	if uint16(received) != calculated {
		return nil, &CRCError{Expected: calculated, Received: uint16(received)}
	}

	raw := make([]byte, len(line))
	copy(raw, line)

	r := &Reply{
		raw:       raw,
		body:      string(body),
		crc:       calculated,
		timestamp: time.Now(),
	}
	r.classify()
	return r, nil
}

func (r *Reply) classify() {
	switch {
	case r.body == replyOkay:
		r.kind = ReplyOkay
	case r.body == replyReset:
		r.kind = ReplyReset
	case strings.HasPrefix(r.body, replyError):
		r.kind = ReplyError
		r.codes = splitCodes(r.body[len(replyError):])
	case strings.HasPrefix(r.body, replyWarning):
		r.kind = ReplyWarning
		r.codes = splitCodes(r.body[len(replyWarning):])
	default:
		r.kind = ReplyData
	}
}

// asData reclassifies the reply as a plain data body
func (r *Reply) asData() {
	r.kind = ReplyData
	r.codes = nil
}

// Kind returns the reply classification
func (r *Reply) Kind() ReplyKind {
	return r.kind
}

// Body returns the reply text preceding the CRC
func (r *Reply) Body() string {
	return r.body
}

// Lines splits a multi-line data body at line feeds
func (r *Reply) Lines() []string {
	return strings.Split(strings.TrimRight(r.body, "\n"), "\n")
}

// CRC returns the reply's CRC value
func (r *Reply) CRC() uint16 {
	return r.crc
}

// Codes returns the codes of an ERROR or WARNING reply
func (r *Reply) Codes() []string {
	return r.codes
}

// Raw returns the reply bytes as received, excluding the terminator
func (r *Reply) Raw() []byte {
	return r.raw
}

// Timestamp returns the reply's decode timestamp
func (r *Reply) Timestamp() time.Time {
	return r.timestamp
}

// Err returns a *DeviceError for ERROR replies and nil otherwise
func (r *Reply) Err() error {
	if r.kind != ReplyError {
		return nil
	}
	return &DeviceError{Codes: r.codes}
}
