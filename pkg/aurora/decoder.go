// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import "fmt"

// Decoder splits a byte stream into CR-terminated replies
type Decoder struct {
	buffer     []byte
	discarding bool // Overflowed; drop bytes until the next terminator
}

// NewDecoder creates a new reply decoder
func NewDecoder() *Decoder {
	return &Decoder{
		buffer: make([]byte, 0, 256),
	}
}

// Reset drops any partially received reply
func (d *Decoder) Reset() {
	d.buffer = d.buffer[:0]
	d.discarding = false
}

// GetRawBytes returns the bytes accumulated since the last terminator
func (d *Decoder) GetRawBytes() []byte {
	return d.buffer
}

// DecodeByte processes a single byte.
// Returns a completed reply, or nil if the reply is incomplete.
// Returns an error if the reply is malformed or fails its CRC check.
func (d *Decoder) DecodeByte(b byte) (*Reply, error) {
	if b == Terminator {
		if d.discarding {
			d.Reset()
			return nil, nil
		}
		if len(d.buffer) == 0 {
			// Stray terminator between replies
			return nil, nil
		}
		reply, err := ParseReply(d.buffer)
		d.Reset()
		return reply, err
	}

	if d.discarding {
		return nil, nil
	}

	if len(d.buffer) >= MaxReplySize {
		d.buffer = d.buffer[:0]
		d.discarding = true
		return nil, fmt.Errorf("%w: more than %d bytes without terminator", ErrReplyOverflow, MaxReplySize)
	}

	d.buffer = append(d.buffer, b)
	return nil, nil
}

// Decode feeds a chunk of bytes through the decoder, calling fn for every
// completed reply or decode error
func (d *Decoder) Decode(data []byte, fn func(*Reply, error)) {
	for _, b := range data {
		reply, err := d.DecodeByte(b)
		if err != nil || reply != nil {
			fn(reply, err)
		}
	}
}
