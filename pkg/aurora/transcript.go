// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Direction of a transcript entry relative to the host
type Direction uint8

// Directions
const (
	DirectionTx Direction = 0 // Host → Aurora
	DirectionRx Direction = 1 // Aurora → Host
)

func (d Direction) String() string {
	switch d {
	case DirectionTx:
		return "TX"
	case DirectionRx:
		return "RX"
	default:
		return "??"
	}
}

// Entry is one recorded exchange on the line.
// Encoded as a CBOR map with integer keys to keep transcripts compact.
type Entry struct {
	Time      time.Time `cbor:"0,keyasint"`
	Direction Direction `cbor:"1,keyasint"`
	Data      []byte    `cbor:"2,keyasint"`
}

// Recorder appends entries to a CBOR sequence
type Recorder struct {
	mu  sync.Mutex
	enc *cbor.Encoder
}

// NewRecorder creates a recorder writing to w
func NewRecorder(w io.Writer) (*Recorder, error) {
	mode, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}
	return &Recorder{enc: mode.NewEncoder(w)}, nil
}

// Record appends one entry. Safe for concurrent use.
func (r *Recorder) Record(dir Direction, data []byte) error {
	entry := Entry{
		Time:      time.Now(),
		Direction: dir,
		Data:      append([]byte(nil), data...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(entry); err != nil {
		return fmt.Errorf("failed to record %s entry: %w", dir, err)
	}
	return nil
}

// TranscriptReader iterates over a recorded CBOR sequence
type TranscriptReader struct {
	dec *cbor.Decoder
}

// NewTranscriptReader creates a reader over r
func NewTranscriptReader(r io.Reader) *TranscriptReader {
	return &TranscriptReader{dec: cbor.NewDecoder(r)}
}

// Next returns the next entry, or io.EOF at the end of the transcript
func (t *TranscriptReader) Next() (*Entry, error) {
	var entry Entry
	if err := t.dec.Decode(&entry); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to decode transcript entry: %w", err)
	}
	return &entry, nil
}
