// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseReply_Kinds(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantKind  ReplyKind
		wantBody  string
		wantCRC   uint16
		wantCodes []string
	}{
		{"okay", "OKAYA896", ReplyOkay, "OKAY", 0xA896, nil},
		{"okay with CR", "OKAYA896\r", ReplyOkay, "OKAY", 0xA896, nil},
		{"lowercase CRC digits", "OKAYa896", ReplyOkay, "OKAY", 0xA896, nil},
		{"reset", "RESETBE6F", ReplyReset, "RESET", 0xBE6F, nil},
		{"error", "ERROR133A42", ReplyError, "ERROR13", 0x3A42, []string{"13"}},
		{"multiple error codes", "ERROR010C7E45", ReplyError, "ERROR010C", 0x7E45, []string{"01", "0C"}},
		{"warning", "WARNING01C3CC", ReplyWarning, "WARNING01", 0xC3CC, []string{"01"}},
		{"apirev data", "G.001.0056001", ReplyData, "G.001.005", 0x6001, nil},
		{"phsr data", "040A0010B0010C0010D001ECFB", ReplyData, "040A0010B0010C0010D001", 0xECFB, nil},
		{"phsr no handles", "001414", ReplyData, "00", 0x1414, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseReply([]byte(tt.line))
			if err != nil {
				t.Fatalf("ParseReply(%q) error: %v", tt.line, err)
			}
			if r.Kind() != tt.wantKind {
				t.Errorf("Kind() = %s, want %s", r.Kind(), tt.wantKind)
			}
			if r.Body() != tt.wantBody {
				t.Errorf("Body() = %q, want %q", r.Body(), tt.wantBody)
			}
			if r.CRC() != tt.wantCRC {
				t.Errorf("CRC() = 0x%04X, want 0x%04X", r.CRC(), tt.wantCRC)
			}
			if !reflect.DeepEqual(r.Codes(), tt.wantCodes) {
				t.Errorf("Codes() = %v, want %v", r.Codes(), tt.wantCodes)
			}
			if r.Timestamp().IsZero() {
				t.Error("Timestamp() should be set")
			}
		})
	}
}

func TestParseReply_CRCMismatch(t *testing.T) {
	_, err := ParseReply([]byte("OKAYA897"))
	if !errors.Is(err, ErrCRCMismatch) {
		t.Fatalf("ParseReply = %v, want ErrCRCMismatch", err)
	}

	var crcErr *CRCError
	if !errors.As(err, &crcErr) {
		t.Fatalf("error should be *CRCError, got %T", err)
	}
	if crcErr.Expected != 0xA896 || crcErr.Received != 0xA897 {
		t.Errorf("CRCError = {0x%04X 0x%04X}, want {0xA896 0xA897}", crcErr.Expected, crcErr.Received)
	}
}

func TestParseReply_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"empty", "", ErrReplyTooShort},
		{"only CR", "\r", ErrReplyTooShort},
		{"three digits", "A89", ErrReplyTooShort},
		{"non-hex trailer", "OKAYZZZZ", ErrInvalidCRC},
		{"signed trailer", "OKAY+896", ErrInvalidCRC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReply([]byte(tt.line))
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseReply(%q) = %v, want %v", tt.line, err, tt.want)
			}
		})
	}
}

func TestParseReply_EmptyBody(t *testing.T) {
	// A bare CRC of the empty body (seed 0x0000)
	r, err := ParseReply([]byte("0000"))
	if err != nil {
		t.Fatalf("ParseReply error: %v", err)
	}
	if r.Kind() != ReplyData || r.Body() != "" {
		t.Errorf("got kind=%s body=%q, want empty DATA", r.Kind(), r.Body())
	}
}

func TestReply_Err(t *testing.T) {
	r, err := ParseReply([]byte("ERROR133A42"))
	if err != nil {
		t.Fatalf("ParseReply error: %v", err)
	}

	var devErr *DeviceError
	if !errors.As(r.Err(), &devErr) {
		t.Fatalf("Err() should be *DeviceError, got %T", r.Err())
	}
	if !reflect.DeepEqual(devErr.Codes, []string{"13"}) {
		t.Errorf("Codes = %v, want [13]", devErr.Codes)
	}

	ok, _ := ParseReply([]byte("OKAYA896"))
	if ok.Err() != nil {
		t.Errorf("OKAY reply Err() = %v, want nil", ok.Err())
	}
}

func TestReply_RawIsCopied(t *testing.T) {
	line := []byte("OKAYA896")
	r, err := ParseReply(line)
	if err != nil {
		t.Fatalf("ParseReply error: %v", err)
	}
	line[0] = 'X'
	if string(r.Raw()) != "OKAYA896" {
		t.Errorf("Raw() aliased the input buffer: %q", r.Raw())
	}
}

func TestReply_Lines(t *testing.T) {
	r, err := ParseReply([]byte("line1\nline2\n3911"))
	if err != nil {
		t.Fatalf("ParseReply error: %v", err)
	}
	want := []string{"line1", "line2"}
	if !reflect.DeepEqual(r.Lines(), want) {
		t.Errorf("Lines() = %q, want %q", r.Lines(), want)
	}
}

func TestReplyKind_String(t *testing.T) {
	kinds := map[ReplyKind]string{
		ReplyData:     "DATA",
		ReplyOkay:     "OKAY",
		ReplyError:    "ERROR",
		ReplyWarning:  "WARNING",
		ReplyReset:    "RESET",
		ReplyKind(99): "UNKNOWN",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("ReplyKind(%d).String() = %q, want %q", int(k), k.String(), want)
		}
	}
}

func TestDeviceError_Message(t *testing.T) {
	err := &DeviceError{Command: "PINIT", Codes: []string{"13", "FF"}}
	want := "PINIT: device error: 13 (Unable to initialize the port handle), FF (Unknown error)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSplitCodes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"0a", []string{"0A"}},
		{"010C", []string{"01", "0C"}},
		{"123", []string{"12", "3"}},
	}
	for _, tt := range tests {
		if got := splitCodes(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCodes(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
