// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"errors"
	"strings"
	"testing"
)

func TestCommandEncode_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"beep", NewBeep(1), "BEEP:18404\r"},
		{"init", NewInit(), "INIT:E3A5\r"},
		{"tstart", NewTStart(), "TSTART:5423\r"},
		{"tstop", NewTStop(), "TSTOP:2C14\r"},
		{"apirev", NewAPIRev(), "APIREV:443E\r"},
		{"reset", NewReset(), "RESET:3F7E\r"},
		{"phsr all", NewPHSR(PHSRAll), "PHSR:0020FF\r"},
		{"echo", NewEcho("Testing!"), "ECHO:Testing!B28C\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.Encode()
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandEncode_Ver(t *testing.T) {
	cmd, err := NewVer(4)
	if err != nil {
		t.Fatalf("NewVer(4) error: %v", err)
	}
	if got := string(MustEncode(cmd)); got != "VER:4A6EF\r" {
		t.Errorf("Encode() = %q, want %q", got, "VER:4A6EF\r")
	}
}

func TestCommandEncode_TrailerValidatesAsReply(t *testing.T) {
	// Commands and replies share the CRC trailer, so every encoded command
	// must pass reply CRC validation
	cmds := []Command{NewAPIRev(), NewBeep(3), NewEcho("abc 123"), NewInit(), NewPHSR(PHSRNotEnabled), NewReset()}
	for _, cmd := range cmds {
		wire := MustEncode(cmd)
		if _, err := ParseReply(wire); err != nil {
			t.Errorf("%s: encoded command failed CRC validation: %v", cmd.Name, err)
		}
	}
}

func TestCommandEncodePlain(t *testing.T) {
	got, err := NewBeep(1).EncodePlain()
	if err != nil {
		t.Fatalf("EncodePlain error: %v", err)
	}
	if string(got) != "BEEP 1\r" {
		t.Errorf("EncodePlain() = %q, want %q", got, "BEEP 1\r")
	}

	got, err = NewInit().EncodePlain()
	if err != nil {
		t.Fatalf("EncodePlain error: %v", err)
	}
	if string(got) != "INIT \r" {
		t.Errorf("EncodePlain() = %q, want %q", got, "INIT \r")
	}
}

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr bool
	}{
		{"valid", Command{Name: "BEEP", Params: "1"}, false},
		{"digits in name", Command{Name: "3D"}, false},
		{"empty name", Command{}, true},
		{"lowercase name", Command{Name: "beep"}, true},
		{"space in name", Command{Name: "BE EP"}, true},
		{"CR in params", Command{Name: "ECHO", Params: "a\rb"}, true},
		{"LF in params", Command{Name: "ECHO", Params: "a\nb"}, true},
		{"params too long", Command{Name: "ECHO", Params: strings.Repeat("x", MaxParamsSize+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCommand) {
					t.Errorf("Validate() = %v, want ErrInvalidCommand", err)
				}
				if _, encErr := tt.cmd.Encode(); encErr == nil {
					t.Error("Encode() should fail for invalid command")
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestMustEncode_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustEncode should panic for an invalid command")
		}
	}()
	MustEncode(Command{})
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input      string
		wantName   string
		wantParams string
	}{
		{"beep 1", "BEEP", "1"},
		{"PHSR:00", "PHSR", "00"},
		{"INIT", "INIT", ""},
		{"  tstop", "TSTOP", ""},
		{"echo hello world", "ECHO", "hello world"},
		{"ver 4\r\n", "VER", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := ParseCommand(tt.input)
			if err != nil {
				t.Fatalf("ParseCommand(%q) error: %v", tt.input, err)
			}
			if cmd.Name != tt.wantName || cmd.Params != tt.wantParams {
				t.Errorf("ParseCommand(%q) = {%q %q}, want {%q %q}",
					tt.input, cmd.Name, cmd.Params, tt.wantName, tt.wantParams)
			}
		})
	}
}

func TestParseCommand_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "be-ep 1"} {
		if _, err := ParseCommand(input); !errors.Is(err, ErrInvalidCommand) {
			t.Errorf("ParseCommand(%q) = %v, want ErrInvalidCommand", input, err)
		}
	}
}

func TestCommandString(t *testing.T) {
	if got := NewBeep(2).String(); got != "BEEP 2" {
		t.Errorf("String() = %q, want %q", got, "BEEP 2")
	}
	if got := NewInit().String(); got != "INIT" {
		t.Errorf("String() = %q, want %q", got, "INIT")
	}
}
