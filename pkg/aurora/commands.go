// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"fmt"
	"strconv"
)

// Command builder functions create Command values ready for encoding.

// NewAPIRev creates an APIREV command.
// The reply is the API revision string.
func NewAPIRev() Command {
	return Command{Name: CmdAPIRev}
}

// NewBeep creates a BEEP command.
// The number of beeps is clamped to MinBeeps..MaxBeeps.
func NewBeep(count int) Command {
	if count < MinBeeps {
		count = MinBeeps
	} else if count > MaxBeeps {
		count = MaxBeeps
	}
	return Command{Name: CmdBeep, Params: strconv.Itoa(count)}
}

// NewEcho creates an ECHO command. The system replies with the same text.
func NewEcho(text string) Command {
	return Command{Name: CmdEcho, Params: text}
}

// NewInit creates an INIT command
func NewInit() Command {
	return Command{Name: CmdInit}
}

// NewPHSR creates a PHSR command reporting port handles matching option
func NewPHSR(option PHSROption) Command {
	return Command{Name: CmdPHSR, Params: fmt.Sprintf("%02X", int(option))}
}

// NewReset creates a RESET command.
// The system answers with a RESET reply once it has restarted.
func NewReset() Command {
	return Command{Name: CmdReset}
}

// NewTStart creates a TSTART command
func NewTStart() Command {
	return Command{Name: CmdTStart}
}

// NewTStop creates a TSTOP command
func NewTStop() Command {
	return Command{Name: CmdTStop}
}

// NewVer creates a VER command for one of the reply options in VerOptions
func NewVer(option int) (Command, error) {
	for _, valid := range VerOptions {
		if option == valid {
			return Command{Name: CmdVer, Params: strconv.Itoa(option)}, nil
		}
	}
	return Command{}, fmt.Errorf("%w: VER does not have reply option %d (valid: %v)", ErrInvalidCommand, option, VerOptions)
}
