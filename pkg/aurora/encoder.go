// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"fmt"
	"strings"

	"github.com/Thermoquad/aurorastat/pkg/crc16"
)

// Command is a single Aurora API call
type Command struct {
	Name   string
	Params string
}

// String returns the command as typed by a user, without CRC or terminator
func (c Command) String() string {
	if c.Params == "" {
		return c.Name
	}
	return c.Name + " " + c.Params
}

// Validate checks the command name and parameters
func (c Command) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidCommand)
	}
	for i := 0; i < len(c.Name); i++ {
		ch := c.Name[i]
		if !(ch >= 'A' && ch <= 'Z') && !(ch >= '0' && ch <= '9') {
			return fmt.Errorf("%w: name %q contains %q", ErrInvalidCommand, c.Name, ch)
		}
	}
	if len(c.Params) > MaxParamsSize {
		return fmt.Errorf("%w: params too long: %d bytes (max %d)", ErrInvalidCommand, len(c.Params), MaxParamsSize)
	}
	if strings.ContainsAny(c.Params, "\r\n") {
		return fmt.Errorf("%w: params contain a line terminator", ErrInvalidCommand)
	}
	return nil
}

// Encode returns the wire form NAME:PARAMS<CRC16><CR>
func (c Command) Encode() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	body := make([]byte, 0, len(c.Name)+1+len(c.Params)+CRCDigits+1)
	body = append(body, c.Name...)
	body = append(body, SepCRC)
	body = append(body, c.Params...)

	crc := crc16.Checksum(body)
	body = append(body, fmt.Sprintf("%04X", crc)...)
	return append(body, Terminator), nil
}

// EncodePlain returns the CRC-less wire form NAME PARAMS<CR>
func (c Command) EncodePlain() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	body := make([]byte, 0, len(c.Name)+1+len(c.Params)+1)
	body = append(body, c.Name...)
	body = append(body, SepPlain)
	body = append(body, c.Params...)
	return append(body, Terminator), nil
}

// MustEncode encodes a command, panicking on error.
// Only intended for commands built by this package's constructors.
func MustEncode(c Command) []byte {
	data, err := c.Encode()
	if err != nil {
		panic(fmt.Sprintf("aurora: encode error: %v", err))
	}
	return data
}

// ParseCommand splits user input at the first space or colon.
// The name is upper-cased; parameters are kept verbatim.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	line = strings.TrimLeft(line, " ")

	var c Command
	if i := strings.IndexAny(line, " :"); i >= 0 {
		c.Name = line[:i]
		c.Params = line[i+1:]
	} else {
		c.Name = line
	}
	c.Name = strings.ToUpper(c.Name)

	if err := c.Validate(); err != nil {
		return Command{}, err
	}
	return c, nil
}
