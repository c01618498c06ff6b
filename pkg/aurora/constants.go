// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package aurora implements the NDI Aurora serial command protocol.
//
// Commands are ASCII lines of the form NAME:PARAMS<CRC16><CR>, where CRC16 is
// the CRC-16/ARC of everything before it written as four hex digits. Replies
// use the same trailer: OKAY<CRC16><CR>, ERROR<code><CRC16><CR>, or a
// command-specific data body followed by its CRC. This package provides
// command encoding, reply decoding and CRC validation, a synchronous client,
// and a CBOR session transcript format.
package aurora

// Framing
const (
	Terminator    = '\r'
	LineFeed      = '\n'
	CRCDigits     = 4
	MaxReplySize  = 4096
	MaxParamsSize = 256
)

// Separators between command name and parameters
const (
	SepCRC   = ':' // CRC is appended and required
	SepPlain = ' ' // CRC is optional and omitted
)

// Command names
const (
	CmdAPIRev = "APIREV"
	CmdBeep   = "BEEP"
	CmdEcho   = "ECHO"
	CmdInit   = "INIT"
	CmdPHSR   = "PHSR"
	CmdReset  = "RESET"
	CmdTStart = "TSTART"
	CmdTStop  = "TSTOP"
	CmdVer    = "VER"
)

// Reply prefixes
const (
	replyOkay    = "OKAY"
	replyError   = "ERROR"
	replyWarning = "WARNING"
	replyReset   = "RESET"
)

// Beep limits
const (
	MinBeeps = 1
	MaxBeeps = 9
)

// VerOptions lists the reply options accepted by VER
var VerOptions = []int{0, 4, 5, 7, 8}

// PHSROption selects which port handles PHSR reports
type PHSROption int

// PHSR reply options
const (
	PHSRAll            PHSROption = 0x00
	PHSRToBeFreed      PHSROption = 0x01
	PHSRNotInitialized PHSROption = 0x02
	PHSRNotEnabled     PHSROption = 0x03
	PHSREnabled        PHSROption = 0x04
)

// errorCodes maps Aurora ERROR reply codes to their descriptions
var errorCodes = map[string]string{
	"01": "Invalid command",
	"02": "Command too long",
	"03": "Command too short",
	"04": "Invalid CRC calculated for command",
	"05": "Time-out on command execution",
	"06": "Unable to set up new communication parameters",
	"07": "Incorrect number of parameters",
	"08": "Invalid port handle selected",
	"09": "Invalid mode selected",
	"0A": "Invalid LED selected",
	"0B": "Invalid LED state selected",
	"0C": "Command is invalid while in the current operating mode",
	"0D": "No tool is assigned to the selected port handle",
	"0E": "Selected port handle not initialized",
	"0F": "Selected port handle not enabled",
	"10": "System not initialized",
	"11": "Unable to stop tracking",
	"12": "Unable to start tracking",
	"13": "Unable to initialize the port handle",
}

// DescribeErrorCode returns the description of an Aurora error code
func DescribeErrorCode(code string) string {
	if desc, ok := errorCodes[code]; ok {
		return desc
	}
	return "Unknown error"
}
