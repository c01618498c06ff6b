// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package crc16 implements the CRC-16/ARC checksum used by NDI Aurora
// command and reply framing.
//
// The update step is table-free: instead of shifting the register eight
// times per byte, it folds the byte into the register and uses the odd
// parity of each nibble to decide whether the reflected polynomial 0xA001
// contributes. The result is bit-identical to the classic bit-serial form.
package crc16

// Register seeds
const (
	InitARC      uint16 = 0x0000 // CRC-16/ARC, used on the Aurora wire
	RegisterInit uint16 = 0xFFFF // Seed used by the RESET demo line
)

// OddParity holds popcount(n) mod 2 for every nibble value n.
var OddParity = [16]uint8{0, 1, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0}

// Update folds one byte into the CRC register and returns the new register.
func Update(crc uint16, b byte) uint16 {
	mixed := uint16(b^byte(crc)) & 0xFF
	crc >>= 8
	if OddParity[mixed&0x0F]^OddParity[mixed>>4] != 0 {
		crc ^= 0xC001
	}
	crc ^= mixed << 6
	crc ^= mixed << 7
	return crc
}

// Sum folds data into the register starting from crc
func Sum(crc uint16, data []byte) uint16 {
	for _, b := range data {
		crc = Update(crc, b)
	}
	return crc
}

// Checksum computes the CRC-16/ARC checksum of data (seed 0x0000)
func Checksum(data []byte) uint16 {
	return Sum(InitARC, data)
}
