// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc16

import (
	"math/bits"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"

	howeyc "github.com/howeyc/crc16"
	sigurn "github.com/sigurn/crc16"
	"github.com/snksoft/crc"
)

// bitSerial is the textbook reflected CRC-16 update (polynomial 0xA001)
func bitSerial(crc uint16, b byte) uint16 {
	crc ^= uint16(b)
	for i := 0; i < 8; i++ {
		if crc&0x0001 != 0 {
			crc = (crc >> 1) ^ 0xA001
		} else {
			crc >>= 1
		}
	}
	return crc
}

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

func newFuzzRng(t *testing.T) *rand.Rand {
	seed := time.Now().UnixNano()
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if s, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			seed = s
		}
	}
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// ============================================================
// Parity Table
// ============================================================

func TestOddParity_MatchesPopcount(t *testing.T) {
	for n := 0; n < 16; n++ {
		want := uint8(bits.OnesCount8(uint8(n)) % 2)
		if OddParity[n] != want {
			t.Errorf("OddParity[%d] = %d, want %d", n, OddParity[n], want)
		}
	}
}

// ============================================================
// Update
// ============================================================

func TestUpdate_FixedPoint(t *testing.T) {
	if got := Update(0x0000, 0x00); got != 0x0000 {
		t.Errorf("Update(0x0000, 0x00) = 0x%04X, want 0x0000", got)
	}
}

func TestUpdate_Deterministic(t *testing.T) {
	for _, crc := range []uint16{0x0000, 0x1234, 0xFFFF} {
		for b := 0; b < 256; b++ {
			first := Update(crc, byte(b))
			second := Update(crc, byte(b))
			if first != second {
				t.Fatalf("Update(0x%04X, 0x%02X) not deterministic: 0x%04X != 0x%04X", crc, b, first, second)
			}
		}
	}
}

func TestUpdate_MatchesBitSerial(t *testing.T) {
	// Every low byte against every input byte, with a spread of high bytes
	for hi := 0; hi < 256; hi += 17 {
		for lo := 0; lo < 256; lo++ {
			crc := uint16(hi)<<8 | uint16(lo)
			for b := 0; b < 256; b++ {
				got := Update(crc, byte(b))
				want := bitSerial(crc, byte(b))
				if got != want {
					t.Fatalf("Update(0x%04X, 0x%02X) = 0x%04X, bit-serial = 0x%04X", crc, b, got, want)
				}
			}
		}
	}
}

// ============================================================
// Sum / Checksum
// ============================================================

func TestSum_Empty(t *testing.T) {
	for _, seed := range []uint16{InitARC, RegisterInit, 0xBEEF} {
		if got := Sum(seed, nil); got != seed {
			t.Errorf("Sum(0x%04X, nil) = 0x%04X, want seed unchanged", seed, got)
		}
		if got := Sum(seed, []byte{}); got != seed {
			t.Errorf("Sum(0x%04X, {}) = 0x%04X, want seed unchanged", seed, got)
		}
	}
}

func TestSum_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		seed     uint16
		data     []byte
		expected uint16
	}{
		{
			name:     "RESET from 0xFFFF",
			seed:     RegisterInit,
			data:     []byte{0x52, 0x45, 0x53, 0x45, 0x54},
			expected: 48715, // 0xBE4B
		},
		{
			name:     "RESET from 0x0000",
			seed:     InitARC,
			data:     []byte("RESET"),
			expected: 0xBE6F,
		},
		{
			name:     "ARC check value",
			seed:     InitARC,
			data:     []byte("123456789"),
			expected: 0xBB3D,
		},
		{
			name:     "MODBUS check value",
			seed:     RegisterInit,
			data:     []byte("123456789"),
			expected: 0x4B37,
		},
		{
			name:     "OKAY reply body",
			seed:     InitARC,
			data:     []byte("OKAY"),
			expected: 0xA896,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sum(tt.seed, tt.data)
			if got != tt.expected {
				t.Errorf("CRC mismatch: expected 0x%04X, got 0x%04X", tt.expected, got)
			}
		})
	}
}

func TestChecksum_UsesARCSeed(t *testing.T) {
	data := []byte("PHSR:00")
	if Checksum(data) != Sum(InitARC, data) {
		t.Error("Checksum should equal Sum with the ARC seed")
	}
	if Checksum(data) != 0x20FF {
		t.Errorf("Checksum(PHSR:00) = 0x%04X, want 0x20FF", Checksum(data))
	}
}

func TestSum_OrderSensitive(t *testing.T) {
	ab := Sum(RegisterInit, []byte{0x01, 0x02})
	ba := Sum(RegisterInit, []byte{0x02, 0x01})
	if ab == ba {
		t.Errorf("CRC should depend on byte order, both gave 0x%04X", ab)
	}
	if ab != 0xE181 || ba != 0x10C1 {
		t.Errorf("got [01 02]=0x%04X [02 01]=0x%04X, want 0xE181 and 0x10C1", ab, ba)
	}
}

// ============================================================
// Reference Implementations
// ============================================================

func TestChecksum_MatchesReferenceLibraries(t *testing.T) {
	arc := sigurn.MakeTable(sigurn.CRC16_ARC)
	modbus := sigurn.MakeTable(sigurn.CRC16_MODBUS)

	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		data := make([]byte, rng.Intn(64))
		rng.Read(data)

		if got, want := Checksum(data), sigurn.Checksum(data, arc); got != want {
			t.Fatalf("round %d: ARC mismatch for %X: got 0x%04X, want 0x%04X", i, data, got, want)
		}
		if got, want := Sum(RegisterInit, data), sigurn.Checksum(data, modbus); got != want {
			t.Fatalf("round %d: MODBUS mismatch for %X: got 0x%04X, want 0x%04X", i, data, got, want)
		}
		// howeyc's IBM checksum applies the 0xFFFF seed and output inversion
		if got, want := Sum(RegisterInit, data), ^howeyc.ChecksumIBM(data); got != want {
			t.Fatalf("round %d: IBM mismatch for %X: got 0x%04X, want 0x%04X", i, data, got, want)
		}
		if got, want := Checksum(data), uint16(crc.CalculateCRC(arcParams, data)); got != want {
			t.Fatalf("round %d: parameterized ARC mismatch for %X: got 0x%04X, want 0x%04X", i, data, got, want)
		}
	}
}

// arcParams describes CRC-16/ARC in Rocksoft model terms
var arcParams = &crc.Parameters{Width: 16, Polynomial: 0x8005, ReflectIn: true, ReflectOut: true, Init: 0x0000, FinalXor: 0x0000}

func TestChecksum_ParameterizedSeed(t *testing.T) {
	params := *arcParams
	params.Init = uint64(RegisterInit)
	data := []byte("RESET")

	if got, want := Sum(RegisterInit, data), uint16(crc.CalculateCRC(&params, data)); got != want {
		t.Errorf("Sum(0xFFFF, RESET) = 0x%04X, want 0x%04X", got, want)
	}
}

func BenchmarkChecksum(b *testing.B) {
	data := []byte("040A0010B0010C0010D001")
	for i := 0; i < b.N; i++ {
		Checksum(data)
	}
}
