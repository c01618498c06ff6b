// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func mustReply(t *testing.T, body string) *Reply {
	t.Helper()
	r, err := ParseReply(frame(body))
	if err != nil {
		t.Fatalf("ParseReply(%q) error: %v", body, err)
	}
	return r
}

func TestStatistics_Update(t *testing.T) {
	s := NewStatistics()

	s.RecordCommand()
	s.Update(mustReply(t, "OKAY"), nil, 10*time.Millisecond)
	s.RecordCommand()
	s.Update(mustReply(t, "G.001.005"), nil, 30*time.Millisecond)
	s.RecordCommand()
	s.Update(mustReply(t, "ERROR04"), &DeviceError{Codes: []string{"04"}}, 20*time.Millisecond)
	s.Update(mustReply(t, "WARNING01"), nil, 0)
	s.Update(mustReply(t, "RESET"), nil, 0)
	s.Update(nil, &CRCError{Expected: 1, Received: 2}, 0)
	s.Update(nil, fmt.Errorf("INIT: %w", context.DeadlineExceeded), 0)
	s.Update(nil, ErrReplyOverflow, 0)

	checks := []struct {
		name string
		got  uint64
		want uint64
	}{
		{"Commands", s.Commands, 3},
		{"Replies", s.Replies, 5},
		{"OkayReplies", s.OkayReplies, 1},
		{"DataReplies", s.DataReplies, 1},
		{"ErrorReplies", s.ErrorReplies, 1},
		{"WarnReplies", s.WarnReplies, 1},
		{"ResetReplies", s.ResetReplies, 1},
		{"CRCErrors", s.CRCErrors, 1},
		{"Timeouts", s.Timeouts, 1},
		{"DecodeErrors", s.DecodeErrors, 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	if avg := s.AverageRoundTrip(); avg != 12*time.Millisecond {
		t.Errorf("AverageRoundTrip = %v, want 12ms", avg)
	}
}

func TestStatistics_StringAndReset(t *testing.T) {
	s := NewStatistics()
	s.RecordCommand()
	s.Update(nil, errors.New("boom"), 0)

	out := s.String()
	for _, want := range []string{"Commands:", "Replies:", "Decode Errors:"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "CRC Errors:") {
		t.Errorf("String() should omit zero counters:\n%s", out)
	}

	s.Reset()
	if s.Commands != 0 || s.DecodeErrors != 0 {
		t.Error("Reset should clear counters")
	}
	if s.AverageRoundTrip() != 0 {
		t.Error("AverageRoundTrip with no replies should be 0")
	}
}
