// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Statistics tracks command and reply counts and error rates.
// Not safe for concurrent use.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	Commands     uint64
	Replies      uint64
	OkayReplies  uint64
	DataReplies  uint64
	ErrorReplies uint64
	WarnReplies  uint64
	ResetReplies uint64
	CRCErrors    uint64
	DecodeErrors uint64
	Timeouts     uint64

	// Sum of round trips for all replies
	TotalRoundTrip time.Duration

	// Rates (calculated)
	ReplyRate float64 // replies/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// RecordCommand counts one command sent
func (s *Statistics) RecordCommand() {
	s.Commands++
	s.LastUpdateTime = time.Now()
}

// Update updates statistics from a reply or the error that replaced it.
// A *DeviceError alongside a reply counts as an ERROR reply, not a failure.
func (s *Statistics) Update(reply *Reply, err error, rtt time.Duration) {
	s.LastUpdateTime = time.Now()

	if reply == nil {
		switch {
		case errors.Is(err, ErrCRCMismatch):
			s.CRCErrors++
		case errors.Is(err, context.DeadlineExceeded):
			s.Timeouts++
		case err != nil:
			s.DecodeErrors++
		}
		return
	}

	s.Replies++
	s.TotalRoundTrip += rtt

	switch reply.Kind() {
	case ReplyOkay:
		s.OkayReplies++
	case ReplyData:
		s.DataReplies++
	case ReplyError:
		s.ErrorReplies++
	case ReplyWarning:
		s.WarnReplies++
	case ReplyReset:
		s.ResetReplies++
	}
}

// AverageRoundTrip returns the mean round trip over all replies
func (s *Statistics) AverageRoundTrip() time.Duration {
	if s.Replies == 0 {
		return 0
	}
	return s.TotalRoundTrip / time.Duration(s.Replies)
}

// CalculateRates calculates reply and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.ReplyRate = float64(s.Replies) / elapsed
		errorCount := s.CRCErrors + s.DecodeErrors + s.Timeouts + s.ErrorReplies
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var okayPercent float64
	if s.Replies > 0 {
		okayPercent = float64(s.OkayReplies+s.DataReplies) * 100.0 / float64(s.Replies)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Commands:        %8d\n", s.Commands)
	result += fmt.Sprintf("Replies:         %8d (%.1f%% OK)\n", s.Replies, okayPercent)

	if s.ErrorReplies > 0 {
		result += fmt.Sprintf("ERROR Replies:   %8d\n", s.ErrorReplies)
	}
	if s.WarnReplies > 0 {
		result += fmt.Sprintf("WARNING Replies: %8d\n", s.WarnReplies)
	}
	if s.ResetReplies > 0 {
		result += fmt.Sprintf("RESET Replies:   %8d\n", s.ResetReplies)
	}
	if s.CRCErrors > 0 {
		result += fmt.Sprintf("CRC Errors:      %8d\n", s.CRCErrors)
	}
	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode Errors:   %8d\n", s.DecodeErrors)
	}
	if s.Timeouts > 0 {
		result += fmt.Sprintf("Timeouts:        %8d\n", s.Timeouts)
	}

	result += fmt.Sprintf("Avg Round Trip:  %8v\n", s.AverageRoundTrip().Round(time.Millisecond))
	result += fmt.Sprintf("Reply Rate:      %8.1f replies/sec\n", s.ReplyRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}
