// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Thermoquad/aurorastat/pkg/aurora"
	"github.com/charmbracelet/lipgloss"
)

// session bundles an open connection, its client and the optional transcript
type session struct {
	conn     Connection
	connInfo string
	client   *aurora.Client
	record   *os.File
}

// openSession opens the connection selected by flags and starts a client
// that logs to stderr
func openSession() (*session, error) {
	return openSessionLogging(os.Stderr)
}

// openSessionLogging is openSession with client logs sent to logOut
func openSessionLogging(logOut io.Writer) (*session, error) {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return nil, err
	}

	s := &session{conn: conn, connInfo: connInfo}
	opts := []aurora.ClientOption{
		aurora.WithLogger(log.New(logOut, "aurorastat: ", log.LstdFlags)),
	}

	if recordPath != "" {
		f, err := os.Create(recordPath)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create transcript: %w", err)
		}
		rec, err := aurora.NewRecorder(f)
		if err != nil {
			f.Close()
			conn.Close()
			return nil, err
		}
		s.record = f
		opts = append(opts, aurora.WithRecorder(rec))
	}

	s.client = aurora.NewClient(conn, opts...)
	return s, nil
}

// Close closes the connection and flushes the transcript file
func (s *session) Close() {
	s.conn.Close()
	if s.record != nil {
		if err := s.record.Close(); err != nil {
			log.Printf("Failed to close transcript: %v", err)
		}
	}
}

// commandContext bounds a single command by the --timeout flag
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(commandTimeout)*time.Second)
}

// Reply styles for one-shot commands
var (
	okayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// styleForKind picks the color used to render a reply kind
func styleForKind(kind aurora.ReplyKind) lipgloss.Style {
	switch kind {
	case aurora.ReplyOkay, aurora.ReplyData:
		return okayStyle
	case aurora.ReplyError:
		return errorStyle
	case aurora.ReplyWarning, aurora.ReplyReset:
		return warningStyle
	default:
		return dimStyle
	}
}

// printExchange prints a command and its decoded reply
func printExchange(w io.Writer, c aurora.Command, reply *aurora.Reply, rtt time.Duration) {
	fmt.Fprint(w, dimStyle.Render(aurora.FormatCommand(c)))
	fmt.Fprintf(w, "%s %s\n", styleForKind(reply.Kind()).Render(reply.Kind().String()),
		dimStyle.Render(fmt.Sprintf("(%v)", rtt.Round(time.Millisecond))))
	fmt.Fprint(w, aurora.FormatReplyFor(c, reply))
}
