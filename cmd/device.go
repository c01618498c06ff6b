// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Thermoquad/aurorastat/pkg/aurora"
	"github.com/spf13/cobra"
)

// breakDuration is how long the line is held in break to reset the system
const breakDuration = 250 * time.Millisecond

var resetBreak bool

// Each Aurora API call gets its own subcommand

var apiRevCmd = &cobra.Command{
	Use:   "apirev",
	Short: "Print the API revision",
	Args:  cobra.NoArgs,
	RunE: runAPICommand(func(cmd *cobra.Command, args []string) (aurora.Command, error) {
		return aurora.NewAPIRev(), nil
	}),
}

var beepCmd = &cobra.Command{
	Use:   "beep [count]",
	Short: "Sound the system beeper (1-9 times)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAPICommand(buildBeep),
}

// buildBeep warns on stderr when the count is clamped
func buildBeep(cmd *cobra.Command, args []string) (aurora.Command, error) {
	count := 1
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return aurora.Command{}, fmt.Errorf("invalid beep count %q", args[0])
		}
		if n < aurora.MinBeeps || n > aurora.MaxBeeps {
			fmt.Fprintf(cmd.ErrOrStderr(), "Keep number of beeps within %d-%d\n", aurora.MinBeeps, aurora.MaxBeeps)
		}
		count = n
	}
	return aurora.NewBeep(count), nil
}

var echoCmd = &cobra.Command{
	Use:   "echo <text...>",
	Short: "Send text and print what the system echoes back",
	Args:  cobra.MinimumNArgs(1),
	RunE: runAPICommand(func(cmd *cobra.Command, args []string) (aurora.Command, error) {
		return aurora.NewEcho(strings.Join(args, " ")), nil
	}),
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the system",
	Args:  cobra.NoArgs,
	RunE: runAPICommand(func(cmd *cobra.Command, args []string) (aurora.Command, error) {
		return aurora.NewInit(), nil
	}),
}

var phsrCmd = &cobra.Command{
	Use:   "phsr [option]",
	Short: "List port handles and their status",
	Long: `Send PHSR and decode the port handle status reply.

Options:
  0 - all allocated port handles (default)
  1 - port handles that need to be freed
  2 - port handles occupied but not initialized
  3 - port handles initialized but not enabled
  4 - enabled port handles`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAPICommand(func(cmd *cobra.Command, args []string) (aurora.Command, error) {
		option := aurora.PHSRAll
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < int(aurora.PHSRAll) || n > int(aurora.PHSREnabled) {
				return aurora.Command{}, fmt.Errorf("invalid PHSR option %q (use 0-4)", args[0])
			}
			option = aurora.PHSROption(n)
		}
		return aurora.NewPHSR(option), nil
	}),
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the system",
	Long: `Reset the Aurora system.

By default the RESET command is sent. With --break the serial line is held in
the break state instead, which resets the system even when it is not
responding to commands. Either way the system answers with a RESET reply and
returns to 9600 baud.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var tstartCmd = &cobra.Command{
	Use:   "tstart",
	Short: "Start tracking mode",
	Args:  cobra.NoArgs,
	RunE: runAPICommand(func(cmd *cobra.Command, args []string) (aurora.Command, error) {
		return aurora.NewTStart(), nil
	}),
}

var tstopCmd = &cobra.Command{
	Use:   "tstop",
	Short: "Stop tracking mode",
	Args:  cobra.NoArgs,
	RunE: runAPICommand(func(cmd *cobra.Command, args []string) (aurora.Command, error) {
		return aurora.NewTStop(), nil
	}),
}

var verCmd = &cobra.Command{
	Use:   "ver [option]",
	Short: "Print firmware revisions (options 0, 4, 5, 7, 8)",
	Args:  cobra.MaximumNArgs(1),
	RunE: runAPICommand(func(cmd *cobra.Command, args []string) (aurora.Command, error) {
		option := 0
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return aurora.Command{}, fmt.Errorf("invalid VER option %q", args[0])
			}
			option = n
		}
		return aurora.NewVer(option)
	}),
}

func init() {
	rootCmd.AddCommand(apiRevCmd, beepCmd, echoCmd, initCmd, phsrCmd, resetCmd, tstartCmd, tstopCmd, verCmd)
	resetCmd.Flags().BoolVar(&resetBreak, "break", false, "Reset with a serial break instead of the RESET command")
}

// runAPICommand builds a command from the arguments, sends it and prints the reply
func runAPICommand(build func(cmd *cobra.Command, args []string) (aurora.Command, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := build(cmd, args)
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		return exchange(cmd.OutOrStdout(), s.client, c, false)
	}
}

// exchange sends one command and prints the reply, if any
func exchange(w io.Writer, client *aurora.Client, c aurora.Command, plain bool) error {
	ctx, cancel := commandContext()
	defer cancel()

	start := time.Now()
	var reply *aurora.Reply
	var err error
	if plain {
		reply, err = client.DoPlain(ctx, c)
	} else {
		reply, err = client.Do(ctx, c)
	}
	if reply != nil {
		printExchange(w, c, reply, time.Since(start))
	}
	return err
}

func runReset(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if !resetBreak {
		return exchange(cmd.OutOrStdout(), s.client, aurora.NewReset(), false)
	}

	breaker, ok := s.conn.(Breaker)
	if !ok {
		return fmt.Errorf("--break requires a serial connection (%s)", s.connInfo)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sending serial break (%v)...\n", breakDuration)
	if err := breaker.Break(breakDuration); err != nil {
		return fmt.Errorf("serial break failed: %w", err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	reply, err := s.client.Wait(ctx)
	if err != nil {
		return fmt.Errorf("no reply after serial break: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), aurora.FormatReply(reply))
	if reply.Kind() != aurora.ReplyReset {
		return fmt.Errorf("expected RESET reply after serial break, got %s", reply.Kind())
	}
	return nil
}
