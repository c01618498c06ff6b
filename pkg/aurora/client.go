// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package aurora

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
)

// replyQueueSize bounds replies buffered between the reader and callers
const replyQueueSize = 32

type decodeResult struct {
	reply *Reply
	err   error
}

// Client issues commands to an Aurora system and waits for their replies.
// One command is in flight at a time; Do is safe for concurrent use.
type Client struct {
	rw       io.ReadWriter
	mu       sync.Mutex
	replies  chan decodeResult
	dead     chan struct{}
	readErr  error // Set before dead is closed
	recorder *Recorder
	logger   *log.Logger

	decMu   sync.Mutex // Guards decoder between the reader and senders
	decoder *Decoder
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithRecorder records every byte sent and received
func WithRecorder(r *Recorder) ClientOption {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithLogger sets the logger for stale replies and recorder failures
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient starts a client reading from rw.
// The reader stops when rw returns an error; close the underlying
// connection to stop it.
func NewClient(rw io.ReadWriter, opts ...ClientOption) *Client {
	c := &Client{
		rw:      rw,
		replies: make(chan decodeResult, replyQueueSize),
		dead:    make(chan struct{}),
		logger:  log.New(io.Discard, "", 0),
		decoder: NewDecoder(),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	buf := make([]byte, 256)

	for {
		n, err := c.rw.Read(buf)
		if n > 0 {
			c.record(DirectionRx, buf[:n])
			c.decMu.Lock()
			c.decoder.Decode(buf[:n], func(reply *Reply, decodeErr error) {
				select {
				case c.replies <- decodeResult{reply: reply, err: decodeErr}:
				default:
					c.logger.Printf("reply queue full, dropping reply")
				}
			})
			c.decMu.Unlock()
		}
		if err != nil {
			c.readErr = err
			close(c.dead)
			return
		}
	}
}

func (c *Client) record(dir Direction, data []byte) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(dir, data); err != nil {
		c.logger.Printf("transcript: %v", err)
	}
}

// Do sends a command with CRC and waits for its reply.
// ERROR replies are returned together with a *DeviceError.
func (c *Client) Do(ctx context.Context, cmd Command) (*Reply, error) {
	wire, err := cmd.Encode()
	if err != nil {
		return nil, err
	}
	return c.exchange(ctx, cmd, wire)
}

// DoPlain sends a command without CRC and waits for its reply
func (c *Client) DoPlain(ctx context.Context, cmd Command) (*Reply, error) {
	wire, err := cmd.EncodePlain()
	if err != nil {
		return nil, err
	}
	return c.exchange(ctx, cmd, wire)
}

// Wait waits for the next reply without sending anything.
// Used after a serial break, which makes the system reply RESET.
func (c *Client) Wait(ctx context.Context) (*Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.await(ctx, "")
}

func (c *Client) exchange(ctx context.Context, cmd Command, wire []byte) (*Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.dead:
		return nil, c.closedErr()
	default:
	}

	c.drainStale()
	c.resync()

	if _, err := c.rw.Write(wire); err != nil {
		return nil, fmt.Errorf("%s: write failed: %w", cmd.Name, err)
	}
	c.record(DirectionTx, wire)

	return c.await(ctx, cmd.Name)
}

func (c *Client) await(ctx context.Context, name string) (*Reply, error) {
	select {
	case res := <-c.replies:
		return resolve(res, name)

	case <-c.dead:
		// The reader may have queued a reply just before it stopped
		select {
		case res := <-c.replies:
			return resolve(res, name)
		default:
		}
		return nil, c.closedErr()

	case <-ctx.Done():
		if name == "" {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", name, ctx.Err())
	}
}

// resolve turns a decode result into the reply returned to the caller of name
func resolve(res decodeResult, name string) (*Reply, error) {
	if res.err != nil {
		if name == "" {
			return nil, res.err
		}
		return nil, fmt.Errorf("%s: %w", name, res.err)
	}
	// ECHO replies repeat the payload, whatever it looks like
	if name == CmdEcho {
		res.reply.asData()
	}
	if err := res.reply.Err(); err != nil {
		devErr := err.(*DeviceError)
		devErr.Command = name
		return res.reply, devErr
	}
	return res.reply, nil
}

// resync drops any unterminated bytes so line noise is not glued onto the
// next reply
func (c *Client) resync() {
	c.decMu.Lock()
	defer c.decMu.Unlock()
	if n := len(c.decoder.GetRawBytes()); n > 0 {
		c.logger.Printf("discarding %d unterminated bytes", n)
	}
	c.decoder.Reset()
}

// IsLineError reports whether err is a framing or CRC failure of a single
// reply line, after which the stream can still carry valid replies
func IsLineError(err error) bool {
	return errors.Is(err, ErrCRCMismatch) ||
		errors.Is(err, ErrInvalidCRC) ||
		errors.Is(err, ErrReplyTooShort) ||
		errors.Is(err, ErrReplyOverflow)
}

// drainStale discards replies that arrived after an earlier caller gave up
func (c *Client) drainStale() {
	for {
		select {
		case res := <-c.replies:
			if res.reply != nil {
				c.logger.Printf("discarding stale reply %q", res.reply.Body())
			} else {
				c.logger.Printf("discarding stale error: %v", res.err)
			}
		default:
			return
		}
	}
}

func (c *Client) closedErr() error {
	return fmt.Errorf("%w: %v", ErrClientClosed, c.readErr)
}

// Done is closed once the reader has stopped
func (c *Client) Done() <-chan struct{} {
	return c.dead
}

// expect checks that a reply has one of the given kinds
func expect(cmd Command, reply *Reply, kinds ...ReplyKind) error {
	for _, k := range kinds {
		if reply.Kind() == k {
			return nil
		}
	}
	return fmt.Errorf("%s: unexpected %s reply %q", cmd.Name, reply.Kind(), reply.Body())
}

// okay runs a command whose success reply is OKAY (or a WARNING)
func (c *Client) okay(ctx context.Context, cmd Command) error {
	reply, err := c.Do(ctx, cmd)
	if err != nil {
		return err
	}
	if reply.Kind() == ReplyWarning {
		c.logger.Printf("%s: warning %v", cmd.Name, reply.Codes())
	}
	return expect(cmd, reply, ReplyOkay, ReplyWarning)
}

// data runs a command whose success reply is a data body
func (c *Client) data(ctx context.Context, cmd Command) (string, error) {
	reply, err := c.Do(ctx, cmd)
	if err != nil {
		return "", err
	}
	if err := expect(cmd, reply, ReplyData); err != nil {
		return "", err
	}
	return reply.Body(), nil
}

// APIRev returns the API revision string
func (c *Client) APIRev(ctx context.Context) (string, error) {
	return c.data(ctx, NewAPIRev())
}

// Beep sounds the system beeper count times
func (c *Client) Beep(ctx context.Context, count int) error {
	reply, err := c.Do(ctx, NewBeep(count))
	if err != nil {
		return err
	}
	// BEEP answers with a single digit: 0 busy, 1 beeping
	return expect(NewBeep(count), reply, ReplyData, ReplyOkay)
}

// Echo sends text and returns what the system echoed back
func (c *Client) Echo(ctx context.Context, text string) (string, error) {
	return c.data(ctx, NewEcho(text))
}

// Init initializes the system
func (c *Client) Init(ctx context.Context) error {
	return c.okay(ctx, NewInit())
}

// PHSR returns the port handles matching option
func (c *Client) PHSR(ctx context.Context, option PHSROption) ([]PortHandle, error) {
	body, err := c.data(ctx, NewPHSR(option))
	if err != nil {
		return nil, err
	}
	return ParsePHSR(body)
}

// Reset resets the system and waits for its RESET reply
func (c *Client) Reset(ctx context.Context) error {
	cmd := NewReset()
	reply, err := c.Do(ctx, cmd)
	if err != nil {
		return err
	}
	return expect(cmd, reply, ReplyReset, ReplyOkay)
}

// TStart starts tracking mode
func (c *Client) TStart(ctx context.Context) error {
	return c.okay(ctx, NewTStart())
}

// TStop stops tracking mode
func (c *Client) TStop(ctx context.Context) error {
	return c.okay(ctx, NewTStop())
}

// Ver returns the firmware revision report for a VER reply option
func (c *Client) Ver(ctx context.Context, option int) (string, error) {
	cmd, err := NewVer(option)
	if err != nil {
		return "", err
	}
	return c.data(ctx, cmd)
}
