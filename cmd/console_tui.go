// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Thermoquad/aurorastat/pkg/aurora"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// Console log line kinds
const (
	lineInfo = iota
	lineCommand
	lineReply
	lineError
)

// consoleLine is one line of the console log
type consoleLine struct {
	timestamp time.Time
	text      string
	kind      int
	reply     aurora.ReplyKind // Only for lineReply
}

// consoleModel is the Bubble Tea model for the console TUI
type consoleModel struct {
	client   *aurora.Client
	connInfo string
	timeout  time.Duration
	started  time.Time

	input        textinput.Model
	history      []string
	historyIndex int

	lines    []consoleLine
	maxLines int
	stats    *aurora.Statistics

	// UI state
	width          int
	height         int
	busy           bool
	quitting       bool
	connectionLost bool
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type consoleTickMsg time.Time

type replyMsg struct {
	command aurora.Command
	reply   *aurora.Reply
	err     error
	rtt     time.Duration
}

type connectionLostMsg struct{}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialConsoleModel(client *aurora.Client, connInfo string) consoleModel {
	ti := textinput.New()
	ti.Placeholder = "APIREV"
	ti.Prompt = "> "
	ti.CharLimit = aurora.MaxParamsSize
	ti.Width = 60
	ti.Focus()

	return consoleModel{
		client:   client,
		connInfo: connInfo,
		timeout:  time.Duration(commandTimeout) * time.Second,
		started:  time.Now(),
		input:    ti,
		lines:    make([]consoleLine, 0),
		maxLines: 200,
		stats:    aurora.NewStatistics(),
		width:    80,
		height:   24,
	}
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m consoleModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, consoleTickCmd())
}

func consoleTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return consoleTickMsg(t)
	})
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-8, 10)

	case consoleTickMsg:
		m.stats.CalculateRates()
		return m, consoleTickCmd()

	case replyMsg:
		m.busy = false
		m.stats.Update(msg.reply, msg.err, msg.rtt)
		m.processReply(msg)

	case connectionLostMsg:
		m.connectionLost = true
		m.addLine("Connection lost", lineError)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m consoleModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		return m.submit()

	case tea.KeyUp:
		if m.historyIndex > 0 {
			m.historyIndex--
			m.input.SetValue(m.history[m.historyIndex])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIndex < len(m.history)-1 {
			m.historyIndex++
			m.input.SetValue(m.history[m.historyIndex])
			m.input.CursorEnd()
		} else {
			m.historyIndex = len(m.history)
			m.input.SetValue("")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit parses the input line and sends it
func (m consoleModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	if m.busy {
		m.addLine("Waiting for the previous reply", lineError)
		return m, nil
	}
	if m.connectionLost {
		m.addLine("Cannot send command: connection lost", lineError)
		return m, nil
	}

	m.history = append(m.history, line)
	m.historyIndex = len(m.history)
	m.input.SetValue("")

	c, err := aurora.ParseCommand(line)
	if err != nil {
		m.addLine(err.Error(), lineError)
		return m, nil
	}

	m.busy = true
	m.stats.RecordCommand()
	m.addLine(strings.TrimRight(aurora.FormatCommand(c), "\n"), lineCommand)
	return m, sendCommand(m.client, c, m.timeout)
}

// sendCommand runs one exchange off the UI goroutine
func sendCommand(client *aurora.Client, c aurora.Command, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		reply, err := client.Do(ctx, c)
		return replyMsg{command: c, reply: reply, err: err, rtt: time.Since(start)}
	}
}

func (m consoleModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	s.WriteString(titleStyle.Render("AURORASTAT CONSOLE"))
	s.WriteString(" ")
	connStatus := m.connInfo
	if m.connectionLost {
		connStatus = errorStyle.Render("DISCONNECTED")
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | Esc=quit Up/Down=history", connStatus)))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf(" %s %s\n\n",
		statsLabelStyle.Render("Session:"),
		statsValueStyle.Render(formatElapsed(time.Since(m.started)))))

	s.WriteString(m.renderStatisticsBar(statsLabelStyle, statsValueStyle, boxStyle))
	s.WriteString("\n")
	s.WriteString(m.renderLog(statsLabelStyle, headerStyle, boxStyle))
	s.WriteString("\n")

	prompt := m.input.View()
	if m.busy {
		prompt += headerStyle.Render("  waiting...")
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(prompt))
	s.WriteString("\n")

	return s.String()
}

//////////////////////////////////////////////////////////////
// View Helpers
//////////////////////////////////////////////////////////////

func (m consoleModel) renderStatisticsBar(statsLabelStyle, statsValueStyle, boxStyle lipgloss.Style) string {
	failures := m.stats.CRCErrors + m.stats.DecodeErrors + m.stats.Timeouts
	failureText := statsValueStyle.Render("0")
	if failures > 0 {
		failureText = errorStyle.Render(fmt.Sprintf("%d", failures))
	}

	content := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s  %s %s",
		statsLabelStyle.Render("Sent:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.Commands)),
		statsLabelStyle.Render("Replies:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.Replies)),
		statsLabelStyle.Render("ERROR:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.ErrorReplies)),
		statsLabelStyle.Render("Failed:"), failureText,
		statsLabelStyle.Render("RTT:"), statsValueStyle.Render(m.stats.AverageRoundTrip().Round(time.Millisecond).String()),
	)

	return boxStyle.Width(m.width - 4).Render(content)
}

func (m consoleModel) renderLog(statsLabelStyle, headerStyle, boxStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(statsLabelStyle.Render("LOG"))
	s.WriteString("\n")

	// Header, session line, stats bar and prompt take about 12 rows
	logHeight := max(m.height-14, 4)
	startIdx := max(len(m.lines)-logHeight, 0)

	if len(m.lines) == 0 {
		s.WriteString(headerStyle.Render("  (type a command and press Enter)"))
	} else {
		for _, line := range m.lines[startIdx:] {
			text := line.text
			switch line.kind {
			case lineCommand:
				text = headerStyle.Render(text)
			case lineReply:
				text = styleForKind(line.reply).Render(text)
			case lineError:
				text = errorStyle.Render(text)
			}
			s.WriteString(fmt.Sprintf("%s %s\n", headerStyle.Render(line.timestamp.Format("15:04:05.000")), text))
		}
	}

	return boxStyle.Width(m.width - 4).Render(s.String())
}

//////////////////////////////////////////////////////////////
// Data Processing
//////////////////////////////////////////////////////////////

func (m *consoleModel) processReply(msg replyMsg) {
	if msg.reply == nil {
		m.addLine(fmt.Sprintf("%v", msg.err), lineError)
		return
	}

	// First line carries the kind, the rest is the decoded body
	text := strings.TrimRight(aurora.FormatReplyFor(msg.command, msg.reply), "\n")
	for i, part := range strings.Split(text, "\n") {
		if i == 0 {
			part = fmt.Sprintf("%s (%v)", part, msg.rtt.Round(time.Millisecond))
		}
		m.lines = append(m.lines, consoleLine{
			timestamp: msg.reply.Timestamp(),
			text:      part,
			kind:      lineReply,
			reply:     msg.reply.Kind(),
		})
	}
	m.trimLines()
}

//////////////////////////////////////////////////////////////
// Helpers
//////////////////////////////////////////////////////////////

func (m *consoleModel) addLine(text string, kind int) {
	m.lines = append(m.lines, consoleLine{
		timestamp: time.Now(),
		text:      text,
		kind:      kind,
	})
	m.trimLines()
}

func (m *consoleModel) trimLines() {
	if len(m.lines) > m.maxLines {
		m.lines = m.lines[len(m.lines)-m.maxLines:]
	}
}

// formatElapsed formats a duration as a human-friendly string
func formatElapsed(d time.Duration) string {
	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	seconds %= 60
	minutes %= 60
	hours %= 24

	parts := []string{}
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, plural(seconds, "second"))
	}

	// Join with commas and "and" for last item
	if len(parts) == 1 {
		return parts[0]
	}
	if len(parts) == 2 {
		return parts[0] + " and " + parts[1]
	}
	last := parts[len(parts)-1]
	rest := strings.Join(parts[:len(parts)-1], ", ")
	return rest + ", and " + last
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
