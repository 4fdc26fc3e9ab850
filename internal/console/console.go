// Package console adapts the form and reservation controllers to a terminal:
// alerts are drawn as bordered boxes, confirmations read a y/N answer, and
// navigation is tracked as a route stack.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/ports"
)

var (
	colorInfo    = lipgloss.Color("#101F38")
	colorSuccess = lipgloss.Color("#2c6e49")
	colorError   = lipgloss.Color("#c0392b")
	colorMuted   = lipgloss.Color("#6b5e4e")

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// Alerts writes alerts to Out and reads confirmations from In.
type Alerts struct {
	out io.Writer
	in  *bufio.Reader
	// AssumeYes answers every confirmation with yes without prompting.
	AssumeYes bool
}

func NewAlerts(out io.Writer, in io.Reader) *Alerts {
	return &Alerts{out: out, in: bufio.NewReader(in)}
}

func (a *Alerts) Alert(al domain.Alert) {
	color := colorInfo
	switch al.Kind {
	case domain.AlertSuccess:
		color = colorSuccess
	case domain.AlertError:
		color = colorError
	}
	body := titleStyle.Foreground(color).Render(al.Title)
	if al.Message != "" {
		body += "\n" + al.Message
	}
	fmt.Fprintln(a.out, boxStyle.BorderForeground(color).Render(body))
}

// Confirm prompts with message and accepts y or yes. End of input is no.
func (a *Alerts) Confirm(title, message string) bool {
	if a.AssumeYes {
		return true
	}
	fmt.Fprintf(a.out, "%s %s %s ",
		titleStyle.Render(title+":"), message, mutedStyle.Render("[y/N]"))
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(a.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Navigator keeps the screen stack of a CLI session.
type Navigator struct {
	stack []string
}

// NewNavigator starts with root as the only screen.
func NewNavigator(root string) *Navigator {
	return &Navigator{stack: []string{root}}
}

func (n *Navigator) Navigate(route string) { n.stack = append(n.stack, route) }

// Back pops the current screen; the root screen is never popped.
func (n *Navigator) Back() {
	if len(n.stack) > 1 {
		n.stack = n.stack[:len(n.stack)-1]
	}
}

func (n *Navigator) Current() string { return n.stack[len(n.stack)-1] }

// Fader draws an opacity transition as a shading ramp over the fade duration.
type Fader struct {
	Out io.Writer
}

var ramp = []string{" ", "░", "▒", "▓", "█"}

func (f Fader) Fade(from, to float64, d time.Duration, done func()) {
	steps := len(ramp)
	for i := 0; i < steps; i++ {
		level := from + (to-from)*float64(i)/float64(steps-1)
		idx := int(level*float64(steps-1) + 0.5)
		fmt.Fprint(f.Out, "\r"+strings.Repeat(ramp[idx], 24))
		time.Sleep(d / time.Duration(steps))
	}
	fmt.Fprint(f.Out, "\r"+strings.Repeat(" ", 24)+"\r")
	done()
}

// Table renders label/value rows aligned on the label column.
func Table(rows []domain.PreviewRow) string {
	width := 0
	for _, r := range rows {
		if w := lipgloss.Width(r.Label); w > width {
			width = w
		}
	}
	label := lipgloss.NewStyle().Width(width).Bold(true)
	var b strings.Builder
	for _, r := range rows {
		v := r.Value
		if v == domain.NotApplicableText {
			v = mutedStyle.Render(v)
		}
		b.WriteString(label.Render(r.Label) + "  " + v + "\n")
	}
	return b.String()
}

var (
	_ ports.Alerter   = (*Alerts)(nil)
	_ ports.Navigator = (*Navigator)(nil)
	_ ports.Animator  = Fader{}
)
