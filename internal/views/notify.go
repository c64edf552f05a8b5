package views

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type Severity int

const (
	Info Severity = iota
	Success
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Notice struct {
	Severity Severity
	Message  string
}

// historyLimit is how many notices a Notifier keeps.
const historyLimit = 50

// Notifier prints transient messages and keeps the most recent ones for
// inspection.
type Notifier struct {
	mu      sync.Mutex
	out     io.Writer
	log     *log.Logger
	styles  map[Severity]lipgloss.Style
	history []Notice
}

func NewNotifier(out io.Writer, logger *log.Logger) *Notifier {
	if logger == nil {
		logger = log.Default()
	}
	r := lipgloss.NewRenderer(out)
	base := r.NewStyle().Bold(true).PaddingLeft(1)

	return &Notifier{
		out: out,
		log: logger.WithPrefix("notify"),
		styles: map[Severity]lipgloss.Style{
			Info:    base.Foreground(lipgloss.Color("12")),
			Success: base.Foreground(lipgloss.Color("10")),
			Error:   base.Foreground(lipgloss.Color("9")),
		},
	}
}

var icons = map[Severity]string{
	Info:    "i",
	Success: "✓",
	Error:   "✗",
}

func (n *Notifier) Notify(sev Severity, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.history = append(n.history, Notice{Severity: sev, Message: msg})
	if over := len(n.history) - historyLimit; over > 0 {
		n.history = slices.Delete(n.history, 0, over)
	}
	fmt.Fprintln(n.out, n.styles[sev].Render(icons[sev]+" "+msg))
	n.log.Debug("notice", "severity", sev, "message", msg)
}

func (n *Notifier) Info(msg string) { n.Notify(Info, msg) }
func (n *Notifier) Success(msg string) { n.Notify(Success, msg) }
func (n *Notifier) Error(msg string) { n.Notify(Error, msg) }

// Last returns the most recent notice.
func (n *Notifier) Last() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) == 0 {
		return Notice{}, false
	}
	return n.history[len(n.history)-1], true
}

func (n *Notifier) History() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notice, len(n.history))
	copy(out, n.history)
	return out
}
