package tui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConfigureColor turns colors off when requested, when NO_COLOR is set or
// when stdout is not a terminal
func ConfigureColor(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" || !IsTerminal(os.Stdout) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// ProgressLine redraws a single "label [bar] done/total" line in place.
// It only draws on terminals.
type ProgressLine struct {
	w       io.Writer
	label   string
	bar     progress.Model
	enabled bool
	drawn   bool
	mu      sync.Mutex
}

// NewProgressLine creates a progress line on w
func NewProgressLine(w io.Writer, label string) *ProgressLine {
	return &ProgressLine{
		w:       w,
		label:   label,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		enabled: IsTerminal(w),
	}
}

// Update redraws the line for done of total completed units
func (p *ProgressLine) Update(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled || total <= 0 {
		return
	}
	pct := float64(done) / float64(total)
	_, _ = fmt.Fprintf(p.w, "\r%s %s %d/%d", p.label, p.bar.ViewAs(pct), done, total)
	p.drawn = true
}

// Clear erases the line
func (p *ProgressLine) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.drawn {
		return
	}
	_, _ = fmt.Fprint(p.w, "\r\x1b[2K")
	p.drawn = false
}
