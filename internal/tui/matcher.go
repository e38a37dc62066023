package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/internal/tui/style"
)

// QueryMarker is the character users may type in front of a story id
const QueryMarker = "#"

// defaultVisibleLines is used until the terminal reports its size
const defaultVisibleLines = 10

// NormalizeQuery strips a leading QueryMarker and lowercases the query
func NormalizeQuery(query string) string {
	query = strings.TrimSpace(query)
	query = strings.TrimPrefix(query, QueryMarker)
	return strings.ToLower(query)
}

// Rank orders candidates by bigram similarity to query, best first, keeping
// only those with a positive score. When nothing scores, all candidates are
// returned in their original order. limit caps the result when positive.
func Rank(query string, candidates []string, limit int) []string {
	q := NormalizeQuery(query)
	metric := metrics.NewSorensenDice()
	metric.NgramSize = 2

	type scored struct {
		name  string
		score float64
	}
	var matches []scored
	if q != "" {
		for _, c := range candidates {
			if score := strutil.Similarity(q, strings.ToLower(c), metric); score > 0 {
				matches = append(matches, scored{name: c, score: score})
			}
		}
	}

	var ranked []string
	if len(matches) == 0 {
		ranked = append(ranked, candidates...)
	} else {
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
		ranked = make([]string, 0, len(matches))
		for _, m := range matches {
			ranked = append(ranked, m.name)
		}
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// matcherModel is the incremental story selection model
type matcherModel struct {
	prompt     string
	candidates []string
	query      string
	ranked     []string
	cursor     int
	visible    int
	selected   string
	canceled   bool
	done       bool
}

func newMatcherModel(prompt, query string, candidates []string) matcherModel {
	m := matcherModel{
		prompt:     prompt,
		candidates: candidates,
		query:      query,
		visible:    defaultVisibleLines,
	}
	m.rerank()
	return m
}

func (m *matcherModel) rerank() {
	m.ranked = Rank(m.query, m.candidates, m.visible)
	if m.cursor >= len(m.ranked) {
		m.cursor = len(m.ranked) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m matcherModel) Init() tea.Cmd {
	return nil
}

func (m matcherModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// prompt line, help line and a blank line
		m.visible = max(msg.Height-3, 1)
		m.rerank()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if len(m.ranked) > 0 {
				m.selected = m.ranked[m.cursor]
			}
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			m.done = true
			return m, tea.Quit
		case tea.KeyUp, tea.KeyShiftTab:
			if m.cursor > 0 {
				m.cursor--
			} else {
				m.cursor = len(m.ranked) - 1
			}
			return m, nil
		case tea.KeyDown, tea.KeyTab:
			if m.cursor < len(m.ranked)-1 {
				m.cursor++
			} else {
				m.cursor = 0
			}
			return m, nil
		case tea.KeyBackspace:
			if len(m.query) > 0 {
				runes := []rune(m.query)
				m.query = string(runes[:len(runes)-1])
				m.rerank()
			}
			return m, nil
		case tea.KeyRunes, tea.KeySpace:
			m.query += string(msg.Runes)
			m.cursor = 0
			m.rerank()
			return m, nil
		}
	}
	return m, nil
}

func (m matcherModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s\n", style.ColorBlue(m.prompt), m.query)
	highlight := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	for i, name := range m.ranked {
		if i == m.cursor {
			fmt.Fprintf(&b, "%s\n", highlight.Render("➤ "+name))
		} else {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}
	b.WriteString(style.ColorDim("(Enter to switch, Ctrl+C to cancel, type to filter)"))
	return b.String()
}

// SelectStory lets the user pick one of candidates, starting from query.
// It returns ErrInterrupted when the user cancels.
func SelectStory(prompt, query string, candidates []string) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", storyerrors.NewUserInputError("no story branches to choose from")
	}

	p := tea.NewProgram(newMatcherModel(prompt, query, candidates), tea.WithOutput(os.Stderr))
	model, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := model.(matcherModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}
	if m.canceled {
		return "", storyerrors.ErrInterrupted
	}
	return m.selected, nil
}
