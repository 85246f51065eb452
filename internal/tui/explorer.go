// Package tui is the interactive dose explorer: pick a regimen, nudge doses,
// and watch the evaluation and safety snapshot update.
package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/physiosim/internal/config"
	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/report"
	"github.com/san-kum/physiosim/internal/response"
	"github.com/san-kum/physiosim/internal/stack"
	"github.com/san-kum/physiosim/internal/systemic"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

type state int

const (
	stateMenu state = iota
	stateExplore
)

type view int

const (
	viewEvaluation view = iota
	viewSnapshot
)

const historyLen = 40

type presetRef struct {
	goal, name string
}

type Model struct {
	ref   *pkpd.Reference
	state state
	view  view

	presets []presetRef
	cursor  int

	cfg         *config.Config
	entryCursor int
	editing     bool
	editBuf     string
	goals       []string

	eval    stack.Result
	snap    systemic.Snapshot
	history []float64

	width  int
	height int
}

// NewExplorer starts at the preset menu. A non-nil cfg is offered as the
// first menu item.
func NewExplorer(ref *pkpd.Reference, cfg *config.Config) *Model {
	m := &Model{
		ref:    ref,
		goals:  ref.GoalKeys(),
		width:  100,
		height: 40,
	}
	if cfg != nil {
		m.presets = append(m.presets, presetRef{})
		m.cfg = cfg.Clone()
	}
	for _, g := range config.Goals() {
		for _, n := range config.ListPresets(g) {
			m.presets = append(m.presets, presetRef{goal: g, name: n})
		}
	}
	return m
}

// Run takes over the terminal until the user quits.
func Run(ref *pkpd.Reference, cfg *config.Config) error {
	_, err := tea.NewProgram(NewExplorer(ref, cfg), tea.WithAltScreen()).Run()
	return err
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateExplore:
		return m.exploreKey(msg)
	}
	return nil
}

func (m *Model) menuKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.presets) == 0 {
			return nil
		}
		p := m.presets[m.cursor]
		if p.name != "" {
			m.cfg = config.GetPreset(p.goal, p.name)
		}
		if m.cfg == nil {
			return nil
		}
		m.state = stateExplore
		m.entryCursor = 0
		m.history = m.history[:0]
		m.recompute()
		return tea.ClearScreen
	}
	return nil
}

func (m *Model) exploreKey(msg tea.KeyMsg) tea.Cmd {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil && val >= 0 {
				m.cfg.Stack[m.entryCursor].Dose = val
				m.recompute()
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' {
					m.editBuf += string(c)
				}
			}
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "q", "esc":
		m.state = stateMenu
		return tea.ClearScreen
	case "up", "k":
		if m.entryCursor > 0 {
			m.entryCursor--
		}
	case "down", "j":
		if m.entryCursor < len(m.cfg.Stack)-1 {
			m.entryCursor++
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case "enter", " ":
		if len(m.cfg.Stack) > 0 {
			m.editing = true
			m.editBuf = fmt.Sprintf("%g", m.cfg.Stack[m.entryCursor].Dose)
		}
	case "g":
		m.cycleGoal()
	case "tab", "v":
		m.view = (m.view + 1) % 2
	}
	return nil
}

// doseStep is the nudge for one keypress: 5 mg for tablets, 25 mg otherwise.
func (m *Model) doseStep(e pkpd.StackEntry) float64 {
	if c, ok := m.ref.Compound(e.Compound); ok && c.IsTablet() {
		if c.Class == pkpd.Ancillary {
			return 0.25
		}
		return 5
	}
	return 25
}

func (m *Model) adjust(dir float64) {
	if len(m.cfg.Stack) == 0 {
		return
	}
	e := &m.cfg.Stack[m.entryCursor]
	e.Dose = math.Max(0, e.Dose+dir*m.doseStep(*e))
	m.recompute()
}

func (m *Model) cycleGoal() {
	if len(m.goals) == 0 {
		return
	}
	next := 0
	for i, g := range m.goals {
		if g == m.cfg.Goal {
			next = (i + 1) % len(m.goals)
		}
	}
	m.cfg.Goal = m.goals[next]
	m.recompute()
}

func (m *Model) recompute() {
	m.eval = m.cfg.Evaluate(m.ref)
	m.snap = systemic.CalculateCycleMetrics(m.ref, m.cfg.Stack, m.cfg.SystemicOptions())
	m.history = append(m.history, m.eval.NetScore)
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m *Model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateExplore:
		return m.viewExplore()
	}
	return ""
}

func (m *Model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + cyan.Render("p h y s i o s i m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	for i, p := range m.presets {
		name, desc := p.name, p.goal
		if name == "" {
			name, desc = "current", m.cfg.Goal
		}
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", name)) + dimmer.Render(desc) + "\n")
		}
	}
	b.WriteString("\n" + dim.Render("      ↑↓ select   enter explore   q quit") + "\n")
	return b.String()
}

func (m *Model) viewExplore() string {
	var b strings.Builder
	b.WriteString("\n   " + cyan.Render(m.cfg.Name) + "  " + dim.Render("goal "+m.cfg.Goal) + "\n\n")

	for i, e := range m.cfg.Stack {
		val := fmt.Sprintf("%8.2f mg", e.Dose)
		if m.editing && i == m.entryCursor {
			val = fmt.Sprintf("%8s mg", m.editBuf+"▋")
		}
		freq := fmt.Sprintf("%.1f/wk", float64(e.Frequency))
		if i == m.entryCursor {
			b.WriteString("   " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-14s", e.Compound)) + magenta.Render(val) + "  " + dim.Render(freq) + "\n")
		} else {
			b.WriteString("     " + dim.Render(fmt.Sprintf("%-14s", e.Compound)) + dim.Render(val) + "  " + dimmer.Render(freq) + "\n")
		}
	}
	b.WriteString("\n   " + dim.Render("net ") + sparkline(m.history) + "\n\n")

	if m.view == viewEvaluation {
		b.WriteString(report.Evaluation(m.eval))
		if notes := report.Narrative(response.Narrative(m.cfg.Profile)); notes != "" {
			b.WriteString("\n" + notes)
		}
	} else {
		b.WriteString(report.Snapshot(m.snap))
	}

	b.WriteString("\n\n" + dim.Render("   ↑↓ select  ←→ dose  enter edit  g goal  tab view  esc back") + "\n")
	return b.String()
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return report.Value.Render(b.String())
}
