package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/physiosim/internal/config"
	"github.com/san-kum/physiosim/internal/refdata"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func explorer(t *testing.T) *Model {
	t.Helper()
	ref, err := refdata.Default()
	if err != nil {
		t.Fatalf("load reference: %v", err)
	}
	m := NewExplorer(ref, config.DefaultConfig())
	m.Update(key("enter"))
	if m.state != stateExplore {
		t.Fatalf("expected explore state, got %d", m.state)
	}
	return m
}

func TestAdjustDoseRecomputes(t *testing.T) {
	m := explorer(t)
	before := m.cfg.Stack[0].Dose
	benefit := m.eval.Compounds[0].Benefit

	m.Update(key("right"))

	if m.cfg.Stack[0].Dose != before+25 {
		t.Errorf("expected dose %f, got %f", before+25, m.cfg.Stack[0].Dose)
	}
	if m.eval.Compounds[0].Benefit <= benefit {
		t.Errorf("expected benefit to rise above %f, got %f", benefit, m.eval.Compounds[0].Benefit)
	}
	if len(m.history) != 2 {
		t.Errorf("expected 2 history points, got %d", len(m.history))
	}
}

func TestDoseNeverNegative(t *testing.T) {
	m := explorer(t)
	for i := 0; i < 50; i++ {
		m.Update(key("left"))
	}
	if m.cfg.Stack[0].Dose != 0 {
		t.Errorf("expected dose floored at 0, got %f", m.cfg.Stack[0].Dose)
	}
}

func TestEditDose(t *testing.T) {
	m := explorer(t)
	m.Update(key("enter"))
	if !m.editing {
		t.Fatal("expected edit mode")
	}
	m.editBuf = ""
	for _, r := range "400" {
		m.Update(key(string(r)))
	}
	m.Update(key("enter"))

	if m.cfg.Stack[0].Dose != 400 {
		t.Errorf("expected dose 400, got %f", m.cfg.Stack[0].Dose)
	}
}

func TestCycleGoal(t *testing.T) {
	m := explorer(t)
	start := m.cfg.Goal
	m.Update(key("g"))
	if m.cfg.Goal == start {
		t.Errorf("expected goal to change from %s", start)
	}
	if _, ok := m.ref.Goal(m.cfg.Goal); !ok {
		t.Errorf("cycled to unknown goal %s", m.cfg.Goal)
	}
}

func TestViews(t *testing.T) {
	m := explorer(t)
	if !strings.Contains(m.View(), "net score") {
		t.Error("expected the evaluation view")
	}
	m.Update(key("v"))
	if !strings.Contains(m.View(), "Systemic load") {
		t.Error("expected the snapshot view")
	}
	m.Update(key("esc"))
	if !strings.Contains(m.View(), "physiosim") && m.state != stateMenu {
		t.Error("expected the menu after esc")
	}
}

func TestMenuLoadsPreset(t *testing.T) {
	ref, err := refdata.Default()
	if err != nil {
		t.Fatal(err)
	}
	m := NewExplorer(ref, nil)
	m.Update(key("down"))
	m.Update(key("enter"))

	want := m.presets[1]
	if m.cfg == nil || m.cfg.Name != want.name {
		t.Errorf("expected preset %s loaded", want.name)
	}
}

func TestSparkline(t *testing.T) {
	if sparkline(nil) != "" {
		t.Error("expected empty sparkline")
	}
	if s := sparkline([]float64{1, 2, 3}); !strings.Contains(s, "▁") || !strings.Contains(s, "█") {
		t.Errorf("expected full range sparkline, got %q", s)
	}
}
