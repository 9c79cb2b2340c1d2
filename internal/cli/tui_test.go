package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plasmidmap/plasmidmap/pkg/palette"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

func testElements() []plasmid.Element {
	return []plasmid.Element{
		{Name: "lac promoter", Start: 100, End: 300, Side: plasmid.Up, Color: "lightgreen", Visible: true},
		{Name: "bla", Start: 400, End: 1200, Side: plasmid.Down, Color: "lightblue", Visible: true},
		{Name: "ori", Start: 1300, End: 2100, Side: plasmid.Up, Color: "lightcoral", Visible: true},
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m EditModel, keys ...tea.KeyMsg) EditModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(EditModel)
	}
	return m
}

func TestEditModelNavigation(t *testing.T) {
	m := NewEditModel("pTEST", testElements(), plasmid.Overrides{})

	m = press(t, m, runes("j"), runes("j"), runes("j"))
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", m.Cursor)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor)
	}
	m = press(t, m, runes("k"), runes("k"))
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
}

func TestEditModelScroll(t *testing.T) {
	m := NewEditModel("pTEST", testElements(), plasmid.Overrides{})
	m.Height = 2

	m = press(t, m, runes("j"), runes("j"))
	if m.Offset != 1 {
		t.Errorf("offset = %d, want 1", m.Offset)
	}
	m = press(t, m, runes("k"), runes("k"))
	if m.Offset != 0 {
		t.Errorf("offset = %d, want 0", m.Offset)
	}
}

func TestEditModelEdits(t *testing.T) {
	m := NewEditModel("pTEST", testElements(), plasmid.Overrides{})

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, runes("j"), runes("s"), runes("c"))
	if !m.Dirty {
		t.Error("model should be dirty after edits")
	}

	els := m.current()
	if els[0].Visible {
		t.Error("space should hide the first element")
	}
	if els[1].Side != plasmid.Up {
		t.Errorf("s should flip bla to Up, got %v", els[1].Side)
	}
	if want := palette.Next("lightblue"); els[1].Color != want {
		t.Errorf("c should cycle the color to %q, got %q", want, els[1].Color)
	}
	if m.Elements[1].Side != plasmid.Down {
		t.Error("parsed elements must not change")
	}

	m = press(t, m, runes("k"), runes("v"))
	if !m.current()[0].Visible {
		t.Error("v should show the element again")
	}
}

func TestEditModelRename(t *testing.T) {
	m := NewEditModel("pTEST", testElements(), plasmid.Overrides{})

	m = press(t, m, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.renaming {
		t.Fatal("enter should start renaming")
	}
	m = press(t, m,
		tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace},
		runes("Amp"), tea.KeyMsg{Type: tea.KeySpace}, runes("R"),
		tea.KeyMsg{Type: tea.KeyEnter})
	if m.renaming {
		t.Error("enter should finish renaming")
	}
	if got := m.current()[1].Name; got != "Amp R" {
		t.Errorf("label = %q, want %q", got, "Amp R")
	}
	if got := m.Overrides.Labels[plasmid.KeyOf(m.Elements, 1)]; got != "Amp R" {
		t.Errorf("override label = %q, want %q", got, "Amp R")
	}
}

func TestEditModelRenameCancel(t *testing.T) {
	m := NewEditModel("pTEST", testElements(), plasmid.Overrides{})

	m = press(t, m, runes("r"), runes("xyz"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.renaming || m.Dirty {
		t.Error("esc should cancel the rename without changes")
	}
	if got := m.current()[0].Name; got != "lac promoter" {
		t.Errorf("label = %q, want unchanged", got)
	}
}

func TestEditModelSaveAndQuit(t *testing.T) {
	m := NewEditModel("pTEST", testElements(), plasmid.Overrides{})

	next, cmd := m.Update(runes("w"))
	if !next.(EditModel).Saved {
		t.Error("w should mark the model saved")
	}
	if cmd == nil {
		t.Error("w should quit")
	}

	next, cmd = m.Update(runes("q"))
	if next.(EditModel).Saved {
		t.Error("q should not save")
	}
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestEditModelKeepsExistingOverrides(t *testing.T) {
	els := testElements()
	var o plasmid.Overrides
	o.SetLabel(plasmid.KeyOf(els, 1), "AmpR")

	m := NewEditModel("pTEST", els, o)
	m = press(t, m, runes("j"), runes("s"))

	if m.current()[1].Name != "AmpR" {
		t.Error("loaded overrides should apply")
	}
	if len(o.Sides) != 0 {
		t.Error("editing must not modify the caller's overrides")
	}
}

func TestEditModelView(t *testing.T) {
	m := NewEditModel("pTEST", testElements(), plasmid.Overrides{})
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})

	view := m.View()
	for _, want := range []string{"Edit pTEST", "lac promoter", "bla", "400-1200", "[1/3]", "modified"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
