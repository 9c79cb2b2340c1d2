package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/plasmidmap/plasmidmap/pkg/palette"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

// =============================================================================
// EditModel - Interactive feature editing
// =============================================================================

// EditModel is the bubbletea model behind "plasmidmap edit". It edits
// overrides only; the parsed elements are never changed.
type EditModel struct {
	Name      string
	Elements  []plasmid.Element // as parsed; overrides are keyed against these
	Overrides plasmid.Overrides
	Cursor    int
	Offset    int
	Height    int
	Saved     bool
	Dirty     bool

	renaming bool
	input    []rune
}

// NewEditModel creates an edit model over the parsed elements and any
// overrides loaded from an earlier session.
func NewEditModel(name string, elements []plasmid.Element, o plasmid.Overrides) EditModel {
	return EditModel{
		Name:      name,
		Elements:  elements,
		Overrides: o.Clone(),
		Height:    15,
	}
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

// current returns the elements with the overrides applied.
func (m EditModel) current() []plasmid.Element {
	return plasmid.Apply(m.Elements, m.Overrides)
}

func (m EditModel) key() plasmid.ElementKey {
	return plasmid.KeyOf(m.Elements, m.Cursor)
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.renaming {
			return m.updateRename(msg), nil
		}
		if len(m.Elements) == 0 {
			return m, tea.Quit
		}
		e := m.current()[m.Cursor]
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "w", "ctrl+s":
			m.Saved = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Elements)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "v":
			m.Overrides.SetVisible(m.key(), !e.Visible)
			m.Dirty = true
		case "s":
			m.Overrides.SetSide(m.key(), e.Side.Flip())
			m.Dirty = true
		case "c":
			m.Overrides.SetColor(m.key(), palette.Next(e.Color))
			m.Dirty = true
		case "r", "enter":
			m.renaming = true
			m.input = []rune(e.Name)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m EditModel) updateRename(msg tea.KeyMsg) EditModel {
	switch msg.Type {
	case tea.KeyEnter:
		if name := strings.TrimSpace(string(m.input)); name != "" {
			m.Overrides.SetLabel(m.key(), name)
			m.Dirty = true
		}
		m.renaming = false
	case tea.KeyEsc, tea.KeyCtrlC:
		m.renaming = false
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m
}

func (m EditModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Edit " + m.Name))
	b.WriteString("\n")
	if m.renaming {
		b.WriteString(StyleDim.Render("type a new label  ⏎ apply  esc cancel"))
	} else {
		b.WriteString(StyleDim.Render("↑/↓ navigate  space show/hide  s side  c color  r rename  w save  q quit"))
	}
	b.WriteString("\n\n")

	els := m.current()
	end := min(m.Offset+m.Height, len(els))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := els[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		name := e.Name
		if m.renaming && i == m.Cursor {
			name = string(m.input) + "█"
		}
		visible := "✓"
		if !e.Visible {
			visible = ""
		}
		rows = append(rows, []string{cursor, name, fmt.Sprintf("%d-%d", e.Start, e.End), e.Side.String(), swatch(e.Color), visible})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "Element", "Range", "Side", "Colour", "Shown").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(els) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			switch {
			case idx == m.Cursor:
				return base.Foreground(colorAccent).Bold(true)
			case !els[idx].Visible:
				return base.Foreground(colorFaint)
			}
			return base.Foreground(colorText)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	status := fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(els))
	if m.Dirty {
		status += "  modified"
	}
	b.WriteString(StyleDim.Render(status))

	return b.String()
}
