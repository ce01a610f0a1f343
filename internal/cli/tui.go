package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coinvenn/coinvenn/pkg/holdings"
	"github.com/coinvenn/coinvenn/pkg/venn"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// EntityListModel - Interactive entity selection
// =============================================================================

// entityRow is one selectable entity with its display total.
type entityRow struct {
	name  string
	total float64
}

// EntityListModel is the bubbletea model for interactive entity selection.
// Space toggles an entity, enter confirms, q or esc cancels.
type EntityListModel struct {
	Rows     []entityRow
	Checked  map[int]bool
	Cursor   int
	Height   int
	Offset   int
	Confirm  bool
	Canceled bool
}

// NewEntityListModel creates a selection model over the index's entities,
// ranked by total value descending.
func NewEntityListModel(idx *holdings.Index) EntityListModel {
	names := venn.SelectEntities(idx, venn.All())
	rows := make([]entityRow, len(names))
	for i, name := range names {
		rows[i] = entityRow{name: name, total: idx.Entities[name].TotalValue}
	}
	return EntityListModel{
		Rows:    rows,
		Checked: make(map[int]bool, len(rows)),
		Height:  15,
	}
}

func (m EntityListModel) Init() tea.Cmd {
	return nil
}

func (m EntityListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Canceled = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			for i := range m.Rows {
				m.Checked[i] = true
			}
		case "n":
			m.Checked = make(map[int]bool, len(m.Rows))
		case "enter":
			m.Confirm = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m EntityListModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Select entities") + "\n")
	b.WriteString(listDimStyle.Render("space toggle · a all · n none · enter confirm · q cancel") + "\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		row := m.Rows[i]

		check := "[ ]"
		if m.Checked[i] {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %-28s %14s", check, row.name, compactUSD(row.total))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(listNormalStyle.Render("  "+line) + "\n")
		}
	}

	if len(m.Rows) > m.Height {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("\n%d-%d of %d", m.Offset+1, end, len(m.Rows))))
	}
	return b.String()
}

// Selection returns the chosen entity names, or nil when the user canceled
// or checked nothing (nothing checked means select all).
func (m EntityListModel) Selection() []string {
	if m.Canceled {
		return nil
	}
	var out []string
	for i, row := range m.Rows {
		if m.Checked[i] {
			out = append(out, row.name)
		}
	}
	return out
}

// pickEntities runs the interactive entity picker. The second return value
// is false when the user canceled. A nil selection with ok means "all".
func pickEntities(idx *holdings.Index) ([]string, bool, error) {
	model := NewEntityListModel(idx)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, false, fmt.Errorf("interactive selection: %w", err)
	}
	m, isModel := final.(EntityListModel)
	if !isModel || m.Canceled || !m.Confirm {
		return nil, false, nil
	}
	return m.Selection(), true, nil
}

// compactUSD formats a dollar total for the picker column.
func compactUSD(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
