package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/coinvenn/coinvenn/pkg/holdings"
)

func pickerIndex() *holdings.Index {
	return &holdings.Index{
		Entities: map[string]*holdings.Entity{
			"A": {Name: "A", TotalValue: 100, Assets: map[string]holdings.Holding{}},
			"B": {Name: "B", TotalValue: 350, Assets: map[string]holdings.Holding{}},
			"C": {Name: "C", TotalValue: 2_000_000_000, Assets: map[string]holdings.Holding{}},
		},
		Assets: map[string]*holdings.Asset{},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEntityListModelRanksByValue(t *testing.T) {
	m := NewEntityListModel(pickerIndex())
	if len(m.Rows) != 3 {
		t.Fatalf("rows = %d", len(m.Rows))
	}
	if m.Rows[0].name != "C" || m.Rows[1].name != "B" || m.Rows[2].name != "A" {
		t.Errorf("rows should rank by value desc: %+v", m.Rows)
	}
}

func TestEntityListModelToggleAndConfirm(t *testing.T) {
	m := NewEntityListModel(pickerIndex())

	next, _ := m.Update(key(" ")) // check C
	m = next.(EntityListModel)
	next, _ = m.Update(key("j")) // move to B
	m = next.(EntityListModel)
	next, _ = m.Update(key(" ")) // check B
	m = next.(EntityListModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(EntityListModel)

	if !m.Confirm || m.Canceled {
		t.Fatal("enter should confirm")
	}
	sel := m.Selection()
	if len(sel) != 2 || sel[0] != "C" || sel[1] != "B" {
		t.Errorf("selection = %v, want [C B]", sel)
	}
}

func TestEntityListModelSelectAllAndNone(t *testing.T) {
	m := NewEntityListModel(pickerIndex())

	next, _ := m.Update(key("a"))
	m = next.(EntityListModel)
	if len(m.Selection()) != 3 {
		t.Errorf("a should check all rows, got %v", m.Selection())
	}

	next, _ = m.Update(key("n"))
	m = next.(EntityListModel)
	if m.Selection() != nil {
		t.Errorf("n should clear all checks, got %v", m.Selection())
	}
}

func TestEntityListModelCancel(t *testing.T) {
	m := NewEntityListModel(pickerIndex())
	next, _ := m.Update(key(" "))
	m = next.(EntityListModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(EntityListModel)

	if !m.Canceled {
		t.Error("esc should cancel")
	}
	if m.Selection() != nil {
		t.Error("canceled selection should be nil")
	}
}

func TestEntityListModelView(t *testing.T) {
	m := NewEntityListModel(pickerIndex())
	view := m.View()
	for _, want := range []string{"Select entities", "C", "$2.0B"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
