package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickerModel is the bubbletea model for interactive input selection:
// a scrollable multi-select list of input paths.
type pickerModel struct {
	items     []string
	checked   map[int]bool
	cursor    int
	height    int
	offset    int
	confirmed bool
}

func newPickerModel(items []string) pickerModel {
	checked := make(map[int]bool, len(items))
	for i := range items {
		checked[i] = true
	}
	return pickerModel{items: items, checked: checked, height: 15}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case " ":
			m.checked[m.cursor] = !m.checked[m.cursor]
		case "a":
			all := true
			for i := range m.items {
				if !m.checked[i] {
					all = false
					break
				}
			}
			for i := range m.items {
				m.checked[i] = !all
			}
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Inputs"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.items) {
		end = len(m.items)
	}
	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.checked[i] {
			mark = "[x]"
		}
		style := listNormalStyle
		if i == m.cursor {
			style = listSelectedStyle
		}
		b.WriteString(cursor + mark + " " + style.Render(m.items[i]) + "\n")
	}
	return b.String()
}

// runPicker shows the selection list and returns the confirmed items.
// Quitting without confirming returns nil.
func runPicker(items []string) ([]string, error) {
	final, err := tea.NewProgram(newPickerModel(items)).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(pickerModel)
	if !ok || !m.confirmed {
		return nil, nil
	}
	var selected []string
	for i, item := range m.items {
		if m.checked[i] {
			selected = append(selected, item)
		}
	}
	return selected, nil
}
