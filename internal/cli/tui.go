package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/treesquares/treesquares/pkg/batch"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// JobPickerModel - Interactive job selection
// =============================================================================

// JobPickerModel is the bubbletea model selecting the jobs of a batch run.
type JobPickerModel struct {
	Jobs      []batch.Job
	Chosen    map[int]bool
	Cursor    int
	Offset    int
	Height    int
	Confirmed bool
}

// NewJobPickerModel creates a picker over jobs with nothing chosen.
func NewJobPickerModel(jobs []batch.Job) JobPickerModel {
	return JobPickerModel{
		Jobs:   jobs,
		Chosen: make(map[int]bool),
		Height: 15,
	}
}

func (m JobPickerModel) Init() tea.Cmd {
	return nil
}

func (m JobPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Jobs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Jobs) > 0 && !m.Jobs[m.Cursor].Disabled {
				m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
			}
		case "a":
			all := !m.allChosen()
			for i, j := range m.Jobs {
				if !j.Disabled {
					m.Chosen[i] = all
				}
			}
		case "enter":
			if len(m.Jobs) == 0 {
				return m, tea.Quit
			}
			if len(m.Selected()) == 0 {
				if m.Jobs[m.Cursor].Disabled {
					return m, nil
				}
				m.Chosen[m.Cursor] = true
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m JobPickerModel) allChosen() bool {
	for i, j := range m.Jobs {
		if !j.Disabled && !m.Chosen[i] {
			return false
		}
	}
	return true
}

// Selected returns the chosen jobs in file order.
func (m JobPickerModel) Selected() []batch.Job {
	var out []batch.Job
	for i, j := range m.Jobs {
		if m.Chosen[i] {
			out = append(out, j)
		}
	}
	return out
}

func (m JobPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Jobs"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Jobs))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		j := m.Jobs[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		switch {
		case j.Disabled:
			mark = " # "
		case m.Chosen[i]:
			mark = "[x]"
		}
		rows = append(rows, []string{cursor + mark, j.Label(), strings.Join(j.Levels, " › "), j.Output})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Job", "Levels", "Output").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Jobs) {
				return lipgloss.NewStyle()
			}
			style := lipgloss.NewStyle()
			switch {
			case m.Jobs[idx].Disabled:
				style = style.Foreground(colorDim)
			case m.Chosen[idx]:
				style = style.Foreground(colorGreen)
			case col == 2 || col == 3:
				style = style.Foreground(colorGray)
			}
			if idx == m.Cursor {
				style = style.Bold(true)
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d selected · [%d/%d]", len(m.Selected()), m.Cursor+1, len(m.Jobs))))

	return b.String()
}

// pickJobs runs the picker and returns the chosen jobs; nil when the user
// quit without confirming.
func pickJobs(jobs []batch.Job) ([]batch.Job, error) {
	final, err := tea.NewProgram(NewJobPickerModel(jobs)).Run()
	if err != nil {
		return nil, fmt.Errorf("job picker: %w", err)
	}
	m := final.(JobPickerModel)
	if !m.Confirmed {
		return nil, nil
	}
	return m.Selected(), nil
}
