package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/maskgen/pkg/config"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// PresetListModel - Interactive preset selection
// =============================================================================

// PresetListModel is the bubbletea model for interactive preset selection.
type PresetListModel struct {
	Presets  []config.Preset
	Cursor   int
	Selected string
}

// NewPresetListModel creates a new preset list model.
func NewPresetListModel(presets []config.Preset) PresetListModel {
	return PresetListModel{Presets: presets}
}

func (m PresetListModel) Init() tea.Cmd {
	return nil
}

func (m PresetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Presets)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Presets)-1, 0)
		case "enter":
			if len(m.Presets) > 0 {
				m.Selected = m.Presets[m.Cursor].Name
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PresetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ generate  q quit"))
	b.WriteString("\n\n")
	b.WriteString(presetTable(m.Presets, m.Cursor))
	b.WriteString("\n")

	return b.String()
}

// runPresetPicker shows the picker and returns the chosen preset name, or
// "" if the user quit.
func runPresetPicker() (string, error) {
	presets, err := config.Presets()
	if err != nil {
		return "", err
	}
	final, err := tea.NewProgram(NewPresetListModel(presets)).Run()
	if err != nil {
		return "", err
	}
	return final.(PresetListModel).Selected, nil
}
