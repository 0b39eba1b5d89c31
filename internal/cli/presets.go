package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/maskgen/pkg/config"
)

// presetsCommand creates the presets command listing built-in designs.
func (c *CLI) presetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in designs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := config.Presets()
			if err != nil {
				return err
			}
			fmt.Println(presetTable(presets, -1))
			printNewline()
			printNextStep("Generate one", "maskgen generate "+presets[0].Name)
			return nil
		},
	}
	cmd.AddCommand(c.presetsShowCommand())
	return cmd
}

func (c *CLI) presetsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "show [name]",
		Short:     "Print a preset's TOML source, a starting point for a design file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.PresetNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := config.PresetSource(args[0])
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(src)
			return err
		},
	}
}

// presetTable renders presets as a table. The row at cursor, if any, is
// highlighted.
func presetTable(presets []config.Preset, cursor int) string {
	rows := make([][]string, 0, len(presets))
	for i, p := range presets {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		rows = append(rows, []string{marker + p.Name, fmt.Sprint(p.Devices), p.Description})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Preset", "Devices", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col == 1 {
				base = base.Align(lipgloss.Right)
			}
			if row == cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			if col == 2 {
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}
