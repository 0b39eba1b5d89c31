package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/gds"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// inspectCommand creates the inspect command for summarizing GDSII files.
func (c *CLI) inspectCommand() *cobra.Command {
	var listCells bool

	cmd := &cobra.Command{
		Use:   "inspect [mask.gds]",
		Short: "Print statistics of a GDSII file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], listCells)
		},
	}
	cmd.Flags().BoolVar(&listCells, "cells", false, "list every cell")
	return cmd
}

func runInspect(path string, listCells bool) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "gds file %s not found", path)
		}
		return err
	}
	defer f.Close()

	lib, err := gds.Read(f)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", path)
	}
	stats := lib.Stats()

	fmt.Println(StyleTitle.Render(lib.Name))
	printKeyValue("units", fmt.Sprintf("%g m user, %g m database", lib.UserUnit, lib.DBUnit))
	printKeyValue("cells", fmt.Sprint(stats.Cells))
	printKeyValue("polygons", fmt.Sprint(stats.Boundaries))
	printKeyValue("references", fmt.Sprint(stats.Refs))
	printKeyValue("texts", fmt.Sprint(stats.Texts))
	printKeyValue("max points", fmt.Sprint(stats.MaxPoints))
	if !stats.BBox.Empty() {
		printKeyValue("size", fmt.Sprintf("%.2f × %.2f µm", stats.BBox.Width(), stats.BBox.Height()))
	}
	for _, l := range sortedLayers(stats.PerLayer) {
		printKeyValue("layer "+l.String(), fmt.Sprintf("%s %d", layerName(l), stats.PerLayer[l]))
	}
	for _, top := range lib.TopCells() {
		printKeyValue("top cell", top.Name)
	}

	if listCells {
		printNewline()
		fmt.Println(cellTable(lib))
	}
	return nil
}

func sortedLayers(m map[layout.Layer]int) []layout.Layer {
	out := make([]layout.Layer, 0, len(m))
	for l := range m {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].Datatype < out[j].Datatype
	})
	return out
}

func layerName(l layout.Layer) string {
	switch l {
	case layout.LayerMetal:
		return StyleMetal.Render(l.Name())
	case layout.LayerResist:
		return StyleResist.Render(l.Name())
	}
	return StyleDim.Render("other")
}

func cellTable(lib *gds.Library) string {
	rows := make([][]string, 0, len(lib.Cells))
	for _, cell := range lib.Cells {
		rows = append(rows, []string{
			cell.Name,
			fmt.Sprint(len(cell.Boundaries)),
			fmt.Sprint(len(cell.Refs)),
			fmt.Sprint(len(cell.Texts)),
		})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Cell", "Polygons", "Refs", "Texts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}
