package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/render"
)

// hierarchyCommand creates the hierarchy command for drawing the cell graph.
func (c *CLI) hierarchyCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "hierarchy [preset|design.toml|mask.gds]",
		Short: "Draw the cell reference hierarchy",
		Long: `Draw the cell reference hierarchy of a mask with Graphviz.

Each cell is a node labelled with its polygon count; edges point from a
cell to the cells it places, with the number of placements.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDesigns,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "svg" && format != "dot" {
				return errors.New(errors.ErrCodeInvalidFormat, "hierarchy format must be svg or dot, got %q", format)
			}
			comp, base, err := loadLayout(args[0])
			if err != nil {
				return err
			}

			dot := render.HierarchyDOT(comp)
			data := []byte(dot)
			if format == "svg" {
				if data, err = render.RenderHierarchySVG(cmd.Context(), dot); err != nil {
					return err
				}
			}

			if output == "" {
				output = fmt.Sprintf("%s.hierarchy.%s", base, format)
			}
			if output == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Drew %d cells", len(comp.Cells()))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <name>.hierarchy.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, dot")
	return cmd
}
