package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/maskgen/pkg/registry"
)

// runsCommand creates the command group for recorded runs.
func (c *CLI) runsCommand() *cobra.Command {
	var backend backendFlags

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List and show runs recorded with 'generate --record'",
	}
	cmd.PersistentFlags().StringVar(&backend.registry, "registry", os.Getenv(envRegistry), "run registry: memory, file:<dir> or mongodb://… (env "+envRegistry+")")
	cmd.PersistentFlags().StringVar(&backend.mongo, "mongo-uri", "", "read runs from MongoDB at this URI")

	cmd.AddCommand(c.runsListCommand(&backend))
	cmd.AddCommand(c.runsShowCommand(&backend))
	return cmd
}

func (c *CLI) runsListCommand(backend *backendFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), *backend, func(store registry.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					printInfo("No runs recorded")
					return nil
				}
				fmt.Println(runTable(runs, time.Now()))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs (0 for all)")
	return cmd
}

func (c *CLI) runsShowCommand(backend *backendFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a recorded run and its device parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := registry.ValidateID(args[0]); err != nil {
				return err
			}
			return withStore(cmd.Context(), *backend, func(store registry.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(run)
				}
				printRun(run)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full record as JSON")
	return cmd
}

func withStore(ctx context.Context, backend backendFlags, fn func(registry.Store) error) error {
	store, err := registry.Open(ctx, backend.registryURI())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func printRun(run *registry.Run) {
	fmt.Println(StyleTitle.Render(run.Design))
	printKeyValue("id", run.ID)
	printKeyValue("created", run.CreatedAt.Local().Format(time.DateTime))
	printKeyValue("hash", run.Hash)
	printKeyValue("top cell", run.TopCell)
	if run.Output != "" {
		printKeyValue("output", run.Output)
	}
	printNewline()
	for _, d := range run.Devices {
		fmt.Println(StyleValue.Render(d.Cell) + " " + StyleDim.Render(d.Kind))
		if d.Label != "" {
			printDetail("%s", d.Label)
		}
	}
}

func runTable(runs []*registry.Run, now time.Time) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID[:8],
			r.Design,
			fmt.Sprint(len(r.Devices)),
			formatAge(now.Sub(r.CreatedAt), r.CreatedAt),
			r.Output,
		})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Design", "Devices", "Created", "Output").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 3 || col == 4:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// formatAge renders d as a short relative time, falling back to the date
// for anything older than a week.
func formatAge(d time.Duration, t time.Time) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Format("Jan 2, 2006")
}
