package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/maskgen/pkg/config"
	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/pipeline"
)

// generateCommand creates the generate command, the main entry point.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output      string
		formatsStr  string
		interactive bool
		backend     backendFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate [preset|design.toml]",
		Short: "Generate a GDSII mask from a preset or design file",
		Long: `Generate a GDSII mask from a preset or design file.

The argument is a path to a TOML design or the name of a built-in preset
(see 'maskgen presets'). Previews can be written alongside the mask:

  maskgen generate cmr-sweep -f gds,svg,png
  maskgen generate chip.toml -o out/chip.gds --record

Outputs are cached by the expanded design, so regenerating an unchanged
design is instant. Use --refresh to rebuild anyway.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDesigns,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.Formats = formats

			source, err := pickSource(args, interactive)
			if err != nil || source == "" {
				return err
			}
			design, err := config.Resolve(source)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), design, opts, output, backend)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: the design's output) or base path for several formats")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", pipeline.FormatGDS, "output format(s): gds, svg, png, pdf, dot (comma-separated)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "preview resolution in pixels per µm")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "omit text labels from previews")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached outputs")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "save the run in the registry")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a preset interactively")
	backend.register(cmd)

	return cmd
}

// pickSource returns the design argument, or runs the preset picker.
// An empty source with a nil error means the picker was cancelled.
func pickSource(args []string, interactive bool) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !interactive {
		return "", errors.New(errors.ErrCodeInvalidInput, "specify a preset or design file, or use --interactive (see 'maskgen presets')")
	}
	name, err := runPresetPicker()
	if err != nil {
		return "", err
	}
	if name == "" {
		printInfo("Cancelled")
	}
	return name, nil
}

func (c *CLI) runGenerate(ctx context.Context, design *config.Design, opts pipeline.Options, output string, backend backendFlags) error {
	runner, err := c.newRunner(ctx, backend, opts.Record)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	paths := artifactPaths(output, design.OutputPath(), opts.Formats)
	opts.Design = design
	opts.Logger = c.Logger
	opts.Output = paths[pipeline.FormatGDS]

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %s...", design.Name))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	printSuccess("Generated %s", StyleHighlight.Render(design.Name))
	printStats(result.Stats, result.CacheInfo.DesignHit)
	if err := writeArtifacts(result.Artifacts, paths, opts.Formats); err != nil {
		return err
	}
	if result.Run != nil {
		printKeyValue("run", result.Run.ID)
	}
	prog.done("Done")

	if gdsPath, ok := paths[pipeline.FormatGDS]; ok {
		printNewline()
		printNextStep("Preview it", "maskgen preview "+gdsPath)
	}
	return nil
}
