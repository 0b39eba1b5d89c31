package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/maskgen/pkg/config"
	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/pipeline"
)

// previewCommand creates the preview command for rendering masks as images.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		backend    backendFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "preview [preset|design.toml|mask.gds]",
		Short: "Render a mask to SVG, PNG or PDF",
		Long: `Render a mask to SVG, PNG or PDF.

The input is a design (file or preset), which is built first, or an existing
GDSII file, which is read back and drawn as is. Resist is drawn beneath
metal so etch windows stay visible. PDF output needs rsvg-convert.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDesigns,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			for _, f := range formats {
				if f == pipeline.FormatGDS {
					return errors.New(errors.ErrCodeInvalidFormat, "preview formats are svg, png, pdf and dot; use 'generate' for gds")
				}
			}
			opts.Formats = formats
			if isGDS(args[0]) {
				return c.runPreviewGDS(args[0], opts, output)
			}
			design, err := config.Resolve(args[0])
			if err != nil {
				return err
			}
			return c.runPreviewDesign(cmd.Context(), design, opts, output, backend)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", pipeline.FormatSVG, "output format(s): svg, png, pdf, dot (comma-separated)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "resolution in pixels per µm")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "omit text labels")
	backend.register(cmd)

	return cmd
}

func (c *CLI) runPreviewDesign(ctx context.Context, design *config.Design, opts pipeline.Options, output string, backend backendFlags) error {
	runner, err := c.newRunner(ctx, backend, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Design = design
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", design.Name))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Preview failed")
		return err
	}
	spinner.Stop()

	printSuccess("Rendered %s", StyleHighlight.Render(design.Name))
	printStats(result.Stats, result.CacheInfo.RenderHit)
	return writeArtifacts(result.Artifacts, artifactPaths(output, design.OutputPath(), opts.Formats), opts.Formats)
}

func (c *CLI) runPreviewGDS(path string, opts pipeline.Options, output string) error {
	comp, err := loadGDS(path)
	if err != nil {
		return err
	}
	if opts.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidParam, "scale must be positive, got %g", opts.Scale)
	}
	prog := newProgress(c.Logger)
	artifacts, err := pipeline.Render(comp, opts)
	if err != nil {
		return err
	}
	prog.done("Rendered " + comp.Name)
	return writeArtifacts(artifacts, artifactPaths(output, path, opts.Formats), opts.Formats)
}
