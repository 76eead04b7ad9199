package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clustersketch/clustersketch/pkg/hmmer"
	"github.com/clustersketch/clustersketch/pkg/pipeline"
)

// drawCommand creates the draw command, the main entry point: parse
// inputs, annotate, lay out, and render figures.
func (c *CLI) drawCommand() *cobra.Command {
	var (
		outDir     string
		cfgPath    string
		bgclist    string
		includeStr string
		excludeStr string
		hmmStr     string
		colorMode  string
		stackName  string
		stacked    bool
		gaps       bool
		mirror     bool
		noDomains  bool
		override   bool
		pick       bool
		workers    int
		cpus       int
	)

	cmd := &cobra.Command{
		Use:   "draw [inputs...]",
		Short: "Render gene cluster figures as SVG",
		Long: `Render gene cluster figures as SVG.

Inputs are GenBank files (.gb, .gbk, .gbff), cluster blobs (.bgc,
.bgccase), or directories containing them. By default each cluster is
rendered into its own figure; --stacked draws all clusters in one
figure, aligned and ordered by the alignment list when --bgclist is
given.

An alignment list is a tab-separated file with one row per cluster:

	cluster_id	reference_protein_id	[mirror_flag]

Clusters align so the reference proteins share one vertical line, and a
cluster is mirrored automatically when its reference gene points
backwards. HMM domain scanning needs --hmm with one or more pressed
profile databases and the hmmscan binary on PATH.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := c.loadStyle(cfgPath)
			if err != nil {
				return err
			}
			if colorMode != "" {
				style.ColorMode = colorMode
			}
			if mirror {
				style.Mirror = true
			}
			if noDomains {
				style.DrawDomains = false
			}

			inputs := args
			if pick {
				inputs, err = pickInputs(inputs)
				if err != nil {
					return err
				}
				if len(inputs) == 0 {
					printWarning("nothing selected")
					return nil
				}
			}

			var databases []string
			if style.DrawDomains {
				databases = parseList(hmmStr)
			}
			scanner, err := newScanner(databases, cpus)
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				Inputs:        inputs,
				Include:       parseList(includeStr),
				Exclude:       parseList(excludeStr),
				AlignmentList: bgclist,
				Override:      override,
				Style:         style,
				Stacked:       stacked,
				StackName:     stackName,
				Gaps:          gaps,
				OutDir:        outDir,
				Workers:       workers,
				Logger:        c.Logger,
			}
			return c.runDraw(cmd.Context(), opts, scanner)
		},
	}

	cmd.Flags().StringVarP(&outDir, "outdir", "o", ".", "output directory")
	cmd.Flags().StringVar(&cfgPath, "cfg", "", "arrow style TOML file")
	cmd.Flags().StringVar(&bgclist, "bgclist", "", "alignment list file (fixes order, references, mirroring)")
	cmd.Flags().BoolVar(&stacked, "stacked", false, "draw all clusters in one stacked figure")
	cmd.Flags().StringVar(&stackName, "stack-name", "", "stacked figure filename (default: alignment list stem)")
	cmd.Flags().BoolVar(&gaps, "gaps", false, "reserve empty rows for listed clusters missing from input")
	cmd.Flags().BoolVar(&mirror, "mirror", false, "mirror every cluster")
	cmd.Flags().StringVar(&includeStr, "include", "", "filename substrings to accept (default: region,cluster; * for all)")
	cmd.Flags().StringVar(&excludeStr, "exclude", "", "filename substrings to reject (default: final)")
	cmd.Flags().StringVar(&hmmStr, "hmm", "", "HMM profile database(s), comma-separated")
	cmd.Flags().StringVar(&colorMode, "color-mode", "", "arrow fill: random-pastel, white, by-domain")
	cmd.Flags().BoolVar(&noDomains, "no-domains", false, "skip domain scanning and drawing")
	cmd.Flags().BoolVar(&override, "override", false, "re-scan clusters that already carry stored domains")
	cmd.Flags().BoolVar(&pick, "pick", false, "pick inputs interactively")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel figure writers (default: number of CPUs)")
	cmd.Flags().IntVar(&cpus, "cpus", 0, "CPUs per hmmscan invocation")

	return cmd
}

func (c *CLI) runDraw(ctx context.Context, opts pipeline.Options, scanner *hmmer.Scanner) error {
	runner := pipeline.NewRunner(scanner, c.Logger)

	spinner := newSpinnerWithContext(ctx, "Drawing clusters...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Drawing failed")
		return err
	}
	spinner.Stop()

	printSuccess("Rendered %d figure(s)", len(result.Files))
	printStats(result.Stats)
	for _, f := range result.Files {
		printFile(f)
	}
	return nil
}

// pickInputs opens the interactive picker over the expanded inputs.
func pickInputs(inputs []string) ([]string, error) {
	selected, err := runPicker(inputs)
	if err != nil {
		return nil, fmt.Errorf("interactive picker: %w", err)
	}
	return selected, nil
}
