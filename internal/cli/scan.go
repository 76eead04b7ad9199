package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clustersketch/clustersketch/pkg/annotate"
	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/genbank"
	"github.com/clustersketch/clustersketch/pkg/hmmer"
	"github.com/clustersketch/clustersketch/pkg/render/styles"
	"github.com/clustersketch/clustersketch/pkg/store"
)

// scanCommand creates the scan command: annotate clusters with HMM
// domain hits and persist them as blobs for later drawing.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		hmmStr string
		out    string
		outDir string
		cpus   int
	)

	cmd := &cobra.Command{
		Use:   "scan [inputs...]",
		Short: "Annotate clusters with HMM domain hits and store the result",
		Long: `Annotate clusters with HMM domain hits and store the result.

Each protein's translation is scanned against the given profile
databases with hmmscan, overlapping hits are resolved by score, and core
biosynthetic proteins are classified from their domain content. The
annotated clusters are written as .bgc blobs (one per cluster, with
--outdir) or a single .bgccase collection (with --out), so repeated
drawing never re-runs the scan.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			databases := parseList(hmmStr)
			if len(databases) == 0 {
				return errors.New(errors.ErrCodeInvalidConfig, "--hmm is required")
			}
			if out == "" && outDir == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "--out or --outdir is required")
			}
			scanner, err := newScanner(databases, cpus)
			if err != nil {
				return err
			}
			return c.runScan(cmd.Context(), args, scanner, out, outDir)
		},
	}

	cmd.Flags().StringVar(&hmmStr, "hmm", "", "HMM profile database(s), comma-separated (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output .bgccase collection file")
	cmd.Flags().StringVar(&outDir, "outdir", "", "output directory for per-cluster .bgc files")
	cmd.Flags().IntVar(&cpus, "cpus", 0, "CPUs per hmmscan invocation")

	return cmd
}

func (c *CLI) runScan(ctx context.Context, inputs []string, scanner *hmmer.Scanner, out, outDir string) error {
	paths, err := genbankFiles(inputs)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no GenBank files found")
	}

	prog := newProgress(c.Logger)
	aopts := annotate.Options{Colors: styles.Palette{}}

	var records []store.Record
	domains := 0
	for _, path := range paths {
		res, err := genbank.ParseFile(path)
		if err != nil {
			printWarning("skipping %s: %s", path, errors.UserMessage(err))
			continue
		}

		hits, err := scanner.Scan(ctx, res.Sequences)
		if err == nil {
			err = annotate.Cluster(res.Cluster, hits, aopts)
		}
		if err != nil {
			printWarning("annotation failed for %s: %s", res.Cluster.Name(), errors.UserMessage(err))
		}
		for _, p := range res.Cluster.Proteins() {
			domains += len(p.Domains())
		}
		records = append(records, store.Record{Cluster: res.Cluster, Sequences: res.Sequences})
	}
	if len(records) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no clusters could be annotated")
	}

	var files []string
	if out != "" {
		if err := store.SaveCase(out, records); err != nil {
			return err
		}
		files = []string{out}
	} else {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, err, "creating output directory %s", outDir)
		}
		for _, rec := range records {
			path := filepath.Join(outDir, rec.Cluster.Name()+".bgc")
			if err := store.SaveCluster(path, rec); err != nil {
				return err
			}
			files = append(files, path)
		}
	}

	prog.done(fmt.Sprintf("Annotated %d cluster(s) with %d domain(s)", len(records), domains))
	for _, f := range files {
		printFile(f)
	}
	return nil
}

// genbankFiles expands files and directories to GenBank file paths.
func genbankFiles(inputs []string) ([]string, error) {
	var paths []string
	for _, input := range inputs {
		err := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".gb", ".gbk", ".gbff":
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "reading input %s", input)
		}
	}
	return paths, nil
}
