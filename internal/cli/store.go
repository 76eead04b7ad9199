package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/genbank"
	"github.com/clustersketch/clustersketch/pkg/store"
)

// storeCommand groups blob file operations.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Convert and inspect cluster blob files",
	}
	cmd.AddCommand(c.storeConvertCommand())
	cmd.AddCommand(c.storeInfoCommand())
	return cmd
}

func (c *CLI) storeConvertCommand() *cobra.Command {
	var (
		out    string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "convert [inputs...]",
		Short: "Convert GenBank files to cluster blobs",
		Long: `Convert GenBank files to cluster blobs.

Parsing GenBank records is the slowest part of drawing large batches;
converting them once to .bgc/.bgccase blobs makes every later draw start
from the binary form. Protein translations are stored in the blob, so
converted clusters can still be scanned for domains.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" && outDir == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "--out or --outdir is required")
			}

			paths, err := genbankFiles(args)
			if err != nil {
				return err
			}
			var records []store.Record
			for _, path := range paths {
				res, err := genbank.ParseFile(path)
				if err != nil {
					printWarning("skipping %s: %s", path, errors.UserMessage(err))
					continue
				}
				records = append(records, store.Record{Cluster: res.Cluster, Sequences: res.Sequences})
			}
			if len(records) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no clusters found")
			}

			if out != "" {
				if err := store.SaveCase(out, records); err != nil {
					return err
				}
				printSuccess("Wrote %d cluster(s)", len(records))
				printFile(out)
				return nil
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeRenderFailed, err, "creating output directory %s", outDir)
			}
			for _, rec := range records {
				path := filepath.Join(outDir, rec.Cluster.Name()+".bgc")
				if err := store.SaveCluster(path, rec); err != nil {
					return err
				}
				printFile(path)
			}
			printSuccess("Wrote %d cluster(s)", len(records))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output .bgccase collection file")
	cmd.Flags().StringVar(&outDir, "outdir", "", "output directory for per-cluster .bgc files")

	return cmd
}

func (c *CLI) storeInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show the contents of a cluster blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadBlob(args[0])
			if err != nil {
				return err
			}
			for _, rec := range records {
				cluster := rec.Cluster
				printKeyValue("cluster", cluster.Name())
				printKeyValue("proteins", fmt.Sprintf("%d", cluster.Len()))
				printKeyValue("span", fmt.Sprintf("%d..%d nt", cluster.Start(), cluster.End()))
				if cores := cluster.CoreTypes(); len(cores) > 0 {
					printKeyValue("core types", strings.Join(cores, ", "))
				}
				for _, p := range cluster.Proteins() {
					line := fmt.Sprintf("%s  %s  %d aa", p.ID(), p.Strand(), p.Length())
					if p.IsCore() {
						line += "  [" + p.CoreType() + "]"
					}
					if n := len(p.Domains()); n > 0 {
						line += fmt.Sprintf("  %d domain(s)", n)
					}
					fmt.Println("  " + StyleDim.Render(line))
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func loadBlob(path string) ([]store.Record, error) {
	if strings.EqualFold(filepath.Ext(path), ".bgccase") {
		return store.LoadCase(path)
	}
	rec, err := store.LoadCluster(path)
	if err != nil {
		return nil, err
	}
	return []store.Record{rec}, nil
}
