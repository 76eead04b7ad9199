package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/layout"
	"github.com/clustersketch/clustersketch/pkg/model"
	"github.com/clustersketch/clustersketch/pkg/observability"
	"github.com/clustersketch/clustersketch/pkg/render/sink"
	"github.com/clustersketch/clustersketch/pkg/store"
)

type row struct {
	cluster *model.Cluster
	layout  layout.Result
}

// render writes the output documents. Stacked mode emits one figure with
// every row; per-cluster mode emits one figure per cluster, written in
// parallel. Any write failure aborts the batch: partial figure sets are
// worse than none.
func (r *Runner) render(ctx context.Context, rows []row, opts Options, logger *log.Logger) ([]string, error) {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "creating output directory %s", opts.OutDir)
	}
	if opts.Stacked {
		path := filepath.Join(opts.OutDir, opts.StackName)
		if err := r.writeFigure(ctx, path, rows, opts, true); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	paths := make([]string, len(rows))
	for i, rw := range rows {
		paths[i] = filepath.Join(opts.OutDir, figureFilename(rw.cluster, rw.layout.Mirrored))
	}

	jobs := make(chan int, opts.Workers*2)
	errs := make(chan error, len(rows))

	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for w := 0; w < opts.Workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					// Per-cluster figures are left-justified: the shared
					// alignment offset only makes sense inside a stack.
					single := row{cluster: rows[i].cluster, layout: rows[i].layout}
					single.layout.Offset = 0
					errs <- r.writeFigure(ctx, paths[i], []row{single}, opts, false)
				}
			}
		}()
	}

feed:
	for i := range rows {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *Runner) writeFigure(ctx context.Context, path string, rows []row, opts Options, labels bool) error {
	sinkRows := make([]sink.Row, len(rows))
	for i, rw := range rows {
		sinkRows[i] = sink.Row{Cluster: rw.cluster, Layout: rw.layout}
	}
	sinkOpts := []sink.SVGOption{sink.WithOptions(opts.Style)}
	if labels {
		sinkOpts = append(sinkOpts, sink.WithLabels())
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, path)
	data := sink.RenderSVG(sinkRows, sinkOpts...)
	err := store.WriteFileAtomic(path, data)
	observability.Pipeline().OnRenderComplete(ctx, path, len(data), time.Since(start), err)
	return err
}

// figureFilename builds the per-cluster output name: the cluster name,
// the core protein types it contains, and a mirror marker.
// "BGC0001_nrPKS_m.svg" is a mirrored cluster with one nrPKS core.
func figureFilename(c *model.Cluster, mirrored bool) string {
	parts := []string{sanitizeName(c.Name())}
	for _, t := range c.CoreTypes() {
		parts = append(parts, sanitizeName(t))
	}
	if mirrored {
		parts = append(parts, "m")
	}
	return strings.Join(parts, "_") + ".svg"
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
