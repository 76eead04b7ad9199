package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clustersketch/clustersketch/pkg/annotate"
	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/hmmer"
	"github.com/clustersketch/clustersketch/pkg/layout"
	"github.com/clustersketch/clustersketch/pkg/model"
	"github.com/clustersketch/clustersketch/pkg/observability"
	"github.com/clustersketch/clustersketch/pkg/render/styles"
)

// Runner executes the collect → annotate → layout → render pipeline.
//
// The Runner is stateless except for the scanner and logger - it doesn't
// store run results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Scanner *hmmer.Scanner // nil disables domain annotation
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil scanner disables domain scanning; a
// nil logger falls back to the default logger.
func NewRunner(scanner *hmmer.Scanner, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Scanner: scanner, Logger: logger}
}

// entry is one collected cluster with the translations needed for
// scanning. Blob files persist translations, so clusters loaded from
// them can be re-scanned; sequences are nil only for blobs written
// without them.
type entry struct {
	cluster   *model.Cluster
	sequences map[string]string
}

// Execute runs the complete pipeline. Per-cluster failures are logged
// and skipped; only batch-level failures (bad options, unwritable
// output) return an error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	result := &Result{}

	var spec *layout.Spec
	if opts.AlignmentList != "" {
		var err error
		spec, err = layout.LoadSpec(opts.AlignmentList)
		if err != nil {
			return nil, err
		}
	}

	collectStart := time.Now()
	entries, skipped, err := r.collect(ctx, opts, spec, logger)
	if err != nil {
		return nil, err
	}
	result.Stats.CollectTime = time.Since(collectStart)
	result.Stats.SkippedFiles = skipped
	result.Stats.Clusters = len(entries)
	for _, e := range entries {
		result.Stats.Proteins += e.cluster.Len()
	}
	if len(entries) == 0 {
		if spec != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"alignment list %s matches none of the collected clusters", opts.AlignmentList)
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "no clusters found in %d input(s)", len(opts.Inputs))
	}
	logger.Info("collected clusters",
		"clusters", len(entries),
		"proteins", result.Stats.Proteins,
		"skipped_files", skipped,
		"duration", result.Stats.CollectTime)

	if opts.Style.DrawDomains && r.Scanner != nil {
		annotateStart := time.Now()
		result.Stats.Domains, err = r.annotate(ctx, entries, opts.Override, logger)
		if err != nil {
			return nil, err
		}
		result.Stats.AnnotateTime = time.Since(annotateStart)
		logger.Info("annotated domains",
			"domains", result.Stats.Domains,
			"duration", result.Stats.AnnotateTime)
	}

	layoutStart := time.Now()
	rows, err := r.computeLayout(ctx, entries, spec, opts, logger)
	if err != nil {
		return nil, err
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	logger.Info("computed layout",
		"rows", len(rows),
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	files, err := r.render(ctx, rows, opts, logger)
	if err != nil {
		return nil, err
	}
	result.Files = files
	result.Stats.RenderTime = time.Since(renderStart)
	logger.Info("rendered figures",
		"files", len(files),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// annotate scans and annotates every cluster that has sequences.
// Clusters that already carry domains (stored blobs from a previous
// scan) are kept as-is unless override is set. Scan and annotation
// failures are per-cluster warnings: the cluster keeps zero domains and
// the batch continues. A cancelled context aborts the batch instead.
// Returns the accepted domain count.
func (r *Runner) annotate(ctx context.Context, entries []entry, override bool, logger *log.Logger) (int, error) {
	aopts := annotate.Options{Colors: styles.Palette{}}
	total := 0
	for _, e := range entries {
		name := e.cluster.Name()
		if existing := domainCount(e.cluster); existing > 0 && !override {
			logger.Debug("cluster already annotated, keeping stored domains",
				"cluster", name, "domains", existing)
			total += existing
			continue
		}
		if len(e.sequences) == 0 {
			logger.Debug("no sequences available, skipping scan", "cluster", name)
			continue
		}

		start := time.Now()
		observability.Pipeline().OnAnnotateStart(ctx, name)
		hits, err := r.Scanner.Scan(ctx, e.sequences)
		if err == nil {
			err = annotate.Cluster(e.cluster, hits, aopts)
		}
		count := domainCount(e.cluster)
		observability.Pipeline().OnAnnotateComplete(ctx, name, count, time.Since(start), err)

		if err != nil {
			if errors.IsFatal(err) {
				return total, err
			}
			logger.Warn("annotation failed, drawing without domains",
				"cluster", name, "err", errors.UserMessage(err))
			continue
		}
		total += count
	}
	return total, nil
}

func domainCount(c *model.Cluster) int {
	n := 0
	for _, p := range c.Proteins() {
		n += len(p.Domains())
	}
	return n
}

func (r *Runner) computeLayout(ctx context.Context, entries []entry, spec *layout.Spec, opts Options, logger *log.Logger) ([]row, error) {
	if spec != nil {
		entries = orderBySpec(entries, spec, opts.Stacked && opts.Gaps, logger)
	}

	// Gap placeholders carry no cluster and get a zero layout.
	clusters := make([]*model.Cluster, 0, len(entries))
	for _, e := range entries {
		if e.cluster != nil {
			clusters = append(clusters, e.cluster)
		}
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(clusters))
	results, err := layout.Compute(clusters, spec, layout.Options{
		Scale:  opts.Style.Scale,
		Gap:    opts.Style.GeneGap,
		Logger: logger,
	})
	observability.Pipeline().OnLayoutComplete(ctx, len(clusters), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	rows := make([]row, len(entries))
	next := 0
	for i, e := range entries {
		if e.cluster == nil {
			rows[i] = row{}
			continue
		}
		res := results[next]
		next++
		if opts.Style.Mirror {
			res.Mirrored = !res.Mirrored
		}
		rows[i] = row{cluster: e.cluster, layout: res}
	}
	return rows, nil
}

// orderBySpec arranges the batch in list order; clusters the list does
// not name are dropped. Listed clusters missing from the input are
// warned about and, with gaps, reserved as an empty row in the stacked
// figure.
func orderBySpec(entries []entry, spec *layout.Spec, gaps bool, logger *log.Logger) []entry {
	byName := make(map[string]entry, len(entries))
	for _, e := range entries {
		byName[e.cluster.Name()] = e
	}

	ordered := make([]entry, 0, len(spec.Order))
	for _, name := range spec.Order {
		e, ok := byName[name]
		if !ok {
			logger.Warn("cluster named in alignment list not found in inputs", "cluster", name)
			if gaps {
				ordered = append(ordered, entry{})
			}
			continue
		}
		ordered = append(ordered, e)
	}
	return ordered
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
