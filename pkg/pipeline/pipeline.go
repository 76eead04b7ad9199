// Package pipeline provides the core drawing pipeline: collect clusters
// from input files, annotate their proteins with domain hits, compute a
// figure layout, and render SVG documents. CLI and server entry points
// share this package so behavior stays identical across them.
package pipeline

import (
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clustersketch/clustersketch/pkg/config"
	"github.com/clustersketch/clustersketch/pkg/errors"
)

const (
	// DefaultStackName is the output filename for stacked figures.
	DefaultStackName = "stacked.svg"
)

// DefaultInclude and DefaultExclude filter input filenames. The defaults
// accept antiSMASH region/cluster files and skip its "final" assemblies.
var (
	DefaultInclude = []string{"region", "cluster"}
	DefaultExclude = []string{"final"}
)

// Options contains all configuration for a pipeline run.
type Options struct {
	// Collect options
	Inputs  []string // GenBank files, .bgc/.bgccase blobs, or directories
	Include []string // filename substrings to accept ("*" accepts everything)
	Exclude []string // filename substrings to reject; wins over Include

	// Annotate options
	Override bool // re-scan clusters that already carry stored domains

	// Layout options
	AlignmentList string // optional alignment list; filters the batch and fixes order and references

	// Render options
	Style     config.ArrowStyle
	Stacked   bool   // one figure with all clusters instead of one per cluster
	StackName string // stacked figure filename
	Gaps      bool   // reserve empty rows for listed clusters missing from input
	OutDir    string
	Workers   int // parallel figure writers in per-cluster mode

	// Runtime options
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Inputs) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one input is required")
	}
	if o.OutDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output directory is required")
	}
	if o.Include == nil {
		o.Include = DefaultInclude
	}
	if o.Exclude == nil {
		o.Exclude = DefaultExclude
	}
	if o.StackName == "" {
		if o.AlignmentList != "" {
			// Stacked figures inherit the alignment list's name.
			base := filepath.Base(o.AlignmentList)
			o.StackName = strings.TrimSuffix(base, filepath.Ext(base)) + ".svg"
		} else {
			o.StackName = DefaultStackName
		}
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Style.Scale == 0 {
		o.Style = config.Default()
	}
	if err := o.Style.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Files lists every document written, in output order.
	Files []string

	// Stats contains counts and timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Clusters     int
	Proteins     int
	Domains      int
	SkippedFiles int

	CollectTime  time.Duration
	AnnotateTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}
