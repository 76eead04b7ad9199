// Package layout computes figure geometry for one or many clusters: each
// cluster's orientation (mirrored or not) and a horizontal offset placing a
// shared reference protein at the same x position across every cluster of a
// stacked figure.
//
// Genes are placed sequentially left to right in oriented order, each with
// a width proportional to its protein length and separated by a fixed gap.
// The scale factor converting residues to drawing units must be shared by
// every cluster of a figure; mixing scales would make aligned positions
// meaningless.
//
// The engine never mutates the model. Mirroring is carried by the
// read-only Oriented view, and the computed Results are immutable value
// types consumed by the renderer.
package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/model"
)

// ntPerResidue converts amino-acid lengths into the nucleotide units the
// scale factor is expressed in.
const ntPerResidue = 3

// Result is the resolved geometry for one cluster within a figure.
// It is computed fresh per rendering request and never persisted.
type Result struct {
	Mirrored bool    // whether the cluster is drawn flipped
	Offset   float64 // horizontal shift of the whole row, in drawing units
	Width    float64 // rendered row width without the offset
	Aligned  bool    // whether a reference anchor was found and used
}

// Options configures the engine.
type Options struct {
	// Scale divides nucleotide lengths into drawing units. Required > 0.
	Scale float64

	// Gap separates consecutive genes, in drawing units.
	Gap float64

	// Logger receives alignment warnings (missing or ambiguous
	// references). Nil discards them.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// GeneWidth returns the drawn width of a protein.
func GeneWidth(p *model.Protein, scale float64) float64 {
	return float64(p.Length()*ntPerResidue) / scale
}

// RowWidth returns the total width of a cluster row: gene widths plus
// inter-gene gaps. Orientation does not change it.
func RowWidth(c *model.Cluster, opts Options) float64 {
	var w float64
	for i, p := range c.Proteins() {
		if i > 0 {
			w += opts.Gap
		}
		w += GeneWidth(p, opts.Scale)
	}
	return w
}

// GeneStart returns the x position of the i-th gene in oriented order,
// before the row offset is applied.
func GeneStart(o Oriented, i int, opts Options) float64 {
	var x float64
	for j := 0; j < i; j++ {
		x += GeneWidth(o.Protein(j), opts.Scale) + opts.Gap
	}
	return x
}

// Compute resolves the layout of a group of clusters drawn together.
// spec may be nil, in which case every cluster gets the default layout:
// unmirrored, left-justified at zero. Per-cluster alignment failures fall
// back to the default layout with a warning; Compute itself only fails on
// invalid options.
func Compute(clusters []*model.Cluster, spec *Spec, opts Options) ([]Result, error) {
	if opts.Scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "layout scale must be positive, got %v", opts.Scale)
	}
	logger := opts.logger()

	results := make([]Result, len(clusters))
	refCenters := make([]float64, len(clusters))

	// First pass: orientation and reference positions.
	target := 0.0
	for i, c := range clusters {
		results[i] = Result{Width: RowWidth(c, opts)}
		if c.Len() == 0 {
			continue
		}

		ref, ok := lookupRef(spec, c.Name())
		if !ok || ref.ProteinID == "" {
			continue
		}

		center, mirrored, err := referenceCenter(c, ref, opts, logger)
		if err != nil {
			logger.Warnf("cluster %s: %s; using default layout", c.Name(), errors.UserMessage(err))
			continue
		}

		results[i].Mirrored = mirrored
		results[i].Aligned = true
		refCenters[i] = center
		if center > target {
			target = center
		}
	}

	// Second pass: shift every aligned cluster so its reference center
	// lands on the shared target. The target is the maximum reference
	// center, so offsets are never negative.
	for i := range results {
		if results[i].Aligned {
			results[i].Offset = target - refCenters[i]
		}
	}
	return results, nil
}

func lookupRef(spec *Spec, cluster string) (Ref, bool) {
	if spec == nil {
		return Ref{}, false
	}
	ref, ok := spec.Refs[cluster]
	return ref, ok
}

// referenceCenter locates the reference protein and returns the x
// coordinate of its center under the resolved orientation.
func referenceCenter(c *model.Cluster, ref Ref, opts Options, logger *log.Logger) (float64, bool, error) {
	matches := c.Find(ref.ProteinID)
	if len(matches) == 0 {
		return 0, false, errors.New(errors.ErrCodeReferenceNotFound,
			"reference protein %s not found", ref.ProteinID)
	}
	if len(matches) > 1 {
		logger.Warnf("cluster %s: reference protein %s is ambiguous (%d matches), using the first",
			c.Name(), ref.ProteinID, len(matches))
	}
	natural := matches[0]
	p := c.Proteins()[natural]

	// Explicit mirror flag wins; otherwise mirror so the reference gene
	// points forward.
	mirrored := p.Strand() == model.Reverse
	if ref.Mirror != nil {
		mirrored = *ref.Mirror
	}

	o := Orient(c, mirrored)
	start := GeneStart(o, o.Index(natural), opts)
	return start + GeneWidth(p, opts.Scale)/2, mirrored, nil
}
