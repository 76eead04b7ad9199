// Package annotate merges raw HMM-scan hits into protein domain lists and
// classifies core biosynthetic proteins.
//
// # Overlap Resolution
//
// Raw hits from a profile scan routinely overlap. Resolution is a greedy
// interval-scheduling heuristic: hits are ranked by score (descending),
// then span (larger first), then profile id (lexicographic), and accepted
// when they do not share a residue with any previously accepted hit. The
// result is deterministic and non-overlapping but not globally optimal
// weighted interval scheduling; that trade is intentional.
//
// # CBP Classification
//
// A protein is core biosynthetic when any accepted domain's profile id is
// in the configured signature set. Finer subtyping consults an ordered
// rule table keyed by required/excluded domain combinations (see rules.go).
package annotate

import (
	"sort"

	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/model"
)

// Hit is a raw domain hit from an HMM scan, possibly overlapping others.
// Coordinates are amino-acid offsets, 0-based, end exclusive.
type Hit struct {
	ProfileID string
	Start     int
	End       int
	Score     float64
}

// Span returns the number of residues the hit covers.
func (h Hit) Span() int { return h.End - h.Start }

// Colorer resolves a display color for a profile identifier.
// Implementations must be deterministic.
type Colorer interface {
	Color(profileID string) string
}

// Options configures annotation. The zero value uses the built-in core
// signature set and subtype rules and leaves domain colors empty.
type Options struct {
	// Colors resolves display colors for accepted domains. Optional.
	Colors Colorer

	// CoreSignatures overrides the profile ids that mark a protein as
	// core biosynthetic. Nil means DefaultCoreSignatures.
	CoreSignatures map[string]bool

	// Rules overrides the subtype classification table.
	// Nil means DefaultRules.
	Rules []Rule
}

func (o Options) signatures() map[string]bool {
	if o.CoreSignatures != nil {
		return o.CoreSignatures
	}
	return DefaultCoreSignatures
}

func (o Options) rules() []Rule {
	if o.Rules != nil {
		return o.Rules
	}
	return DefaultRules
}

// ResolveOverlaps applies the greedy acceptance rule and returns the
// accepted subset ordered by start offset. The input slice is not modified.
//
// Ranking is a total order: score descending, span descending, profile id
// ascending, start ascending. The last two keys pin down ties so repeated
// runs always accept the same subset.
func ResolveOverlaps(hits []Hit) []Hit {
	ranked := append([]Hit(nil), hits...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Span() != b.Span() {
			return a.Span() > b.Span()
		}
		if a.ProfileID != b.ProfileID {
			return a.ProfileID < b.ProfileID
		}
		return a.Start < b.Start
	})

	var accepted []Hit
	for _, h := range ranked {
		overlaps := false
		for _, a := range accepted {
			if h.Start < a.End && a.Start < h.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, h)
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].Start < accepted[j].Start })
	return accepted
}

// Protein resolves hits and installs the accepted domains on p, then
// refreshes the core-biosynthetic classification. It is idempotent: the
// same hit set always yields the same domain list.
//
// Hits with coordinates outside [0, p.Length()] fail with INVALID_HIT
// before any mutation.
func Protein(p *model.Protein, hits []Hit, opts Options) error {
	domains, err := resolve(p, hits, opts)
	if err != nil {
		return err
	}
	apply(p, domains, opts)
	return nil
}

// Cluster annotates every protein of c from hitsByProtein, keyed by protein
// identifier. Proteins without an entry keep an empty domain list. The whole
// cluster is validated before any protein is mutated, so a bad hit set
// leaves c untouched; the returned error names the offending protein.
func Cluster(c *model.Cluster, hitsByProtein map[string][]Hit, opts Options) error {
	resolved := make([][]model.Domain, c.Len())
	for i, p := range c.Proteins() {
		domains, err := resolve(p, hitsByProtein[p.ID()], opts)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidHit, err,
				"annotating cluster %s failed at protein %s", c.Name(), p.ID())
		}
		resolved[i] = domains
	}
	for i, p := range c.Proteins() {
		apply(p, resolved[i], opts)
	}
	return nil
}

func resolve(p *model.Protein, hits []Hit, opts Options) ([]model.Domain, error) {
	for _, h := range hits {
		if h.Start < 0 || h.End > p.Length() || h.Start >= h.End {
			return nil, errors.New(errors.ErrCodeInvalidHit,
				"hit %s [%d, %d) outside protein %s of length %d",
				h.ProfileID, h.Start, h.End, p.ID(), p.Length())
		}
	}

	accepted := ResolveOverlaps(hits)
	domains := make([]model.Domain, len(accepted))
	for i, h := range accepted {
		d := model.Domain{ID: h.ProfileID, Start: h.Start, End: h.End, Score: h.Score}
		if opts.Colors != nil {
			d.Color = opts.Colors.Color(h.ProfileID)
		}
		domains[i] = d
	}
	return domains, nil
}

func apply(p *model.Protein, domains []model.Domain, opts Options) {
	// resolve() output satisfies the model invariants, so SetDomains
	// cannot fail here.
	if err := p.SetDomains(domains); err != nil {
		panic(err)
	}

	p.ClearCore()
	present := make(map[string]bool, len(domains))
	for _, d := range domains {
		present[d.ID] = true
	}
	for id := range present {
		if opts.signatures()[id] {
			p.MarkCore(Classify(present, opts.rules()))
			return
		}
	}
}
