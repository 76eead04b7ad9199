// Package model holds the in-memory representation of biosynthetic gene
// clusters: a Cluster owns an ordered list of Proteins, and each Protein
// carries an ordered list of non-overlapping Domains.
//
// Objects are constructed once from parsed input and validated at
// construction time. All downstream consumers (layout, rendering) operate
// on read accessors; the only sanctioned mutation is domain annotation
// through SetDomains and core-protein classification through MarkCore.
package model

import (
	"github.com/clustersketch/clustersketch/pkg/errors"
)

// Strand indicates which DNA strand encodes a gene.
type Strand int8

const (
	Forward Strand = 1  // coding strand, drawn pointing right
	Reverse Strand = -1 // template strand, drawn pointing left
)

// Flip returns the opposite strand.
func (s Strand) Flip() Strand { return -s }

// String returns the conventional +/- notation.
func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// ParseStrand converts +/- notation into a Strand.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+", "1":
		return Forward, nil
	case "-", "-1":
		return Reverse, nil
	}
	return Forward, errors.New(errors.ErrCodeInvalidModel, "unknown strand %q", s)
}

// Domain is a conserved protein subsequence matched by an HMM profile.
// Coordinates are amino-acid offsets within the owning protein, 0-based
// with an exclusive end.
type Domain struct {
	ID    string  // profile name
	Start int     // first covered residue
	End   int     // one past the last covered residue
	Score float64 // bit score of the match
	Color string  // resolved display color (hex), assigned during annotation
}

// Span returns the number of residues the domain covers.
func (d Domain) Span() int { return d.End - d.Start }

// Overlaps reports whether d and o share any residue position.
func (d Domain) Overlaps(o Domain) bool {
	return d.Start < o.End && o.Start < d.End
}

// Protein is a single gene product within a cluster. It is owned by exactly
// one Cluster; layout and rendering consume it through read accessors only.
type Protein struct {
	id       string
	length   int // amino acids
	strand   Strand
	start    int // genomic nt coordinate, inclusive
	end      int // genomic nt coordinate, exclusive
	domains  []Domain
	core     bool
	coreType string
}

// NewProtein validates and constructs a Protein with an empty domain list.
func NewProtein(id string, length int, strand Strand, start, end int) (*Protein, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeInvalidModel, "protein id cannot be empty")
	}
	if length <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidModel, "protein %s has zero length", id)
	}
	if strand != Forward && strand != Reverse {
		return nil, errors.New(errors.ErrCodeInvalidModel, "protein %s has invalid strand", id)
	}
	if start < 0 || end <= start {
		return nil, errors.New(errors.ErrCodeInvalidModel,
			"protein %s has invalid genomic span [%d, %d)", id, start, end)
	}
	return &Protein{id: id, length: length, strand: strand, start: start, end: end}, nil
}

// ID returns the protein identifier.
func (p *Protein) ID() string { return p.id }

// Length returns the amino-acid sequence length.
func (p *Protein) Length() int { return p.length }

// Strand returns the encoding strand.
func (p *Protein) Strand() Strand { return p.strand }

// Start returns the genomic start coordinate (inclusive).
func (p *Protein) Start() int { return p.start }

// End returns the genomic end coordinate (exclusive).
func (p *Protein) End() int { return p.end }

// Domains returns the accepted domain list, ordered by start offset.
// Callers must treat the returned slice as read-only.
func (p *Protein) Domains() []Domain { return p.domains }

// IsCore reports whether the protein was classified as core biosynthetic.
func (p *Protein) IsCore() bool { return p.core }

// CoreType returns the CBP subtype label, or "" when unclassified.
func (p *Protein) CoreType() string { return p.coreType }

// SetDomains replaces the protein's domain list. The domains must already be
// resolved: sorted by start, within [0, length], and non-overlapping.
// The input slice is copied, so callers may reuse it.
func (p *Protein) SetDomains(domains []Domain) error {
	for i, d := range domains {
		if d.Start < 0 || d.End > p.length || d.Start >= d.End {
			return errors.New(errors.ErrCodeInvalidModel,
				"domain %s [%d, %d) outside protein %s of length %d",
				d.ID, d.Start, d.End, p.id, p.length)
		}
		if i > 0 {
			prev := domains[i-1]
			if d.Start < prev.Start {
				return errors.New(errors.ErrCodeInvalidModel,
					"domains of protein %s not ordered by start", p.id)
			}
			if prev.Overlaps(d) {
				return errors.New(errors.ErrCodeInvalidModel,
					"domains %s and %s overlap in protein %s", prev.ID, d.ID, p.id)
			}
		}
	}
	p.domains = append([]Domain(nil), domains...)
	return nil
}

// MarkCore flags the protein as core biosynthetic with an optional subtype.
func (p *Protein) MarkCore(subtype string) {
	p.core = true
	p.coreType = subtype
}

// ClearCore removes the core classification, used when re-annotating.
func (p *Protein) ClearCore() {
	p.core = false
	p.coreType = ""
}
