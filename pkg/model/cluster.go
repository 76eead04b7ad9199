package model

import (
	"sort"

	"github.com/clustersketch/clustersketch/pkg/errors"
)

// Cluster is a biosynthetic gene cluster: an identifier plus an ordered
// list of proteins. Proteins are kept sorted by genomic start coordinate;
// the order is what layout and rendering iterate over.
type Cluster struct {
	name     string
	proteins []*Protein
	start    int
	end      int
}

// NewCluster validates and constructs a Cluster. The proteins are sorted by
// genomic start coordinate; the input slice is copied. An empty protein list
// is allowed (a degenerate cluster renders as an empty row).
func NewCluster(name string, proteins []*Protein) (*Cluster, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidModel, "cluster name cannot be empty")
	}
	ps := append([]*Protein(nil), proteins...)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].start < ps[j].start })

	c := &Cluster{name: name, proteins: ps}
	for i, p := range ps {
		if p == nil {
			return nil, errors.New(errors.ErrCodeInvalidModel, "cluster %s has nil protein", name)
		}
		if i == 0 || p.start < c.start {
			c.start = p.start
		}
		if p.end > c.end {
			c.end = p.end
		}
	}
	return c, nil
}

// Name returns the cluster identifier.
func (c *Cluster) Name() string { return c.name }

// Proteins returns the proteins ordered by genomic start coordinate.
// Callers must treat the returned slice as read-only.
func (c *Cluster) Proteins() []*Protein { return c.proteins }

// Len returns the number of proteins.
func (c *Cluster) Len() int { return len(c.proteins) }

// Start returns the genomic start of the cluster span (0 when empty).
func (c *Cluster) Start() int { return c.start }

// End returns the genomic end of the cluster span (0 when empty).
func (c *Cluster) End() int { return c.end }

// Find returns the indexes of all proteins whose identifier matches id, in
// cluster order. Alignment uses the first match; more than one match means
// the identifier is ambiguous and callers should warn.
func (c *Cluster) Find(id string) []int {
	var idx []int
	for i, p := range c.proteins {
		if p.id == id {
			idx = append(idx, i)
		}
	}
	return idx
}

// CoreTypes returns the CBP subtype labels present in the cluster, in
// protein order, deduplicated. Used for individual figure filenames.
func (c *Cluster) CoreTypes() []string {
	seen := make(map[string]struct{})
	var types []string
	for _, p := range c.proteins {
		if !p.core || p.coreType == "" {
			continue
		}
		if _, dup := seen[p.coreType]; dup {
			continue
		}
		seen[p.coreType] = struct{}{}
		types = append(types, p.coreType)
	}
	return types
}
