package layout

import "github.com/clustersketch/clustersketch/pkg/model"

// Oriented is an immutable left-to-right view over a cluster's proteins.
// Mirroring reverses the iteration order and flips every strand without
// touching the underlying model, so one cluster can participate in several
// figures with different orientations at the same time.
type Oriented struct {
	cluster  *model.Cluster
	mirrored bool
}

// Orient wraps c in a view with the given orientation.
func Orient(c *model.Cluster, mirrored bool) Oriented {
	return Oriented{cluster: c, mirrored: mirrored}
}

// Cluster returns the underlying cluster.
func (o Oriented) Cluster() *model.Cluster { return o.cluster }

// Mirrored reports the view's orientation.
func (o Oriented) Mirrored() bool { return o.mirrored }

// Len returns the number of proteins.
func (o Oriented) Len() int { return o.cluster.Len() }

// Protein returns the i-th protein in oriented order.
func (o Oriented) Protein(i int) *model.Protein {
	if o.mirrored {
		i = o.cluster.Len() - 1 - i
	}
	return o.cluster.Proteins()[i]
}

// Strand returns the effective strand of the i-th protein in oriented
// order: mirroring flips it.
func (o Oriented) Strand(i int) model.Strand {
	s := o.Protein(i).Strand()
	if o.mirrored {
		s = s.Flip()
	}
	return s
}

// Index maps an index of the natural cluster order into oriented order.
func (o Oriented) Index(natural int) int {
	if o.mirrored {
		return o.cluster.Len() - 1 - natural
	}
	return natural
}
