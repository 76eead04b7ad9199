package layout

import (
	"testing"

	"github.com/clustersketch/clustersketch/pkg/model"
)

func TestOrientIdentity(t *testing.T) {
	c := mustCluster(t, "bgc",
		mustProtein(t, "a", 100, model.Forward, 0),
		mustProtein(t, "b", 200, model.Reverse, 400),
		mustProtein(t, "c", 150, model.Forward, 1100),
	)

	o := Orient(c, false)
	for i := 0; i < o.Len(); i++ {
		if o.Protein(i) != c.Proteins()[i] {
			t.Errorf("Protein(%d) differs from the natural order", i)
		}
		if o.Strand(i) != c.Proteins()[i].Strand() {
			t.Errorf("Strand(%d) = %v, want %v", i, o.Strand(i), c.Proteins()[i].Strand())
		}
	}
}

func TestOrientMirrored(t *testing.T) {
	c := mustCluster(t, "bgc",
		mustProtein(t, "a", 100, model.Forward, 0),
		mustProtein(t, "b", 200, model.Reverse, 400),
		mustProtein(t, "c", 150, model.Forward, 1100),
	)

	o := Orient(c, true)
	wantIDs := []string{"c", "b", "a"}
	wantStrands := []model.Strand{model.Reverse, model.Forward, model.Reverse}
	for i := 0; i < o.Len(); i++ {
		if o.Protein(i).ID() != wantIDs[i] {
			t.Errorf("Protein(%d) = %s, want %s", i, o.Protein(i).ID(), wantIDs[i])
		}
		if o.Strand(i) != wantStrands[i] {
			t.Errorf("Strand(%d) = %v, want %v", i, o.Strand(i), wantStrands[i])
		}
	}
}

// Mirroring is a view: applying the index mapping twice gets back to the
// natural order, and the underlying cluster is never modified.
func TestOrientRoundTrip(t *testing.T) {
	c := mustCluster(t, "bgc",
		mustProtein(t, "a", 100, model.Forward, 0),
		mustProtein(t, "b", 200, model.Reverse, 400),
	)

	m := Orient(c, true)
	for natural := 0; natural < c.Len(); natural++ {
		i := m.Index(natural)
		if m.Protein(i) != c.Proteins()[natural] {
			t.Errorf("Index(%d) does not round-trip", natural)
		}
	}

	// Strands on the cluster itself are untouched.
	if c.Proteins()[0].Strand() != model.Forward || c.Proteins()[1].Strand() != model.Reverse {
		t.Error("mirroring modified the underlying cluster")
	}
}
