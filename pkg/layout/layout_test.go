package layout

import (
	"testing"

	"github.com/clustersketch/clustersketch/pkg/model"
)

// testOptions makes one amino acid equal one drawing unit so expected
// positions can be written down directly.
func testOptions() Options { return Options{Scale: 3, Gap: 0} }

func mustProtein(t *testing.T, id string, length int, strand model.Strand, start int) *model.Protein {
	t.Helper()
	p, err := model.NewProtein(id, length, strand, start, start+length*3)
	if err != nil {
		t.Fatalf("NewProtein(%s) failed: %v", id, err)
	}
	return p
}

func mustCluster(t *testing.T, name string, proteins ...*model.Protein) *model.Cluster {
	t.Helper()
	c, err := model.NewCluster(name, proteins)
	if err != nil {
		t.Fatalf("NewCluster(%s) failed: %v", name, err)
	}
	return c
}

func refTo(id string) Ref { return Ref{ProteinID: id} }

func TestComputeDefaultLayout(t *testing.T) {
	c := mustCluster(t, "bgc",
		mustProtein(t, "a", 100, model.Forward, 0),
		mustProtein(t, "b", 200, model.Reverse, 400),
	)

	results, err := Compute([]*model.Cluster{c}, nil, testOptions())
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	r := results[0]
	if r.Mirrored || r.Aligned {
		t.Errorf("default layout should be unmirrored and unaligned: %+v", r)
	}
	if r.Offset != 0 {
		t.Errorf("Offset = %v, want 0 (left-justified)", r.Offset)
	}
	if r.Width != 300 {
		t.Errorf("Width = %v, want 300", r.Width)
	}
}

func TestComputeSharedTarget(t *testing.T) {
	// Row A: 350 aa gene then the 100 aa reference; ref center at 400.
	a := mustCluster(t, "A",
		mustProtein(t, "a1", 350, model.Forward, 0),
		mustProtein(t, "ref", 100, model.Forward, 2000),
	)
	// Row B: 850 aa gene then the 100 aa reference; ref center at 900.
	b := mustCluster(t, "B",
		mustProtein(t, "b1", 850, model.Forward, 0),
		mustProtein(t, "ref", 100, model.Forward, 4000),
	)

	spec := &Spec{
		Order: []string{"A", "B"},
		Refs:  map[string]Ref{"A": refTo("ref"), "B": refTo("ref")},
	}

	results, err := Compute([]*model.Cluster{a, b}, spec, testOptions())
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	if results[0].Offset != 500 || results[1].Offset != 0 {
		t.Errorf("offsets = %v, %v; want 500, 0", results[0].Offset, results[1].Offset)
	}

	// The invariant behind the numbers: offset + local reference center
	// is identical across clusters.
	opts := testOptions()
	centerA, _, err := referenceCenter(a, refTo("ref"), opts, opts.logger())
	if err != nil {
		t.Fatal(err)
	}
	centerB, _, err := referenceCenter(b, refTo("ref"), opts, opts.logger())
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Offset+centerA != results[1].Offset+centerB {
		t.Errorf("aligned positions differ: %v vs %v",
			results[0].Offset+centerA, results[1].Offset+centerB)
	}
}

func TestComputeAutoMirror(t *testing.T) {
	// Reference gene on the reverse strand: the cluster is mirrored so
	// the gene points forward.
	c := mustCluster(t, "bgc",
		mustProtein(t, "left", 300, model.Forward, 0),
		mustProtein(t, "ref", 100, model.Reverse, 1000),
	)

	spec := &Spec{Order: []string{"bgc"}, Refs: map[string]Ref{"bgc": refTo("ref")}}
	results, err := Compute([]*model.Cluster{c}, spec, testOptions())
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if !results[0].Mirrored {
		t.Error("cluster should be mirrored to point the reference forward")
	}

	// Under mirroring the reference is the first gene: center at 50.
	o := Orient(c, true)
	if o.Protein(0).ID() != "ref" {
		t.Fatalf("mirrored order starts with %s, want ref", o.Protein(0).ID())
	}
	if got := GeneStart(o, 0, testOptions()) + GeneWidth(o.Protein(0), 3)/2; got != 50 {
		t.Errorf("mirrored reference center = %v, want 50", got)
	}
}

func TestComputeExplicitMirrorWins(t *testing.T) {
	c := mustCluster(t, "bgc",
		mustProtein(t, "ref", 100, model.Reverse, 0),
	)

	// Auto would mirror; the explicit flag disables it.
	off := false
	spec := &Spec{
		Order: []string{"bgc"},
		Refs:  map[string]Ref{"bgc": {ProteinID: "ref", Mirror: &off}},
	}

	results, err := Compute([]*model.Cluster{c}, spec, testOptions())
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if results[0].Mirrored {
		t.Error("explicit mirror=false should override the auto decision")
	}
}

func TestComputeReferenceNotFound(t *testing.T) {
	c := mustCluster(t, "bgc",
		mustProtein(t, "a", 100, model.Forward, 0),
	)

	spec := &Spec{Order: []string{"bgc"}, Refs: map[string]Ref{"bgc": refTo("missing")}}
	results, err := Compute([]*model.Cluster{c}, spec, testOptions())
	if err != nil {
		t.Fatalf("Compute() must not fail on a missing reference: %v", err)
	}

	r := results[0]
	if r.Aligned || r.Mirrored || r.Offset != 0 {
		t.Errorf("missing reference should fall back to default layout: %+v", r)
	}
}

func TestComputeAmbiguousReferencePicksFirst(t *testing.T) {
	c := mustCluster(t, "bgc",
		mustProtein(t, "dup", 100, model.Forward, 0),
		mustProtein(t, "dup", 100, model.Forward, 1000),
	)

	spec := &Spec{Order: []string{"bgc"}, Refs: map[string]Ref{"bgc": refTo("dup")}}
	results, err := Compute([]*model.Cluster{c}, spec, testOptions())
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if !results[0].Aligned {
		t.Fatal("ambiguous reference should still align")
	}
	// First match: center of the first gene, not the second.
	opts := testOptions()
	center, _, err := referenceCenter(c, refTo("dup"), opts, opts.logger())
	if err != nil {
		t.Fatal(err)
	}
	if center != 50 {
		t.Errorf("reference center = %v, want 50 (first match)", center)
	}
}

func TestComputeEmptyCluster(t *testing.T) {
	c := mustCluster(t, "empty")

	results, err := Compute([]*model.Cluster{c}, nil, testOptions())
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	r := results[0]
	if r.Offset != 0 || r.Mirrored || r.Width != 0 {
		t.Errorf("degenerate layout = %+v, want zero values", r)
	}
}

func TestComputeInvalidScale(t *testing.T) {
	if _, err := Compute(nil, nil, Options{Scale: 0}); err == nil {
		t.Error("Compute() should reject a non-positive scale")
	}
}

func TestComputeOffsetsNeverNegative(t *testing.T) {
	a := mustCluster(t, "A",
		mustProtein(t, "ref", 100, model.Forward, 0),
		mustProtein(t, "a2", 500, model.Forward, 1000),
	)
	b := mustCluster(t, "B",
		mustProtein(t, "b1", 700, model.Forward, 0),
		mustProtein(t, "ref", 100, model.Forward, 3000),
	)

	spec := &Spec{
		Order: []string{"A", "B"},
		Refs:  map[string]Ref{"A": refTo("ref"), "B": refTo("ref")},
	}
	results, err := Compute([]*model.Cluster{a, b}, spec, testOptions())
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	for i, r := range results {
		if r.Offset < 0 {
			t.Errorf("results[%d].Offset = %v, want >= 0", i, r.Offset)
		}
	}
}
