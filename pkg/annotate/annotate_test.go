package annotate

import (
	"reflect"
	"testing"

	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/model"
)

func mustProtein(t *testing.T, id string, length int) *model.Protein {
	t.Helper()
	p, err := model.NewProtein(id, length, model.Forward, 0, length*3)
	if err != nil {
		t.Fatalf("NewProtein(%s) failed: %v", id, err)
	}
	return p
}

func profileIDs(hits []Hit) []string {
	var ids []string
	for _, h := range hits {
		ids = append(ids, h.ProfileID)
	}
	return ids
}

func TestResolveOverlaps(t *testing.T) {
	tests := []struct {
		name string
		hits []Hit
		want []string // accepted profile ids in start order
	}{
		{
			name: "higher score displaces overlapping lower score",
			hits: []Hit{
				{ProfileID: "domA", Start: 0, End: 100, Score: 50},
				{ProfileID: "domB", Start: 50, End: 150, Score: 80},
				{ProfileID: "domC", Start: 200, End: 300, Score: 10},
			},
			want: []string{"domB", "domC"},
		},
		{
			name: "no overlaps keeps everything",
			hits: []Hit{
				{ProfileID: "a", Start: 0, End: 10, Score: 1},
				{ProfileID: "b", Start: 10, End: 20, Score: 2},
				{ProfileID: "c", Start: 30, End: 40, Score: 3},
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "equal score prefers larger span",
			hits: []Hit{
				{ProfileID: "short", Start: 0, End: 50, Score: 10},
				{ProfileID: "long", Start: 0, End: 120, Score: 10},
			},
			want: []string{"long"},
		},
		{
			name: "equal score and span breaks tie lexicographically",
			hits: []Hit{
				{ProfileID: "zeta", Start: 0, End: 50, Score: 10},
				{ProfileID: "alpha", Start: 0, End: 50, Score: 10},
			},
			want: []string{"alpha"},
		},
		{
			name: "empty input",
			hits: nil,
			want: nil,
		},
		{
			name: "chain of overlaps resolved greedily",
			hits: []Hit{
				{ProfileID: "a", Start: 0, End: 100, Score: 90},
				{ProfileID: "b", Start: 90, End: 200, Score: 95},
				{ProfileID: "c", Start: 190, End: 280, Score: 85},
			},
			// b wins its overlap with a and c; a and c both lose a
			// shared residue with b.
			want: []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := profileIDs(ResolveOverlaps(tt.hits))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveOverlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveOverlapsDoesNotMutateInput(t *testing.T) {
	hits := []Hit{
		{ProfileID: "b", Start: 50, End: 150, Score: 80},
		{ProfileID: "a", Start: 0, End: 100, Score: 50},
	}
	ResolveOverlaps(hits)
	if hits[0].ProfileID != "b" || hits[1].ProfileID != "a" {
		t.Error("ResolveOverlaps() reordered the caller's slice")
	}
}

func TestProteinAnnotation(t *testing.T) {
	p := mustProtein(t, "prot", 500)
	hits := []Hit{
		{ProfileID: "domA", Start: 0, End: 100, Score: 50},
		{ProfileID: "domB", Start: 50, End: 150, Score: 80},
		{ProfileID: "domC", Start: 200, End: 300, Score: 10},
	}

	if err := Protein(p, hits, Options{}); err != nil {
		t.Fatalf("Protein() failed: %v", err)
	}

	ds := p.Domains()
	if len(ds) != 2 || ds[0].ID != "domB" || ds[1].ID != "domC" {
		t.Fatalf("accepted domains = %+v, want domB then domC", ds)
	}
	if ds[0].Start != 50 || ds[0].End != 150 || ds[0].Score != 80 {
		t.Errorf("domB carried wrong coordinates: %+v", ds[0])
	}
}

func TestProteinAnnotationIdempotent(t *testing.T) {
	p := mustProtein(t, "prot", 500)
	hits := []Hit{
		{ProfileID: "domA", Start: 0, End: 100, Score: 50},
		{ProfileID: "domB", Start: 50, End: 150, Score: 80},
	}

	if err := Protein(p, hits, Options{}); err != nil {
		t.Fatalf("first annotation failed: %v", err)
	}
	first := append([]model.Domain(nil), p.Domains()...)

	if err := Protein(p, hits, Options{}); err != nil {
		t.Fatalf("second annotation failed: %v", err)
	}
	if !reflect.DeepEqual(first, p.Domains()) {
		t.Errorf("re-annotation changed domains: %+v vs %+v", first, p.Domains())
	}
}

func TestProteinAnnotationOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		hit  Hit
	}{
		{"end past length", Hit{ProfileID: "a", Start: 400, End: 600, Score: 1}},
		{"negative start", Hit{ProfileID: "a", Start: -10, End: 50, Score: 1}},
		{"empty span", Hit{ProfileID: "a", Start: 50, End: 50, Score: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustProtein(t, "prot", 500)
			err := Protein(p, []Hit{tt.hit}, Options{})
			if !errors.Is(err, errors.ErrCodeInvalidHit) {
				t.Fatalf("error = %v, want INVALID_HIT", err)
			}
			if len(p.Domains()) != 0 {
				t.Error("failed annotation must not mutate the protein")
			}
		})
	}
}

func TestClusterAnnotationAtomic(t *testing.T) {
	good := mustProtein(t, "good", 500)
	bad := mustProtein(t, "bad", 100)
	c, err := model.NewCluster("bgc", []*model.Protein{good, bad})
	if err != nil {
		t.Fatalf("NewCluster() failed: %v", err)
	}

	hits := map[string][]Hit{
		"good": {{ProfileID: "domA", Start: 0, End: 100, Score: 5}},
		"bad":  {{ProfileID: "domB", Start: 50, End: 400, Score: 5}}, // out of range
	}

	err = Cluster(c, hits, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidHit) {
		t.Fatalf("error = %v, want INVALID_HIT", err)
	}

	// No partial mutation: even the valid protein stays untouched.
	for _, p := range c.Proteins() {
		if len(p.Domains()) != 0 {
			t.Errorf("protein %s was mutated by a failed cluster annotation", p.ID())
		}
	}
}

func TestClusterAnnotation(t *testing.T) {
	p1 := mustProtein(t, "pks", 2000)
	p2 := mustProtein(t, "tailor", 400)
	c, err := model.NewCluster("bgc", []*model.Protein{p1, p2})
	if err != nil {
		t.Fatalf("NewCluster() failed: %v", err)
	}

	hits := map[string][]Hit{
		"pks": {
			{ProfileID: "PKS_KS", Start: 0, End: 420, Score: 410},
			{ProfileID: "PKS_AT", Start: 550, End: 850, Score: 260},
			{ProfileID: "PT", Start: 1100, End: 1400, Score: 190},
		},
		// tailor has no hits
	}

	if err := Cluster(c, hits, Options{}); err != nil {
		t.Fatalf("Cluster() failed: %v", err)
	}

	if !p1.IsCore() {
		t.Error("PKS protein should be core biosynthetic")
	}
	if p1.CoreType() != "nrPKS" {
		t.Errorf("CoreType = %q, want nrPKS", p1.CoreType())
	}
	if p2.IsCore() {
		t.Error("protein without signature domains must not be core")
	}
	if len(p2.Domains()) != 0 {
		t.Error("protein without hits should keep an empty domain list")
	}
}

type fixedColors struct{}

func (fixedColors) Color(id string) string { return "#112233" }

func TestProteinAnnotationAssignsColors(t *testing.T) {
	p := mustProtein(t, "prot", 500)
	hits := []Hit{{ProfileID: "domA", Start: 0, End: 100, Score: 5}}

	if err := Protein(p, hits, Options{Colors: fixedColors{}}); err != nil {
		t.Fatalf("Protein() failed: %v", err)
	}
	if got := p.Domains()[0].Color; got != "#112233" {
		t.Errorf("Color = %q, want #112233", got)
	}
}

func TestClassify(t *testing.T) {
	set := func(ids ...string) map[string]bool {
		m := make(map[string]bool)
		for _, id := range ids {
			m[id] = true
		}
		return m
	}

	tests := []struct {
		name    string
		present map[string]bool
		want    string
	}{
		{"non-reducing PKS via PT", set("PKS_KS", "PKS_AT", "PT"), "nrPKS"},
		{"highly reducing PKS", set("PKS_KS", "PKS_AT", "KR"), "hrPKS"},
		{"bare ketosynthase", set("PKS_KS"), "otherPKS"},
		{"hybrid beats both PKS and NRPS", set("PKS_KS", "Condensation", "AMP-binding"), "PKS-NRPS_hybrid"},
		{"full NRPS", set("Condensation", "AMP-binding"), "NRPS"},
		{"adenylation only", set("AMP-binding"), "NRPS-like"},
		{"prenyltransferase", set("Trp_DMAT"), "DMAT"},
		{"terpene cyclase", set("Terpene_synth_C"), "TC"},
		{"trichodiene synthase", set("TRI5"), "TC"},
		{"no match", set("Unknown_profile"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.present, DefaultRules); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
