package model

import (
	"reflect"
	"testing"
)

func TestNewClusterSortsByGenomicStart(t *testing.T) {
	b := mustProtein(t, "b", 100, Forward, 2000, 2300)
	a := mustProtein(t, "a", 100, Reverse, 0, 300)
	m := mustProtein(t, "m", 100, Forward, 1000, 1300)

	c, err := NewCluster("bgc1", []*Protein{b, a, m})
	if err != nil {
		t.Fatalf("NewCluster() failed: %v", err)
	}

	var order []string
	for _, p := range c.Proteins() {
		order = append(order, p.ID())
	}
	want := []string{"a", "m", "b"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("protein order = %v, want %v", order, want)
	}

	if c.Start() != 0 || c.End() != 2300 {
		t.Errorf("span = [%d, %d), want [0, 2300)", c.Start(), c.End())
	}
}

func TestNewClusterValidation(t *testing.T) {
	if _, err := NewCluster("", nil); err == nil {
		t.Error("empty name should fail")
	}
	if _, err := NewCluster("bgc", []*Protein{nil}); err == nil {
		t.Error("nil protein should fail")
	}
}

func TestNewClusterEmpty(t *testing.T) {
	c, err := NewCluster("empty", nil)
	if err != nil {
		t.Fatalf("NewCluster() failed: %v", err)
	}
	if c.Len() != 0 || c.Start() != 0 || c.End() != 0 {
		t.Errorf("empty cluster: len=%d span=[%d,%d)", c.Len(), c.Start(), c.End())
	}
}

func TestFind(t *testing.T) {
	p1 := mustProtein(t, "ref", 100, Forward, 0, 300)
	p2 := mustProtein(t, "other", 100, Forward, 400, 700)
	p3 := mustProtein(t, "ref", 100, Forward, 800, 1100)

	c, err := NewCluster("bgc", []*Protein{p1, p2, p3})
	if err != nil {
		t.Fatalf("NewCluster() failed: %v", err)
	}

	tests := []struct {
		id   string
		want []int
	}{
		{"ref", []int{0, 2}},
		{"other", []int{1}},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := c.Find(tt.id); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Find(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestCoreTypes(t *testing.T) {
	p1 := mustProtein(t, "a", 100, Forward, 0, 300)
	p1.MarkCore("nrPKS")
	p2 := mustProtein(t, "b", 100, Forward, 400, 700)
	p3 := mustProtein(t, "c", 100, Forward, 800, 1100)
	p3.MarkCore("NRPS")
	p4 := mustProtein(t, "d", 100, Forward, 1200, 1500)
	p4.MarkCore("nrPKS") // duplicate subtype

	c, err := NewCluster("bgc", []*Protein{p1, p2, p3, p4})
	if err != nil {
		t.Fatalf("NewCluster() failed: %v", err)
	}

	want := []string{"nrPKS", "NRPS"}
	if got := c.CoreTypes(); !reflect.DeepEqual(got, want) {
		t.Errorf("CoreTypes() = %v, want %v", got, want)
	}
}
