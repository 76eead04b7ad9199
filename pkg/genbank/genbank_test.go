package genbank

import (
	"strings"
	"testing"

	"github.com/clustersketch/clustersketch/pkg/model"
)

const sampleRecord = `LOCUS       BGC0000001             7260 bp    DNA     linear   PLN 01-JAN-2020
DEFINITION  example biosynthetic gene cluster.
ACCESSION   BGC0000001
FEATURES             Location/Qualifiers
     source          1..7260
                     /organism="Aspergillus sp."
     gene            1..1500
                     /gene="abcA"
     CDS             101..1000
                     /gene="abcA"
                     /protein_id="AAA00001.1"
                     /codon_start=1
                     /translation="MKLVADSTPLQTSALWKRISEGEIGAPNDSYAVVGMACRFPGGA
                     NDPQELWHTLQKGLDL"
     CDS             complement(2001..2900)
                     /locus_tag="abc_00002"
                     /translation="MTDLSKVVLITGASRGIG"
     CDS             join(4001..4300,4601..4900)
                     /protein_id="AAA00003.1"
                     /translation="MSNLVLFGATGQQGGSVIDALLKTDV"
     CDS             5501..5803
ORIGIN
        1 atgaaactgg ttgcagattc tacgccgctg cagacctctg cgctgtggaa acgtatttct
//
`

func TestParse(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleRecord), "BGC0000001")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	c := res.Cluster
	if c.Name() != "BGC0000001" {
		t.Errorf("Name = %q, want BGC0000001", c.Name())
	}
	if c.Len() != 4 {
		t.Fatalf("got %d proteins, want 4", c.Len())
	}

	ps := c.Proteins()

	p1 := ps[0]
	if p1.ID() != "AAA00001.1" {
		t.Errorf("first protein id = %q, want AAA00001.1", p1.ID())
	}
	if p1.Start() != 100 || p1.End() != 1000 {
		t.Errorf("first protein span = [%d, %d), want [100, 1000)", p1.Start(), p1.End())
	}
	if p1.Strand() != model.Forward {
		t.Error("first protein should be on the forward strand")
	}
	if p1.Length() != 60 {
		t.Errorf("first protein length = %d, want 60 (translation residues)", p1.Length())
	}

	p2 := ps[1]
	if p2.ID() != "abc_00002" {
		t.Errorf("second protein id = %q, want abc_00002 (locus_tag fallback)", p2.ID())
	}
	if p2.Strand() != model.Reverse {
		t.Error("complement() CDS should be on the reverse strand")
	}

	p3 := ps[2]
	if p3.Start() != 4000 || p3.End() != 4900 {
		t.Errorf("join() span = [%d, %d), want [4000, 4900)", p3.Start(), p3.End())
	}

	p4 := ps[3]
	if !strings.HasPrefix(p4.ID(), "cds_") {
		t.Errorf("CDS without identifiers got id %q, want synthesized cds_N", p4.ID())
	}
	// 303 nt span, minus stop codon: 100 aa
	if p4.Length() != 100 {
		t.Errorf("untranslated CDS length = %d, want 100", p4.Length())
	}

	// domain lists start empty
	for _, p := range ps {
		if len(p.Domains()) != 0 {
			t.Errorf("protein %s should have no domains after parsing", p.ID())
		}
	}
}

func TestParseSequences(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleRecord), "BGC0000001")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	seq, ok := res.Sequences["AAA00001.1"]
	if !ok {
		t.Fatal("missing sequence for AAA00001.1")
	}
	// multi-line translation is joined without whitespace
	if strings.ContainsAny(seq, " \n\"") {
		t.Errorf("sequence contains whitespace or quotes: %q", seq)
	}
	if len(seq) != 60 {
		t.Errorf("sequence length = %d, want 60", len(seq))
	}
	if !strings.HasPrefix(seq, "MKLVADSTPLQ") {
		t.Errorf("sequence start = %q", seq[:11])
	}

	if _, ok := res.Sequences["cds_4"]; ok {
		t.Error("CDS without /translation should have no sequence entry")
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name   string
		loc    string
		start  int
		end    int
		strand model.Strand
	}{
		{"plain", "101..1000", 100, 1000, model.Forward},
		{"complement", "complement(2001..2900)", 2000, 2900, model.Reverse},
		{"join", "join(4001..4300,4601..4900)", 4000, 4900, model.Forward},
		{"complement of join", "complement(join(10..20,30..40))", 9, 40, model.Reverse},
		{"partial markers", "<101..>1000", 100, 1000, model.Forward},
		{"single position", "42", 41, 42, model.Forward},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, strand, err := parseLocation(tt.loc)
			if err != nil {
				t.Fatalf("parseLocation(%q) failed: %v", tt.loc, err)
			}
			if start != tt.start || end != tt.end || strand != tt.strand {
				t.Errorf("parseLocation(%q) = %d, %d, %v; want %d, %d, %v",
					tt.loc, start, end, strand, tt.start, tt.end, tt.strand)
			}
		})
	}
}

func TestParseLocationInvalid(t *testing.T) {
	for _, loc := range []string{"", "abc..def", "100..50"} {
		t.Run(loc, func(t *testing.T) {
			if _, _, _, err := parseLocation(loc); err == nil {
				t.Errorf("parseLocation(%q) should fail", loc)
			}
		})
	}
}
