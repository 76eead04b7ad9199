// Package genbank reads GenBank flat files just far enough to build the
// cluster model: CDS features supply the encoded proteins, the file stem
// names the cluster, and the cluster span follows from the outermost CDS
// coordinates. Everything else in the file is skipped. The parser is
// line-oriented and streams, so antiSMASH region files of a few hundred
// kilobytes cost nothing to load.
package genbank

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/model"
)

// Result is a parsed GenBank record: the cluster (proteins with empty
// domain lists) plus the amino-acid sequences needed for HMM scanning,
// keyed by protein identifier.
type Result struct {
	Cluster   *model.Cluster
	Sequences map[string]string
}

// ParseFile parses a .gb/.gbk file. The cluster is named after the file
// stem, matching how identifiers are assigned downstream (filter lists,
// figure filenames).
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "opening %s", path)
	}
	defer f.Close()

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(f, stem)
}

// cds accumulates one CDS feature while scanning.
type cds struct {
	location    string
	proteinID   string
	locusTag    string
	gene        string
	translation string
}

func (c *cds) id(n int) string {
	switch {
	case c.proteinID != "":
		return c.proteinID
	case c.locusTag != "":
		return c.locusTag
	case c.gene != "":
		return c.gene
	}
	return "cds_" + strconv.Itoa(n)
}

// Parse reads a single GenBank record from r and names the cluster name.
func Parse(r io.Reader, name string) (*Result, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cluster name cannot be empty")
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		features  []cds
		current   *cds
		qualifier string // name of the in-progress multi-line qualifier
		qualValue strings.Builder
		inFeat    bool
	)

	flushQualifier := func() {
		if current == nil || qualifier == "" {
			return
		}
		val := strings.Trim(qualValue.String(), `"`)
		switch qualifier {
		case "protein_id":
			current.proteinID = val
		case "locus_tag":
			current.locusTag = val
		case "gene":
			current.gene = val
		case "translation":
			current.translation = val
		}
		qualifier = ""
		qualValue.Reset()
	}
	flushFeature := func() {
		flushQualifier()
		if current != nil {
			features = append(features, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "FEATURES"):
			inFeat = true
			continue
		case strings.HasPrefix(line, "ORIGIN"), strings.HasPrefix(line, "CONTIG"):
			flushFeature()
			inFeat = false
			continue
		}
		if !inFeat {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// A feature key starts at column 5; qualifiers and continuation
		// lines are indented to column 21.
		isKeyLine := len(line) > 5 && line[0] == ' ' && line[5] != ' '
		switch {
		case isKeyLine:
			flushFeature()
			key := strings.Fields(trimmed)[0]
			if key == "CDS" {
				current = &cds{location: strings.TrimSpace(strings.TrimPrefix(trimmed, "CDS"))}
			}
		case current == nil:
			// inside a feature we do not care about
		case strings.HasPrefix(trimmed, "/"):
			flushQualifier()
			qname, value, hasValue := strings.Cut(trimmed[1:], "=")
			if !hasValue {
				continue
			}
			qualifier = qname
			qualValue.WriteString(value)
			// single-line quoted value closes immediately
			if strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) > 1 {
				flushQualifier()
			}
		case qualifier != "":
			// continuation of a multi-line qualifier value
			qualValue.WriteString(trimmed)
			if strings.HasSuffix(trimmed, `"`) {
				flushQualifier()
			}
		default:
			// continuation of a multi-line location
			current.location += trimmed
		}
	}
	flushFeature()
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading %s", name)
	}

	proteins := make([]*model.Protein, 0, len(features))
	seqs := make(map[string]string, len(features))
	for i, f := range features {
		id := f.id(i + 1)
		start, end, strand, err := parseLocation(f.location)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err,
				"CDS %s in %s", id, name)
		}

		length := len(f.translation)
		if length == 0 {
			// no /translation qualifier: derive from the nt span,
			// dropping the stop codon
			length = (end-start)/3 - 1
		}

		p, err := model.NewProtein(id, length, strand, start, end)
		if err != nil {
			return nil, err
		}
		proteins = append(proteins, p)
		if f.translation != "" {
			seqs[id] = f.translation
		}
	}

	cluster, err := model.NewCluster(name, proteins)
	if err != nil {
		return nil, err
	}
	return &Result{Cluster: cluster, Sequences: seqs}, nil
}

// parseLocation reduces a GenBank location string to an overall genomic
// span and strand. join/order lists collapse to their min start and max
// end; nesting inside complement() flips the strand. Partial-end markers
// (< and >) are ignored.
func parseLocation(loc string) (start, end int, strand model.Strand, err error) {
	strand = model.Forward
	s := strings.TrimSpace(loc)
	for {
		switch {
		case strings.HasPrefix(s, "complement(") && strings.HasSuffix(s, ")"):
			strand = strand.Flip()
			s = s[len("complement(") : len(s)-1]
		case strings.HasPrefix(s, "join(") && strings.HasSuffix(s, ")"):
			s = s[len("join(") : len(s)-1]
		case strings.HasPrefix(s, "order(") && strings.HasSuffix(s, ")"):
			s = s[len("order(") : len(s)-1]
		default:
			return parseSpanList(s, strand)
		}
	}
}

func parseSpanList(s string, strand model.Strand) (int, int, model.Strand, error) {
	start, end := -1, -1
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		part = strings.ReplaceAll(part, "<", "")
		part = strings.ReplaceAll(part, ">", "")
		// a complement() may wrap individual join elements too
		if strings.HasPrefix(part, "complement(") && strings.HasSuffix(part, ")") {
			part = part[len("complement(") : len(part)-1]
		}

		lo, hi, found := strings.Cut(part, "..")
		if !found {
			hi = lo // single-position location
		}
		a, err := strconv.Atoi(lo)
		if err != nil {
			return 0, 0, strand, errors.Wrap(errors.ErrCodeInvalidModel, err, "bad location %q", s)
		}
		b, err := strconv.Atoi(hi)
		if err != nil {
			return 0, 0, strand, errors.Wrap(errors.ErrCodeInvalidModel, err, "bad location %q", s)
		}
		if start == -1 || a-1 < start {
			start = a - 1
		}
		if b > end {
			end = b
		}
	}
	if start < 0 || end <= start {
		return 0, 0, strand, errors.New(errors.ErrCodeInvalidModel, "empty location %q", s)
	}
	return start, end, strand, nil
}
