package layout

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/clustersketch/clustersketch/pkg/errors"
)

// Ref is one alignment spec entry: the reference protein anchoring a
// cluster, plus an optional explicit mirror decision. A nil Mirror means
// "mirror automatically so the reference gene points forward".
type Ref struct {
	ProteinID string
	Mirror    *bool
}

// Spec is a parsed alignment list. Besides the per-cluster references it
// fixes the drawing order of a stacked figure. Cluster identifiers are
// case-sensitive.
type Spec struct {
	Order []string
	Refs  map[string]Ref
}

// LoadSpec reads an alignment list file.
func LoadSpec(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "opening alignment list %s", path)
	}
	defer f.Close()
	return ParseSpec(f)
}

// ParseSpec parses a tab-separated alignment list: one row per cluster
// with columns `cluster_id [reference_protein_id [mirror_flag]]`. Rows
// starting with # are comments; columns beyond the third are ignored.
// A duplicate cluster id keeps its first position in the drawing order
// but the later reference wins.
func ParseSpec(r io.Reader) (*Spec, error) {
	spec := &Spec{Refs: make(map[string]Ref)}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		id := strings.TrimSpace(cols[0])
		if id == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"alignment list line %d: empty cluster id", lineNo)
		}

		ref := Ref{}
		if len(cols) > 1 {
			ref.ProteinID = strings.TrimSpace(cols[1])
		}
		if len(cols) > 2 && strings.TrimSpace(cols[2]) != "" {
			m, err := parseMirrorFlag(strings.TrimSpace(cols[2]))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err,
					"alignment list line %d", lineNo)
			}
			ref.Mirror = &m
		}

		if !seen[id] {
			spec.Order = append(spec.Order, id)
			seen[id] = true
		}
		if ref.ProteinID != "" {
			spec.Refs[id] = ref
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading alignment list")
	}

	if len(spec.Order) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "alignment list is empty")
	}
	return spec, nil
}

func parseMirrorFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "m", "mirror", "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, errors.New(errors.ErrCodeInvalidInput, "unknown mirror flag %q", s)
}
