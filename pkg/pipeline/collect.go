package pipeline

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/genbank"
	"github.com/clustersketch/clustersketch/pkg/layout"
	"github.com/clustersketch/clustersketch/pkg/observability"
	"github.com/clustersketch/clustersketch/pkg/store"
)

var genbankExts = map[string]bool{
	".gb":   true,
	".gbk":  true,
	".gbff": true,
}

// collect walks the inputs and loads every accepted file. Unreadable or
// malformed files are warnings, not batch failures; the skipped count is
// reported so nothing disappears silently. The include/exclude filters
// match the file stem for flat files and the stored identifier for blob
// clusters, so a .bgccase can mix clusters of which only some are drawn.
// An alignment list is authoritative: clusters it does not name are
// dropped from the batch before annotation.
func (r *Runner) collect(ctx context.Context, opts Options, spec *layout.Spec, logger *log.Logger) ([]entry, int, error) {
	var paths []string
	for _, input := range opts.Inputs {
		expanded, err := expandInput(input)
		if err != nil {
			return nil, 0, err
		}
		paths = append(paths, expanded...)
	}

	var entries []entry
	skipped := 0
	for _, path := range paths {
		blob := isBlob(path)
		if !blob && !acceptName(fileStem(path), opts.Include, opts.Exclude) {
			logger.Debug("filtered out by include/exclude", "file", path)
			continue
		}

		start := time.Now()
		observability.Pipeline().OnCollectStart(ctx, path)
		loaded, err := loadFile(path)
		proteins := 0
		for _, e := range loaded {
			proteins += e.cluster.Len()
		}
		observability.Pipeline().OnCollectComplete(ctx, path, proteins, time.Since(start), err)

		if err != nil {
			skipped++
			logger.Warn("skipping unreadable input", "file", path, "err", errors.UserMessage(err))
			continue
		}
		for _, e := range loaded {
			if blob && !acceptName(e.cluster.Name(), opts.Include, opts.Exclude) {
				logger.Debug("filtered out by include/exclude",
					"cluster", e.cluster.Name(), "file", path)
				continue
			}
			entries = append(entries, e)
		}
	}
	entries = dedupe(entries, logger)
	if spec != nil {
		entries = filterBySpec(entries, spec, logger)
	}
	return entries, skipped, nil
}

// filterBySpec keeps only clusters named in the alignment list.
func filterBySpec(entries []entry, spec *layout.Spec, logger *log.Logger) []entry {
	listed := make(map[string]bool, len(spec.Order))
	for _, name := range spec.Order {
		listed[name] = true
	}
	out := entries[:0]
	for _, e := range entries {
		if !listed[e.cluster.Name()] {
			logger.Debug("cluster not named in alignment list, dropping", "cluster", e.cluster.Name())
			continue
		}
		out = append(out, e)
	}
	return out
}

// dedupe resolves duplicate cluster identifiers across inputs: the later
// occurrence wins, keeping the first occurrence's position in the batch.
func dedupe(entries []entry, logger *log.Logger) []entry {
	index := make(map[string]int, len(entries))
	out := entries[:0]
	for _, e := range entries {
		name := e.cluster.Name()
		if i, dup := index[name]; dup {
			logger.Warn("duplicate cluster identifier, later input wins", "cluster", name)
			out[i] = e
			continue
		}
		index[name] = len(out)
		out = append(out, e)
	}
	return out
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isBlob(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bgc", ".bgccase":
		return true
	}
	return false
}

// expandInput resolves one input argument to concrete file paths.
// Directories are walked recursively.
func expandInput(input string) ([]string, error) {
	info, err := filepath.Glob(input)
	if err != nil || len(info) == 0 {
		info = []string{input}
	}

	var paths []string
	for _, p := range info {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if genbankExts[ext] || ext == ".bgc" || ext == ".bgccase" {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "reading input %s", p)
		}
	}
	return paths, nil
}

// acceptName applies the include/exclude filename filters. Exclude wins;
// "*" in the include list accepts everything.
func acceptName(name string, include, exclude []string) bool {
	for _, e := range exclude {
		if e != "" && strings.Contains(name, e) {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, i := range include {
		if i == "*" || (i != "" && strings.Contains(name, i)) {
			return true
		}
	}
	return false
}

func loadFile(path string) ([]entry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bgc":
		rec, err := store.LoadCluster(path)
		if err != nil {
			return nil, err
		}
		return []entry{{cluster: rec.Cluster, sequences: rec.Sequences}}, nil
	case ".bgccase":
		records, err := store.LoadCase(path)
		if err != nil {
			return nil, err
		}
		entries := make([]entry, len(records))
		for i, rec := range records {
			entries[i] = entry{cluster: rec.Cluster, sequences: rec.Sequences}
		}
		return entries, nil
	default:
		res, err := genbank.ParseFile(path)
		if err != nil {
			return nil, err
		}
		return []entry{{cluster: res.Cluster, sequences: res.Sequences}}, nil
	}
}
