// Package hmmer isolates the external hmmscan invocation behind a
// cancellable, timeout-bounded boundary. A failed or malformed scan is a
// recoverable per-cluster condition: callers skip annotation for that
// cluster and continue with the rest of the batch.
package hmmer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/clustersketch/clustersketch/pkg/annotate"
	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/observability"
)

// DefaultTimeout bounds a single hmmscan invocation.
const DefaultTimeout = 10 * time.Minute

// Scanner runs hmmscan over protein sequences against one or more profile
// databases. The zero value is not usable; construct with New.
type Scanner struct {
	path      string
	databases []string
	timeout   time.Duration
	cpus      int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithPath overrides the hmmscan executable path (default "hmmscan").
func WithPath(path string) Option { return func(s *Scanner) { s.path = path } }

// WithTimeout overrides the per-invocation timeout.
func WithTimeout(d time.Duration) Option { return func(s *Scanner) { s.timeout = d } }

// WithCPUs sets the --cpu value passed to hmmscan. Zero lets hmmscan decide.
func WithCPUs(n int) Option { return func(s *Scanner) { s.cpus = n } }

// New creates a Scanner for the given .hmm database files.
func New(databases []string, opts ...Option) (*Scanner, error) {
	if len(databases) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no hmm databases given")
	}
	for _, db := range databases {
		if _, err := os.Stat(db); err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "hmm database %s", db)
		}
	}
	s := &Scanner{path: "hmmscan", databases: databases, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Scan runs every configured database over the sequences (keyed by protein
// identifier) and returns raw hits grouped by protein. Non-zero exit status
// or unparseable output yields an EXTERNAL_TOOL error.
func (s *Scanner) Scan(ctx context.Context, seqs map[string]string) (map[string][]annotate.Hit, error) {
	if len(seqs) == 0 {
		return map[string][]annotate.Hit{}, nil
	}

	dir, err := os.MkdirTemp("", "clustersketch-hmmer-")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternalTool, err, "creating scan workspace")
	}
	defer os.RemoveAll(dir)

	queryPath := filepath.Join(dir, "query.faa")
	if err := writeFASTA(queryPath, seqs); err != nil {
		return nil, err
	}

	hits := make(map[string][]annotate.Hit)
	for i, db := range s.databases {
		start := time.Now()
		observability.Scan().OnScanStart(ctx, db, len(seqs))

		tblPath := filepath.Join(dir, fmt.Sprintf("scan-%d.domtbl", i))
		dbHits, err := s.scanDatabase(ctx, db, queryPath, tblPath)

		count := 0
		for _, hs := range dbHits {
			count += len(hs)
		}
		observability.Scan().OnScanComplete(ctx, db, count, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		for id, hs := range dbHits {
			hits[id] = append(hits[id], hs...)
		}
	}
	return hits, nil
}

func (s *Scanner) scanDatabase(ctx context.Context, db, queryPath, tblPath string) (map[string][]annotate.Hit, error) {
	if err := s.run(ctx, db, queryPath, tblPath); err != nil {
		return nil, err
	}
	f, err := os.Open(tblPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternalTool, err, "reading hmmscan output")
	}
	defer f.Close()
	return ParseDomTbl(f)
}

func (s *Scanner) run(ctx context.Context, db, query, tbl string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := []string{"--domtblout", tbl, "--noali", "-o", os.DevNull}
	if s.cpus > 0 {
		args = append(args, "--cpu", fmt.Sprint(s.cpus))
	}
	args = append(args, db, query)

	cmd := exec.CommandContext(ctx, s.path, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.Wrap(errors.ErrCodeExternalTool, ctx.Err(),
				"hmmscan against %s timed out after %s", db, s.timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return errors.Wrap(errors.ErrCodeExternalTool, err, "hmmscan against %s: %s", db, msg)
	}
	return nil
}

// writeFASTA writes sequences as a FASTA file with deterministic record
// order so scan output is stable across runs.
func writeFASTA(path string, seqs map[string]string) error {
	ids := make([]string, 0, len(seqs))
	for id := range seqs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, ">%s\n%s\n", id, seqs[id])
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeExternalTool, err, "writing query fasta")
	}
	return nil
}
