package hmmer

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/clustersketch/clustersketch/pkg/annotate"
	"github.com/clustersketch/clustersketch/pkg/errors"
)

// Column indexes of the per-domain table written by hmmscan --domtblout.
// The format is whitespace-separated with a free-text description tail.
const (
	colTarget   = 0  // profile name
	colQuery    = 3  // protein identifier
	colDomScore = 13 // this domain's bit score
	colAliFrom  = 17 // alignment start, 1-based inclusive
	colAliTo    = 18 // alignment end, 1-based inclusive
	minColumns  = 23
)

// ParseDomTbl reads hmmscan --domtblout output and groups the per-domain
// hits by query protein identifier. Alignment coordinates are converted to
// 0-based end-exclusive offsets. Comment lines (#) are skipped; any other
// line that does not parse yields an EXTERNAL_TOOL error, since truncated
// or garbled tables usually mean the scan itself went wrong.
func ParseDomTbl(r io.Reader) (map[string][]annotate.Hit, error) {
	hits := make(map[string][]annotate.Hit)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < minColumns {
			return nil, errors.New(errors.ErrCodeExternalTool,
				"domtblout line %d has %d fields, want at least %d", lineNo, len(fields), minColumns)
		}

		score, err := strconv.ParseFloat(fields[colDomScore], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExternalTool, err,
				"domtblout line %d: bad score %q", lineNo, fields[colDomScore])
		}
		from, err := strconv.Atoi(fields[colAliFrom])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExternalTool, err,
				"domtblout line %d: bad ali-from %q", lineNo, fields[colAliFrom])
		}
		to, err := strconv.Atoi(fields[colAliTo])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExternalTool, err,
				"domtblout line %d: bad ali-to %q", lineNo, fields[colAliTo])
		}
		if from < 1 || to < from {
			return nil, errors.New(errors.ErrCodeExternalTool,
				"domtblout line %d: invalid alignment span %d..%d", lineNo, from, to)
		}

		query := fields[colQuery]
		hits[query] = append(hits[query], annotate.Hit{
			ProfileID: fields[colTarget],
			Start:     from - 1,
			End:       to,
			Score:     score,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternalTool, err, "reading domtblout")
	}
	return hits, nil
}
