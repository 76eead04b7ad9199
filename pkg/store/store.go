// Package store persists clusters as opaque binary blobs. A .bgc file
// holds one cluster, a .bgccase file holds a named collection. Blobs are
// BSON documents, so files survive field additions and can be inspected
// with standard tooling.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/model"
)

// formatVersion is bumped on incompatible schema changes. Loaders reject
// blobs from a newer writer instead of misreading them.
const formatVersion = 1

type domainDTO struct {
	ID    string  `bson:"id"`
	Start int     `bson:"start"`
	End   int     `bson:"end"`
	Score float64 `bson:"score"`
	Color string  `bson:"color,omitempty"`
}

type proteinDTO struct {
	ID       string      `bson:"id"`
	Length   int         `bson:"length"`
	Strand   int8        `bson:"strand"`
	Start    int         `bson:"start"`
	End      int         `bson:"end"`
	Core     bool        `bson:"core,omitempty"`
	CoreType string      `bson:"core_type,omitempty"`
	Domains  []domainDTO `bson:"domains,omitempty"`
	Sequence string      `bson:"sequence,omitempty"`
}

type clusterDTO struct {
	Version  int          `bson:"version"`
	Name     string       `bson:"name"`
	Proteins []proteinDTO `bson:"proteins"`
}

type caseDTO struct {
	Version  int          `bson:"version"`
	Clusters []clusterDTO `bson:"clusters"`
}

// Record pairs a cluster with the protein translations that produced
// it, keyed by protein id. Translations are persisted alongside the
// cluster so a stored blob can be re-scanned later without the original
// GenBank file. Sequences may be empty for blobs written by tools that
// never had them.
type Record struct {
	Cluster   *model.Cluster
	Sequences map[string]string
}

// Marshal encodes a record as a binary blob.
func Marshal(rec Record) ([]byte, error) {
	data, err := bson.Marshal(toDTO(rec))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding cluster %s", rec.Cluster.Name())
	}
	return data, nil
}

// Unmarshal decodes a blob produced by Marshal. The cluster is rebuilt
// through the model constructors, so a corrupted blob fails validation
// instead of producing a broken object.
func Unmarshal(data []byte) (Record, error) {
	var dto clusterDTO
	if err := bson.Unmarshal(data, &dto); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding cluster blob")
	}
	return fromDTO(dto)
}

// SaveCluster writes a .bgc file. The write is atomic: a temporary file
// in the same directory is renamed over the target only after a
// successful write.
func SaveCluster(path string, rec Record) error {
	data, err := Marshal(rec)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// LoadCluster reads a .bgc file.
func LoadCluster(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeNotFound, err, "reading %s", path)
	}
	rec, err := Unmarshal(data)
	if err != nil {
		return Record{}, errors.Wrap(errors.GetCode(err), err, "loading %s", path)
	}
	return rec, nil
}

// SaveCase writes a .bgccase collection file.
func SaveCase(path string, records []Record) error {
	dto := caseDTO{Version: formatVersion, Clusters: make([]clusterDTO, len(records))}
	for i, rec := range records {
		dto.Clusters[i] = toDTO(rec)
	}
	data, err := bson.Marshal(dto)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding collection")
	}
	return writeAtomic(path, data)
}

// LoadCase reads a .bgccase collection file, preserving cluster order.
func LoadCase(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "reading %s", path)
	}
	var dto caseDTO
	if err := bson.Unmarshal(data, &dto); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding %s", path)
	}
	if dto.Version > formatVersion {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s: format version %d is newer than this build supports (%d)",
			path, dto.Version, formatVersion)
	}
	records := make([]Record, len(dto.Clusters))
	for i, cd := range dto.Clusters {
		rec, err := fromDTO(cd)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "loading %s", path)
		}
		records[i] = rec
	}
	return records, nil
}

func toDTO(rec Record) clusterDTO {
	dto := clusterDTO{Version: formatVersion, Name: rec.Cluster.Name()}
	for _, p := range rec.Cluster.Proteins() {
		pd := proteinDTO{
			ID:       p.ID(),
			Length:   p.Length(),
			Strand:   int8(p.Strand()),
			Start:    p.Start(),
			End:      p.End(),
			Core:     p.IsCore(),
			CoreType: p.CoreType(),
			Sequence: rec.Sequences[p.ID()],
		}
		for _, d := range p.Domains() {
			pd.Domains = append(pd.Domains, domainDTO(d))
		}
		dto.Proteins = append(dto.Proteins, pd)
	}
	return dto
}

func fromDTO(dto clusterDTO) (Record, error) {
	if dto.Version > formatVersion {
		return Record{}, errors.New(errors.ErrCodeUnsupported,
			"cluster %s: format version %d is newer than this build supports (%d)",
			dto.Name, dto.Version, formatVersion)
	}
	proteins := make([]*model.Protein, 0, len(dto.Proteins))
	var sequences map[string]string
	for _, pd := range dto.Proteins {
		p, err := model.NewProtein(pd.ID, pd.Length, model.Strand(pd.Strand), pd.Start, pd.End)
		if err != nil {
			return Record{}, err
		}
		if len(pd.Domains) > 0 {
			domains := make([]model.Domain, len(pd.Domains))
			for i, dd := range pd.Domains {
				domains[i] = model.Domain(dd)
			}
			if err := p.SetDomains(domains); err != nil {
				return Record{}, err
			}
		}
		if pd.Core {
			p.MarkCore(pd.CoreType)
		}
		if pd.Sequence != "" {
			if sequences == nil {
				sequences = make(map[string]string)
			}
			sequences[pd.ID] = pd.Sequence
		}
		proteins = append(proteins, p)
	}
	c, err := model.NewCluster(dto.Name, proteins)
	if err != nil {
		return Record{}, err
	}
	return Record{Cluster: c, Sequences: sequences}, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "creating temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "writing %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "closing %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "finalizing %s", path)
	}
	return nil
}

// WriteFileAtomic exposes the temp-and-rename write for other outputs
// (rendered figures use it so a failed render never leaves a truncated
// file behind).
func WriteFileAtomic(path string, data []byte) error {
	return writeAtomic(path, data)
}

// Fingerprint computes a SHA-256 content hash of the data.
// Returns the full 64-character hex string.
func Fingerprint(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

