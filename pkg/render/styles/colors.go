package styles

import "fmt"

// CoreColor marks core biosynthetic proteins. It is reserved: no palette
// or pastel assignment may produce it.
const CoreColor = "#d9534f"

// Well-known profile colors. Profiles missing from the table fall back to
// a deterministic pastel derived from the profile name.
var domainColors = map[string]string{
	"PKS_KS":          "#0a6ab5",
	"PKS_AT":          "#e84c4c",
	"PKS_ER":          "#7a9a01",
	"KR":              "#16a085",
	"PS-DH":           "#f39c12",
	"SAT":             "#8e44ad",
	"PT":              "#2c3e50",
	"ACP_PCP":         "#95a5a6",
	"Thioesterase":    "#c0392b",
	"Condensation":    "#2980b9",
	"AMP-binding":     "#d35400",
	"Epimerization":   "#27ae60",
	"Trp_DMAT":        "#9b59b6",
	"Terpene_synth_C": "#1abc9c",
	"TRI5":            "#e67e22",
	"Chal_sti_synt_N": "#f1c40f",
	"Chal_sti_synt_C": "#e3b505",
	"Methyltransf_12": "#7f8c8d",
}

const (
	pastelMin = 0x90 // keep channels light so black text stays readable
	pastelMax = 0xe8
)

// Palette resolves display colors for domain profiles: table lookup
// first, deterministic pastel fallback for unknown profiles. The zero
// value is ready to use; Overrides wins over the built-in table.
type Palette struct {
	Overrides map[string]string
}

// Color returns the display color for a profile identifier.
func (p Palette) Color(profileID string) string {
	if c, ok := p.Overrides[profileID]; ok {
		return c
	}
	if c, ok := domainColors[profileID]; ok {
		return c
	}
	return PastelForID(profileID)
}

// PastelForID returns a light hex color derived only from id. The three
// channels use different seeds so distinct ids rarely collide.
func PastelForID(id string) string {
	span := uint64(pastelMax - pastelMin + 1)
	r := pastelMin + int(hash(id, 1)%span)
	g := pastelMin + int(hash(id, 2)%span)
	b := pastelMin + int(hash(id, 3)%span)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// hash is a seeded FNV-1a over s. Deterministic across runs and
// architectures.
func hash(s string, seed uint64) uint64 {
	h := uint64(14695981039346656037) ^ (seed * 1099511628211)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
