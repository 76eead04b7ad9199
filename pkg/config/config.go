// Package config loads the figure styling options from a TOML file.
// Missing keys take the documented defaults; unrecognized keys are
// reported back to the caller so the CLI can warn without failing.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/clustersketch/clustersketch/pkg/errors"
)

// Color modes for gene arrows.
const (
	ColorModeRandomPastel = "random-pastel" // deterministic pastel per protein id
	ColorModeWhite        = "white"
	ColorModeByDomain     = "by-domain" // white arrow body, domain boxes carry the color
)

// validColorModes is the set of accepted color_mode values.
var validColorModes = map[string]bool{
	ColorModeRandomPastel: true,
	ColorModeWhite:        true,
	ColorModeByDomain:     true,
}

// ArrowStyle holds every styling knob of the renderer. One ArrowStyle is
// shared by all clusters of a figure; the scale in particular must be
// identical across a stacked figure or aligned positions are meaningless.
type ArrowStyle struct {
	// Scale divides nucleotide lengths into drawing units.
	Scale float64 `toml:"scale"`

	// ArrowHeight is the full height of a gene arrow body in drawing units.
	ArrowHeight float64 `toml:"arrow_height"`

	// GeneGap separates consecutive genes horizontally.
	GeneGap float64 `toml:"gene_gap"`

	// FontSize for gene labels. Zero disables labels.
	FontSize float64 `toml:"font_size"`

	// ColorMode is one of random-pastel, white, by-domain.
	ColorMode string `toml:"color_mode"`

	// Outline draws contours around arrows and domain boxes.
	Outline bool `toml:"outline"`

	// StrokeWidth is the contour thickness when Outline is set.
	StrokeWidth float64 `toml:"stroke_width"`

	// Mirror flips every figure horizontally. Ignored for stacked
	// figures driven by an alignment list.
	Mirror bool `toml:"mirror"`

	// DrawDomains toggles domain boxes. When false, no domain
	// prediction is attempted even if HMM databases are supplied.
	DrawDomains bool `toml:"draw_domains"`

	// CoreColor is the reserved fill for core biosynthetic proteins,
	// overriding ColorMode.
	CoreColor string `toml:"core_color"`
}

// Default returns the documented default style.
func Default() ArrowStyle {
	return ArrowStyle{
		Scale:       30,
		ArrowHeight: 30,
		GeneGap:     10,
		FontSize:    16,
		ColorMode:   ColorModeByDomain,
		Outline:     true,
		StrokeWidth: 2,
		DrawDomains: true,
		CoreColor:   "#d9534f",
	}
}

// Load reads an ArrowStyle from a TOML file. Keys absent from the file keep
// their defaults. The second return value lists unrecognized keys; the
// caller decides how loudly to warn.
func Load(path string) (ArrowStyle, []string, error) {
	style := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return style, nil, errors.Wrap(errors.ErrCodeNotFound, err, "reading style file %s", path)
	}

	md, err := toml.Decode(string(data), &style)
	if err != nil {
		return style, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing style file %s", path)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}

	if err := style.Validate(); err != nil {
		return style, unknown, err
	}
	return style, unknown, nil
}

// Validate checks value ranges. Called by Load and again by the pipeline in
// case the style was assembled programmatically.
func (s ArrowStyle) Validate() error {
	if s.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %v", s.Scale)
	}
	if s.ArrowHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "arrow_height must be positive, got %v", s.ArrowHeight)
	}
	if s.GeneGap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gene_gap cannot be negative, got %v", s.GeneGap)
	}
	if !validColorModes[s.ColorMode] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid color_mode: %q (must be one of: random-pastel, white, by-domain)", s.ColorMode)
	}
	return nil
}
