package styles

import "bytes"

// Style defines the visual appearance for cluster rendering.
// Implementations control how gene arrows, domain boxes, and labels are
// drawn. All methods append SVG fragments to buf.
type Style interface {
	// RenderDefs writes SVG <defs> content (filters, patterns, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderArrow writes the SVG for a single gene arrow.
	RenderArrow(buf *bytes.Buffer, a Arrow)
	// RenderDomain writes the SVG for a domain box nested in an arrow.
	RenderDomain(buf *bytes.Buffer, d DomainBox)
	// RenderLabel writes the SVG for a cluster's name label.
	RenderLabel(buf *bytes.Buffer, l Label)
}

// Arrow contains all data needed to render a single gene arrow.
type Arrow struct {
	ID      string  // Stable element identifier
	Title   string  // Tooltip text (protein identifier)
	X, Y    float64 // Top-left corner of the arrow body's bounding band
	W, H    float64 // Width and body height; the head overshoots H/2 on both sides
	Reverse bool    // Points left instead of right
	Fill    string  // Fill color
	Outline bool    // Whether to stroke the shape
	Stroke  float64 // Stroke width when outlined
}

// DomainBox contains positioning data for a domain rectangle inside an
// arrow body.
type DomainBox struct {
	X, Y, W, H float64
	Fill       string
	Outline    bool
	Stroke     float64
}

// Label is a text anchor for a cluster name.
type Label struct {
	Text string
	X, Y float64
	Size float64
}
