package styles

import (
	"bytes"
	"fmt"
	"strings"
)

// Simple is the default flat style: solid polygons with optional
// outlines, sans-serif labels, no filters or gradients.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {}

// RenderArrow draws the gene as a pentagon pointing along its strand.
// The body spans [Y, Y+H]; the head overshoots H/2 on both sides, so the
// full band is 2*H tall. Genes shorter than the head collapse into a
// plain triangle.
func (Simple) RenderArrow(buf *bytes.Buffer, a Arrow) {
	fmt.Fprintf(buf, `  <g id="%s" class="gene">`+"\n", EscapeXML(a.ID))
	fmt.Fprintf(buf, `    <polygon points="%s" fill="%s"%s/>`+"\n",
		arrowPoints(a), EscapeXML(a.Fill), strokeAttrs(a.Outline, a.Stroke))
	if a.Title != "" {
		fmt.Fprintf(buf, "    <title>%s</title>\n", EscapeXML(a.Title))
	}
	buf.WriteString("  </g>\n")
}

func (Simple) RenderDomain(buf *bytes.Buffer, d DomainBox) {
	fmt.Fprintf(buf, `  <rect class="domain" x="%s" y="%s" width="%s" height="%s" fill="%s"%s/>`+"\n",
		coord(d.X), coord(d.Y), coord(d.W), coord(d.H), EscapeXML(d.Fill),
		strokeAttrs(d.Outline, d.Stroke))
}

func (Simple) RenderLabel(buf *bytes.Buffer, l Label) {
	fmt.Fprintf(buf, `  <text x="%s" y="%s" font-family="sans-serif" font-size="%s">%s</text>`+"\n",
		coord(l.X), coord(l.Y), coord(l.Size), EscapeXML(l.Text))
}

func arrowPoints(a Arrow) string {
	head := min(a.W, a.H)
	tipX, backX := a.X+a.W, a.X
	if a.Reverse {
		tipX, backX = a.X, a.X+a.W
		head = -head
	}
	neckX := tipX - head
	top, bottom := a.Y, a.Y+a.H
	tipY := a.Y + a.H/2

	var pts []string
	point := func(x, y float64) {
		pts = append(pts, coord(x)+","+coord(y))
	}
	hasBody := a.W > a.H
	if hasBody {
		point(backX, top)
		point(neckX, top)
	}
	point(neckX, top-a.H/2)
	point(tipX, tipY)
	point(neckX, bottom+a.H/2)
	if hasBody {
		point(neckX, bottom)
		point(backX, bottom)
	}
	return strings.Join(pts, " ")
}

func strokeAttrs(outline bool, width float64) string {
	if !outline {
		return ""
	}
	return fmt.Sprintf(` stroke="black" stroke-width="%s"`, coord(width))
}

// coord formats a coordinate with two decimals and no trailing zeros, so
// output stays compact and byte-for-byte stable.
func coord(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
