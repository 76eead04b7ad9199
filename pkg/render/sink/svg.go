// Package sink serializes laid-out clusters into output documents.
package sink

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"

	"github.com/clustersketch/clustersketch/pkg/config"
	"github.com/clustersketch/clustersketch/pkg/layout"
	"github.com/clustersketch/clustersketch/pkg/model"
	"github.com/clustersketch/clustersketch/pkg/render/styles"
)

// Row pairs a cluster with its computed layout. A figure renders one or
// more rows stacked top to bottom. A nil Cluster reserves an empty row,
// keeping the vertical rhythm of a stack with missing members.
type Row struct {
	Cluster *model.Cluster
	Layout  layout.Result
}

// geneNamespace seeds the stable per-arrow element identifiers. Fixed so
// identical input always yields identical documents.
var geneNamespace = uuid.MustParse("8f9d6c2a-3b41-5e07-9a52-c4d8e1f0b6a3")

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style  styles.Style
	cfg    config.ArrowStyle
	labels bool
}

// WithStyle replaces the default flat style.
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithOptions sets the arrow styling configuration.
func WithOptions(cfg config.ArrowStyle) SVGOption { return func(r *svgRenderer) { r.cfg = cfg } }

// WithLabels draws each cluster's name above its row.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// RenderSVG emits one self-contained SVG document with the given rows
// stacked top to bottom. Output is byte-for-byte deterministic for
// identical input.
func RenderSVG(rows []Row, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	width, height := r.frame(rows)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	r.style.RenderDefs(&buf)

	for i, row := range rows {
		r.renderRow(&buf, row, r.rowTop(i))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}, cfg: config.Default()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Vertical geometry: each row is a band two arrow-heights tall (one for
// the body, half above and below for the head overshoot), rows are
// separated by one arrow-height, and the document keeps a half-height
// margin on every edge. Labels add one line above each band.
func (r *svgRenderer) margin() float64 { return r.cfg.ArrowHeight / 2 }
func (r *svgRenderer) bandH() float64  { return 2 * r.cfg.ArrowHeight }

func (r *svgRenderer) labelPad() float64 {
	if !r.labels {
		return 0
	}
	return r.cfg.FontSize * 1.25
}

func (r *svgRenderer) rowTop(i int) float64 {
	pitch := r.bandH() + r.labelPad() + r.cfg.ArrowHeight
	return r.margin() + r.labelPad() + float64(i)*pitch
}

func (r *svgRenderer) frame(rows []Row) (width, height float64) {
	for _, row := range rows {
		if w := row.Layout.Offset + row.Layout.Width; w > width {
			width = w
		}
	}
	width += 2 * r.margin()

	n := float64(len(rows))
	height = 2*r.margin() + n*(r.bandH()+r.labelPad())
	if len(rows) > 1 {
		height += (n - 1) * r.cfg.ArrowHeight
	}
	return width, height
}

func (r *svgRenderer) renderRow(buf *bytes.Buffer, row Row, top float64) {
	if row.Cluster == nil {
		// Reserved gap row: contributes height, draws nothing.
		return
	}
	if r.labels {
		r.style.RenderLabel(buf, styles.Label{
			Text: row.Cluster.Name(),
			X:    r.margin(),
			Y:    top - r.cfg.FontSize*0.35,
			Size: r.cfg.FontSize,
		})
	}

	o := layout.Orient(row.Cluster, row.Layout.Mirrored)
	lopts := layout.Options{Scale: r.cfg.Scale, Gap: r.cfg.GeneGap}
	bodyTop := top + r.cfg.ArrowHeight/2

	for i := 0; i < o.Len(); i++ {
		p := o.Protein(i)
		x := r.margin() + row.Layout.Offset + layout.GeneStart(o, i, lopts)
		w := layout.GeneWidth(p, r.cfg.Scale)
		reverse := o.Strand(i) == model.Reverse

		r.style.RenderArrow(buf, styles.Arrow{
			ID:      geneID(row.Cluster.Name(), p.ID(), i),
			Title:   p.ID(),
			X:       x,
			Y:       bodyTop,
			W:       w,
			H:       r.cfg.ArrowHeight,
			Reverse: reverse,
			Fill:    r.geneFill(p),
			Outline: r.cfg.Outline,
			Stroke:  r.cfg.StrokeWidth,
		})

		if r.cfg.DrawDomains {
			r.renderDomains(buf, p, x, w, bodyTop, reverse)
		}
	}
}

func (r *svgRenderer) renderDomains(buf *bytes.Buffer, p *model.Protein, x, w, bodyTop float64, reverse bool) {
	h := r.cfg.ArrowHeight
	for _, d := range p.Domains() {
		dw := float64(d.Span()*3) / r.cfg.Scale
		dx := x + float64(d.Start*3)/r.cfg.Scale
		if reverse {
			dx = x + w - float64(d.End*3)/r.cfg.Scale
		}
		r.style.RenderDomain(buf, styles.DomainBox{
			X:       dx,
			Y:       bodyTop + h*0.125,
			W:       dw,
			H:       h * 0.75,
			Fill:    d.Color,
			Outline: r.cfg.Outline,
			Stroke:  r.cfg.StrokeWidth / 2,
		})
	}
}

func (r *svgRenderer) geneFill(p *model.Protein) string {
	if p.IsCore() {
		if r.cfg.CoreColor != "" {
			return r.cfg.CoreColor
		}
		return styles.CoreColor
	}
	switch r.cfg.ColorMode {
	case config.ColorModeRandomPastel:
		return styles.PastelForID(p.ID())
	case config.ColorModeByDomain:
		return "#ffffff"
	default:
		return "#ffffff"
	}
}

// geneID derives a stable element identifier from the cluster name, the
// protein identifier, and its row position. UUIDv5 keeps ids valid and
// collision-free even when protein ids repeat or carry odd characters.
func geneID(cluster, protein string, index int) string {
	key := fmt.Sprintf("%s/%s/%d", cluster, protein, index)
	return "gene-" + uuid.NewSHA1(geneNamespace, []byte(key)).String()
}
