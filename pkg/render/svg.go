package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/laidout/impose/pkg/disposition"
	"github.com/laidout/impose/pkg/geom"
)

const svgStyle = `
    .spread { fill: none; stroke: #333; stroke-width: 1; }
    .page { fill: #fff; stroke: #999; stroke-width: 0.75; }
    .page.blank { fill: #eee; stroke-dasharray: 4 3; }
    .label { fill: #555; font-family: sans-serif; text-anchor: middle; dominant-baseline: central; }
    .mark-cut { fill: none; stroke: #000; stroke-width: 0.5; }
    .mark-fold { fill: none; stroke: #000; stroke-width: 0.5; stroke-dasharray: 3 3; }
    .mark-dot { fill: none; stroke: #000; stroke-width: 2; stroke-linecap: round; }
    .title { fill: #222; font-family: sans-serif; }`

// SVG draws every spread of doc, stacked top to bottom.
func SVG(doc Document, opts ...Option) []byte {
	r := newRenderer(opts...)
	sc := r.build(doc)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		sc.width, sc.height, sc.width, sc.height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)

	if sc.title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%.2f" y="%.2f" font-size="%.1f">%s</text>`+"\n",
			r.margin*r.scale, r.margin*r.scale, r.margin*r.scale*.6, html.EscapeString(sc.title))
	}
	for _, p := range sc.pages {
		class := "page"
		if p.blank {
			class += " blank"
		}
		fmt.Fprintf(&buf, `  <path class="%s" d="%s"/>`+"\n", class, pathData(p.poly, true))
	}
	for _, o := range sc.outlines {
		fmt.Fprintf(&buf, `  <path class="spread" d="%s"/>`+"\n", pathData(o, true))
	}
	if r.labels {
		for _, p := range sc.pages {
			if p.label == "" {
				continue
			}
			rotate := ""
			if p.flipped {
				rotate = fmt.Sprintf(` transform="rotate(180 %.2f %.2f)"`, p.center.X, p.center.Y)
			}
			fmt.Fprintf(&buf, `  <text class="label" x="%.2f" y="%.2f" font-size="%.1f"%s>%s</text>`+"\n",
				p.center.X, p.center.Y, p.size/3, rotate, p.label)
		}
	}
	for _, m := range sc.marks {
		for i, l := range m.lines {
			fmt.Fprintf(&buf, `  <path class="%s" d="%s"/>`+"\n", markClass(m.kind), pathData(l, m.closed[i]))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func markClass(k disposition.MarkKind) string {
	return "mark-" + k.String()
}

func pathData(pts []geom.Point, closed bool) string {
	var sb strings.Builder
	for i, p := range pts {
		cmd := 'L'
		if i == 0 {
			cmd = 'M'
		}
		fmt.Fprintf(&sb, "%c%.2f %.2f ", cmd, p.X, p.Y)
	}
	if closed && len(pts) > 0 {
		sb.WriteString("Z")
	}
	return strings.TrimSpace(sb.String())
}
