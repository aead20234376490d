package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/net"
)

var faceColors = []string{"white", "lightblue", "lightyellow", "lightpink", "palegreen", "lavender"}

// NetDOT describes the faces of n and their links as an undirected graph.
// Hinges of tree are solid; links that stay open when the net is folded
// from tree's root are dashed. tree may be nil.
func NetDOT(n *net.Net, tree *net.Tree) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for fi, f := range n.Faces {
		label := fmt.Sprintf("face %d\nclass %d", fi, f.Class)
		attrs := fmt.Sprintf("label=%q, fillcolor=%q", label, faceColors[f.Class%len(faceColors)])
		if tree != nil && tree.Root == fi {
			attrs += ", penwidth=3"
		}
		fmt.Fprintf(&buf, "  f%d [%s];\n", fi, attrs)
	}

	buf.WriteString("\n")
	for fi, f := range n.Faces {
		for _, to := range f.Links {
			if to < fi {
				continue
			}
			style := "solid"
			if tree != nil && tree.Parent[to] != fi && tree.Parent[fi] != to {
				style = "dashed"
			}
			fmt.Fprintf(&buf, "  f%d -- f%d [style=%s];\n", fi, to, style)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT lays out a DOT graph with Graphviz and returns SVG.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
