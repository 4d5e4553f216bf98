// Package visualization renders category trees in various output formats.
package visualization

import (
	"fmt"
	"strings"

	"github.com/nvandessel/signloop/internal/category"
)

// nodeColors maps recursion levels to DOT colors.
var nodeColors = map[category.Level]string{
	category.Void:     "gray70",
	category.Particle: "steelblue",
	category.Atom:     "mediumseagreen",
	category.Molecule: "goldenrod",
	category.Cell:     "tomato",
}

// RenderDOT produces a Graphviz DOT representation of a category tree.
// Agents appear as dashed ellipses attached to their owning node.
func RenderDOT(root *category.Object) string {
	var b strings.Builder
	b.WriteString("digraph signloop {\n")
	b.WriteString("  rankdir=TB;\n")
	b.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n\n")
	writeDOTNode(&b, root)
	b.WriteString("}\n")
	return b.String()
}

func writeDOTNode(b *strings.Builder, o *category.Object) {
	fmt.Fprintf(b, "  %q [label=\"%s\\n%s\", fillcolor=%s];\n",
		o.ID, o.ID, o.Level, nodeColors[o.Level])
	for _, a := range o.Agents {
		agentNode := o.ID + "/" + a.ID
		fmt.Fprintf(b, "  %q [label=\"%s\\n%d traces\", shape=ellipse, style=dashed];\n",
			agentNode, a.ID, a.Memory.Len())
		fmt.Fprintf(b, "  %q -> %q [style=dashed];\n", o.ID, agentNode)
	}
	for _, sub := range o.Subobjects {
		fmt.Fprintf(b, "  %q -> %q;\n", o.ID, sub.ID)
		writeDOTNode(b, sub)
	}
}

// RenderTree produces an indented text rendering of a category tree with
// per-node substrate energy and agent stability.
func RenderTree(root *category.Object) string {
	var b strings.Builder
	writeTreeNode(&b, root, 0)
	return b.String()
}

func writeTreeNode(b *strings.Builder, o *category.Object, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s %s (energy %.2f)\n", indent, o.Level, o.ID, o.Substrate.TotalEnergy())
	for _, a := range o.Agents {
		fmt.Fprintf(b, "%s  agent %s (%d traces, stability %.2f)\n",
			indent, a.ID, a.Memory.Len(), a.Memory.StabilitySum())
	}
	for _, sub := range o.Subobjects {
		writeTreeNode(b, sub, depth+1)
	}
}

// FormatVector renders a float vector as "[0.00, 1.00, ...]" with two
// decimal places.
func FormatVector(vec []float64) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = fmt.Sprintf("%.2f", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
