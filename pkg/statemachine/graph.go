package statemachine

import (
	"fmt"
	"strings"
)

// ToDOT renders the definition as a Graphviz digraph. States and transitions
// appear in declaration order; guarded transitions are labelled with the
// number of guards and drawn dashed.
func ToDOT[S, E comparable](def *Definition[S, E]) string {
	var sb strings.Builder
	sb.WriteString("digraph {\n\tnode [shape=Mrecord];\n\trankdir=\"LR\";\n\n")

	for _, s := range def.states {
		fmt.Fprintf(&sb, "\t%s [label=%s];\n", quote(nameOf(s)), quote(nameOf(s)))
	}
	sb.WriteString("\n")

	for _, t := range def.transitions {
		label := nameOf(t.Event)
		style := ""
		if t.Guarded() {
			label = fmt.Sprintf("%s [%d guard(s)]", label, len(t.Guards))
			style = ", style=dashed"
		}
		fmt.Fprintf(&sb, "\t%s -> %s [label=%s%s];\n",
			quote(nameOf(t.From)), quote(nameOf(t.To)), quote(label), style)
	}

	sb.WriteString("\tinit [label=\"\", shape=point];\n")
	fmt.Fprintf(&sb, "\tinit -> %s\n", quote(nameOf(def.initial)))
	sb.WriteString("}\n")
	return sb.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
