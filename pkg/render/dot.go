package render

import (
	"fmt"
	"strings"

	"github.com/ha1tch/junction-toolkit/pkg/junction"
)

// FlowDOT converts a traffic-flow profile to Graphviz DOT format. Each
// approach is a node labelled with its incoming flow; each non-zero exit
// is an edge labelled in vph. Output is deterministic.
func FlowDOT(flow *junction.TrafficFlowConfig, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph TrafficFlow {\n")
	sb.WriteString("    layout=circo;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, shape=box];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title == "" && flow != nil {
		title = flow.Name
	}
	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}
	if flow == nil {
		sb.WriteString("}\n")
		return sb.String()
	}

	for _, d := range junction.Directions {
		f := flow.Flows[d]
		label := fmt.Sprintf("%s\\n%d vph", d, f.Incoming)
		sb.WriteString(fmt.Sprintf("    %q [label=\"%s\"];\n", string(d), escapeDOT(label)))
	}
	sb.WriteString("\n")

	for _, from := range junction.Directions {
		exits := flow.Flows[from].Exits
		for _, to := range from.Others() {
			vph := exits[to]
			if vph <= 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("    %q -> %q [label=\"%d\", penwidth=%.1f];\n",
				string(from), string(to), vph, penWidth(vph)))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// penWidth scales edge thickness with flow, 1 to 5 points.
func penWidth(vph int) float64 {
	if vph > junction.MaxFlow {
		vph = junction.MaxFlow
	}
	return 1 + 4*float64(vph)/float64(junction.MaxFlow)
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
