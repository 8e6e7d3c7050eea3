package cli

import (
	"fmt"
	"io"

	"github.com/TFMV/moviegraph/graph"
	"github.com/fatih/color"
)

var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
)

// printSummary writes a short colored report of the final counts.
func printSummary(w io.Writer, s graph.Stats) {
	brand.Fprintf(w, "moviegraph")
	subtle.Fprintf(w, " after %d frames\n", s.Tick)

	row := func(name string, shown, total int) {
		c := good
		if shown == 0 {
			c = warn
		}
		fmt.Fprintf(w, "  %-8s ", name)
		c.Fprintf(w, "%d", shown)
		subtle.Fprintf(w, " / %d\n", total)
	}
	row("nodes", s.VisibleNodes, s.Nodes)
	row("active", s.ActiveNodes, s.Nodes)
	row("edges", s.VisibleEdges, s.Edges)
}
