package ssa

import (
	"fmt"
	"strings"
)

// DumpDominators renders, per block, the dominating block IDs and the
// immediate dominator.
func (s *SSA) DumpDominators() string {
	var b strings.Builder
	for id := range s.G.Blocks {
		fmt.Fprintf(&b, "block %d dominated by:", id)
		for d := range s.G.Blocks {
			if s.Dominates(d, id) {
				fmt.Fprintf(&b, " %d", d)
			}
		}
		if s.Idom[id] == NoIdom {
			fmt.Fprintf(&b, "  idom: none\n")
		} else {
			fmt.Fprintf(&b, "  idom: %d\n", s.Idom[id])
		}
	}
	return b.String()
}

// DumpFrontiers renders each block's dominance-frontier list.
func (s *SSA) DumpFrontiers() string {
	var b strings.Builder
	for id := range s.G.Blocks {
		fmt.Fprintf(&b, "block %d frontier:", id)
		if len(s.G.Blocks[id].Frontier) == 0 {
			fmt.Fprintf(&b, " (none)")
		}
		for _, df := range s.G.Blocks[id].Frontier {
			fmt.Fprintf(&b, " %d", df)
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}
