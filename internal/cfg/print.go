package cfg

import (
	"fmt"
	"strings"
)

func formatIDs(ids []int) string {
	if len(ids) == 0 {
		return "(none)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, " ")
}

// Dump renders every block with its predecessors and successors.
func Dump(g *Graph) string {
	var b strings.Builder
	for i := range g.Blocks {
		blk := &g.Blocks[i]
		fmt.Fprintf(&b, "block %d [%d, %d)\n", blk.ID, blk.Begin, blk.End)
		fmt.Fprintf(&b, "  preds: %s\n", formatIDs(blk.Preds))
		fmt.Fprintf(&b, "  succs: %s\n", formatIDs(blk.Succs))
	}
	return b.String()
}
