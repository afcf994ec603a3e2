// Package viz converts compiler CFGs and dominator trees into lattice
// graphs for DOT rendering.
package viz

import (
	"fmt"

	"github.com/zboralski/lattice"

	"ivar/internal/cfg"
	"ivar/internal/ir"
	"ivar/internal/ssa"
)

// FuncCFG maps a function's CFG to a lattice.FuncCFG. Each basic block
// becomes a node carrying its instructions as labelled entries; branch
// successors keep their taken/fall-through tags.
func FuncCFG(f *ir.Function, g *cfg.Graph) *lattice.FuncCFG {
	lcfg := &lattice.FuncCFG{Name: f.Name}
	for i := range g.Blocks {
		blk := &g.Blocks[i]
		lb := &lattice.BasicBlock{
			ID:    blk.ID,
			Start: blk.Begin,
			End:   blk.End,
			Term:  len(blk.Succs) == 0,
		}

		// A conditional branch tags its labelled target T and the textual
		// fall-through F; everything else is unconditional.
		cond := len(blk.Succs) == 2 && f.Insts[blk.End-1].Op == ir.OpJumpIfFalse
		for si, succ := range blk.Succs {
			tag := ""
			if cond {
				if si == 0 {
					tag = "T"
				} else {
					tag = "F"
				}
			}
			lb.Succs = append(lb.Succs, lattice.Successor{BlockID: succ, Cond: tag})
		}

		// One entry per instruction so the rendered node shows the block
		// body.
		for idx := blk.Begin; idx < blk.End; idx++ {
			lb.Calls = append(lb.Calls, lattice.CallSite{
				Offset: idx,
				Callee: ir.FormatInst(&f.Insts[idx]),
			})
		}

		lcfg.Blocks = append(lcfg.Blocks, lb)
	}
	return lcfg
}

// CFGGraph wraps a single function's CFG for render.DOTCFG.
func CFGGraph(f *ir.Function, g *cfg.Graph) *lattice.CFGGraph {
	return &lattice.CFGGraph{Funcs: []*lattice.FuncCFG{FuncCFG(f, g)}}
}

// DomTree maps a function's dominator tree to a lattice.Graph: one node per
// block, one edge per idom relation.
func DomTree(s *ssa.SSA) *lattice.Graph {
	g := &lattice.Graph{}
	for b := range s.G.Blocks {
		g.Nodes = append(g.Nodes, blockNode(b))
		for _, kid := range s.G.Blocks[b].DomKids {
			g.Edges = append(g.Edges, lattice.Edge{
				Caller: blockNode(b),
				Callee: blockNode(kid),
			})
		}
	}
	g.Dedup()
	return g
}

func blockNode(id int) string {
	return fmt.Sprintf("b%d", id)
}
