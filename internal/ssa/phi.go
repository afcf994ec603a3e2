package ssa

import "ivar/internal/ir"

// defsites records, per assigned variable, the set of blocks containing a
// definition. Names keeps first-definition order so φ insertion is
// deterministic.
type defsites struct {
	names  []string
	blocks map[string]map[int]bool
}

func (s *SSA) varDefsites() *defsites {
	d := &defsites{blocks: make(map[string]map[int]bool)}
	for b := range s.G.Blocks {
		blk := &s.G.Blocks[b]
		for i := blk.Begin; i < blk.End; i++ {
			in := &s.F.Insts[i]
			if !in.Op.IsDef() {
				continue
			}
			set, ok := d.blocks[in.Name]
			if !ok {
				set = make(map[int]bool)
				d.blocks[in.Name] = set
				d.names = append(d.names, in.Name)
			}
			set[b] = true
		}
	}
	return d
}

// insertPhis places a φ-node for each assigned variable at the head of every
// block in the iterated dominance frontier of its defsites. A per-block
// inserted flag keeps each block to at most one φ per variable; frontier
// blocks that are not themselves defsites join the worklist so the frontier
// iterates.
func (s *SSA) insertPhis() {
	d := s.varDefsites()
	for _, v := range d.names {
		sites := d.blocks[v]
		worklist := make([]int, 0, len(sites))
		for b := range s.G.Blocks {
			if sites[b] {
				worklist = append(worklist, b)
			}
		}

		inserted := make([]bool, len(s.G.Blocks))
		for len(worklist) > 0 {
			b := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]

			for _, df := range s.G.Blocks[b].Frontier {
				if inserted[df] {
					continue
				}
				inserted[df] = true
				s.insertPhi(v, df)
				if !sites[df] {
					worklist = append(worklist, df)
				}
			}
		}
	}
}

// insertPhi places an empty φ for v at the head of block df and shifts every
// window behind the insertion point.
func (s *SSA) insertPhi(v string, df int) {
	at := s.G.Blocks[df].Begin
	s.F.InsertAt(at, ir.Inst{
		Op:  ir.OpPhi,
		Phi: &ir.Phi{Result: v, Incoming: make(map[int]string)},
	})
	for i := range s.G.Blocks {
		if s.G.Blocks[i].Begin > at {
			s.G.Blocks[i].Begin++
		}
		if s.G.Blocks[i].End > at {
			s.G.Blocks[i].End++
		}
	}
}
