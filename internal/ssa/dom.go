package ssa

import "fmt"

// findDominators computes Doms[b] for every block by iterating
//
//	dom[b] = {b} ∪ ⋂ dom[p] over p ∈ preds(b)
//
// to a fixed point. The entry block is seeded with itself, every other
// block with the universe over the current block IDs. The lattice is
// monotone, so the iteration count is bounded; exceeding the bound is an
// internal error.
func (s *SSA) findDominators() error {
	blocksN := len(s.G.Blocks)
	s.Doms = make([]bitset, blocksN)
	for i := range s.Doms {
		s.Doms[i] = newBitset(blocksN)
		if i == 0 {
			s.Doms[i].set(0)
		} else {
			s.Doms[i].setUniverse(blocksN)
		}
	}

	// Every pass that changes anything shrinks at least one set, and each
	// set can shrink at most blocksN times.
	maxIter := blocksN*blocksN + 2
	newdom := newBitset(blocksN)
	for iter := 0; ; iter++ {
		if iter > maxIter {
			return fmt.Errorf("ssa: dominator iteration did not converge after %d rounds", iter)
		}
		changed := false
		for id := 1; id < blocksN; id++ {
			newdom.setUniverse(blocksN)
			for _, p := range s.G.Blocks[id].Preds {
				newdom.intersect(s.Doms[p])
			}
			newdom.set(id)
			if !newdom.equal(s.Doms[id]) {
				s.Doms[id].copyFrom(newdom)
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}

// findIdoms fills Idom for every block. The immediate dominator of b is the
// dominator a ≠ b such that no other dominator of b lies strictly between a
// and b in the dominance relation. Candidates are scanned in block order;
// the entry block keeps NoIdom.
func (s *SSA) findIdoms() {
	for b := range s.G.Blocks {
		s.Idom[b] = s.idomOf(b)
	}
}

func (s *SSA) idomOf(b int) int {
	for a := range s.G.Blocks {
		if a == b || !s.Dominates(a, b) {
			continue
		}
		between := false
		for c := range s.G.Blocks {
			if c == a || c == b || !s.Dominates(c, b) {
				continue
			}
			if s.Dominates(a, c) {
				between = true
				break
			}
		}
		if !between {
			return a
		}
	}
	return NoIdom
}

// buildDomTree hangs every block off its immediate dominator. Children are
// appended in block order, which fixes the rename traversal order.
func (s *SSA) buildDomTree() {
	for b := range s.G.Blocks {
		if p := s.Idom[b]; p != NoIdom {
			s.G.Blocks[p].DomKids = append(s.G.Blocks[p].DomKids, b)
		}
	}
}

// findFrontiers computes the dominance frontiers. Only merge points can be
// in anyone's frontier: for each block with two or more predecessors, a
// runner walks from each predecessor up the idom chain and records the merge
// on every block passed before reaching the merge's own immediate dominator.
func (s *SSA) findFrontiers() {
	for b := range s.G.Blocks {
		blk := &s.G.Blocks[b]
		if len(blk.Preds) < 2 {
			continue
		}
		for _, p := range blk.Preds {
			runner := p
			for runner != NoIdom && runner != s.Idom[b] {
				s.G.Blocks[runner].Frontier = append(s.G.Blocks[runner].Frontier, b)
				runner = s.Idom[runner]
			}
		}
	}
}
