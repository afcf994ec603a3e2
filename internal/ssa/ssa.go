// Package ssa converts a function's IR into minimal static single assignment
// form: it computes dominators, immediate dominators, the dominator tree and
// dominance frontiers over the CFG, inserts φ-nodes at the iterated frontiers
// of every assigned variable (without liveness pruning), and renames
// definitions and uses along the dominator tree.
package ssa

import (
	"ivar/internal/cfg"
	"ivar/internal/ir"
)

// NoIdom marks the entry block, which has no immediate dominator.
const NoIdom = -1

// SSA holds the per-function dominator state. Doms[b] is the bitset of
// blocks dominating b; Idom[b] is b's immediate dominator or NoIdom.
type SSA struct {
	G *cfg.Graph
	F *ir.Function

	Doms   []bitset
	WordsN int
	Idom   []int
}

// Build runs the whole SSA pipeline over a function's CFG: dominators,
// immediate dominators, dominator tree, dominance frontiers, φ insertion,
// and renaming.
func Build(g *cfg.Graph, f *ir.Function) (*SSA, error) {
	s, err := Analyze(g, f)
	if err != nil {
		return nil, err
	}
	s.insertPhis()
	s.rename()
	return s, nil
}

// Analyze computes the dominator state only, leaving the IR untouched.
// The dominator tree children and dominance frontiers are written into the
// graph's blocks.
func Analyze(g *cfg.Graph, f *ir.Function) (*SSA, error) {
	s := &SSA{
		G:      g,
		F:      f,
		WordsN: wordsFor(len(g.Blocks)),
		Idom:   make([]int, len(g.Blocks)),
	}
	if err := s.findDominators(); err != nil {
		return nil, err
	}
	s.findIdoms()
	s.buildDomTree()
	s.findFrontiers()
	return s, nil
}

// Dominates reports whether block a dominates block b.
func (s *SSA) Dominates(a, b int) bool {
	return s.Doms[b].has(a)
}
