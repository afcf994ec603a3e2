package ssa

import (
	"fmt"

	"ivar/internal/ir"
)

// varStack is the version stack of one variable, with its monotonically
// increasing fresh-version counter.
type varStack struct {
	names   []string
	counter int
}

func (vs *varStack) push(base string) string {
	ver := fmt.Sprintf("%s%d", base, vs.counter)
	vs.counter++
	vs.names = append(vs.names, ver)
	return ver
}

func (vs *varStack) pop() {
	vs.names = vs.names[:len(vs.names)-1]
}

func (vs *varStack) top() (string, bool) {
	if len(vs.names) == 0 {
		return "", false
	}
	return vs.names[len(vs.names)-1], true
}

type stackMap map[string]*varStack

func (m stackMap) get(v string) *varStack {
	st, ok := m[v]
	if !ok {
		st = &varStack{}
		m[v] = st
	}
	return st
}

// renameFrame is one dominator-tree node on the explicit traversal stack.
// defined lists the names this block pushed, in push order; each gets
// exactly one pop when the frame is left.
type renameFrame struct {
	block   int
	kidIdx  int
	defined []string
}

// rename walks the dominator tree from the entry with per-variable version
// stacks: φ results first, then the block body, then the successor φ
// operands, then the children, then one pop per definition made here. The
// traversal uses an explicit frame stack rather than recursion so deep
// dominator chains cannot exhaust the native stack. It returns the version
// stacks; a balanced traversal leaves every one of them empty.
func (s *SSA) rename() stackMap {
	stacks := make(stackMap)
	if len(s.G.Blocks) == 0 {
		return stacks
	}
	frames := []*renameFrame{{block: 0, defined: s.renameBlock(0, stacks)}}
	for len(frames) > 0 {
		fr := frames[len(frames)-1]
		kids := s.G.Blocks[fr.block].DomKids
		if fr.kidIdx < len(kids) {
			kid := kids[fr.kidIdx]
			fr.kidIdx++
			frames = append(frames, &renameFrame{block: kid, defined: s.renameBlock(kid, stacks)})
			continue
		}
		for _, v := range fr.defined {
			stacks.get(v).pop()
		}
		frames = frames[:len(frames)-1]
	}
	return stacks
}

// renameBlock renames one block's φ results, body, and successor φ operands.
// It returns the names defined here, one entry per push.
func (s *SSA) renameBlock(b int, stacks stackMap) []string {
	blk := &s.G.Blocks[b]
	var defined []string

	// φ results first: a φ defines its variable at the very top of the
	// block, before any body instruction reads it.
	for i := blk.Begin; i < blk.End; i++ {
		in := &s.F.Insts[i]
		if in.Op != ir.OpPhi {
			continue
		}
		in.Phi.ResultVer = stacks.get(in.Phi.Result).push(in.Phi.Result)
		defined = append(defined, in.Phi.Result)
	}

	// Body: loads read the current top, definitions push a fresh version.
	for i := blk.Begin; i < blk.End; i++ {
		in := &s.F.Insts[i]
		switch {
		case in.Op == ir.OpLoad:
			if top, ok := stacks.get(in.Name).top(); ok {
				in.NameVer = top
			}
		case in.Op.IsDef():
			in.NameVer = stacks.get(in.Name).push(in.Name)
			defined = append(defined, in.Name)
		}
	}

	// Wire successor φs: this block is the predecessor, so it writes the
	// version flowing out along its edges.
	for _, succ := range blk.Succs {
		sblk := &s.G.Blocks[succ]
		for i := sblk.Begin; i < sblk.End; i++ {
			in := &s.F.Insts[i]
			if in.Op != ir.OpPhi {
				continue
			}
			if top, ok := stacks.get(in.Phi.Result).top(); ok {
				in.Phi.Incoming[b] = top
			}
		}
	}

	return defined
}
