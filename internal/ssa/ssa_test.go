package ssa

import (
	"reflect"
	"testing"

	"ivar/internal/cfg"
	"ivar/internal/ir"
)

// loopFunc and loopGraph hand-build the Scenario C shape: block 1 is a merge
// with predecessors {0, 2}, and i is defined in blocks 0 and 2. The back
// edge cannot come out of the if-only lowering, so the graph is wired
// directly.
func loopFunc() *ir.Function {
	return &ir.Function{Insts: []ir.Inst{
		{Op: ir.OpConst, Imm: 0, Dst: 0},
		{Op: ir.OpStore, Name: "i", Src1: 0},
		{Op: ir.OpLoad, Name: "i", Dst: 1},
		{Op: ir.OpJumpIfFalse, Src1: 1, Label: 0},
		{Op: ir.OpConst, Imm: 1, Dst: 2},
		{Op: ir.OpStore, Name: "i", Src1: 2},
		{Op: ir.OpJump, Label: 1},
	}}
}

func loopGraph() *cfg.Graph {
	return &cfg.Graph{Blocks: []cfg.BasicBlock{
		{ID: 0, Begin: 0, End: 2, Label: cfg.NoLabel, Succs: []int{1}},
		{ID: 1, Begin: 2, End: 4, Label: cfg.NoLabel, Preds: []int{0, 2}, Succs: []int{2}},
		{ID: 2, Begin: 4, End: 7, Label: cfg.NoLabel, Preds: []int{1}, Succs: []int{1}},
	}}
}

// phisIn returns the φ instructions inside block b's window.
func phisIn(s *SSA, b int) []*ir.Phi {
	var out []*ir.Phi
	blk := &s.G.Blocks[b]
	for i := blk.Begin; i < blk.End; i++ {
		if s.F.Insts[i].Op == ir.OpPhi {
			out = append(out, s.F.Insts[i].Phi)
		}
	}
	return out
}

// blockOf returns the block whose window contains instruction index i.
func blockOf(s *SSA, i int) int {
	for b := range s.G.Blocks {
		if i >= s.G.Blocks[b].Begin && i < s.G.Blocks[b].End {
			return b
		}
	}
	return -1
}

func TestBuild_StraightLine(t *testing.T) {
	// Scenario A: no φs, stores versioned x0 and y0.
	f := lowerFunc(t, "f():i32 { x:i32 = 1; y:i32 = 2; }")
	g := buildCFG(t, f)
	if _, err := Build(g, f); err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := range f.Insts {
		if f.Insts[i].Op == ir.OpPhi {
			t.Fatalf("unexpected φ at %d", i)
		}
	}
	var vers []string
	for i := range f.Insts {
		if f.Insts[i].Op.IsDef() {
			vers = append(vers, f.Insts[i].NameVer)
		}
	}
	if !reflect.DeepEqual(vers, []string{"x0", "y0"}) {
		t.Errorf("store versions = %v, want [x0 y0]", vers)
	}
}

func TestBuild_Diamond(t *testing.T) {
	// Scenario B: one φ for x at the join; the then and else stores feed it
	// and the subsequent load reads the φ result.
	f := lowerFunc(t, diamondSrc)
	g := buildCFG(t, f)
	s, err := Build(g, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, b := range []int{0, 1, 2} {
		if phis := phisIn(s, b); len(phis) != 0 {
			t.Errorf("block %d has %d φs, want 0", b, len(phis))
		}
	}
	phis := phisIn(s, 3)
	if len(phis) != 1 {
		t.Fatalf("join has %d φs, want 1\n%s", len(phis), ir.Dump(f))
	}
	phi := phis[0]
	if phi.Result != "x" {
		t.Errorf("φ result = %q, want x", phi.Result)
	}
	want := map[int]string{1: "x1", 2: "x2"}
	if !reflect.DeepEqual(phi.Incoming, want) {
		t.Errorf("φ incoming = %v, want %v", phi.Incoming, want)
	}
	if phi.ResultVer != "x3" {
		t.Errorf("φ result version = %q, want x3", phi.ResultVer)
	}

	// The load of x in the join reads the φ result.
	join := &s.G.Blocks[3]
	for i := join.Begin; i < join.End; i++ {
		in := &f.Insts[i]
		if in.Op == ir.OpLoad && in.Name == "x" {
			if in.NameVer != "x3" {
				t.Errorf("load x version = %q, want x3", in.NameVer)
			}
		}
	}
}

func TestBuild_Loop(t *testing.T) {
	// Scenario C: φ for i at the merge block with one incoming per edge.
	f := loopFunc()
	g := loopGraph()
	s, err := Build(g, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	phis := phisIn(s, 1)
	if len(phis) != 1 {
		t.Fatalf("merge has %d φs, want 1\n%s", len(phis), ir.Dump(f))
	}
	phi := phis[0]
	if phi.Result != "i" {
		t.Errorf("φ result = %q, want i", phi.Result)
	}
	// The entry's store is i0; the φ takes version i1; the body store
	// pushes i2, which flows back around the edge from block 2.
	want := map[int]string{0: "i0", 2: "i2"}
	if !reflect.DeepEqual(phi.Incoming, want) {
		t.Errorf("φ incoming = %v, want %v", phi.Incoming, want)
	}
	if phi.ResultVer != "i1" {
		t.Errorf("φ result version = %q, want i1", phi.ResultVer)
	}
	// The load in the merge reads the φ.
	blk := &g.Blocks[1]
	for i := blk.Begin; i < blk.End; i++ {
		in := &f.Insts[i]
		if in.Op == ir.OpLoad {
			if in.NameVer != "i1" {
				t.Errorf("load i version = %q, want i1", in.NameVer)
			}
		}
	}
}

func TestBuild_NestedIfs(t *testing.T) {
	// Scenario E: the innermost assignment's iterated dominance frontier
	// reaches the outermost join, so both joins carry a φ for x.
	f := lowerFunc(t, "f():i32 { x:i32 = 1; if a { if b { x = 2; } else { x = 3; } } else { x = 4; } y:i32 = x; }")
	g := buildCFG(t, f)
	s, err := Build(g, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Blocks) != 7 {
		t.Fatalf("blocks = %d, want 7", len(g.Blocks))
	}

	inner := phisIn(s, 4)
	if len(inner) != 1 || inner[0].Result != "x" {
		t.Fatalf("inner join φs = %+v, want one for x", inner)
	}
	outer := phisIn(s, 6)
	if len(outer) != 1 || outer[0].Result != "x" {
		t.Fatalf("outer join φs = %+v, want one for x", outer)
	}
	if !reflect.DeepEqual(inner[0].Incoming, map[int]string{2: "x1", 3: "x2"}) {
		t.Errorf("inner φ incoming = %v", inner[0].Incoming)
	}
	// The outer join merges the inner φ's result with the else arm.
	if !reflect.DeepEqual(outer[0].Incoming, map[int]string{4: "x3", 5: "x4"}) {
		t.Errorf("outer φ incoming = %v", outer[0].Incoming)
	}
	// No φ anywhere else.
	for _, b := range []int{0, 1, 2, 3, 5} {
		if phis := phisIn(s, b); len(phis) != 0 {
			t.Errorf("block %d has %d φs, want 0", b, len(phis))
		}
	}
}

func TestBuild_WindowShift(t *testing.T) {
	// Property 2 after φ insertion: the windows still tile the instruction
	// array and every pre-insertion instruction is intact.
	f := lowerFunc(t, diamondSrc)
	before := len(f.Insts)
	g := buildCFG(t, f)
	_, err := Build(g, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(f.Insts) != before+1 {
		t.Fatalf("insts = %d, want %d", len(f.Insts), before+1)
	}
	next := 0
	for b := range g.Blocks {
		if g.Blocks[b].Begin != next {
			t.Errorf("block %d begins at %d, want %d", b, g.Blocks[b].Begin, next)
		}
		next = g.Blocks[b].End
	}
	if next != len(f.Insts) {
		t.Errorf("windows cover [0, %d), want [0, %d)", next, len(f.Insts))
	}
}

func TestBuild_SingleDefinition(t *testing.T) {
	// Property 8: every versioned name is defined exactly once.
	f := lowerFunc(t, "f():i32 { x:i32 = 1; if a { if b { x = 2; } else { x = 3; } } else { x = 4; } y:i32 = x; }")
	g := buildCFG(t, f)
	_, err := Build(g, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seen := map[string]int{}
	for i := range f.Insts {
		in := &f.Insts[i]
		switch {
		case in.Op.IsDef():
			seen[in.NameVer]++
		case in.Op == ir.OpPhi:
			seen[in.Phi.ResultVer]++
		}
	}
	for name, n := range seen {
		if name == "" {
			t.Error("definition left unversioned")
			continue
		}
		if n != 1 {
			t.Errorf("%s defined %d times", name, n)
		}
	}
}

func TestBuild_DominatingUses(t *testing.T) {
	// Property 9: the definition of every load's version dominates the load.
	f := lowerFunc(t, "f():i32 { x:i32 = 1; if a { x = 2; } y:i32 = x; }")
	g := buildCFG(t, f)
	s, err := Build(g, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defAt := map[string]int{}
	for i := range f.Insts {
		in := &f.Insts[i]
		switch {
		case in.Op.IsDef():
			defAt[in.NameVer] = i
		case in.Op == ir.OpPhi:
			defAt[in.Phi.ResultVer] = i
		}
	}
	for i := range f.Insts {
		in := &f.Insts[i]
		if in.Op != ir.OpLoad || in.NameVer == "" {
			continue
		}
		di, ok := defAt[in.NameVer]
		if !ok {
			t.Errorf("load at %d reads undefined version %q", i, in.NameVer)
			continue
		}
		db, ub := blockOf(s, di), blockOf(s, i)
		if db == ub {
			if di > i {
				t.Errorf("definition of %q at %d follows its use at %d", in.NameVer, di, i)
			}
			continue
		}
		if !s.Dominates(db, ub) {
			t.Errorf("definition block %d of %q does not dominate use block %d", db, in.NameVer, ub)
		}
	}
}

func TestBuild_LoadWithoutDefUnversioned(t *testing.T) {
	// A load with no dominating definition keeps an empty version.
	f := lowerFunc(t, "f():i32 { y:i32 = x; }")
	g := buildCFG(t, f)
	_, err := Build(g, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if f.Insts[0].Op != ir.OpLoad {
		t.Fatalf("insts[0] = %v, want load", f.Insts[0].Op)
	}
	if f.Insts[0].NameVer != "" {
		t.Errorf("load version = %q, want empty", f.Insts[0].NameVer)
	}
	if f.Insts[1].NameVer != "y0" {
		t.Errorf("store version = %q, want y0", f.Insts[1].NameVer)
	}
}

func TestRename_StackBalance(t *testing.T) {
	// Property 10: every version stack is empty after the traversal.
	f := lowerFunc(t, "f():i32 { x:i32 = 1; if a { if b { x = 2; } else { x = 3; } } else { x = 4; } y:i32 = x; }")
	g := buildCFG(t, f)
	s, err := Analyze(g, f)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	s.insertPhis()
	stacks := s.rename()
	for name, st := range stacks {
		if len(st.names) != 0 {
			t.Errorf("stack for %q has %d leftover entries", name, len(st.names))
		}
	}
}

func TestBuild_AssignRenamesLikeStore(t *testing.T) {
	// Store and Assign are distinct kinds with identical rename treatment.
	f := &ir.Function{Insts: []ir.Inst{
		{Op: ir.OpConst, Imm: 1, Dst: 0},
		{Op: ir.OpStore, Name: "x", Src1: 0},
		{Op: ir.OpConst, Imm: 2, Dst: 1},
		{Op: ir.OpAssign, Name: "x", Src1: 1},
		{Op: ir.OpLoad, Name: "x", Dst: 2},
	}}
	g := buildCFG(t, f)
	_, err := Build(g, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if f.Insts[1].NameVer != "x0" || f.Insts[3].NameVer != "x1" {
		t.Errorf("versions = %q, %q, want x0, x1", f.Insts[1].NameVer, f.Insts[3].NameVer)
	}
	if f.Insts[4].NameVer != "x1" {
		t.Errorf("load version = %q, want x1", f.Insts[4].NameVer)
	}
}

func TestBuild_PhiPlacementIsIteratedFrontier(t *testing.T) {
	// Property 7: blocks carrying a φ for v are exactly the iterated
	// dominance frontier of defsites(v).
	f := lowerFunc(t, "f():i32 { x:i32 = 1; if a { if b { x = 2; } else { x = 3; } } else { x = 4; } y:i32 = x; }")
	g := buildCFG(t, f)
	s, err := Build(g, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Recompute the iterated frontier of x's original defsites (blocks with
	// a Store for x, φs excluded).
	sites := map[int]bool{}
	for b := range g.Blocks {
		blk := &g.Blocks[b]
		for i := blk.Begin; i < blk.End; i++ {
			if s.F.Insts[i].Op.IsDef() && s.F.Insts[i].Name == "x" {
				sites[b] = true
			}
		}
	}
	idf := map[int]bool{}
	work := []int{}
	for b := range g.Blocks {
		if sites[b] {
			work = append(work, b)
		}
	}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		for _, df := range g.Blocks[b].Frontier {
			if !idf[df] {
				idf[df] = true
				work = append(work, df)
			}
		}
	}

	for b := range g.Blocks {
		hasPhi := false
		for _, phi := range phisIn(s, b) {
			if phi.Result == "x" {
				hasPhi = true
			}
		}
		if hasPhi != idf[b] {
			t.Errorf("block %d: φ present = %v, in iterated frontier = %v", b, hasPhi, idf[b])
		}
	}
}
