// Package ir defines the three-address intermediate representation and the
// lowering from the syntax tree into it.
package ir

import "fmt"

// Op identifies an instruction kind.
type Op int

const (
	OpConst Op = iota
	OpLoad
	OpStore
	OpAssign
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpJump
	OpJumpIfFalse
	OpLabel
	OpPhi
)

var opNames = [...]string{
	OpConst:       "const",
	OpLoad:        "load",
	OpStore:       "store",
	OpAssign:      "assign",
	OpAdd:         "add",
	OpSub:         "sub",
	OpMul:         "mul",
	OpDiv:         "div",
	OpJump:        "jump",
	OpJumpIfFalse: "jumpiffalse",
	OpLabel:       "label",
	OpPhi:         "phi",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// IsBinop reports whether the op is one of the arithmetic instructions.
func (o Op) IsBinop() bool {
	return o >= OpAdd && o <= OpDiv
}

// IsBranch reports whether the op transfers control to a label.
func (o Op) IsBranch() bool {
	return o == OpJump || o == OpJumpIfFalse
}

// IsDef reports whether the op defines a named variable. Store and Assign
// are distinct kinds but identical definitions as far as SSA is concerned.
func (o Op) IsDef() bool {
	return o == OpStore || o == OpAssign
}

// Phi is the payload of an OpPhi instruction. Incoming maps a predecessor
// block ID to the versioned name that flows in along that edge; it is
// populated while the predecessors are renamed, not when the φ is created.
type Phi struct {
	Result    string
	ResultVer string
	Incoming  map[int]string
}

// Inst is a single three-address instruction. Which fields are meaningful
// depends on Op:
//
//	Const        Imm, Dst
//	Load         Name, Dst       (NameVer after renaming, if a def dominates)
//	Store        Name, Src1      (NameVer after renaming)
//	Assign       Name, Src1      (NameVer after renaming)
//	Add..Div     Src1, Src2, Dst
//	Label        Label
//	Jump         Label
//	JumpIfFalse  Src1, Label
//	Phi          Phi
//
// Registers and labels are small per-function integer IDs.
type Inst struct {
	Op Op

	Dst  int
	Src1 int
	Src2 int
	Imm  int64

	Name    string
	NameVer string

	Label int

	Phi *Phi
}

// Function is an ordered instruction sequence with its fresh-ID counters.
type Function struct {
	Name  string
	Idx   int
	Insts []Inst

	curReg   int
	curLabel int
}

// NewReg returns a fresh virtual register ID.
func (f *Function) NewReg() int {
	r := f.curReg
	f.curReg++
	return r
}

// NewLabel returns a fresh label ID.
func (f *Function) NewLabel() int {
	l := f.curLabel
	f.curLabel++
	return l
}

// Emit appends an instruction.
func (f *Function) Emit(in Inst) {
	f.Insts = append(f.Insts, in)
}

// InsertAt inserts an instruction at index i, shifting the rest right.
func (f *Function) InsertAt(i int, in Inst) {
	f.Insts = append(f.Insts, Inst{})
	copy(f.Insts[i+1:], f.Insts[i:])
	f.Insts[i] = in
}

// Program is an ordered sequence of lowered functions.
type Program struct {
	Funcs []*Function
}
