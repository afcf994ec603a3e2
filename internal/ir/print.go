package ir

import (
	"fmt"
	"sort"
	"strings"
)

// name returns the printable variable name of a definition or load,
// preferring the SSA version when renaming has run.
func name(in *Inst) string {
	if in.NameVer != "" {
		return in.NameVer
	}
	return in.Name
}

// FormatInst renders one instruction. Registers are prefixed v, labels l.
func FormatInst(in *Inst) string {
	switch in.Op {
	case OpConst:
		return fmt.Sprintf("v%d = const %d", in.Dst, in.Imm)
	case OpLoad:
		return fmt.Sprintf("v%d = load %s", in.Dst, name(in))
	case OpStore:
		return fmt.Sprintf("store %s, v%d", name(in), in.Src1)
	case OpAssign:
		return fmt.Sprintf("assign %s, v%d", name(in), in.Src1)
	case OpAdd, OpSub, OpMul, OpDiv:
		return fmt.Sprintf("v%d = %s v%d, v%d", in.Dst, in.Op, in.Src1, in.Src2)
	case OpJump:
		return fmt.Sprintf("jump l%d", in.Label)
	case OpJumpIfFalse:
		return fmt.Sprintf("jumpiffalse v%d, l%d", in.Src1, in.Label)
	case OpLabel:
		return fmt.Sprintf("l%d:", in.Label)
	case OpPhi:
		return formatPhi(in.Phi)
	}
	return fmt.Sprintf("<%s>", in.Op)
}

func formatPhi(phi *Phi) string {
	result := phi.ResultVer
	if result == "" {
		result = phi.Result
	}
	preds := make([]int, 0, len(phi.Incoming))
	for p := range phi.Incoming {
		preds = append(preds, p)
	}
	sort.Ints(preds)
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = fmt.Sprintf("%d: %s", p, phi.Incoming[p])
	}
	return fmt.Sprintf("%s = phi [%s]", result, strings.Join(parts, ", "))
}

// Dump renders a function one instruction per line.
func Dump(f *Function) string {
	var b strings.Builder
	for i := range f.Insts {
		fmt.Fprintf(&b, "%s\n", FormatInst(&f.Insts[i]))
	}
	return b.String()
}

// DumpProgram renders every function with a header line.
func DumpProgram(p *Program) string {
	var b strings.Builder
	for _, f := range p.Funcs {
		fmt.Fprintf(&b, "func %s (#%d):\n", f.Name, f.Idx)
		for i := range f.Insts {
			fmt.Fprintf(&b, "  %s\n", FormatInst(&f.Insts[i]))
		}
	}
	return b.String()
}
