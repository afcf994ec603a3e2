package ir

import (
	"errors"
	"fmt"

	"ivar/internal/ast"
	"ivar/internal/lex"
)

// ErrBadNode is wrapped by lowering errors caused by a malformed tree.
var ErrBadNode = errors.New("irgen: malformed syntax tree")

// Generate lowers the whole program. Each Function node becomes one IR
// function, appended in source order.
func Generate(root *ast.Node) (*Program, error) {
	prog := &Program{}
	if _, err := gen(prog, nil, root); err != nil {
		return nil, err
	}
	return prog, nil
}

func binopFromTok(op lex.Kind) (Op, error) {
	switch op {
	case lex.Plus:
		return OpAdd, nil
	case lex.Minus:
		return OpSub, nil
	case lex.Star:
		return OpMul, nil
	case lex.Slash:
		return OpDiv, nil
	}
	return 0, fmt.Errorf("irgen: invalid operator %s, expected +, -, * or /", op)
}

// gen lowers one node into f and returns the virtual register holding its
// value, where the node has one.
func gen(prog *Program, f *Function, n *ast.Node) (int, error) {
	if n == nil {
		return 0, fmt.Errorf("%w: missing node", ErrBadNode)
	}

	switch n.Kind {
	case ast.Program, ast.Block, ast.Call:
		// Calls lower as plain argument sequences; there is no call
		// instruction in this IR.
		for _, kid := range n.Kids {
			if _, err := gen(prog, f, kid); err != nil {
				return 0, err
			}
		}
		return 0, nil

	case ast.Function:
		fn := &Function{Name: n.Name, Idx: len(prog.Funcs)}
		if _, err := gen(prog, fn, n.Body); err != nil {
			return 0, err
		}
		prog.Funcs = append(prog.Funcs, fn)
		return 0, nil

	case ast.Number:
		dst := f.NewReg()
		f.Emit(Inst{Op: OpConst, Imm: n.Num, Dst: dst})
		return dst, nil

	case ast.Ident:
		dst := f.NewReg()
		f.Emit(Inst{Op: OpLoad, Name: n.Name, Dst: dst})
		return dst, nil

	case ast.VarDecl:
		val, err := gen(prog, f, n.Init)
		if err != nil {
			return 0, err
		}
		f.Emit(Inst{Op: OpStore, Name: n.Name, Src1: val})
		return val, nil

	case ast.Binop:
		op, err := binopFromTok(n.Op)
		if err != nil {
			return 0, err
		}
		a, err := gen(prog, f, n.Left)
		if err != nil {
			return 0, err
		}
		b, err := gen(prog, f, n.Right)
		if err != nil {
			return 0, err
		}
		dst := f.NewReg()
		f.Emit(Inst{Op: op, Src1: a, Src2: b, Dst: dst})
		return dst, nil

	case ast.If:
		cond, err := gen(prog, f, n.Cond)
		if err != nil {
			return 0, err
		}
		endLabel := f.NewLabel()
		elseLabel := f.NewLabel()

		target := endLabel
		if n.Else != nil {
			target = elseLabel
		}
		f.Emit(Inst{Op: OpJumpIfFalse, Src1: cond, Label: target})

		if _, err := gen(prog, f, n.Then); err != nil {
			return 0, err
		}

		if n.Else != nil {
			f.Emit(Inst{Op: OpJump, Label: endLabel})
			f.Emit(Inst{Op: OpLabel, Label: elseLabel})
			if _, err := gen(prog, f, n.Else); err != nil {
				return 0, err
			}
		}

		f.Emit(Inst{Op: OpLabel, Label: endLabel})
		return 0, nil
	}

	return 0, fmt.Errorf("%w: unknown node kind %s", ErrBadNode, n.Kind)
}
