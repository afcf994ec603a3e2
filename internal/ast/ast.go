// Package ast defines the ivar syntax tree and its recursive-descent parser.
package ast

import (
	"fmt"
	"strings"

	"ivar/internal/lex"
)

// NodeKind identifies a syntax-tree node.
type NodeKind int

const (
	Program NodeKind = iota
	Block
	Function
	VarDecl
	Call
	Number
	Binop
	Ident
	If
)

var kindNames = [...]string{
	Program:  "Program",
	Block:    "Block",
	Function: "Function",
	VarDecl:  "VarDecl",
	Call:     "Call",
	Number:   "Number",
	Binop:    "Binop",
	Ident:    "Ident",
	If:       "If",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is a syntax-tree node. Which fields are meaningful depends on Kind:
//
//	Program, Block  Kids
//	Function        Name, Type, Body
//	VarDecl         Name, Type (empty for re-assignment), Init
//	Call            Name, Kids (arguments)
//	Number          Num
//	Binop           Op, Left, Right
//	Ident           Name
//	If              Cond, Then, Else (nil when absent)
type Node struct {
	Kind NodeKind

	Kids []*Node

	Name string
	Type string

	Body *Node

	Op    lex.Kind
	Left  *Node
	Right *Node

	Init *Node

	Cond *Node
	Then *Node
	Else *Node

	Num int64
}

// Dump renders the tree indented, one node per line.
func Dump(n *Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case Program, Block:
		fmt.Fprintf(b, "%s%s\n", indent, n.Kind)
		for _, k := range n.Kids {
			dump(b, k, depth+1)
		}
	case Function:
		fmt.Fprintf(b, "%s%s %s : %s\n", indent, n.Kind, n.Name, n.Type)
		dump(b, n.Body, depth+1)
	case VarDecl:
		if n.Type != "" {
			fmt.Fprintf(b, "%s%s %s : %s\n", indent, n.Kind, n.Name, n.Type)
		} else {
			fmt.Fprintf(b, "%s%s %s\n", indent, n.Kind, n.Name)
		}
		dump(b, n.Init, depth+1)
	case Call:
		fmt.Fprintf(b, "%s%s %s\n", indent, n.Kind, n.Name)
		for _, k := range n.Kids {
			dump(b, k, depth+1)
		}
	case Number:
		fmt.Fprintf(b, "%s%s %d\n", indent, n.Kind, n.Num)
	case Binop:
		fmt.Fprintf(b, "%s%s %s\n", indent, n.Kind, n.Op)
		dump(b, n.Left, depth+1)
		dump(b, n.Right, depth+1)
	case Ident:
		fmt.Fprintf(b, "%s%s %s\n", indent, n.Kind, n.Name)
	case If:
		fmt.Fprintf(b, "%s%s\n", indent, n.Kind)
		dump(b, n.Cond, depth+1)
		dump(b, n.Then, depth+1)
		if n.Else != nil {
			dump(b, n.Else, depth+1)
		}
	}
}
