package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = cmdBuild(os.Args[2:])
	case "tokens":
		err = cmdTokens(os.Args[2:])
	case "ast":
		err = cmdAST(os.Args[2:])
	case "ir":
		err = cmdIR(os.Args[2:])
	case "cfg":
		err = cmdCFG(os.Args[2:])
	case "dom":
		err = cmdDom(os.Args[2:])
	case "ssa":
		err = cmdSSA(os.Args[2:])
	case "dot":
		err = cmdDot(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `ivar — SSA middle-end for the ivar language

Usage:
  ivar build  --src <file>        Compile to SSA form and print the result
  ivar tokens --src <file>        Print the token stream
  ivar ast    --src <file>        Print the syntax tree
  ivar ir     --src <file>        Print the three-address IR
  ivar cfg    --src <file>        Print per-function basic blocks and edges
  ivar dom    --src <file>        Print dominator sets, idoms and frontiers
  ivar ssa    --src <file>        Alias of build
  ivar dot    --src <file> --out <dir>   Write CFG and dominator-tree DOT files

Flags:
  --src <file>       Path to the source file (or the first positional argument)
  --out <dir>           Output directory for dot
  --dump-tokens         build: also print tokens
  --dump-ast            build: also print the syntax tree
  --dump-ir             build: also print the pre-SSA IR
  --dump-cfg            build: also print the CFG
  --dump-dom            build: also print dominators
  --dump-df             build: also print dominance frontiers
`)
}
