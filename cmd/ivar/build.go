package main

import (
	"flag"
	"fmt"

	"ivar/internal/ast"
	"ivar/internal/cfg"
	"ivar/internal/ir"
	"ivar/internal/lex"
	"ivar/internal/ssa"
)

func cmdBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	src := srcFlag(fs)
	dumpTokens := fs.Bool("dump-tokens", false, "print the token stream")
	dumpAST := fs.Bool("dump-ast", false, "print the syntax tree")
	dumpIR := fs.Bool("dump-ir", false, "print the pre-SSA IR")
	dumpCFG := fs.Bool("dump-cfg", false, "print the CFG")
	dumpDom := fs.Bool("dump-dom", false, "print dominator sets and idoms")
	dumpDF := fs.Bool("dump-df", false, "print dominance frontiers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := resolveSrc(fs, *src)
	if err != nil {
		return err
	}

	toks, root, prog, err := lowerProgram(path)
	if err != nil {
		return err
	}
	if *dumpTokens {
		fmt.Print(lex.Dump(toks))
	}
	if *dumpAST {
		fmt.Print(ast.Dump(root))
	}
	if *dumpIR {
		fmt.Print(ir.DumpProgram(prog))
	}

	for _, f := range prog.Funcs {
		g, ok, err := buildCFG(f)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if *dumpCFG {
			fmt.Printf("== cfg %s ==\n%s", f.Name, cfg.Dump(g))
		}

		s, err := ssa.Build(g, f)
		if err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
		if *dumpDom {
			fmt.Printf("== dominators %s ==\n%s", f.Name, s.DumpDominators())
		}
		if *dumpDF {
			fmt.Printf("== frontiers %s ==\n%s", f.Name, s.DumpFrontiers())
		}

		fmt.Printf("== ssa %s ==\n%s", f.Name, ir.Dump(f))
	}

	return nil
}
