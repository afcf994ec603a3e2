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

// The phase commands run the pipeline up to one stage and print that
// stage's artifact.

func cmdTokens(args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	src := srcFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := resolveSrc(fs, *src)
	if err != nil {
		return err
	}
	toks, _, err := frontend(path)
	if err != nil {
		return err
	}
	fmt.Print(lex.Dump(toks))
	return nil
}

func cmdAST(args []string) error {
	fs := flag.NewFlagSet("ast", flag.ExitOnError)
	src := srcFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := resolveSrc(fs, *src)
	if err != nil {
		return err
	}
	_, root, err := frontend(path)
	if err != nil {
		return err
	}
	fmt.Print(ast.Dump(root))
	return nil
}

func cmdIR(args []string) error {
	fs := flag.NewFlagSet("ir", flag.ExitOnError)
	src := srcFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := resolveSrc(fs, *src)
	if err != nil {
		return err
	}
	_, _, prog, err := lowerProgram(path)
	if err != nil {
		return err
	}
	fmt.Print(ir.DumpProgram(prog))
	return nil
}

func cmdCFG(args []string) error {
	fs := flag.NewFlagSet("cfg", flag.ExitOnError)
	src := srcFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := resolveSrc(fs, *src)
	if err != nil {
		return err
	}
	_, _, prog, err := lowerProgram(path)
	if err != nil {
		return err
	}
	for _, f := range prog.Funcs {
		g, ok, err := buildCFG(f)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		fmt.Printf("== cfg %s ==\n%s", f.Name, cfg.Dump(g))
	}
	return nil
}

func cmdDom(args []string) error {
	fs := flag.NewFlagSet("dom", flag.ExitOnError)
	src := srcFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := resolveSrc(fs, *src)
	if err != nil {
		return err
	}
	_, _, prog, err := lowerProgram(path)
	if err != nil {
		return err
	}
	for _, f := range prog.Funcs {
		g, ok, err := buildCFG(f)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		s, err := ssa.Analyze(g, f)
		if err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
		fmt.Printf("== dominators %s ==\n%s", f.Name, s.DumpDominators())
		fmt.Printf("== frontiers %s ==\n%s", f.Name, s.DumpFrontiers())
	}
	return nil
}

func cmdSSA(args []string) error {
	return cmdBuild(args)
}
