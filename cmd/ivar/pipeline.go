package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"ivar/internal/ast"
	"ivar/internal/cfg"
	"ivar/internal/ir"
	"ivar/internal/lex"
)

// srcFlag registers --src. resolveSrc falls back to the first positional
// argument when it is unset, so both `ivar build --src f.iv` and
// `ivar build f.iv` work.
func srcFlag(fs *flag.FlagSet) *string {
	return fs.String("src", "", "path to the source file")
}

func resolveSrc(fs *flag.FlagSet, src string) (string, error) {
	if src == "" {
		src = fs.Arg(0)
	}
	if src == "" {
		return "", fmt.Errorf("no source file specified")
	}
	return src, nil
}

// frontend runs lex, parse and the semantic pass over a source file.
func frontend(path string) ([]lex.Token, *ast.Node, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	toks, err := lex.Lex(string(buf))
	if err != nil {
		return nil, nil, err
	}
	root, err := ast.Parse(toks)
	if err != nil {
		return nil, nil, err
	}
	if err := ast.Analyze(root); err != nil {
		return nil, nil, err
	}
	return toks, root, nil
}

// lowerProgram runs the frontend and IR generation.
func lowerProgram(path string) ([]lex.Token, *ast.Node, *ir.Program, error) {
	toks, root, err := frontend(path)
	if err != nil {
		return nil, nil, nil, err
	}
	prog, err := ir.Generate(root)
	if err != nil {
		return nil, nil, nil, err
	}
	return toks, root, prog, nil
}

// buildCFG skips empty functions the way the pipeline treats them: reported,
// not fatal.
func buildCFG(f *ir.Function) (*cfg.Graph, bool, error) {
	g, err := cfg.Build(f)
	if errors.Is(err, cfg.ErrEmptyFunc) {
		fmt.Fprintf(os.Stderr, "skipping empty function %s\n", f.Name)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("function %s: %w", f.Name, err)
	}
	return g, true, nil
}
