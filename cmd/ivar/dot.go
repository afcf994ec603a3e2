package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zboralski/lattice/render"

	"ivar/internal/ssa"
	"ivar/internal/viz"
)

// cmdDot writes per-function CFG and dominator-tree DOT files.
func cmdDot(args []string) error {
	fs := flag.NewFlagSet("dot", flag.ExitOnError)
	src := srcFlag(fs)
	outDir := fs.String("out", ".", "output directory")
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
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", *outDir, err)
	}

	written := 0
	for _, f := range prog.Funcs {
		g, ok, err := buildCFG(f)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		s, err := ssa.Build(g, f)
		if err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}

		cfgDOT := render.DOTCFG(viz.CFGGraph(f, g), f.Name)
		cfgPath := filepath.Join(*outDir, f.Name+".cfg.dot")
		if err := os.WriteFile(cfgPath, []byte(cfgDOT), 0644); err != nil {
			return fmt.Errorf("write %s: %w", cfgPath, err)
		}

		domDOT := render.DOT(viz.DomTree(s), f.Name+" dominator tree")
		domPath := filepath.Join(*outDir, f.Name+".domtree.dot")
		if err := os.WriteFile(domPath, []byte(domDOT), 0644); err != nil {
			return fmt.Errorf("write %s: %w", domPath, err)
		}
		written++
	}
	fmt.Fprintf(os.Stderr, "wrote %d CFG and dominator-tree DOTs to %s\n", written, *outDir)
	return nil
}
