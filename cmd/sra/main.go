// Command sra runs the symbolic range analysis engine over a single
// function in a real Go package, printing the solved range of every
// integer value it touches.
//
// Grounded on lintcmd/cmd.go's role (a thin flag-parsing frontend over
// an analysis.Analyzer-shaped engine) without pulling in that file's
// full multi-checker Command abstraction, which this module has no use
// for: there is exactly one analysis here, not a registry of them.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"sra.dev/sra/config"
	"sra.dev/sra/graph"
	"sra.dev/sra/ir"
	"sra.dev/sra/sra"
)

func main() {
	fs := flag.NewFlagSet("sra", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: sra -func NAME <package>\n")
		fs.PrintDefaults()
	}

	funcName := fs.String("func", "", "name of the function to analyze (required)")
	numericLeaf := fs.Bool("numeric-leaf", false, "treat every uninterpreted value as unconditionally unbounded instead of as an opaque symbol")
	useNumericBounds := fs.Bool("numeric-bounds", false, "compute concrete/symbolic type bounds instead of defaulting to +/-infinity")
	useSymBounds := fs.Bool("sym-bounds", false, "print named type bounds (INT_MIN, UINT_MAX, ...) instead of concrete numbers")
	maxPhiEvalSize := fs.Int("max-phi-eval-size", -1, "cap on a phi's incoming edges before falling back to type bounds (<=0 disables)")
	maxExprSize := fs.Int("max-expr-size", 8, "cap on a range bound's syntactic size before it's widened back to type bounds")
	debug := fs.Bool("debug", false, "trace the solver's eval/iterate/widen steps to stderr")
	fs.Parse(os.Args[1:])

	if *debug {
		sra.Debug = true
	}

	if *funcName == "" || fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "sra: loading config: %v\n", err)
		os.Exit(1)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "numeric-bounds":
			cfg.UseNumericBounds = *useNumericBounds
		case "sym-bounds":
			cfg.UseSymBounds = *useSymBounds
		case "max-phi-eval-size":
			cfg.MaxPhiEvalSize = *maxPhiEvalSize
		case "max-expr-size":
			cfg.MaxExprSize = *maxExprSize
		}
	})

	ssaFn, err := loadFunction(fs.Args(), *funcName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sra: %v\n", err)
		os.Exit(1)
	}

	leaf := graph.SymbolicLeaf
	if *numericLeaf {
		leaf = graph.NumericLeaf
	}

	fn := ir.LowerFunction(ssaFn)
	result := sra.Analyze(fn, cfg, leaf)
	if err := result.PrintResults(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "sra: %v\n", err)
		os.Exit(1)
	}
}

// loadFunction loads the packages named by patterns with go/packages,
// builds their go/ssa program and returns the *ssa.Function named
// name, searched for across every loaded package's SSA members.
func loadFunction(patterns []string, name string) (*ssa.Function, error) {
	cfg := &packages.Config{Mode: packages.LoadAllSyntax}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("errors loading packages")
	}

	prog, ssaPkgs := ssautil.AllPackages(pkgs, ssa.SanityCheckFunctions)
	prog.Build()

	for _, p := range ssaPkgs {
		if p == nil {
			continue
		}
		if fn := p.Func(name); fn != nil {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("function %q not found in %v", name, patterns)
}
