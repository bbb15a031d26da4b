package sra

// Config mirrors the four cl::opt flags SymbolicRangeAnalysis.cpp
// exposes: how type bounds are computed and how aggressively the
// solver prunes expensive phis and expressions. The config package
// loads these from a TOML file plus flag overrides; this struct is
// the in-memory value it produces.
// Config's toml tags let config.Load decode it directly out of an
// sra.conf file; see config/config.go.
type Config struct {
	// UseSymBounds selects named symbolic type bounds (INT_MIN,
	// UINT_MAX, ...) over concrete numbers when UseNumericBounds is
	// set.
	UseSymBounds bool `toml:"use_sym_bounds"`
	// MaxPhiEvalSize caps how many incoming edges a φ may have before
	// the solver gives up and returns type bounds outright. <= 0
	// disables the cap.
	MaxPhiEvalSize int `toml:"max_phi_eval_size"`
	// MaxExprSize caps a range bound's syntactic size before it's
	// widened back to type bounds.
	MaxExprSize int `toml:"max_expr_size"`
	// UseNumericBounds selects concrete/symbolic type bounds over the
	// default ±∞.
	UseNumericBounds bool `toml:"use_numeric_bounds"`
}

// DefaultConfig mirrors the cl::opt defaults: symbolic bounds off,
// phi size uncapped, expression size capped at 8, numeric bounds off
// (so values default to ±∞ absent any narrowing).
func DefaultConfig() Config {
	return Config{
		UseSymBounds:     false,
		MaxPhiEvalSize:   -1,
		MaxExprSize:      8,
		UseNumericBounds: false,
	}
}
