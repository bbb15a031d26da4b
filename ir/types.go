package ir

import "go/types"

// IsInteger reports whether t is some signed or unsigned integer
// basic type.
func IsInteger(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsInteger != 0
}
