// Package assert holds the contract checks used across jlite.
//
// That panics in every build. Debug and NoError panic only when the module is
// built with the jlitedebug tag and are no-ops otherwise.
package assert

import "fmt"

// That panics with the formatted message when cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("jlite: "+format, args...))
	}
}

// Debug is That, restricted to jlitedebug builds.
func Debug(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(fmt.Sprintf("jlite: "+format, args...))
	}
}

// NoError reports a failure that the caller has chosen not to return,
// such as a close during teardown.
func NoError(err error, what string) {
	if Enabled && err != nil {
		panic(fmt.Sprintf("jlite: %s: %v", what, err))
	}
}
