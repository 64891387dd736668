//go:build !jlitedebug

package assert

// Enabled reports whether debug-only checks are active.
const Enabled = false
