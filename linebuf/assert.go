//go:build !fbcondebug

package linebuf

// debugAsserts enables invariant checks. Build with -tags fbcondebug.
const debugAsserts = false
