//go:build fbcondebug

package linebuf

const debugAsserts = true
