// Package secure holds helpers for handling secret bytes in memory.
package secure

import (
	"crypto/subtle"
	"runtime"
)

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroAll zeroes every slice in bufs. It is used to destroy a share set once
// it has been replaced, for example after a refresh.
func ZeroAll(bufs [][]byte) {
	for _, b := range bufs {
		Zero(b)
	}
}

// ClearBytes zeroes *b and drops the reference.
func ClearBytes(b *[]byte) {
	if b == nil || *b == nil {
		return
	}
	Zero(*b)
	*b = nil
}

// CloneAll deep-copies a share set so the caller can hand out copies without
// aliasing the originals.
func CloneAll(bufs [][]byte) [][]byte {
	out := make([][]byte, len(bufs))
	for i, b := range bufs {
		out[i] = make([]byte, len(b))
		copy(out[i], b)
	}
	return out
}

// ConstantTimeCompare reports whether x and y are equal without leaking the
// position of the first difference.
func ConstantTimeCompare(x, y []byte) bool {
	if len(x) != len(y) {
		return false
	}
	return subtle.ConstantTimeCompare(x, y) == 1
}
