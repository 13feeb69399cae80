//go:build !linux

package dataset

// adviseSequential is a no-op off Linux.
func adviseSequential(b []byte) {}
