//go:build !linux

package system

// EnterGraphics is a no-op without Linux virtual terminals.
func EnterGraphics(l logger) (restore func()) { return func() {} }
