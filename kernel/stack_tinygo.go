//go:build tinygo

package kernel

// TinyGo has no stack walker.
func captureStack() []byte {
	return nil
}
