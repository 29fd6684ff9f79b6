//go:build !unix

package fsutil

// Rename on non-unix platforms already moves across volumes where the OS
// allows it.
func isCrossDevice(error) bool {
	return false
}
