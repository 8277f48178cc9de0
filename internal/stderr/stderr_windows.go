//go:build windows

package stderr

// Messages stays silent: the Windows audio backend does not print to the
// console.
var Messages = make(chan string)

// Start does nothing on Windows.
func Start() error { return nil }

// Stop does nothing on Windows.
func Stop() {}
