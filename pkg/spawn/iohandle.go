package spawn

import (
	"os"
)

// IOHandle is a borrowed capability over a single open OS file. Spawn
// calls duplicate or inherit the underlying descriptor/handle into the
// child but never close it; the caller keeps ownership and may reuse
// or close the file after the spawn call returns.
type IOHandle struct {
	file *os.File
}

// NewIOHandle wraps an open file supplied by the caller's I/O layer.
func NewIOHandle(file *os.File) IOHandle {
	return IOHandle{file: file}
}

// File returns the underlying open file, or nil for a zero handle.
func (h IOHandle) File() *os.File {
	return h.file
}

// Descriptor returns the underlying OS descriptor/handle value. A
// handle whose file is nil or already closed has no descriptor and
// reports false; such handles cannot be inherited.
func (h IOHandle) Descriptor() (uintptr, bool) {
	if h.file == nil {
		return 0, false
	}
	fd := h.file.Fd()
	if fd == ^uintptr(0) {
		return 0, false
	}
	return fd, true
}
