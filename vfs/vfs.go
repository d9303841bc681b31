// Package vfs defines the filesystem collaborator the shell consumes: a
// narrow open/read/write/close surface with two backends, a POSIX
// passthrough for desktop use and a bounded flat in-memory store mirroring
// an embedded flash filesystem.
package vfs

import (
	"errors"
	"io"
)

// Mode selects how Open treats the target.
type Mode int

const (
	// Read opens an existing file for reading.
	Read Mode = iota
	// Trunc creates or truncates the file for writing.
	Trunc
	// Append creates or extends the file for writing at the end.
	Append
)

// Errors common to both backends.
var (
	ErrNotExist    = errors.New("vfs: file does not exist")
	ErrIsDir       = errors.New("vfs: is a directory")
	ErrUnsupported = errors.New("vfs: operation not supported")
)

// File is one open handle. Handles are scoped to a single command
// invocation and must be closed on every exit path.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Name() string
}

// Info describes one directory entry.
type Info struct {
	Name  string
	Size  int64
	IsDir bool
}

// Stats summarizes a backend for the fsinfo builtin.
type Stats struct {
	Backend    string
	Files      int
	UsedBytes  int64
	TotalBytes int64 // 0 when the backend has no fixed capacity
}

// FS is the capability set commands and the executor use. Backends that
// cannot support an operation return ErrUnsupported rather than panicking.
type FS interface {
	Open(path string, mode Mode) (File, error)
	Remove(path string) error
	Rename(oldPath, newPath string) error
	Mkdir(path string) error
	Stat(path string) (Info, error)
	ReadDir(path string) ([]Info, error)
	Stats() Stats
}
