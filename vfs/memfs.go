package vfs

import (
	"errors"
	"io"
	"sort"
	"strings"
)

// Mem capacity violations.
var (
	ErrFileTooLarge = errors.New("vfs: file exceeds size limit")
	ErrNoSpace      = errors.New("vfs: filesystem full")
	ErrTooManyFiles = errors.New("vfs: too many files")
)

// Mem is the flash-style backend: a flat bounded in-memory store with no
// real directories, a per-file size cap, a total-bytes cap, and a Format
// operation that wipes everything. It also gives the executor tests a
// deterministic filesystem.
type Mem struct {
	files map[string][]byte

	maxFiles     int
	maxFileBytes int64
	maxTotal     int64
}

// NewMem creates an in-memory filesystem with the given caps. A zero cap
// means unlimited for that dimension.
func NewMem(maxFiles int, maxFileBytes, maxTotal int64) *Mem {
	return &Mem{
		files:        make(map[string][]byte),
		maxFiles:     maxFiles,
		maxFileBytes: maxFileBytes,
		maxTotal:     maxTotal,
	}
}

// normalize maps a path into the flat namespace: leading slashes and ./
// are meaningless here.
func normalize(path string) string {
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, "/")
}

func (m *Mem) used() int64 {
	var n int64
	for _, data := range m.files {
		n += int64(len(data))
	}
	return n
}

func (m *Mem) Open(path string, mode Mode) (File, error) {
	name := normalize(path)
	if name == "" {
		return nil, ErrNotExist
	}

	switch mode {
	case Read:
		data, ok := m.files[name]
		if !ok {
			return nil, ErrNotExist
		}
		return &memFile{fs: m, name: name, data: data, readOnly: true}, nil

	case Trunc, Append:
		data, ok := m.files[name]
		if !ok {
			if m.maxFiles > 0 && len(m.files) >= m.maxFiles {
				return nil, ErrTooManyFiles
			}
			data = nil
		}
		if mode == Trunc {
			data = nil
		}
		m.files[name] = data
		return &memFile{fs: m, name: name, data: data}, nil
	}
	return nil, ErrUnsupported
}

func (m *Mem) Remove(path string) error {
	name := normalize(path)
	if _, ok := m.files[name]; !ok {
		return ErrNotExist
	}
	delete(m.files, name)
	return nil
}

func (m *Mem) Rename(oldPath, newPath string) error {
	oldName, newName := normalize(oldPath), normalize(newPath)
	data, ok := m.files[oldName]
	if !ok {
		return ErrNotExist
	}
	delete(m.files, oldName)
	m.files[newName] = data
	return nil
}

// Mkdir always fails: the flash namespace is flat.
func (m *Mem) Mkdir(string) error {
	return ErrUnsupported
}

func (m *Mem) Stat(path string) (Info, error) {
	name := normalize(path)
	data, ok := m.files[name]
	if !ok {
		return Info{}, ErrNotExist
	}
	return Info{Name: name, Size: int64(len(data))}, nil
}

// ReadDir lists every stored file in name order; the path argument is
// ignored because there is only one directory.
func (m *Mem) ReadDir(string) ([]Info, error) {
	out := make([]Info, 0, len(m.files))
	for name, data := range m.files {
		out = append(out, Info{Name: name, Size: int64(len(data))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Mem) Stats() Stats {
	return Stats{
		Backend:    "mem",
		Files:      len(m.files),
		UsedBytes:  m.used(),
		TotalBytes: m.maxTotal,
	}
}

// Format discards every file.
func (m *Mem) Format() {
	m.files = make(map[string][]byte)
}

// memFile is one open handle. Writes go straight to the store so caps are
// enforced per write, not deferred to Close.
type memFile struct {
	fs       *Mem
	name     string
	data     []byte
	offset   int
	readOnly bool
	closed   bool
}

func (f *memFile) Name() string {
	return f.name
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, errors.New("vfs: read from closed file")
	}
	if f.offset >= len(f.data) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.offset:])
	f.offset += n
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, errors.New("vfs: write to closed file")
	}
	if f.readOnly {
		return 0, ErrUnsupported
	}
	cur := f.fs.files[f.name]
	grown := int64(len(cur) + len(p))
	if f.fs.maxFileBytes > 0 && grown > f.fs.maxFileBytes {
		return 0, ErrFileTooLarge
	}
	if f.fs.maxTotal > 0 && f.fs.used()+int64(len(p)) > f.fs.maxTotal {
		return 0, ErrNoSpace
	}
	f.fs.files[f.name] = append(cur, p...)
	return len(p), nil
}

func (f *memFile) Close() error {
	f.closed = true
	return nil
}
