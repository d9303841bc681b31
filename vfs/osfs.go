package vfs

import "os"

// OS is the desktop backend: a thin passthrough to the host filesystem.
type OS struct{}

// NewOS creates the POSIX backend.
func NewOS() *OS {
	return &OS{}
}

func (*OS) Open(path string, mode Mode) (File, error) {
	switch mode {
	case Read:
		fi, err := os.Stat(path)
		if err != nil {
			return nil, mapOSError(err)
		}
		if fi.IsDir() {
			return nil, ErrIsDir
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, mapOSError(err)
		}
		return f, nil
	case Trunc:
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, mapOSError(err)
		}
		return f, nil
	case Append:
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, mapOSError(err)
		}
		return f, nil
	}
	return nil, ErrUnsupported
}

func (*OS) Remove(path string) error {
	return mapOSError(os.Remove(path))
}

func (*OS) Rename(oldPath, newPath string) error {
	return mapOSError(os.Rename(oldPath, newPath))
}

func (*OS) Mkdir(path string) error {
	return os.Mkdir(path, 0o755)
}

func (*OS) Stat(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, mapOSError(err)
	}
	return Info{Name: fi.Name(), Size: fi.Size(), IsDir: fi.IsDir()}, nil
}

func (*OS) ReadDir(path string) ([]Info, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, mapOSError(err)
	}
	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		info := Info{Name: e.Name(), IsDir: e.IsDir()}
		if fi, err := e.Info(); err == nil {
			info.Size = fi.Size()
		}
		out = append(out, info)
	}
	return out, nil
}

func (*OS) Stats() Stats {
	return Stats{Backend: "os"}
}

func mapOSError(err error) error {
	if err == nil {
		return nil
	}
	if os.IsNotExist(err) {
		return ErrNotExist
	}
	return err
}
