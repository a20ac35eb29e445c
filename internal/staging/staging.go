// Package staging copies uploaded streams to temporary files so they can be
// opened by path, and removes them once they have been read.
package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// DefaultName is the file name used when an upload has none.
const DefaultName = "upload.exo"

// ErrRemoved is returned when an upload is used after Remove.
var ErrRemoved = errors.New("staging: upload removed")

// Upload is a stream staged on disk.
type Upload struct {
	Path   string
	Size   int64
	Staged time.Time

	dir     string
	removed bool
}

// Stage copies r into a fresh directory under dir. An empty dir uses the
// system temporary directory.
func Stage(r io.Reader, dir string) (*Upload, error) {
	return StageNamed(r, dir, DefaultName)
}

// StageNamed is Stage with the staged file's base name.
func StageNamed(r io.Reader, dir, name string) (*Upload, error) {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = DefaultName
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("staging: %w", err)
		}
	}
	tmp, err := os.MkdirTemp(dir, "exoview-*")
	if err != nil {
		return nil, fmt.Errorf("staging: %w", err)
	}

	path := filepath.Join(tmp, name)
	out, err := os.Create(path)
	if err != nil {
		os.RemoveAll(tmp)
		return nil, fmt.Errorf("staging: %w", err)
	}
	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.RemoveAll(tmp)
		return nil, fmt.Errorf("staging: copy upload: %w", err)
	}

	return &Upload{Path: path, Size: n, Staged: time.Now(), dir: tmp}, nil
}

// Open opens the staged file for reading.
func (u *Upload) Open() (*os.File, error) {
	if u.removed {
		return nil, ErrRemoved
	}
	return os.Open(u.Path)
}

// Remove deletes the staged file and its directory. It is safe to call more
// than once.
func (u *Upload) Remove() error {
	if u.removed {
		return nil
	}
	u.removed = true
	return os.RemoveAll(u.dir)
}
