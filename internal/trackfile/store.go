// Package trackfile reads and writes track documents on a filesystem.
package trackfile

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

// Store reads input files and writes output files atomically.
type Store struct {
	fs afero.Fs
}

// New returns a Store backed by fs.
func New(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOS returns a Store on the host filesystem.
func NewOS() *Store {
	return New(afero.NewOsFs())
}

// Read returns the contents of path.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, eris.Wrapf(err, "trackfile: read %s", path)
	}
	return data, nil
}

// WriteAtomic writes data to a temp file next to path and renames it into
// place, so path is either left as it was or holds the full data.
func (s *Store) WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "trackfile: create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return eris.Wrapf(err, "trackfile: write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return eris.Wrapf(err, "trackfile: close %s", tmpName)
	}
	if err := s.fs.Chmod(tmpName, 0o644); err != nil {
		_ = s.fs.Remove(tmpName)
		return eris.Wrapf(err, "trackfile: chmod %s", tmpName)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return eris.Wrapf(err, "trackfile: rename %s to %s", tmpName, path)
	}
	return nil
}
