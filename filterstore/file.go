package filterstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore keeps one snapshot file per key inside a directory. Writes go
// to a temporary file in the same directory followed by a rename, so readers
// either see the previous complete snapshot or the new one, never a partial
// write.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "snapshot save canceled")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "snapshot directory %q creation failed", s.dir)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(s.path(key))+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "snapshot temp file creation failed")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "snapshot write failed")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "snapshot sync failed")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "snapshot close failed")
	}
	return errors.Wrapf(os.Rename(tmp.Name(), s.path(key)), "snapshot rename to %q failed", s.path(key))
}

func (s *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "snapshot load canceled")
	}
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot read from %q failed", s.path(key))
	}
	return data, nil
}

func (s *FileStore) path(key string) string {
	// Keys act as file names; callers choose flat names like "urls.blmf".
	return filepath.Join(s.dir, key)
}

var _ Store = &FileStore{}
