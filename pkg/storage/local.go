package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/theiagen/nf-theia/pkg/scheme"
)

// LocalBackend writes to the local filesystem. Parent directories are
// created before every write so publish directories never have to exist
// up front.
type LocalBackend struct{}

func NewLocalBackend() *LocalBackend {
	return &LocalBackend{}
}

func (b *LocalBackend) Scheme() scheme.Scheme {
	return scheme.Local
}

func (b *LocalBackend) Write(ctx context.Context, target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (b *LocalBackend) MkdirAll(ctx context.Context, dir string) error {
	return os.MkdirAll(dir, 0o755)
}
