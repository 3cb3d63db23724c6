package storage

import (
	"context"

	"github.com/theiagen/nf-theia/pkg/scheme"
)

// ObjectClient is the minimal contract an object-storage driver (S3, GCS,
// Azure, platform) must satisfy. Concrete drivers live with the host
// engine's configuration; this package only routes to them.
type ObjectClient interface {
	PutObject(ctx context.Context, bucket, key string, data []byte) error
}

// ObjectBackend adapts an ObjectClient to the Backend interface for one
// scheme. Directory creation is a no-op: object stores have no
// directories, prefixes come into existence with the first object.
type ObjectBackend struct {
	sch    scheme.Scheme
	client ObjectClient
}

func NewObjectBackend(sch scheme.Scheme, client ObjectClient) *ObjectBackend {
	return &ObjectBackend{sch: sch, client: client}
}

func (b *ObjectBackend) Scheme() scheme.Scheme {
	return b.sch
}

func (b *ObjectBackend) Write(ctx context.Context, target string, data []byte) error {
	bucket, key, err := scheme.SplitObjectURI(target)
	if err != nil {
		return err
	}
	return b.client.PutObject(ctx, bucket, key, data)
}

func (b *ObjectBackend) MkdirAll(ctx context.Context, dir string) error {
	return nil
}
