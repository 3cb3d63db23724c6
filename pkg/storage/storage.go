package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/theiagen/nf-theia/pkg/scheme"
)

// Logger defines the logging interface for the storage layer.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Backend defines the write operations one storage scheme supports.
type Backend interface {
	// Scheme identifies which classified scheme this backend serves.
	Scheme() scheme.Scheme
	// Write stores data at target, an already-normalized path or URI.
	Write(ctx context.Context, target string, data []byte) error
	// MkdirAll pre-creates a directory hierarchy. Object backends no-op:
	// containers and prefixes are implicit.
	MkdirAll(ctx context.Context, dir string) error
}

// Writer routes writes to the backend matching the destination's scheme.
type Writer struct {
	backends map[scheme.Scheme]Backend
	logger   Logger
}

// NewWriter creates a Writer with the local backend pre-registered.
// Object backends are registered per configured scheme.
func NewWriter(logger Logger) *Writer {
	w := &Writer{
		backends: make(map[scheme.Scheme]Backend),
		logger:   logger,
	}
	w.Register(NewLocalBackend())
	return w
}

// Register adds or replaces the backend for its scheme.
func (w *Writer) Register(b Backend) {
	w.backends[b.Scheme()] = b
}

// Write classifies the destination and delegates to the matching backend.
// Failures are returned wrapped with the destination so the caller can
// log them with full context; the caller decides whether to propagate.
func (w *Writer) Write(ctx context.Context, destination string, data []byte) error {
	c := scheme.Classify(destination)
	b, ok := w.backends[c.Scheme]
	if !ok {
		return errors.Errorf("no %s backend registered for destination %s", c.Scheme, destination)
	}
	if err := b.Write(ctx, c.Normalized, data); err != nil {
		return errors.Wrapf(err, "failed to write %s", c.Normalized)
	}
	w.logger.Infof("Wrote %d bytes to %s", len(data), c.Normalized)
	return nil
}

// MkdirAll pre-creates a destination directory where the scheme needs it.
func (w *Writer) MkdirAll(ctx context.Context, dir string) error {
	c := scheme.Classify(dir)
	b, ok := w.backends[c.Scheme]
	if !ok {
		return errors.Errorf("no %s backend registered for directory %s", c.Scheme, dir)
	}
	return b.MkdirAll(ctx, c.Normalized)
}
