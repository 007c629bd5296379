// Package storage holds binary assets outside the database: institute
// logos and scanned answer sheets. Local deployments write to disk; the
// interface leaves room for an object store later.
package storage

import "io"

// BlobStore stores and retrieves blobs by key. Put returns the canonical
// key the blob was stored under. SignedURL returns a fetchable URL for
// the key; the filesystem store emits file:// URLs for development.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error)
	Get(key string) (io.ReadCloser, error)
	SignedURL(key string) (string, error)
}
