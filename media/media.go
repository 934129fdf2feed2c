// Package media uploads and destroys image assets on the external host.
// Post media lives under FolderPosts, profile pictures under
// FolderProfiles.
package media

import (
	"context"
	"io"
)

const (
	FolderPosts    = "threads/posts"
	FolderProfiles = "threads/profiles"
)

// Asset is a stored object: its public URL and the opaque reference used
// to destroy it later.
type Asset struct {
	URL      string
	PublicID string
}

// Uploader is the object-store capability handlers depend on.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}
