// Package storage abstracts the external object store that media files are
// uploaded to. The rest of the application only depends on the Storage
// interface; the production implementation talks to Google Drive.
package storage

import (
	"context"
	"io"
)

// Upload is one file handed to the store.
type Upload struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Folder is a created remote folder.
type Folder struct {
	ID   string
	Name string
}

// File is an uploaded remote file reference.
type File struct {
	ID          string
	Name        string
	WebViewLink string
}

// Storage is the capability surface consumed by the post orchestrator: create
// a folder, upload a batch of files into it, delete a file.
type Storage interface {
	CreateFolder(ctx context.Context, name string) (*Folder, error)
	UploadMany(ctx context.Context, uploads []Upload, folderID string) ([]*File, error)
	Delete(ctx context.Context, fileID string) error
}
