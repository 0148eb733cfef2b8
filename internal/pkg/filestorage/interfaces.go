package filestorage

import (
	"mime/multipart"
)

// StoredFile describes a file written to storage
type StoredFile struct {
	OriginalName string // Name supplied by the client
	Path         string // Path relative to the storage root, used for deletion
	URL          string // Publicly reachable URL
	MimeType     string // Sniffed from content, not trusted from the client
	Size         int64  // Size in bytes
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath stores the upload under subPath with a generated name
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (*StoredFile, error)

	// DeleteFile removes a previously stored file; missing files are not an error
	DeleteFile(relPath string) error
}
