package models

import (
	"fmt"
	"time"
)

// FileType discriminates folders from content-bearing files.
type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

// Valid reports whether t is one of the known file types.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	}
	return false
}

// HasContent reports whether records of this type carry a content blob.
func (t FileType) HasContent() bool {
	return t == FileTypeFile || t == FileTypeImage
}

// RootParentID is the ParentID of top-level files.
const RootParentID int64 = 0

// File is a folder, plain file or image owned by a user.
//
// StorageKey addresses the content blob and is empty for folders. Rendition
// blobs live next to it, see RenditionKey.
type File struct {
	ID         int64
	UserID     int64
	Name       string
	Type       FileType
	ParentID   int64
	IsPublic   bool
	StorageKey string
	CreatedAt  time.Time
}

// IsFolder reports whether f is a folder.
func (f *File) IsFolder() bool {
	return f.Type == FileTypeFolder
}

// RenditionKey returns the storage key of the width-pixel rendition derived
// from the blob at storageKey.
func RenditionKey(storageKey string, width int) string {
	return fmt.Sprintf("%s_%d", storageKey, width)
}
