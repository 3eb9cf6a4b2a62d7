// Package dto provides data transfer objects for the browser engine
package dto

import "time"

// ObjectEntry is a real object listed directly under a prefix.
type ObjectEntry struct {
	Key          string    `json:"key"`
	Size         uint64    `json:"size"`
	LastModified time.Time `json:"lastmodified"`
}

// FolderEntry is a synthetic folder: a common prefix one level below the
// listed prefix. Its key always ends with "/".
type FolderEntry struct {
	Key string `json:"key"`
}

// Listing is the projection of one level of the hierarchy for a (bucket, prefix) pair.
type Listing struct {
	Bucket  string        `json:"bucket"`
	Prefix  string        `json:"prefix"`
	Files   []ObjectEntry `json:"files"`
	Folders []FolderEntry `json:"folders"`
}

// IsEmpty reports whether the listed folder has no children.
func (l Listing) IsEmpty() bool {
	return len(l.Files) == 0 && len(l.Folders) == 0
}

// IsFolder reports whether key is one of the listed folders.
func (l Listing) IsFolder(key string) bool {
	for _, f := range l.Folders {
		if f.Key == key {
			return true
		}
	}
	return false
}

// Bucket represents an S3 bucket.
type Bucket struct {
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creationDate"`
}

// BucketStats holds the aggregate size and object count of a bucket.
type BucketStats struct {
	Bucket      string    `json:"bucket"`
	TotalSize   uint64    `json:"totalSize"`
	ObjectCount uint64    `json:"objectCount"`
	ComputedAt  time.Time `json:"computedAt"`
}
