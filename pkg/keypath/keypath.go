// Package keypath provides helpers to manipulate "/"-delimited object keys
// as if they were filesystem paths.
package keypath

import (
	"errors"
	"strings"
)

// Delimiter is the only hierarchy separator of an object key.
const Delimiter = "/"

// ErrEmptyName is returned when a user supplied name is empty once sanitized.
var ErrEmptyName = errors.New("name is empty after sanitization")

// ParentPrefix returns the prefix of the folder that contains path.
// The bucket root is the empty string.
func ParentPrefix(path string) string {
	segments := strings.Split(strings.TrimSuffix(path, Delimiter), Delimiter)
	if len(segments) <= 1 {
		return ""
	}
	return strings.Join(segments[:len(segments)-1], Delimiter) + Delimiter
}

// BaseName returns the last non-empty segment of key.
// For a folder key such as "a/b/" it returns "b".
func BaseName(key string) string {
	trimmed := strings.TrimRight(key, Delimiter)
	if idx := strings.LastIndex(trimmed, Delimiter); idx != -1 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// SanitizeSegment strips "/" and "\" from a user supplied name so that it
// can be concatenated into a key without escaping into another prefix.
func SanitizeSegment(name string) (string, error) {
	clean := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return -1
		}
		return r
	}, name)
	if strings.TrimSpace(clean) == "" {
		return "", ErrEmptyName
	}
	return clean, nil
}

// IsFolderKey reports whether key denotes a folder.
func IsFolderKey(key string) bool {
	return strings.HasSuffix(key, Delimiter)
}

// EnsureFolderKey appends the delimiter to key if it is missing.
// The bucket root stays empty.
func EnsureFolderKey(key string) string {
	if key == "" || IsFolderKey(key) {
		return key
	}
	return key + Delimiter
}

// Join concatenates a folder prefix and a relative path.
func Join(prefix, rel string) string {
	return EnsureFolderKey(prefix) + strings.TrimLeft(rel, Delimiter)
}

// Crumb is one element of a breadcrumb trail.
type Crumb struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

// Breadcrumbs splits prefix into its successive ancestor folders,
// starting from the first level below the root.
func Breadcrumbs(prefix string) []Crumb {
	var crumbs []Crumb
	current := ""
	for _, part := range strings.Split(prefix, Delimiter) {
		if part == "" {
			continue
		}
		current += part + Delimiter
		crumbs = append(crumbs, Crumb{Name: part, Prefix: current})
	}
	return crumbs
}
