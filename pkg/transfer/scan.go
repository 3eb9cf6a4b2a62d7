package transfer

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sgaunet/s3browse/pkg/keypath"
)

// Item is one file to transfer.
type Item struct {
	Source string
	Key    string
}

// Scan enumerates basePaths into upload items under destPrefix.
// A plain file maps to destPrefix+name. A directory is walked depth-first in
// lexical order and every file at relative path rel maps to
// destPrefix+dirname+"/"+rel. Unreadable entries, symbolic links to
// directories and entries that are not regular files are returned as
// ScanErrors and skipped.
func Scan(basePaths []string, destPrefix string) ([]Item, []*ScanError) {
	var items []Item
	var scanErrs []*ScanError
	destPrefix = keypath.EnsureFolderKey(destPrefix)

	for _, base := range basePaths {
		base = filepath.Clean(base)
		info, err := os.Stat(base)
		if err != nil {
			scanErrs = append(scanErrs, &ScanError{Path: base, Err: err})
			continue
		}
		name := filepath.Base(base)
		if !info.IsDir() {
			if !info.Mode().IsRegular() {
				scanErrs = append(scanErrs, &ScanError{Path: base, Err: ErrNotRegular})
				continue
			}
			items = append(items, Item{Source: base, Key: destPrefix + name})
			continue
		}
		root := destPrefix + name + keypath.Delimiter
		items, scanErrs = walkDir(base, base, root, items, scanErrs)
	}
	return items, scanErrs
}

func walkDir(base, dir, root string, items []Item, scanErrs []*ScanError) ([]Item, []*ScanError) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return items, append(scanErrs, &ScanError{Path: dir, Err: err})
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			items, scanErrs = walkDir(base, full, root, items, scanErrs)
			continue
		}
		// symlinks are followed to files only
		info, err := os.Stat(full)
		if err != nil {
			scanErrs = append(scanErrs, &ScanError{Path: full, Err: err})
			continue
		}
		switch {
		case info.IsDir():
			scanErrs = append(scanErrs, &ScanError{Path: full, Err: ErrSymlinkedDir})
			continue
		case !info.Mode().IsRegular():
			scanErrs = append(scanErrs, &ScanError{Path: full, Err: ErrNotRegular})
			continue
		}
		rel, err := filepath.Rel(base, full)
		if err != nil {
			scanErrs = append(scanErrs, &ScanError{Path: full, Err: err})
			continue
		}
		items = append(items, Item{Source: full, Key: root + filepath.ToSlash(rel)})
	}
	return items, scanErrs
}
