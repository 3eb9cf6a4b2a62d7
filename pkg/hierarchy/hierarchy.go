// Package hierarchy projects the flat result of a prefix and delimiter
// listing into one level of a folder tree.
package hierarchy

import (
	"context"
	"fmt"
	"sort"

	"github.com/sgaunet/s3browse/pkg/dto"
	"github.com/sgaunet/s3browse/pkg/keypath"
	"github.com/sgaunet/s3browse/pkg/store"
)

// Project converts a raw listing of prefix into a Listing.
// The placeholder object whose key equals prefix is dropped and duplicated
// common prefixes collapse to a single folder. Folders and files are sorted
// by base name so that one render always uses the same order.
func Project(bucket, prefix string, raw store.RawListing) dto.Listing {
	listing := dto.Listing{
		Bucket:  bucket,
		Prefix:  prefix,
		Files:   make([]dto.ObjectEntry, 0, len(raw.Objects)),
		Folders: make([]dto.FolderEntry, 0, len(raw.CommonPrefixes)),
	}

	seen := make(map[string]struct{}, len(raw.CommonPrefixes))
	for _, p := range raw.CommonPrefixes {
		if p == prefix {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		listing.Folders = append(listing.Folders, dto.FolderEntry{Key: p})
	}

	for _, obj := range raw.Objects {
		if obj.Key == prefix {
			continue
		}
		size := uint64(0)
		if obj.Size > 0 {
			size = uint64(obj.Size)
		}
		listing.Files = append(listing.Files, dto.ObjectEntry{
			Key:          obj.Key,
			Size:         size,
			LastModified: obj.LastModified,
		})
	}

	sort.SliceStable(listing.Folders, func(i, j int) bool {
		return lessByName(listing.Folders[i].Key, listing.Folders[j].Key)
	})
	sort.SliceStable(listing.Files, func(i, j int) bool {
		return lessByName(listing.Files[i].Key, listing.Files[j].Key)
	})
	return listing
}

// Load lists one level of bucket under prefix and projects it.
func Load(ctx context.Context, s store.Store, bucket, prefix string) (dto.Listing, error) {
	raw, err := store.ListObjects(ctx, s, bucket, prefix, keypath.Delimiter)
	if err != nil {
		return dto.Listing{}, fmt.Errorf("Load: %w", err)
	}
	return Project(bucket, prefix, raw), nil
}

// OrderedKeys returns the keys of listing in display order: folders first,
// then files. Range selection operates on this sequence.
func OrderedKeys(listing dto.Listing) []string {
	keys := make([]string, 0, len(listing.Folders)+len(listing.Files))
	for _, f := range listing.Folders {
		keys = append(keys, f.Key)
	}
	for _, f := range listing.Files {
		keys = append(keys, f.Key)
	}
	return keys
}

func lessByName(a, b string) bool {
	na, nb := keypath.BaseName(a), keypath.BaseName(b)
	if na != nb {
		return na < nb
	}
	return a < b
}
