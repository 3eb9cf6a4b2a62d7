package cmd

import (
	"context"
	"slices"

	"github.com/sgaunet/s3browse/pkg/dto"
	"github.com/sgaunet/s3browse/pkg/keypath"
	"github.com/sgaunet/s3browse/pkg/selection"
	"github.com/sgaunet/s3browse/pkg/session"
)

// groupByParent groups keys by the folder that lists them, in the order
// the folders first appear.
func groupByParent(keys []string) ([]string, map[string][]string) {
	var parents []string
	groups := make(map[string][]string)
	for _, key := range keys {
		parent := keypath.ParentPrefix(key)
		if _, ok := groups[parent]; !ok {
			parents = append(parents, parent)
		}
		groups[parent] = append(groups[parent], key)
	}
	return parents, groups
}

// resolveKey returns key, or key+"/" when key names a listed folder
// written without its trailing delimiter.
func resolveKey(l dto.Listing, key string) string {
	if !keypath.IsFolderKey(key) && l.IsFolder(key+keypath.Delimiter) {
		return key + keypath.Delimiter
	}
	return key
}

// resolveAt navigates sess to the folder that lists key, the bucket root
// included, and resolves key in that listing.
func resolveAt(ctx context.Context, sess *session.Session, key string) (string, error) {
	listing, err := sess.Navigate(ctx, keypath.ParentPrefix(key))
	if err != nil {
		return "", err
	}
	return resolveKey(listing, key), nil
}

// selectKeys navigates to parent and selects keys in its listing.
func selectKeys(ctx context.Context, sess *session.Session, parent string, keys []string) error {
	listing, err := sess.Navigate(ctx, parent)
	if err != nil {
		return err
	}
	for _, key := range keys {
		key = resolveKey(listing, key)
		if slices.Contains(sess.SelectedKeys(), key) {
			continue
		}
		if _, err := sess.Click(key, selection.ModToggle); err != nil {
			return err
		}
	}
	return nil
}
