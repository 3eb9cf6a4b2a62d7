package keypath_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3browse/pkg/keypath"
)

func TestParentPrefix(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"", ""},
		{"file.txt", ""},
		{"a/", ""},
		{"a/b.txt", "a/"},
		{"a/b/", "a/"},
		{"a/b/c/d.txt", "a/b/c/"},
		{"photos/2023/", "photos/"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, keypath.ParentPrefix(tt.path))
		})
	}
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "b", keypath.BaseName("a/b/"))
	assert.Equal(t, "c.txt", keypath.BaseName("a/b/c.txt"))
	assert.Equal(t, "root.txt", keypath.BaseName("root.txt"))
	assert.Equal(t, "a", keypath.BaseName("a/"))
	assert.Equal(t, "", keypath.BaseName(""))
}

func TestSanitizeSegment(t *testing.T) {
	inputs := []string{"a/b", `a\b`, "/lead", `trail\`, `mix/\ed`, "../../etc"}
	for _, in := range inputs {
		out, err := keypath.SanitizeSegment(in)
		require.NoError(t, err, in)
		assert.NotContains(t, out, "/")
		assert.NotContains(t, out, `\`)
	}

	out, err := keypath.SanitizeSegment("2024")
	require.NoError(t, err)
	assert.Equal(t, "2024", out)
}

func TestSanitizeSegment_EmptyIsRejected(t *testing.T) {
	for _, in := range []string{"", "/", `\\`, "//", " / "} {
		_, err := keypath.SanitizeSegment(in)
		assert.ErrorIs(t, err, keypath.ErrEmptyName, "input %q", in)
	}
}

func TestJoinAndFolderKeys(t *testing.T) {
	assert.Equal(t, "uploads/docs/a.txt", keypath.Join("uploads/", "docs/a.txt"))
	assert.Equal(t, "uploads/a.txt", keypath.Join("uploads", "/a.txt"))
	assert.Equal(t, "a.txt", keypath.Join("", "a.txt"))
	assert.Equal(t, "", keypath.EnsureFolderKey(""))
	assert.Equal(t, "a/", keypath.EnsureFolderKey("a"))
	assert.True(t, keypath.IsFolderKey("a/"))
	assert.False(t, keypath.IsFolderKey("a"))
}

func TestBreadcrumbs(t *testing.T) {
	crumbs := keypath.Breadcrumbs("photos/2023/june/")
	require.Len(t, crumbs, 3)
	assert.Equal(t, keypath.Crumb{Name: "photos", Prefix: "photos/"}, crumbs[0])
	assert.Equal(t, "photos/2023/june/", crumbs[2].Prefix)
	assert.Empty(t, keypath.Breadcrumbs(""))
	assert.True(t, strings.HasSuffix(crumbs[1].Prefix, "/"))
}
