package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3browse/pkg/selection"
)

var ordered = []string{"a/", "b/", "c.txt", "d.txt", "e.txt"}

func TestApplyClick_NoModifier(t *testing.T) {
	s := selection.ApplyClick(selection.New(), ordered, "a/", selection.ModToggle)
	s = selection.ApplyClick(s, ordered, "c.txt", selection.ModNone)

	assert.Equal(t, []string{"c.txt"}, s.Keys(ordered))
	anchor, ok := s.Anchor()
	require.True(t, ok)
	assert.Equal(t, "c.txt", anchor)
}

func TestApplyClick_ToggleTwiceRestoresState(t *testing.T) {
	start := selection.ApplyClick(selection.New(), ordered, "b/", selection.ModNone)
	start = selection.ApplyClick(start, ordered, "d.txt", selection.ModToggle)

	for _, key := range ordered {
		once := selection.ApplyClick(start, ordered, key, selection.ModToggle)
		twice := selection.ApplyClick(once, ordered, key, selection.ModToggle)
		assert.Equal(t, start.Keys(ordered), twice.Keys(ordered), "key %s", key)
	}
}

func TestApplyClick_ToggleDoesNotMutateInput(t *testing.T) {
	start := selection.ApplyClick(selection.New(), ordered, "b/", selection.ModNone)
	_ = selection.ApplyClick(start, ordered, "c.txt", selection.ModToggle)
	assert.Equal(t, []string{"b/"}, start.Keys(ordered))
}

func TestApplyClick_Range(t *testing.T) {
	s := selection.ApplyClick(selection.New(), ordered, "b/", selection.ModNone)
	s = selection.ApplyClick(s, ordered, "d.txt", selection.ModRange)

	assert.Equal(t, []string{"b/", "c.txt", "d.txt"}, s.Keys(ordered))
	anchor, _ := s.Anchor()
	assert.Equal(t, "b/", anchor, "range selection keeps the anchor")

	// a second shift click replaces the range instead of extending it
	s = selection.ApplyClick(s, ordered, "a/", selection.ModRange)
	assert.Equal(t, []string{"a/", "b/"}, s.Keys(ordered))
}

func TestApplyClick_RangeIsCommutative(t *testing.T) {
	for i := range ordered {
		for j := range ordered {
			a, b := ordered[i], ordered[j]
			fromA := selection.ApplyClick(selection.ApplyClick(selection.New(), ordered, a, selection.ModNone), ordered, b, selection.ModRange)
			fromB := selection.ApplyClick(selection.ApplyClick(selection.New(), ordered, b, selection.ModNone), ordered, a, selection.ModRange)
			assert.Equal(t, fromA.Keys(ordered), fromB.Keys(ordered), "%s..%s", a, b)
		}
	}
}

func TestApplyClick_RangeWithoutAnchorDegrades(t *testing.T) {
	s := selection.ApplyClick(selection.New(), ordered, "c.txt", selection.ModRange)
	assert.Equal(t, []string{"c.txt"}, s.Keys(ordered))
	anchor, ok := s.Anchor()
	assert.True(t, ok)
	assert.Equal(t, "c.txt", anchor)

	// anchor from a previous listing is not in the new ordered keys
	stale := selection.ApplyClick(selection.New(), []string{"gone.txt"}, "gone.txt", selection.ModNone)
	s = selection.ApplyClick(stale, ordered, "e.txt", selection.ModRange)
	assert.Equal(t, []string{"e.txt"}, s.Keys(ordered))
	anchor, _ = s.Anchor()
	assert.Equal(t, "e.txt", anchor)
}

func TestToggleAll(t *testing.T) {
	s := selection.ApplyClick(selection.New(), ordered, "b/", selection.ModNone)

	all := selection.ToggleAll(s, ordered, false)
	assert.True(t, all.IsAll(ordered))
	anchor, _ := all.Anchor()
	assert.Equal(t, "b/", anchor)

	none := selection.ToggleAll(all, ordered, false)
	assert.Equal(t, 0, none.Len())
	anchor, _ = none.Anchor()
	assert.Equal(t, "b/", anchor)

	forced := selection.ToggleAll(all, ordered, true)
	assert.True(t, forced.IsAll(ordered))
}

func TestToggleAll_EmptyList(t *testing.T) {
	s := selection.ToggleAll(selection.New(), nil, false)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.IsAll(nil))
}

func TestApply_KeyboardMatchesPointer(t *testing.T) {
	start := selection.ApplyClick(selection.New(), ordered, "c.txt", selection.ModNone)

	kbAll, err := selection.Apply(start, ordered, selection.Gesture{Kind: selection.SelectAll})
	require.NoError(t, err)
	assert.True(t, kbAll.Equal(selection.ToggleAll(start, ordered, true)))

	kbEsc, err := selection.Apply(kbAll, ordered, selection.Gesture{Kind: selection.Escape})
	require.NoError(t, err)
	assert.True(t, kbEsc.Equal(selection.Clear(kbAll)))

	kbDel, err := selection.Apply(start, ordered, selection.Gesture{Kind: selection.DeleteKey})
	require.NoError(t, err)
	assert.True(t, kbDel.Equal(start))

	click, err := selection.Apply(start, ordered, selection.Gesture{Kind: selection.Click, Key: "e.txt", Modifier: selection.ModRange})
	require.NoError(t, err)
	assert.Equal(t, []string{"c.txt", "d.txt", "e.txt"}, click.Keys(ordered))
}

func TestApply_Errors(t *testing.T) {
	_, err := selection.Apply(selection.New(), ordered, selection.Gesture{Kind: "wave"})
	assert.ErrorIs(t, err, selection.ErrUnknownGesture)

	_, err = selection.Apply(selection.New(), ordered, selection.Gesture{Kind: selection.Click})
	assert.ErrorIs(t, err, selection.ErrMissingKey)
}

func TestParseModifier(t *testing.T) {
	tests := []struct {
		in       string
		expected selection.Modifier
		wantErr  bool
	}{
		{"", selection.ModNone, false},
		{"ctrl", selection.ModToggle, false},
		{"cmd", selection.ModToggle, false},
		{"shift", selection.ModRange, false},
		{"alt", selection.ModNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := selection.ParseModifier(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}
}
