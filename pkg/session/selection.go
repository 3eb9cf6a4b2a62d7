package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sgaunet/s3browse/pkg/selection"
)

// ErrUnknownKey is returned when a click names a key absent from the listing.
var ErrUnknownKey = errors.New("key is not in the current listing")

// Click applies a pointer click on key and returns the selected keys.
func (s *Session) Click(key string, modifier selection.Modifier) ([]string, error) {
	return s.Gesture(selection.Gesture{Kind: selection.Click, Key: key, Modifier: modifier})
}

// Gesture applies any pointer or keyboard gesture and returns the selected keys.
// DeleteKey leaves the selection as is; the caller then runs DeleteSelected.
func (s *Session) Gesture(g selection.Gesture) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.Kind == selection.Click && g.Key != "" && !slices.Contains(s.ordered, g.Key) {
		return s.selection.Keys(s.ordered), fmt.Errorf("%w: %q", ErrUnknownKey, g.Key)
	}
	next, err := selection.Apply(s.selection, s.ordered, g)
	if err != nil {
		return s.selection.Keys(s.ordered), err
	}
	s.selection = next
	return s.selection.Keys(s.ordered), nil
}

// SelectedKeys returns the selection in listing order.
func (s *Session) SelectedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Keys(s.ordered)
}

// Selection returns the selection state.
func (s *Session) Selection() selection.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}
