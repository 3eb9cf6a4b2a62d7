// Package selection computes multi-item selections over an ordered list of
// keys in response to click and keyboard gestures.
package selection

import "slices"

// Modifier qualifies a click.
type Modifier int

const (
	// ModNone is a plain click.
	ModNone Modifier = iota
	// ModToggle is a ctrl/cmd click.
	ModToggle
	// ModRange is a shift click.
	ModRange
)

// State is the current selection. Anchor is the reference of range
// selection and is not necessarily selected.
type State struct {
	selected  map[string]struct{}
	anchor    string
	hasAnchor bool
}

// New returns an empty selection.
func New() State {
	return State{selected: map[string]struct{}{}}
}

// Anchor returns the anchor key and whether one is defined.
func (s State) Anchor() (string, bool) {
	return s.anchor, s.hasAnchor
}

// Has reports whether key is selected.
func (s State) Has(key string) bool {
	_, ok := s.selected[key]
	return ok
}

// Len returns the number of selected keys.
func (s State) Len() int {
	return len(s.selected)
}

// Keys returns the selected keys in the order of orderedKeys.
// Selected keys missing from orderedKeys are appended in lexical order.
func (s State) Keys(orderedKeys []string) []string {
	keys := make([]string, 0, len(s.selected))
	inList := make(map[string]struct{}, len(orderedKeys))
	for _, k := range orderedKeys {
		inList[k] = struct{}{}
		if s.Has(k) {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range s.selected {
		if _, ok := inList[k]; !ok {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// IsAll reports whether every key of orderedKeys is selected.
// An empty list is never "all selected".
func (s State) IsAll(orderedKeys []string) bool {
	if len(orderedKeys) == 0 || len(s.selected) != len(orderedKeys) {
		return false
	}
	for _, k := range orderedKeys {
		if !s.Has(k) {
			return false
		}
	}
	return true
}

// Equal reports whether both states select the same keys with the same anchor.
func (s State) Equal(o State) bool {
	if s.hasAnchor != o.hasAnchor || s.anchor != o.anchor || len(s.selected) != len(o.selected) {
		return false
	}
	for k := range s.selected {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

func (s State) clone() State {
	c := State{
		selected:  make(map[string]struct{}, len(s.selected)),
		anchor:    s.anchor,
		hasAnchor: s.hasAnchor,
	}
	for k := range s.selected {
		c.selected[k] = struct{}{}
	}
	return c
}

// ApplyClick returns the selection that results from clicking clicked with modifier.
// state is not modified.
func ApplyClick(state State, orderedKeys []string, clicked string, modifier Modifier) State {
	switch modifier {
	case ModToggle:
		next := state.clone()
		if next.Has(clicked) {
			delete(next.selected, clicked)
		} else {
			next.selected[clicked] = struct{}{}
		}
		next.anchor, next.hasAnchor = clicked, true
		return next

	case ModRange:
		i := slices.Index(orderedKeys, state.anchor)
		j := slices.Index(orderedKeys, clicked)
		if !state.hasAnchor || i == -1 || j == -1 {
			return single(clicked)
		}
		lo, hi := min(i, j), max(i, j)
		next := State{
			selected:  make(map[string]struct{}, hi-lo+1),
			anchor:    state.anchor,
			hasAnchor: true,
		}
		for _, k := range orderedKeys[lo : hi+1] {
			next.selected[k] = struct{}{}
		}
		return next

	default:
		return single(clicked)
	}
}

// ToggleAll selects every key of orderedKeys, unless they are already all
// selected and force is false, in which case the selection is cleared.
// The anchor is left unchanged.
func ToggleAll(state State, orderedKeys []string, force bool) State {
	next := State{
		selected:  make(map[string]struct{}, len(orderedKeys)),
		anchor:    state.anchor,
		hasAnchor: state.hasAnchor,
	}
	if !force && state.IsAll(orderedKeys) {
		return next
	}
	for _, k := range orderedKeys {
		next.selected[k] = struct{}{}
	}
	return next
}

// Clear empties the selection and keeps the anchor.
func Clear(state State) State {
	return State{
		selected:  map[string]struct{}{},
		anchor:    state.anchor,
		hasAnchor: state.hasAnchor,
	}
}

func single(key string) State {
	return State{
		selected:  map[string]struct{}{key: {}},
		anchor:    key,
		hasAnchor: true,
	}
}
