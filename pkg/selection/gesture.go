package selection

import (
	"errors"
	"fmt"
)

// Kind enumerates user gestures, pointer and keyboard alike.
type Kind string

const (
	// Click is a pointer click on one key, possibly with a modifier.
	Click Kind = "click"
	// SelectAll is the select-all gesture (checkbox or ctrl/cmd+a).
	SelectAll Kind = "select-all"
	// ToggleAllKeys flips between all and nothing selected (header checkbox).
	ToggleAllKeys Kind = "toggle-all"
	// Escape clears the selection.
	Escape Kind = "escape"
	// DeleteKey asks for the deletion of the selected keys.
	DeleteKey Kind = "delete-key"
)

// ErrUnknownGesture is returned for unsupported gesture kinds.
var ErrUnknownGesture = errors.New("unknown gesture")

// ErrMissingKey is returned when a click gesture does not name a key.
var ErrMissingKey = errors.New("click gesture without key")

// ErrUnknownModifier is returned by ParseModifier for unsupported names.
var ErrUnknownModifier = errors.New("unknown modifier")

// Gesture is one user action on the listing.
type Gesture struct {
	Kind     Kind     `json:"kind"`
	Key      string   `json:"key,omitempty"`
	Modifier Modifier `json:"modifier,omitempty"`
}

// Apply dispatches a gesture to the selection functions so that keyboard
// shortcuts and pointer actions share a single implementation.
// DeleteKey leaves the selection unchanged: the caller deletes State.Keys.
func Apply(state State, orderedKeys []string, g Gesture) (State, error) {
	switch g.Kind {
	case Click:
		if g.Key == "" {
			return state, ErrMissingKey
		}
		return ApplyClick(state, orderedKeys, g.Key, g.Modifier), nil
	case SelectAll:
		return ToggleAll(state, orderedKeys, true), nil
	case ToggleAllKeys:
		return ToggleAll(state, orderedKeys, false), nil
	case Escape:
		return Clear(state), nil
	case DeleteKey:
		return state, nil
	default:
		return state, fmt.Errorf("%w: %q", ErrUnknownGesture, g.Kind)
	}
}

// ParseModifier converts a textual modifier ("", "ctrl", "cmd", "shift").
func ParseModifier(s string) (Modifier, error) {
	switch s {
	case "", "none":
		return ModNone, nil
	case "ctrl", "cmd", "toggle":
		return ModToggle, nil
	case "shift", "range":
		return ModRange, nil
	default:
		return ModNone, fmt.Errorf("%w: %q", ErrUnknownModifier, s)
	}
}
