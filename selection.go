package swatch

import (
	"fmt"
	"strings"

	"github.com/gogpu/swatch/internal/blend"
	"github.com/gogpu/swatch/raster"
)

// Policy selects how a newly grown region merges into the current selection.
type Policy uint8

const (
	// PolicyReplace discards the current selection.
	PolicyReplace Policy = iota
	// PolicyAdd unions the region into the selection.
	PolicyAdd
	// PolicySubtract erases the region from the selection.
	PolicySubtract
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyReplace:
		return "replace"
	case PolicyAdd:
		return "add"
	case PolicySubtract:
		return "subtract"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy parses "add", "subtract" or "replace", ignoring case.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace", "":
		return PolicyReplace, nil
	case "add":
		return PolicyAdd, nil
	case "subtract":
		return PolicySubtract, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Combine merges candidate into current and returns a new mask. Neither
// input is modified, so masks held by History stay valid.
//
// Replace, or a nil current mask, yields a copy of candidate. Add composites
// candidate over current. Subtract erases candidate's coverage from current
// (destination-out).
func Combine(current, candidate *raster.Mask, policy Policy) *raster.Mask {
	if candidate == nil {
		if current == nil {
			return nil
		}
		return current.Clone()
	}
	if policy == PolicyReplace || current == nil ||
		current.Width() != candidate.Width() || current.Height() != candidate.Height() {
		return candidate.Clone()
	}

	out := raster.NewMask(current.Width(), current.Height())
	dst, cur, cand := out.Data(), current.Data(), candidate.Data()
	switch policy {
	case PolicyAdd:
		for i := range dst {
			dst[i] = blend.OverAlpha(cand[i], cur[i])
		}
	case PolicySubtract:
		for i := range dst {
			dst[i] = blend.DestinationOut(cand[i], cur[i])
		}
	default:
		copy(dst, cand)
	}
	return out
}

// History is an undo/redo stack of selection masks. The zero value is an
// empty history showing no mask.
//
// Entries are never modified after Apply; Combine always returns new masks.
type History struct {
	entries []*raster.Mask
	pos     int // number of entries up to and including the displayed one
}

// Apply discards any redo entries and pushes m as the displayed mask.
func (h *History) Apply(m *raster.Mask) {
	h.entries = append(h.entries[:h.pos], m)
	h.pos = len(h.entries)
}

// Undo steps back one entry. Undoing the first entry shows no mask.
// It reports false, and does nothing, when there is nothing to undo.
func (h *History) Undo() bool {
	if h.pos == 0 {
		return false
	}
	h.pos--
	return true
}

// Redo steps forward one entry. It reports false at the newest entry.
func (h *History) Redo() bool {
	if h.pos >= len(h.entries) {
		return false
	}
	h.pos++
	return true
}

// Reset drops every entry.
func (h *History) Reset() {
	clear(h.entries)
	h.entries = h.entries[:0]
	h.pos = 0
}

// Current returns the displayed mask, or nil when no mask is shown.
func (h *History) Current() *raster.Mask {
	if h.pos == 0 {
		return nil
	}
	return h.entries[h.pos-1]
}

// Cursor returns the index of the displayed entry, or -1 for no mask.
func (h *History) Cursor() int { return h.pos - 1 }

// Len returns the number of stored entries, including redo entries.
func (h *History) Len() int { return len(h.entries) }

// CanUndo reports whether Undo would change the displayed mask.
func (h *History) CanUndo() bool { return h.pos > 0 }

// CanRedo reports whether Redo would change the displayed mask.
func (h *History) CanRedo() bool { return h.pos < len(h.entries) }
