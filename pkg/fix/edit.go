// Package fix holds the text-edit plumbing shared by the rewrite planner
// and the reporters: byte-offset edits with validation, conflict handling,
// single-pass application, and unified diff generation.
package fix

import (
	"fmt"
	"sort"
)

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText. The
// planner records one edit per rewritten invocation, offsets indexing the
// text the rewrite was planned against.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// ValidationError describes an edit with an impossible range.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError describes two overlapping edits.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// ValidateEdits checks every edit's range against the content length.
// Returns the first invalid edit found, nil when all are applicable.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		if edit.StartOffset < 0 {
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		}
		if edit.EndOffset < edit.StartOffset {
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		}
		if edit.EndOffset > contentLen {
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}
	return nil
}

// SortEdits orders edits by start offset, then end offset, the order
// ApplyEdits consumes them in.
func SortEdits(edits []TextEdit) {
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].StartOffset != edits[j].StartOffset {
			return edits[i].StartOffset < edits[j].StartOffset
		}
		return edits[i].EndOffset < edits[j].EndOffset
	})
}

// DetectConflicts reports the first pair of overlapping edits in a sorted
// slice, nil when none overlap.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		if edits[i].StartOffset < edits[i-1].EndOffset {
			return &ConflictError{Edit1: edits[i-1], Edit2: edits[i]}
		}
	}
	return nil
}

// PrepareEdits validates, sorts, and rejects overlapping edits. The input
// slice is left alone; the returned slice is ready for ApplyEdits.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	result := make([]TextEdit, len(edits))
	copy(result, edits)
	SortEdits(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}
	return result, nil
}

// FilterConflicts splits a sorted slice into edits that can apply together
// and edits that overlap an earlier one. Overlaps happen when an invocation
// is rewritten inside another's argument span; the inner edit is deferred
// to a later pass, so the greedy earlier-start-wins choice loses nothing.
func FilterConflicts(edits []TextEdit) (accepted, deferred []TextEdit) {
	if len(edits) == 0 {
		return nil, nil
	}

	accepted = make([]TextEdit, 0, len(edits))
	accepted = append(accepted, edits[0])
	lastEnd := edits[0].EndOffset

	for _, edit := range edits[1:] {
		if edit.StartOffset >= lastEnd {
			accepted = append(accepted, edit)
			lastEnd = edit.EndOffset
			continue
		}
		deferred = append(deferred, edit)
	}
	return accepted, deferred
}
