package fix

import "bytes"

// ApplyEdits applies sorted, non-overlapping edits to content in one pass,
// returning a fresh buffer. Offsets index the original content throughout,
// so earlier replacements never invalidate later ones. Prepare the slice
// with PrepareEdits or FilterConflicts first.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	size := len(content)
	for _, e := range edits {
		size += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	var out bytes.Buffer
	out.Grow(size)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes()
}
