// Package editor implements the content editor's core: markdown-style
// formatting insertion, a bounded undo/redo history with debounced capture,
// and the keyboard dispatch that ties the two to a text surface.
package editor

// Range is a selection over the text, [Start, End) in runes. A collapsed
// range (Start == End) is a bare caret.
type Range struct {
	Start int
	End   int
}

// Empty reports whether the range is a collapsed caret.
func (r Range) Empty() bool { return r.Start == r.End }

// Caret returns a collapsed range at pos.
func Caret(pos int) Range { return Range{Start: pos, End: pos} }

// Format is a text formatting kind.
type Format int

const (
	Bold Format = iota
	Italic
	Underline
	Strikethrough
	Heading1
	Heading2
	Heading3
)

// markers returns the opening and closing tokens for wrapping formats, and
// the line prefix for headings (close empty).
func (f Format) markers() (open, close string) {
	switch f {
	case Bold:
		return "**", "**"
	case Italic:
		return "*", "*"
	case Underline:
		return "<u>", "</u>"
	case Strikethrough:
		return "~~", "~~"
	case Heading1:
		return "# ", ""
	case Heading2:
		return "## ", ""
	case Heading3:
		return "### ", ""
	}
	return "", ""
}

// Apply inserts the format's markers into text at sel and returns the new
// text and the new (collapsed) selection. With a non-empty selection the
// selected text is wrapped and the caret lands after the closing marker.
// With a bare caret an empty marker pair is inserted and the caret lands
// between the halves, so the user can type straight into it. Headings insert
// their prefix in front of the selected text with the caret after both.
// Apply never fails.
func Apply(text string, sel Range, f Format) (string, Range) {
	runes := []rune(text)
	start, end := clamp(sel.Start, len(runes)), clamp(sel.End, len(runes))
	if start > end {
		start, end = end, start
	}
	selected := string(runes[start:end])
	open, close := f.markers()

	var inserted string
	var caret int
	switch {
	case close == "":
		// Heading: prefix plus whatever was selected, caret after it all.
		inserted = open + selected
		caret = start + len([]rune(inserted))
	case selected != "":
		inserted = open + selected + close
		caret = start + len([]rune(inserted))
	default:
		inserted = open + close
		caret = start + len([]rune(open))
	}

	out := string(runes[:start]) + inserted + string(runes[end:])
	return out, Caret(caret)
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
