package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyWrapsSelection(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		sel      Range
		format   Format
		wantText string
		wantSel  Range
	}{
		{
			name:     "bold wraps selected word",
			text:     "la ngai cuu",
			sel:      Range{Start: 3, End: 7},
			format:   Bold,
			wantText: "la **ngai** cuu",
			wantSel:  Caret(11),
		},
		{
			name:     "italic caret lands after closing marker",
			text:     "abc",
			sel:      Range{Start: 0, End: 3},
			format:   Italic,
			wantText: "*abc*",
			wantSel:  Caret(5),
		},
		{
			name:     "underline uses html tags",
			text:     "xyz",
			sel:      Range{Start: 0, End: 3},
			format:   Underline,
			wantText: "<u>xyz</u>",
			wantSel:  Caret(10),
		},
		{
			name:     "strikethrough wraps",
			text:     "cu gung",
			sel:      Range{Start: 3, End: 7},
			format:   Strikethrough,
			wantText: "cu ~~gung~~",
			wantSel:  Caret(11),
		},
		{
			name:     "heading prefixes selection with caret after",
			text:     "Cong dung",
			sel:      Range{Start: 0, End: 9},
			format:   Heading2,
			wantText: "## Cong dung",
			wantSel:  Caret(12),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotSel := Apply(tt.text, tt.sel, tt.format)
			assert.Equal(t, tt.wantText, gotText)
			assert.Equal(t, tt.wantSel, gotSel)
		})
	}
}

func TestApplyEmptySelectionInsertsBracketPair(t *testing.T) {
	tests := []struct {
		name      string
		format    Format
		wantText  string
		wantCaret int
	}{
		{"bold", Bold, "****", 2},
		{"italic", Italic, "**", 1},
		{"underline", Underline, "<u></u>", 3},
		{"strikethrough", Strikethrough, "~~~~", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotSel := Apply("", Caret(0), tt.format)
			assert.Equal(t, tt.wantText, gotText)
			assert.Equal(t, Caret(tt.wantCaret), gotSel)
			assert.True(t, gotSel.Empty())
		})
	}
}

// A bold insertion at a bare caret leaves the caret between the marker
// halves, so the next typed character lands inside them.
func TestEmptyBoldThenTypingLandsInsideMarkers(t *testing.T) {
	text, sel := Apply("", Caret(0), Bold)
	assert.Equal(t, "****", text)

	runes := []rune(text)
	typed := string(runes[:sel.Start]) + "x" + string(runes[sel.Start:])
	assert.Equal(t, "**x**", typed)
}

func TestApplyMidTextEmptyCaret(t *testing.T) {
	text, sel := Apply("truoc sau", Caret(6), Bold)
	assert.Equal(t, "truoc ****sau", text)
	assert.Equal(t, Caret(8), sel)
}

func TestApplyHeadingAtBareCaret(t *testing.T) {
	text, sel := Apply("", Caret(0), Heading1)
	assert.Equal(t, "# ", text)
	assert.Equal(t, Caret(2), sel)
}

func TestApplyIsRuneSafe(t *testing.T) {
	// Vietnamese text is multi-byte; offsets are runes, not bytes
	text, sel := Apply("lá ngải cứu", Range{Start: 3, End: 7}, Bold)
	assert.Equal(t, "lá **ngải** cứu", text)
	assert.Equal(t, Caret(11), sel)
}

func TestApplyClampsOutOfRangeSelection(t *testing.T) {
	text, sel := Apply("ab", Range{Start: -5, End: 99}, Bold)
	assert.Equal(t, "**ab**", text)
	assert.Equal(t, Caret(6), sel)
}

func TestApplyNormalizesInvertedRange(t *testing.T) {
	text, _ := Apply("abcd", Range{Start: 3, End: 1}, Italic)
	assert.Equal(t, "a*bc*d", text)
}
