package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Undo          key.Binding
	Redo          key.Binding
	Bold          key.Binding
	Italic        key.Binding
	Underline     key.Binding
	Strikethrough key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Undo: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "hoàn tác")),
		Redo: key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "làm lại")),
		Bold: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "in đậm")),
		// ctrl+i is indistinguishable from tab in a terminal and tab
		// navigates form fields, so italic sits on ctrl+t.
		Italic:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "in nghiêng")),
		Underline: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "gạch chân")),
		// Terminals do not report shift with control chords either;
		// strikethrough takes ctrl+s (saving is on ctrl+d).
		Strikethrough: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "gạch ngang")),
	}
}

// Result carries the surface mutation a handled key produced. When Changed is
// true the caller must write Value/Sel back to the text surface.
type Result struct {
	Value   string
	Sel     Range
	Changed bool
}

// Controller binds the editor shortcut table to one text surface's history.
// At most one controller is active per surface: opening a form constructs a
// fresh Controller (and History), which replaces any previous binding, so
// there is no way to dispatch through a stale one.
type Controller struct {
	keys    keyMap
	history *History
}

// NewController binds a controller to the given history.
func NewController(h *History) *Controller {
	return &Controller{keys: defaultKeyMap(), history: h}
}

// History returns the bound history store.
func (c *Controller) History() *History { return c.history }

// HandleKey dispatches a key event against the current surface state. The
// second return reports whether the key was consumed; consumed keys must not
// reach the surface's default handling. Keys that are not consumed should be
// fed to the surface and then announced via NoteInput.
func (c *Controller) HandleKey(msg tea.KeyMsg, value string, sel Range) (Result, bool) {
	switch {
	case key.Matches(msg, c.keys.Undo):
		if snap, ok := c.history.Undo(); ok {
			return Result{Value: snap.Value, Sel: snap.Sel, Changed: true}, true
		}
		return Result{}, true

	case key.Matches(msg, c.keys.Redo):
		if snap, ok := c.history.Redo(); ok {
			return Result{Value: snap.Value, Sel: snap.Sel, Changed: true}, true
		}
		return Result{}, true

	case key.Matches(msg, c.keys.Bold):
		return c.applyFormat(Bold, value, sel), true
	case key.Matches(msg, c.keys.Italic):
		return c.applyFormat(Italic, value, sel), true
	case key.Matches(msg, c.keys.Underline):
		return c.applyFormat(Underline, value, sel), true
	case key.Matches(msg, c.keys.Strikethrough):
		return c.applyFormat(Strikethrough, value, sel), true
	}
	return Result{}, false
}

// ApplyFormat runs a formatting action from outside the shortcut table (the
// form's toolbar keys for headings use this). It snapshots the pre-format
// state, applies the format, then folds the post-format state into the same
// history entry so the whole thing is one undoable step.
func (c *Controller) ApplyFormat(f Format, value string, sel Range) Result {
	return c.applyFormat(f, value, sel)
}

func (c *Controller) applyFormat(f Format, value string, sel Range) Result {
	captured := c.history.CaptureNow(value, sel)
	newValue, newSel := Apply(value, sel, f)
	// While capture is suppressed after an undo/redo restore there is no
	// fresh pre-format entry under the cursor; overwriting it would corrupt
	// the snapshot the restore just landed on.
	if captured {
		c.history.ReplaceCurrent(newValue, newSel)
	}
	return Result{Value: newValue, Sel: newSel, Changed: true}
}

// NoteInput forwards a plain keystroke to the history's debounce state.
// Returns true when the caller should (re)start the debounce timer.
func (c *Controller) NoteInput() bool {
	return c.history.NoteInput()
}
