package editor

import "time"

const (
	// MaxEntries bounds the undo history; the oldest snapshot is evicted
	// once the cap is reached.
	MaxEntries = 50

	// DebounceInterval is how long free-form typing must pause before a
	// snapshot is captured, coalescing rapid keystrokes into one entry.
	DebounceInterval = 500 * time.Millisecond

	// suppressionGrace is how long after a programmatic restore the input
	// events it triggers are swallowed instead of captured.
	suppressionGrace = 100 * time.Millisecond
)

// Snapshot is one point in undo/redo history: the full text plus the
// selection at capture time. Immutable once pushed.
type Snapshot struct {
	Value string
	Sel   Range
}

// captureState tracks what the capture path is currently doing. Restoring a
// snapshot writes to the text surface, which fires the same input events as
// typing; Suppressed swallows those so a restore cannot corrupt its own
// history.
type captureState int

const (
	stateIdle captureState = iota
	stateAwaitingDebounce
	stateSuppressed
)

// History is a bounded stack of editor snapshots with a cursor. Invariant:
// 0 <= cursor < len(entries) whenever entries is non-empty; cursor is -1 only
// when empty. One History exists per editing session; opening a form calls
// Reset, so sessions never see each other's past.
type History struct {
	entries         []Snapshot
	cursor          int
	state           captureState
	suppressedUntil time.Time
	now             func() time.Time
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{cursor: -1, now: time.Now}
}

// Reset clears the history to a single entry holding the session's initial
// state.
func (h *History) Reset(value string, sel Range) {
	h.entries = []Snapshot{{Value: value, Sel: sel}}
	h.cursor = 0
	h.state = stateIdle
}

// NoteInput records that a plain keystroke happened. It returns true when the
// caller should (re)start the debounce timer; false means the input came from
// a history restore and must not be captured.
func (h *History) NoteInput() bool {
	if h.suppressed() {
		return false
	}
	h.state = stateAwaitingDebounce
	return true
}

// CaptureDebounced takes the snapshot the debounce timer was waiting for.
// A no-op unless input is actually pending, so a stale timer firing after an
// undo does nothing.
func (h *History) CaptureDebounced(value string, sel Range) {
	if h.state != stateAwaitingDebounce {
		return
	}
	h.push(value, sel)
	h.state = stateIdle
}

// CaptureNow snapshots immediately, used right before a formatting action so
// the format is always a single undoable step regardless of debounce timing.
// Returns false while suppressed.
func (h *History) CaptureNow(value string, sel Range) bool {
	if h.suppressed() {
		return false
	}
	h.push(value, sel)
	h.state = stateIdle
	return true
}

// ReplaceCurrent overwrites the entry at the cursor in place. Used after a
// formatting insertion: the pre-format snapshot just captured is updated to
// the post-format state instead of growing the stack by one.
func (h *History) ReplaceCurrent(value string, sel Range) {
	if h.cursor < 0 || h.cursor >= len(h.entries) {
		return
	}
	h.entries[h.cursor] = Snapshot{Value: value, Sel: sel}
}

// Undo steps the cursor back and returns the snapshot to restore. The second
// return is false at the start of history. Restoring is expected to mutate
// the text surface; capture stays suppressed for a short grace period so the
// input event that write triggers is swallowed.
func (h *History) Undo() (Snapshot, bool) {
	if h.cursor <= 0 {
		return Snapshot{}, false
	}
	h.cursor--
	h.suppress()
	return h.entries[h.cursor], true
}

// Redo steps the cursor forward, symmetric to Undo.
func (h *History) Redo() (Snapshot, bool) {
	if h.cursor < 0 || h.cursor >= len(h.entries)-1 {
		return Snapshot{}, false
	}
	h.cursor++
	h.suppress()
	return h.entries[h.cursor], true
}

// CanUndo reports whether Undo would restore something.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would restore something.
func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.entries)-1 }

// Len returns the number of snapshots held.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the current cursor index, -1 when empty.
func (h *History) Cursor() int { return h.cursor }

// Current returns the snapshot at the cursor.
func (h *History) Current() (Snapshot, bool) {
	if h.cursor < 0 || h.cursor >= len(h.entries) {
		return Snapshot{}, false
	}
	return h.entries[h.cursor], true
}

func (h *History) push(value string, sel Range) {
	// A new edit discards the redo branch.
	if h.cursor < len(h.entries)-1 {
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, Snapshot{Value: value, Sel: sel})
	if len(h.entries) > MaxEntries {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:MaxEntries]
	}
	h.cursor = len(h.entries) - 1
}

func (h *History) suppress() {
	h.state = stateSuppressed
	h.suppressedUntil = h.now().Add(suppressionGrace)
}

func (h *History) suppressed() bool {
	if h.state != stateSuppressed {
		return false
	}
	if h.now().Before(h.suppressedUntil) {
		return true
	}
	h.state = stateIdle
	return false
}
