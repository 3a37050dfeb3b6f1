package app

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/tranvantrung27/herbadmin/internal/auth"
	"github.com/tranvantrung27/herbadmin/internal/content"
	"github.com/tranvantrung27/herbadmin/internal/storage"
	"github.com/tranvantrung27/herbadmin/internal/store"
)

// View identifies which screen is active
type View int

const (
	ViewList View = iota
	ViewDetail
	ViewForm
	ViewCategories
	ViewSignIn
)

// confirmKind identifies which pending action the confirm overlay guards
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmToggle
	confirmDeleteCategory
)

// Model is the main application model implementing tea.Model
type Model struct {
	store  store.Store
	bucket *storage.Bucket
	auth   *auth.Authenticator

	tab  content.Tab
	view View

	// List view
	docs    []store.Doc
	cursor  int
	loading bool
	listGen int64 // current list request ID for stale-result cancellation
	width   int
	height  int
	ready   bool

	// Fuzzy filter
	searching   bool
	searchInput textinput.Model
	filtered    []int // indexes into docs, nil when no filter active

	// Detail view
	selectedID string
	detail     store.Doc
	related    []store.Doc
	detailView viewport.Model
	docGen     int64

	// Form view (add/edit)
	form formState

	// Categories view
	categories    []content.Category
	catCursor     int
	catForm       categoryFormState
	catGen        int64
	seedAttempted bool

	// Confirm overlay
	confirming  confirmKind
	confirmID   string
	confirmName string

	// Sign-in view
	signIn signInState

	// Mutation in flight; blocks duplicate submits
	saving bool

	// File watcher (DB file changes from other processes)
	watcher *fsnotify.Watcher

	// Help overlay
	showingHelp bool

	// Status message (transient feedback)
	statusMessage     string
	statusIsError     bool
	statusMessageTime time.Time
}

// ClearStatusMsg is sent to clear the status message after delay
type ClearStatusMsg struct{}

// ClearStatusAfter returns a command that clears the status message after a delay
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// ListLoadedMsg is sent when a tab's records finish loading
type ListLoadedMsg struct {
	Tab  content.Tab
	Docs []store.Doc
	Gen  int64 // matched against listGen to drop stale loads
	Err  error
}

// DocLoadedMsg is sent when a single record and its related records load
type DocLoadedMsg struct {
	Doc     store.Doc
	Related []store.Doc
	Gen     int64
	Err     error
}

// CategoriesLoadedMsg is sent when the category list loads
type CategoriesLoadedMsg struct {
	Categories []content.Category
	Gen        int64
	Err        error
}

// SavedMsg is sent when a create or update completes
type SavedMsg struct {
	ID  string
	Err error
}

// DeletedMsg is sent when a delete completes
type DeletedMsg struct {
	ID  string
	Err error
}

// ToggledMsg is sent when a visibility toggle completes
type ToggledMsg struct {
	ID     string
	Active bool
	Err    error
}

// UploadedMsg is sent when an image upload completes
type UploadedMsg struct {
	URL string
	Err error
}

// CategorySavedMsg is sent when a category create/update/delete completes
type CategorySavedMsg struct {
	Err error
}

// SeededMsg is sent when default category seeding completes
type SeededMsg struct {
	Count int
	Err   error
}

// EditorDebounceMsg fires after the content editor's snapshot debounce delay
type EditorDebounceMsg struct {
	Seq int64 // matched against the current input sequence
}

// ScheduleEditorSnapshot returns a command that fires after the debounce delay
func ScheduleEditorSnapshot(delay time.Duration, seq int64) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return EditorDebounceMsg{Seq: seq}
	})
}

// FsEventMsg is sent when the database file changes on disk
type FsEventMsg struct{}

// DebouncedReloadMsg triggers the actual reload after fs events settle
type DebouncedReloadMsg struct{}

// ScheduleFsReload returns a command that fires the debounced reload
func ScheduleFsReload(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return DebouncedReloadMsg{}
	})
}
