package app

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/tranvantrung27/herbadmin/internal/auth"
	"github.com/tranvantrung27/herbadmin/internal/content"
	"github.com/tranvantrung27/herbadmin/internal/storage"
	"github.com/tranvantrung27/herbadmin/internal/store"
)

// NewModel creates and initializes a new application model. dbPath, when
// non-empty, is watched so external writes refresh the list automatically.
func NewModel(st store.Store, bucket *storage.Bucket, authn *auth.Authenticator, dbPath string) Model {
	si := textinput.New()
	si.Placeholder = "Tìm kiếm..."
	si.CharLimit = 100
	si.Width = 40

	// Watch the database directory; SQLite WAL writes touch sibling files,
	// so watching the file alone misses commits
	var watcher *fsnotify.Watcher
	if dbPath != "" {
		watcher, _ = fsnotify.NewWatcher()
		if watcher != nil {
			watcher.Add(filepath.Dir(dbPath))
		}
	}

	view := ViewList
	if authn != nil && authn.Enabled() && !authn.IsAuthenticated() {
		view = ViewSignIn
	}

	return Model{
		store:       st,
		bucket:      bucket,
		auth:        authn,
		tab:         content.TabDiseases,
		view:        view,
		loading:     true,
		searchInput: si,
		form:        newFormState(),
		catForm:     newCategoryFormState(),
		signIn:      newSignInState(),
		watcher:     watcher,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadListAsync(m.tab, m.listGen),
		m.waitForFsEvent(),
	)
}

// waitForFsEvent returns a command that waits for the next filesystem event
func (m Model) waitForFsEvent() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case _, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			// Drain the burst; one reload covers it
			for {
				select {
				case <-m.watcher.Events:
				default:
					return FsEventMsg{}
				}
			}
		case <-m.watcher.Errors:
			return nil
		}
	}
}

// visibleDocs returns the docs the list view shows, honoring any active
// fuzzy filter
func (m Model) visibleDocs() []store.Doc {
	if m.filtered == nil {
		return m.docs
	}
	out := make([]store.Doc, 0, len(m.filtered))
	for _, idx := range m.filtered {
		if idx >= 0 && idx < len(m.docs) {
			out = append(out, m.docs[idx])
		}
	}
	return out
}

// currentDoc returns the doc under the cursor, false when the list is empty
func (m Model) currentDoc() (store.Doc, bool) {
	docs := m.visibleDocs()
	if len(docs) == 0 || m.cursor < 0 || m.cursor >= len(docs) {
		return store.Doc{}, false
	}
	return docs[m.cursor], true
}

// clampCursor keeps the cursor inside the visible list
func (m *Model) clampCursor() {
	n := len(m.visibleDocs())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// setStatus records a transient status line message
func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMessage = msg
	m.statusIsError = isErr
	m.statusMessageTime = time.Now()
}

// Close releases the model's watcher. Call after the program exits.
func (m Model) Close() {
	if m.watcher != nil {
		m.watcher.Close()
	}
}
