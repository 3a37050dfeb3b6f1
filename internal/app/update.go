package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"github.com/tranvantrung27/herbadmin/internal/clipboard"
	"github.com/tranvantrung27/herbadmin/internal/content"
	"github.com/tranvantrung27/herbadmin/internal/editor"
	"github.com/tranvantrung27/herbadmin/internal/render"
	"github.com/tranvantrung27/herbadmin/internal/storage"
	"github.com/tranvantrung27/herbadmin/internal/store"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Filesystem events schedule a debounced reload so external writes to the
	// database show up without a manual refresh
	if _, ok := msg.(FsEventMsg); ok {
		return m, tea.Batch(
			ScheduleFsReload(100*time.Millisecond),
			m.waitForFsEvent(),
		)
	}
	if _, ok := msg.(DebouncedReloadMsg); ok {
		m.listGen++
		cmds := []tea.Cmd{m.loadListAsync(m.tab, m.listGen)}
		if m.view == ViewCategories {
			m.catGen++
			cmds = append(cmds, m.loadCategoriesAsync(m.catGen))
		}
		return m, tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detailView.Width = msg.Width - 4
		m.detailView.Height = msg.Height - 6
		m.form.content.SetWidth(msg.Width - 8)
		m.form.content.SetHeight(10)
		m.ready = true
		return m, nil

	case ListLoadedMsg:
		if msg.Gen != m.listGen || msg.Tab != m.tab {
			return m, nil // stale load from a previous tab or refresh
		}
		m.loading = false
		if msg.Err != nil {
			m.setStatus("Không tải được danh sách: "+msg.Err.Error(), true)
			return m, ClearStatusAfter(4 * time.Second)
		}
		m.docs = msg.Docs
		m.refilter()
		m.clampCursor()
		return m, nil

	case DocLoadedMsg:
		if msg.Gen != m.docGen {
			return m, nil
		}
		if msg.Err != nil {
			// A failed fetch surfaces inline and leaves the current view alone:
			// the detail pane keeps its cached copy, the form reports the error
			if m.view == ViewForm && m.form.loading {
				m.form.loading = false
				m.form.errMsg = "Không tải được bản ghi: " + msg.Err.Error()
				return m, nil
			}
			m.setStatus("Không tải được bản ghi: "+msg.Err.Error(), true)
			return m, ClearStatusAfter(4 * time.Second)
		}
		if m.view == ViewForm && m.form.loading {
			m.form.loading = false
			m.form.startEdit(msg.Doc, m.tab, m.categories)
			return m, nil
		}
		m.detail = msg.Doc
		m.related = msg.Related
		if m.ready {
			m.detailView.SetContent(m.renderDetailContent())
			m.detailView.GotoTop()
		}
		return m, nil

	case CategoriesLoadedMsg:
		if msg.Gen != m.catGen {
			return m, nil
		}
		if msg.Err != nil {
			m.setStatus("Không tải được danh mục: "+msg.Err.Error(), true)
			return m, ClearStatusAfter(4 * time.Second)
		}
		m.categories = msg.Categories
		if m.catCursor >= len(m.categories) {
			m.catCursor = max(0, len(m.categories)-1)
		}
		// An open edit form may have landed before its category list did;
		// point the picker back at the record's stored category
		if m.view == ViewForm && m.form.catName != "" {
			m.form.resolveCategory(m.categories)
		}
		// First visit to an empty category list seeds the defaults once
		if len(m.categories) == 0 && !m.seedAttempted && m.view == ViewCategories {
			m.seedAttempted = true
			return m, m.seedCategoriesAsync()
		}
		return m, nil

	case SavedMsg:
		m.saving = false
		if msg.Err != nil {
			m.form.errMsg = "Lưu thất bại: " + msg.Err.Error()
			return m, nil
		}
		m.view = ViewList
		m.listGen++
		m.setStatus("Đã lưu thành công", false)
		return m, tea.Batch(m.loadListAsync(m.tab, m.listGen), ClearStatusAfter(3*time.Second))

	case DeletedMsg:
		m.saving = false
		if msg.Err != nil {
			m.setStatus("Xoá thất bại: "+msg.Err.Error(), true)
			return m, ClearStatusAfter(4 * time.Second)
		}
		if m.view == ViewDetail && m.selectedID == msg.ID {
			m.view = ViewList
			m.selectedID = ""
		}
		m.listGen++
		m.setStatus("Đã xoá", false)
		return m, tea.Batch(m.loadListAsync(m.tab, m.listGen), ClearStatusAfter(3*time.Second))

	case ToggledMsg:
		m.saving = false
		if msg.Err != nil {
			m.setStatus("Không đổi được trạng thái: "+msg.Err.Error(), true)
			return m, ClearStatusAfter(4 * time.Second)
		}
		m.listGen++
		cmds := []tea.Cmd{m.loadListAsync(m.tab, m.listGen), ClearStatusAfter(3 * time.Second)}
		if msg.Active {
			m.setStatus("Đã hiển thị bài viết", false)
		} else {
			m.setStatus("Đã ẩn bài viết", false)
		}
		if m.view == ViewDetail && m.selectedID == msg.ID {
			m.docGen++
			cmds = append(cmds, m.loadDocAsync(m.tab, msg.ID, m.docGen))
		}
		return m, tea.Batch(cmds...)

	case UploadedMsg:
		if msg.Err != nil {
			errText := "Tải ảnh thất bại: " + msg.Err.Error()
			switch {
			case m.view == ViewForm:
				m.form.errMsg = errText
			case m.catForm.active:
				m.catForm.errMsg = errText
			}
			return m, nil
		}
		switch {
		case m.view == ViewForm:
			m.form.image.SetValue(msg.URL)
			m.form.errMsg = ""
		case m.catForm.active:
			m.catForm.image.SetValue(msg.URL)
			m.catForm.errMsg = ""
		}
		m.setStatus("Đã tải ảnh lên", false)
		return m, ClearStatusAfter(3 * time.Second)

	case CategorySavedMsg:
		m.saving = false
		if msg.Err != nil {
			m.catForm.errMsg = "Lưu danh mục thất bại: " + msg.Err.Error()
			return m, nil
		}
		m.catForm.active = false
		m.catGen++
		return m, m.loadCategoriesAsync(m.catGen)

	case SeededMsg:
		if msg.Err != nil {
			m.setStatus("Không tạo được danh mục mặc định: "+msg.Err.Error(), true)
			return m, ClearStatusAfter(4 * time.Second)
		}
		m.setStatus(fmt.Sprintf("Đã tạo %d danh mục mặc định", msg.Count), false)
		m.catGen++
		return m, tea.Batch(m.loadCategoriesAsync(m.catGen), ClearStatusAfter(3*time.Second))

	case EditorDebounceMsg:
		if m.view == ViewForm && msg.Seq == m.form.seq {
			m.form.ctrl.History().CaptureDebounced(m.form.content.Value(), editor.Caret(caretOffset(m.form.content)))
		}
		return m, nil

	case ClearStatusMsg:
		m.statusMessage = ""
		m.statusIsError = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showingHelp {
		m.showingHelp = false
		return m, nil
	}

	// Confirm overlay intercepts everything
	if m.confirming != confirmNone {
		return m.handleConfirmKey(msg)
	}

	switch m.view {
	case ViewSignIn:
		return m.handleSignInKey(msg)
	case ViewList:
		return m.handleListKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewForm:
		return m.handleFormKey(msg)
	case ViewCategories:
		return m.handleCategoriesKey(msg)
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		kind, id := m.confirming, m.confirmID
		m.confirming = confirmNone
		m.confirmID = ""
		m.confirmName = ""
		m.saving = true
		switch kind {
		case confirmDelete:
			return m, m.deleteDocAsync(m.tab, id)
		case confirmToggle:
			doc, ok := m.docByID(id)
			if !ok {
				m.saving = false
				return m, nil
			}
			return m, m.toggleActiveAsync(m.tab, id, !content.IsActive(doc))
		case confirmDeleteCategory:
			return m, m.deleteCategoryAsync(id)
		}
		m.saving = false
		return m, nil
	case "n", "esc":
		m.confirming = confirmNone
		m.confirmID = ""
		m.confirmName = ""
		return m, nil
	}
	return m, nil
}

func (m Model) handleSignInKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.signIn.toggleFocus()
		return m, nil
	case "enter":
		email := strings.TrimSpace(m.signIn.email.Value())
		if err := m.auth.SignIn(email, m.signIn.password.Value()); err != nil {
			m.signIn.errMsg = "Email hoặc mật khẩu không đúng"
			m.signIn.password.SetValue("")
			return m, nil
		}
		m.view = ViewList
		m.listGen++
		return m, m.loadListAsync(m.tab, m.listGen)
	}
	var cmd tea.Cmd
	if m.signIn.focus == 0 {
		m.signIn.email, cmd = m.signIn.email.Update(msg)
	} else {
		m.signIn.password, cmd = m.signIn.password.Update(msg)
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the filter input is focused, most keys type into it
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			m.filtered = nil
			m.clampCursor()
			return m, nil
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		case "up", "down":
			// fall through to cursor movement below
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.refilter()
			m.clampCursor()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showingHelp = true
		return m, nil
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, nil
	case "esc":
		if m.filtered != nil {
			m.searchInput.SetValue("")
			m.filtered = nil
			m.clampCursor()
		}
		return m, nil
	case "tab":
		return m.switchTab(m.tab.Next())
	case "shift+tab":
		return m.switchTab(m.tab.Prev())
	case "1":
		return m.switchTab(content.TabDiseases)
	case "2":
		return m.switchTab(content.TabHealthy)
	case "3":
		return m.switchTab(content.TabHerbLibrary)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.visibleDocs())-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		doc, ok := m.currentDoc()
		if !ok {
			return m, nil
		}
		m.view = ViewDetail
		m.selectedID = doc.ID
		m.detail = doc
		m.related = nil
		m.docGen++
		if m.ready {
			m.detailView.SetContent(m.renderDetailContent())
			m.detailView.GotoTop()
		}
		return m, m.loadDocAsync(m.tab, doc.ID, m.docGen)
	case "a":
		m.view = ViewForm
		m.form.startAdd(m.tab)
		if m.tab.UsesLibrarySchema() {
			m.catGen++
			return m, m.loadCategoriesAsync(m.catGen)
		}
		return m, nil
	case "e":
		doc, ok := m.currentDoc()
		if !ok {
			return m, nil
		}
		return m.openEdit(doc.ID)
	case "d":
		doc, ok := m.currentDoc()
		if !ok {
			return m, nil
		}
		m.confirming = confirmDelete
		m.confirmID = doc.ID
		m.confirmName = content.Title(doc)
		return m, nil
	case "t":
		doc, ok := m.currentDoc()
		if !ok {
			return m, nil
		}
		m.confirming = confirmToggle
		m.confirmID = doc.ID
		m.confirmName = content.Title(doc)
		return m, nil
	case "c":
		m.view = ViewCategories
		m.catForm.active = false
		m.catGen++
		return m, m.loadCategoriesAsync(m.catGen)
	case "y":
		doc, ok := m.currentDoc()
		if !ok {
			return m, nil
		}
		if err := clipboard.CopyFragment(render.ListItemHTML(doc, m.tab)); err != nil {
			m.setStatus("Không sao chép được: "+err.Error(), true)
		} else {
			m.setStatus("Đã sao chép HTML vào clipboard", false)
		}
		return m, ClearStatusAfter(3 * time.Second)
	case "r":
		m.loading = true
		m.listGen++
		return m, m.loadListAsync(m.tab, m.listGen)
	case "ctrl+x":
		if m.auth != nil && m.auth.Enabled() {
			m.auth.SignOut()
			m.view = ViewSignIn
			m.signIn = newSignInState()
		}
		return m, nil
	}
	return m, nil
}

// switchTab moves to another tab: back to its list, selection cleared
func (m Model) switchTab(tab content.Tab) (tea.Model, tea.Cmd) {
	if tab == m.tab && m.view == ViewList {
		return m, nil
	}
	m.tab = tab
	m.view = ViewList
	m.selectedID = ""
	m.detail = store.Doc{}
	m.related = nil
	m.cursor = 0
	m.searching = false
	m.searchInput.Blur()
	m.searchInput.SetValue("")
	m.filtered = nil
	m.docs = nil
	m.loading = true
	m.listGen++
	return m, m.loadListAsync(m.tab, m.listGen)
}

// openEdit fetches the target record fresh before showing the form
func (m Model) openEdit(id string) (tea.Model, tea.Cmd) {
	m.view = ViewForm
	m.form.loading = true
	m.form.docID = id
	m.form.errMsg = ""
	m.docGen++
	cmds := []tea.Cmd{m.loadDocAsync(m.tab, id, m.docGen)}
	if m.tab.UsesLibrarySchema() {
		m.catGen++
		cmds = append(cmds, m.loadCategoriesAsync(m.catGen))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "q":
		m.view = ViewList
		m.selectedID = ""
		m.loading = true
		m.listGen++
		return m, m.loadListAsync(m.tab, m.listGen)
	case "e":
		return m.openEdit(m.detail.ID)
	case "d":
		m.confirming = confirmDelete
		m.confirmID = m.detail.ID
		m.confirmName = content.Title(m.detail)
		return m, nil
	case "t":
		m.confirming = confirmToggle
		m.confirmID = m.detail.ID
		m.confirmName = content.Title(m.detail)
		return m, nil
	case "y":
		if err := clipboard.CopyFragment(render.DetailHTML(m.detail, m.tab, m.related)); err != nil {
			m.setStatus("Không sao chép được: "+err.Error(), true)
		} else {
			m.setStatus("Đã sao chép HTML vào clipboard", false)
		}
		return m, ClearStatusAfter(3 * time.Second)
	case "u":
		imageURL := content.ImageURL(m.detail)
		if imageURL == "" {
			m.setStatus("Bản ghi này không có ảnh", true)
			return m, ClearStatusAfter(3 * time.Second)
		}
		if err := clipboard.CopyText(imageURL); err != nil {
			m.setStatus("Không sao chép được: "+err.Error(), true)
		} else {
			m.setStatus("Đã sao chép link ảnh", false)
		}
		return m, ClearStatusAfter(3 * time.Second)
	case "up", "k":
		m.detailView.LineUp(1)
		return m, nil
	case "down", "j":
		m.detailView.LineDown(1)
		return m, nil
	case "pgup":
		m.detailView.HalfViewUp()
		return m, nil
	case "pgdown":
		m.detailView.HalfViewDown()
		return m, nil
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.loading {
		if msg.String() == "esc" {
			m.form.loading = false
			m.view = ViewList
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.view = ViewList
		m.loading = true
		m.listGen++
		return m, m.loadListAsync(m.tab, m.listGen)
	case "tab":
		m.form.nextField(m.tab)
		return m, nil
	case "shift+tab":
		m.form.prevField(m.tab)
		return m, nil
	case "ctrl+d":
		if m.saving {
			return m, nil // a save is already in flight
		}
		if errMsg := m.form.validate(m.tab, m.categories); errMsg != "" {
			m.form.errMsg = errMsg
			return m, nil
		}
		m.form.errMsg = ""
		m.saving = true
		return m, m.saveDocAsync(m.tab, m.form.docID, m.form.buildData(m.tab, m.categories))
	case "ctrl+o":
		path := strings.TrimSpace(m.form.image.Value())
		if path == "" || looksLikeURL(path) {
			m.form.errMsg = "Nhập đường dẫn file ảnh trước khi tải lên"
			return m, nil
		}
		return m, m.uploadAsync(path, storage.PrefixArticles)
	}

	// Category picker cycles with arrows
	if m.form.focus == fieldCategory {
		switch msg.String() {
		case "left", "up":
			if m.form.catIndex > 0 && m.form.catIndex < len(m.categories) {
				m.form.catIndex--
				m.form.catName = m.categories[m.form.catIndex].Name
			}
			return m, nil
		case "right", "down":
			if m.form.catIndex < len(m.categories)-1 {
				m.form.catIndex++
				m.form.catName = m.categories[m.form.catIndex].Name
			}
			return m, nil
		}
		return m, nil
	}

	// The content editor owns undo/redo and formatting shortcuts
	if m.form.focus == fieldContent {
		value := m.form.content.Value()
		sel := editor.Caret(caretOffset(m.form.content))

		if res, consumed := m.form.ctrl.HandleKey(msg, value, sel); consumed {
			if res.Changed {
				m.form.content.SetValue(res.Value)
				setCaret(&m.form.content, res.Sel.Start)
			}
			return m, nil
		}
		switch msg.String() {
		case "alt+1", "alt+2", "alt+3":
			f := editor.Heading1
			switch msg.String() {
			case "alt+2":
				f = editor.Heading2
			case "alt+3":
				f = editor.Heading3
			}
			res := m.form.ctrl.ApplyFormat(f, value, sel)
			m.form.content.SetValue(res.Value)
			setCaret(&m.form.content, res.Sel.Start)
			return m, nil
		}

		var cmd tea.Cmd
		m.form.content, cmd = m.form.content.Update(msg)
		cmds := []tea.Cmd{cmd}
		if m.form.ctrl.NoteInput() {
			m.form.seq++
			cmds = append(cmds, ScheduleEditorSnapshot(editor.DebounceInterval, m.form.seq))
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	switch m.form.focus {
	case fieldImage:
		m.form.image, cmd = m.form.image.Update(msg)
	case fieldTitle:
		m.form.title, cmd = m.form.title.Update(msg)
	case fieldSubtitle:
		m.form.subtitle, cmd = m.form.subtitle.Update(msg)
	}
	return m, cmd
}

func (m Model) handleCategoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.catForm.active {
		switch msg.String() {
		case "esc":
			m.catForm.active = false
			return m, nil
		case "tab", "shift+tab":
			m.catForm.toggleFocus()
			return m, nil
		case "ctrl+o":
			path := strings.TrimSpace(m.catForm.image.Value())
			if path == "" || looksLikeURL(path) {
				m.catForm.errMsg = "Nhập đường dẫn file ảnh trước khi tải lên"
				return m, nil
			}
			return m, m.uploadAsync(path, storage.PrefixCategories)
		case "enter":
			name := strings.TrimSpace(m.catForm.name.Value())
			if name == "" {
				m.catForm.errMsg = "Vui lòng nhập tên danh mục"
				return m, nil
			}
			if content.CategoryExists(m.categories, name, m.catForm.catID) {
				m.catForm.errMsg = "Danh mục này đã tồn tại"
				return m, nil
			}
			m.catForm.errMsg = ""
			m.saving = true
			return m, m.saveCategoryAsync(m.catForm.catID, name, strings.TrimSpace(m.catForm.image.Value()))
		}
		var cmd tea.Cmd
		if m.catForm.focus == 0 {
			m.catForm.name, cmd = m.catForm.name.Update(msg)
		} else {
			m.catForm.image, cmd = m.catForm.image.Update(msg)
		}
		return m, cmd
	}

	switch msg.String() {
	case "esc", "q", "c":
		m.view = ViewList
		m.loading = true
		m.listGen++
		return m, m.loadListAsync(m.tab, m.listGen)
	case "up", "k":
		if m.catCursor > 0 {
			m.catCursor--
		}
		return m, nil
	case "down", "j":
		if m.catCursor < len(m.categories)-1 {
			m.catCursor++
		}
		return m, nil
	case "a":
		m.catForm.start(nil)
		return m, nil
	case "e":
		if m.catCursor < len(m.categories) {
			c := m.categories[m.catCursor]
			m.catForm.start(&c)
		}
		return m, nil
	case "d":
		if m.catCursor < len(m.categories) {
			m.confirming = confirmDeleteCategory
			m.confirmID = m.categories[m.catCursor].ID
			m.confirmName = m.categories[m.catCursor].Name
		}
		return m, nil
	case "s":
		return m, m.seedCategoriesAsync()
	case "y":
		if m.catCursor < len(m.categories) {
			c := m.categories[m.catCursor]
			if err := clipboard.CopyFragment(render.CategoryRowHTML(c)); err != nil {
				m.setStatus("Không sao chép được: "+err.Error(), true)
			} else {
				m.setStatus("Đã sao chép HTML vào clipboard", false)
			}
		}
		return m, ClearStatusAfter(3 * time.Second)
	}
	return m, nil
}

// docByID finds a loaded doc by id, checking the detail view first
func (m Model) docByID(id string) (store.Doc, bool) {
	if m.detail.ID == id && m.detail.ID != "" {
		return m.detail, true
	}
	for _, d := range m.docs {
		if d.ID == id {
			return d, true
		}
	}
	return store.Doc{}, false
}

// refilter recomputes the fuzzy match set from the search input
func (m *Model) refilter() {
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.filtered = nil
		return
	}
	titles := make([]string, len(m.docs))
	for i, d := range m.docs {
		titles[i] = content.Title(d) + " " + content.Subtitle(d)
	}
	matches := fuzzy.Find(query, titles)
	filtered := make([]int, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, match.Index)
	}
	m.filtered = filtered
}

// caretOffset converts the textarea's row/column cursor into a rune offset
// into Value()
func caretOffset(ta textarea.Model) int {
	value := ta.Value()
	row := ta.Line()
	col := ta.LineInfo().StartColumn + ta.LineInfo().ColumnOffset

	offset := 0
	for i, line := range strings.Split(value, "\n") {
		if i == row {
			runes := len([]rune(line))
			if col > runes {
				col = runes
			}
			return offset + col
		}
		offset += len([]rune(line)) + 1 // +1 for the newline
	}
	return len([]rune(value))
}

// setCaret positions the textarea cursor at a rune offset. SetValue leaves
// the cursor on the last line, so only upward movement is needed.
func setCaret(ta *textarea.Model, offset int) {
	value := ta.Value()
	row, col := 0, 0
	remaining := offset
	for i, line := range strings.Split(value, "\n") {
		runes := len([]rune(line))
		if remaining <= runes {
			row, col = i, remaining
			break
		}
		remaining -= runes + 1
		row, col = i+1, 0
	}
	for ta.Line() > row {
		ta.CursorUp()
	}
	ta.SetCursor(col)
}
