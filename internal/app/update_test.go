package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tranvantrung27/herbadmin/internal/auth"
	"github.com/tranvantrung27/herbadmin/internal/content"
	"github.com/tranvantrung27/herbadmin/internal/editor"
	"github.com/tranvantrung27/herbadmin/internal/store"
)

// fakeStore is an in-memory store.Store for driving the model without a
// database file.
type fakeStore struct {
	docs   map[string][]store.Doc
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string][]store.Doc)}
}

func (s *fakeStore) Get(_ context.Context, collection, id string) (store.Doc, error) {
	for _, d := range s.docs[collection] {
		if d.ID == id {
			return d, nil
		}
	}
	return store.Doc{}, store.ErrNotFound
}

func (s *fakeStore) List(_ context.Context, collection string) ([]store.Doc, error) {
	return append([]store.Doc(nil), s.docs[collection]...), nil
}

func (s *fakeStore) Add(_ context.Context, collection string, data map[string]any) (string, error) {
	s.nextID++
	id := fmt.Sprintf("doc-%d", s.nextID)
	s.docs[collection] = append(s.docs[collection], store.Doc{ID: id, Data: data})
	return id, nil
}

func (s *fakeStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	for i, d := range s.docs[collection] {
		if d.ID == id {
			for k, v := range fields {
				if v == nil {
					delete(d.Data, k)
				} else {
					d.Data[k] = v
				}
			}
			s.docs[collection][i] = d
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *fakeStore) Delete(_ context.Context, collection, id string) error {
	for i, d := range s.docs[collection] {
		if d.ID == id {
			s.docs[collection] = append(s.docs[collection][:i], s.docs[collection][i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *fakeStore) QueryByField(_ context.Context, collection, field string, value any) ([]store.Doc, error) {
	var out []store.Doc
	for _, d := range s.docs[collection] {
		if d.Data[field] == value {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *fakeStore) Batch(ctx context.Context, ops []store.BatchOp) error {
	for _, op := range ops {
		if _, err := s.Add(ctx, op.Collection, op.Data); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) Close() error { return nil }

var errDown = errors.New("database is locked")

func newTestAuthenticator(t *testing.T) *auth.Authenticator {
	t.Helper()
	hash, err := auth.HashPassword("đúng-mật-khẩu")
	require.NoError(t, err)
	return auth.New(true, "test-secret", time.Hour, map[string]string{
		"admin@example.com": hash,
	})
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(newFakeStore(), nil, nil, "")
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return sized.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestSwitchTabResetsListState(t *testing.T) {
	m := newTestModel(t)
	m.docs = []store.Doc{{ID: "a", Data: map[string]any{"title": "A"}}}
	m.cursor = 1
	m.selectedID = "a"
	m.filtered = []int{0}
	gen := m.listGen

	updated, cmd := m.Update(key("tab"))
	m = updated.(Model)

	assert.Equal(t, content.TabHealthy, m.tab)
	assert.Equal(t, ViewList, m.view)
	assert.Empty(t, m.selectedID)
	assert.Nil(t, m.filtered)
	assert.Nil(t, m.docs)
	assert.Zero(t, m.cursor)
	assert.True(t, m.loading)
	assert.Equal(t, gen+1, m.listGen, "a new generation invalidates in-flight loads")
	assert.NotNil(t, cmd)
}

func TestNumberKeysJumpToTabs(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(key("3"))
	m = updated.(Model)
	assert.Equal(t, content.TabHerbLibrary, m.tab)

	updated, _ = m.Update(key("1"))
	m = updated.(Model)
	assert.Equal(t, content.TabDiseases, m.tab)
}

func TestStaleListLoadIsDiscarded(t *testing.T) {
	m := newTestModel(t)
	m.listGen = 5

	stale := ListLoadedMsg{Tab: m.tab, Gen: 4, Docs: []store.Doc{{ID: "old"}}}
	updated, _ := m.Update(stale)
	m = updated.(Model)
	assert.Nil(t, m.docs, "older generation must not overwrite the list")

	wrongTab := ListLoadedMsg{Tab: content.TabHealthy, Gen: 5, Docs: []store.Doc{{ID: "other"}}}
	updated, _ = m.Update(wrongTab)
	m = updated.(Model)
	assert.Nil(t, m.docs, "a load for another tab must not land here")

	fresh := ListLoadedMsg{Tab: m.tab, Gen: 5, Docs: []store.Doc{{ID: "new"}}}
	updated, _ = m.Update(fresh)
	m = updated.(Model)
	require.Len(t, m.docs, 1)
	assert.Equal(t, "new", m.docs[0].ID)
	assert.False(t, m.loading)
}

func TestStaleDocLoadIsDiscarded(t *testing.T) {
	m := newTestModel(t)
	m.view = ViewDetail
	m.docGen = 3

	updated, _ := m.Update(DocLoadedMsg{Doc: store.Doc{ID: "old"}, Gen: 2})
	m = updated.(Model)
	assert.Empty(t, m.detail.ID)

	updated, _ = m.Update(DocLoadedMsg{Doc: store.Doc{ID: "now"}, Gen: 3})
	m = updated.(Model)
	assert.Equal(t, "now", m.detail.ID)
}

func TestOpenEditFetchesFreshDoc(t *testing.T) {
	m := newTestModel(t)
	m.tab = content.TabHerbLibrary
	m.docs = []store.Doc{{ID: "doc1", Data: map[string]any{"name": "Cũ"}}}
	m.categories = []content.Category{{ID: "c1", Name: "Hô hấp"}}

	updated, cmd := m.Update(key("e"))
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, ViewForm, m.view)
	assert.True(t, m.form.loading, "form waits for the fetched copy")

	// The fetched copy, not the list row, populates the form
	fresh := store.Doc{ID: "doc1", Data: map[string]any{
		"name":        "Ngải cứu",
		"description": "Công dụng: giảm đau",
		"category":    "Hô hấp",
	}}
	updated, _ = m.Update(DocLoadedMsg{Doc: fresh, Gen: m.docGen})
	m = updated.(Model)

	assert.False(t, m.form.loading)
	assert.True(t, m.form.editing)
	assert.Equal(t, "Ngải cứu", m.form.title.Value())
	assert.Equal(t, "giảm đau", m.form.subtitle.Value())
}

// The record and its category list load in parallel; whichever lands second
// must still leave the picker on the record's stored category.
func TestEditFormResolvesCategoryWhenListArrivesLate(t *testing.T) {
	m := newTestModel(t)
	m.tab = content.TabHerbLibrary
	m.docs = []store.Doc{{ID: "doc1", Data: map[string]any{"name": "Ngải cứu"}}}

	updated, _ := m.Update(key("e"))
	m = updated.(Model)
	require.True(t, m.form.loading)

	fresh := store.Doc{ID: "doc1", Data: map[string]any{
		"name":        "Ngải cứu",
		"description": "Công dụng: giảm đau",
		"category":    "Đau đầu",
	}}
	updated, _ = m.Update(DocLoadedMsg{Doc: fresh, Gen: m.docGen})
	m = updated.(Model)
	require.Equal(t, "Đau đầu", m.form.catName)

	cats := []content.Category{{ID: "c1", Name: "Cảm cúm"}, {ID: "c2", Name: "Đau đầu"}}
	updated, _ = m.Update(CategoriesLoadedMsg{Categories: cats, Gen: m.catGen})
	m = updated.(Model)

	assert.Equal(t, 1, m.form.catIndex)
	data := m.form.buildData(content.TabHerbLibrary, m.categories)
	assert.Equal(t, "Đau đầu", data["category"], "saving must keep the stored category")
}

func TestFailedDocLoadKeepsDetailView(t *testing.T) {
	m := newTestModel(t)
	m.view = ViewDetail
	m.detail = store.Doc{ID: "doc1", Data: map[string]any{"title": "Bài"}}
	m.docGen = 1

	updated, _ := m.Update(DocLoadedMsg{Gen: 1, Err: errDown})
	m = updated.(Model)

	assert.Equal(t, ViewDetail, m.view, "a failed refresh never evicts the pane")
	assert.Equal(t, "doc1", m.detail.ID)
	assert.True(t, m.statusIsError)
	assert.Contains(t, m.statusMessage, "Không tải được bản ghi")
}

func TestFailedDocLoadReportsInsideForm(t *testing.T) {
	m := newTestModel(t)
	m.view = ViewForm
	m.form.loading = true
	m.docGen = 2

	updated, _ := m.Update(DocLoadedMsg{Gen: 2, Err: errDown})
	m = updated.(Model)

	assert.Equal(t, ViewForm, m.view)
	assert.False(t, m.form.loading)
	assert.Contains(t, m.form.errMsg, "Không tải được bản ghi")
}

func TestSaveCategoryRechecksNameAgainstStore(t *testing.T) {
	st := newFakeStore()
	id, err := st.Add(context.Background(), content.CollectionCategories,
		map[string]any{"name": "Hô hấp"})
	require.NoError(t, err)

	m := NewModel(st, nil, nil, "")

	// Another session already created this name; the stale in-memory list
	// let it through, the store-side check must not
	msg := m.saveCategoryAsync("", "Hô hấp", "")()
	saved, ok := msg.(CategorySavedMsg)
	require.True(t, ok)
	assert.Error(t, saved.Err)

	// Re-saving the same record under its own name is not a duplicate
	msg = m.saveCategoryAsync(id, "Hô hấp", "https://example.com/a.png")()
	saved = msg.(CategorySavedMsg)
	assert.NoError(t, saved.Err)
}

func TestSaveWhileSavingIsIgnored(t *testing.T) {
	m := newTestModel(t)
	m.view = ViewForm
	m.form.startAdd(content.TabDiseases)
	m.form.title.SetValue("t")
	m.form.subtitle.SetValue("s")
	m.form.content.SetValue("c")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m = updated.(Model)
	assert.True(t, m.saving)
	assert.NotNil(t, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Nil(t, cmd, "second save waits for the first to finish")
}

func TestSaveValidationFailureStaysOnForm(t *testing.T) {
	m := newTestModel(t)
	m.view = ViewForm
	m.form.startAdd(content.TabDiseases)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.saving)
	assert.Equal(t, ViewForm, m.view)
	assert.Equal(t, "Vui lòng nhập tiêu đề", m.form.errMsg)
}

func TestSavedMsgReturnsToListAndReloads(t *testing.T) {
	m := newTestModel(t)
	m.view = ViewForm
	m.saving = true
	gen := m.listGen

	updated, cmd := m.Update(SavedMsg{ID: "doc1"})
	m = updated.(Model)
	assert.False(t, m.saving)
	assert.Equal(t, ViewList, m.view)
	assert.Equal(t, gen+1, m.listGen)
	assert.Equal(t, "Đã lưu thành công", m.statusMessage)
	assert.NotNil(t, cmd)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m := newTestModel(t)
	m.docs = []store.Doc{{ID: "doc1", Data: map[string]any{"title": "Bài"}}}

	updated, _ := m.Update(key("d"))
	m = updated.(Model)
	assert.Equal(t, confirmDelete, m.confirming)
	assert.Equal(t, "doc1", m.confirmID)
	assert.Equal(t, "Bài", m.confirmName)

	// n backs out without touching the record
	updated, cmd := m.Update(key("n"))
	m = updated.(Model)
	assert.Equal(t, confirmNone, m.confirming)
	assert.Empty(t, m.confirmID)
	assert.Nil(t, cmd)

	// y issues the delete
	updated, _ = m.Update(key("d"))
	m = updated.(Model)
	updated, cmd = m.Update(key("y"))
	m = updated.(Model)
	assert.Equal(t, confirmNone, m.confirming)
	assert.True(t, m.saving)
	assert.NotNil(t, cmd)
}

func TestToggleConfirmFlipsCurrentState(t *testing.T) {
	m := newTestModel(t)
	m.docs = []store.Doc{{ID: "doc1", Data: map[string]any{"title": "Bài", "isActive": false}}}

	updated, _ := m.Update(key("t"))
	m = updated.(Model)
	require.Equal(t, confirmToggle, m.confirming)

	updated, cmd := m.Update(key("y"))
	m = updated.(Model)
	assert.NotNil(t, cmd, "hidden record toggles back to visible")

	updated, _ = m.Update(ToggledMsg{ID: "doc1", Active: true})
	m = updated.(Model)
	assert.Equal(t, "Đã hiển thị bài viết", m.statusMessage)
}

func TestSearchFiltersList(t *testing.T) {
	m := newTestModel(t)
	m.docs = []store.Doc{
		{ID: "a", Data: map[string]any{"title": "Cảm cúm mùa đông"}},
		{ID: "b", Data: map[string]any{"title": "Đau đầu"}},
	}

	updated, _ := m.Update(key("/"))
	m = updated.(Model)
	require.True(t, m.searching)

	m.searchInput.SetValue("cảm cúm")
	m.refilter()
	require.Len(t, m.filtered, 1)
	assert.Equal(t, "a", m.visibleDocs()[0].ID)

	// esc clears the filter entirely
	updated, _ = m.Update(key("esc"))
	m = updated.(Model)
	assert.False(t, m.searching)
	assert.Nil(t, m.filtered)
	assert.Len(t, m.visibleDocs(), 2)
}

func TestEditorDebounceHonorsSequence(t *testing.T) {
	m := newTestModel(t)
	m.view = ViewForm
	m.form.startAdd(content.TabDiseases)
	m.form.ctrl.NoteInput()
	m.form.seq = 7
	m.form.content.SetValue("xin chào")

	// A timer from before the latest keystroke must not snapshot
	updated, _ := m.Update(EditorDebounceMsg{Seq: 6})
	m = updated.(Model)
	assert.False(t, m.form.ctrl.History().CanUndo())

	updated, _ = m.Update(EditorDebounceMsg{Seq: 7})
	m = updated.(Model)
	assert.True(t, m.form.ctrl.History().CanUndo())
}

func TestSignInGateBlocksUntilAuthenticated(t *testing.T) {
	authn := newTestAuthenticator(t)
	m := NewModel(newFakeStore(), nil, authn, "")
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = sized.(Model)
	require.Equal(t, ViewSignIn, m.view)

	m.signIn.email.SetValue("admin@example.com")
	m.signIn.password.SetValue("sai-mật-khẩu")
	updated, _ := m.Update(key("enter"))
	m = updated.(Model)
	assert.Equal(t, ViewSignIn, m.view)
	assert.Equal(t, "Email hoặc mật khẩu không đúng", m.signIn.errMsg)
	assert.Empty(t, m.signIn.password.Value(), "failed attempts clear the password")

	m.signIn.email.SetValue("admin@example.com")
	m.signIn.password.SetValue("đúng-mật-khẩu")
	updated, cmd := m.Update(key("enter"))
	m = updated.(Model)
	assert.Equal(t, ViewList, m.view)
	assert.NotNil(t, cmd)
}

func TestSignOutReturnsToGate(t *testing.T) {
	authn := newTestAuthenticator(t)
	require.NoError(t, authn.SignIn("admin@example.com", "đúng-mật-khẩu"))

	m := NewModel(newFakeStore(), nil, authn, "")
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = sized.(Model)
	require.Equal(t, ViewList, m.view)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = updated.(Model)
	assert.Equal(t, ViewSignIn, m.view)
	assert.False(t, authn.IsAuthenticated())
}

func TestEmptyCategoriesSeedOnce(t *testing.T) {
	m := newTestModel(t)
	m.view = ViewCategories
	m.catGen = 2

	updated, cmd := m.Update(CategoriesLoadedMsg{Gen: 2})
	m = updated.(Model)
	assert.True(t, m.seedAttempted)
	assert.NotNil(t, cmd, "empty first load triggers the seeder")

	// A second empty load does not seed again
	m.catGen = 3
	_, cmd = m.Update(CategoriesLoadedMsg{Gen: 3})
	assert.Nil(t, cmd)
}

func TestCategoryFormRejectsDuplicateName(t *testing.T) {
	m := newTestModel(t)
	m.view = ViewCategories
	m.categories = []content.Category{{ID: "c1", Name: "Hô hấp"}}
	m.catForm.start(nil)
	m.catForm.name.SetValue("hô hấp")

	updated, cmd := m.Update(key("enter"))
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "Danh mục này đã tồn tại", m.catForm.errMsg)
	assert.False(t, m.saving)
}

func TestFormatShortcutAppliesToContentField(t *testing.T) {
	m := newTestModel(t)
	m.view = ViewForm
	m.form.startAdd(content.TabDiseases)
	m.form.setFocus(fieldContent)
	m.form.content.SetValue("chú ý")
	m.form.ctrl.History().Reset("chú ý", editor.Caret(5))
	setCaret(&m.form.content, 5)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	m = updated.(Model)
	assert.Equal(t, "chú ý****", m.form.content.Value())
	assert.Equal(t, 7, caretOffset(m.form.content), "caret lands between the markers")
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(key("?"))
	m = updated.(Model)
	require.True(t, m.showingHelp)

	updated, _ = m.Update(key("x"))
	m = updated.(Model)
	assert.False(t, m.showingHelp)
}
