package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tranvantrung27/herbadmin/internal/content"
	"github.com/tranvantrung27/herbadmin/internal/store"
)

// loadListAsync returns a command that loads a tab's records in the background
func (m Model) loadListAsync(tab content.Tab, gen int64) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		docs, err := st.List(context.Background(), tab.Collection())
		if err != nil {
			return ListLoadedMsg{Tab: tab, Gen: gen, Err: err}
		}
		content.SortByCreatedDesc(docs)
		return ListLoadedMsg{Tab: tab, Docs: docs, Gen: gen}
	}
}

// loadDocAsync returns a command that loads one record plus its related
// records for the detail view
func (m Model) loadDocAsync(tab content.Tab, id string, gen int64) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx := context.Background()
		doc, err := st.Get(ctx, tab.Collection(), id)
		if err != nil {
			return DocLoadedMsg{Gen: gen, Err: err}
		}
		var related []store.Doc
		for _, rid := range content.RelatedIDs(doc) {
			rel, err := st.Get(ctx, tab.Collection(), rid)
			if err != nil {
				continue // dangling reference, skip it
			}
			related = append(related, rel)
		}
		return DocLoadedMsg{Doc: doc, Related: related, Gen: gen}
	}
}

// loadCategoriesAsync returns a command that loads the category list
func (m Model) loadCategoriesAsync(gen int64) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		docs, err := st.List(context.Background(), content.CollectionCategories)
		if err != nil {
			return CategoriesLoadedMsg{Gen: gen, Err: err}
		}
		cats := make([]content.Category, 0, len(docs))
		for _, d := range docs {
			cats = append(cats, content.CategoryFromDoc(d))
		}
		content.SortCategoriesByName(cats)
		return CategoriesLoadedMsg{Categories: cats, Gen: gen}
	}
}

// saveDocAsync creates or updates a record
func (m Model) saveDocAsync(tab content.Tab, docID string, data map[string]any) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if docID == "" {
			id, err := st.Add(ctx, tab.Collection(), data)
			return SavedMsg{ID: id, Err: err}
		}
		err := st.Update(ctx, tab.Collection(), docID, data)
		return SavedMsg{ID: docID, Err: err}
	}
}

// deleteDocAsync removes a record
func (m Model) deleteDocAsync(tab content.Tab, id string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		err := st.Delete(context.Background(), tab.Collection(), id)
		return DeletedMsg{ID: id, Err: err}
	}
}

// toggleActiveAsync flips a record's visibility
func (m Model) toggleActiveAsync(tab content.Tab, id string, active bool) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		err := st.Update(context.Background(), tab.Collection(), id, map[string]any{"isActive": active})
		return ToggledMsg{ID: id, Active: active, Err: err}
	}
}

// uploadAsync pushes a local image file into the bucket
func (m Model) uploadAsync(path, prefix string) tea.Cmd {
	bucket := m.bucket
	return func() tea.Msg {
		if bucket == nil {
			return UploadedMsg{Err: errors.New("chưa cấu hình thư mục lưu trữ")}
		}
		url, err := bucket.UploadFile(prefix, path)
		return UploadedMsg{URL: url, Err: err}
	}
}

// saveCategoryAsync creates or updates a category. The name is rechecked
// against the store right before the write; the in-memory list the form
// validated against may be stale.
func (m Model) saveCategoryAsync(catID, name, imageURL string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx := context.Background()
		existing, err := st.QueryByField(ctx, content.CollectionCategories, "name", name)
		if err != nil {
			return CategorySavedMsg{Err: err}
		}
		for _, d := range existing {
			if d.ID != catID {
				return CategorySavedMsg{Err: errors.New("danh mục này đã tồn tại")}
			}
		}
		data := map[string]any{"name": name, "imageUrl": imageURL}
		if catID == "" {
			_, err = st.Add(ctx, content.CollectionCategories, data)
		} else {
			err = st.Update(ctx, content.CollectionCategories, catID, data)
		}
		return CategorySavedMsg{Err: err}
	}
}

// deleteCategoryAsync removes a category
func (m Model) deleteCategoryAsync(catID string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		err := st.Delete(context.Background(), content.CollectionCategories, catID)
		return CategorySavedMsg{Err: err}
	}
}

// seedCategoriesAsync writes the default category set in one batch
func (m Model) seedCategoriesAsync() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		n, err := content.SeedCategories(context.Background(), st)
		return SeededMsg{Count: n, Err: err}
	}
}
