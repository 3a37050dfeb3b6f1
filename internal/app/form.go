package app

import (
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/tranvantrung27/herbadmin/internal/content"
	"github.com/tranvantrung27/herbadmin/internal/editor"
	"github.com/tranvantrung27/herbadmin/internal/store"
)

// Form field indices, in focus order. Not every field is visible on every
// tab; focus cycling skips hidden ones.
const (
	fieldImage = iota
	fieldTitle
	fieldSubtitle
	fieldCategory
	fieldContent
	fieldCount
)

// formState holds the add/edit form for the current tab
type formState struct {
	editing bool
	loading bool // true while the edit target is being fetched
	docID   string
	date    string // preserved on edit, stamped on herb-library create

	focus    int
	image    textinput.Model
	title    textinput.Model
	subtitle textinput.Model
	content  textarea.Model
	catIndex int    // index into the loaded category list
	catName  string // stored category name, re-resolved when categories load

	ctrl *editor.Controller
	seq  int64 // input sequence for debounced history snapshots

	errMsg string
}

func newFormState() formState {
	image := textinput.New()
	image.Placeholder = "URL ảnh hoặc đường dẫn file"
	image.CharLimit = 512

	title := textinput.New()
	title.CharLimit = 200

	subtitle := textinput.New()
	subtitle.CharLimit = 500

	body := textarea.New()
	body.Placeholder = "Nội dung bài viết..."
	body.CharLimit = 0
	body.ShowLineNumbers = false

	return formState{
		image:    image,
		title:    title,
		subtitle: subtitle,
		content:  body,
		ctrl:     editor.NewController(editor.NewHistory()),
	}
}

// fieldVisible reports whether a field appears on the given tab
func fieldVisible(field int, tab content.Tab) bool {
	switch field {
	case fieldCategory:
		return tab.UsesLibrarySchema()
	case fieldContent:
		return !tab.UsesLibrarySchema()
	default:
		return true
	}
}

// startAdd resets the form for a new record
func (f *formState) startAdd(tab content.Tab) {
	f.editing = false
	f.docID = ""
	f.errMsg = ""
	f.image.SetValue("")
	f.title.SetValue("")
	f.subtitle.SetValue("")
	f.content.SetValue("")
	f.catIndex = 0
	f.catName = ""
	f.date = ""
	if tab.UsesLibrarySchema() {
		// New remedies are stamped with today's date up front
		f.date = content.FormatDate(time.Now())
	}
	f.ctrl = editor.NewController(editor.NewHistory())
	f.ctrl.History().Reset("", editor.Caret(0))
	f.setFocus(fieldImage)
}

// startEdit loads an existing record into the form
func (f *formState) startEdit(d store.Doc, tab content.Tab, categories []content.Category) {
	f.editing = true
	f.docID = d.ID
	f.errMsg = ""
	f.image.SetValue(content.ImageURL(d))
	f.title.SetValue(content.Title(d))
	f.date = content.Date(d)

	sub := content.Subtitle(d)
	if tab.UsesLibrarySchema() {
		// Stored descriptions carry the usage prefix; the form shows the
		// bare text so repeated edits never stack prefixes
		sub = content.StripUsagePrefix(sub)
	}
	f.subtitle.SetValue(sub)

	f.catIndex = 0
	f.catName = ""
	if tab.UsesLibrarySchema() {
		// The category list loads in parallel with the record; remember the
		// stored name so a later CategoriesLoadedMsg can resolve it too
		f.catName = content.CategoryName(d)
		f.resolveCategory(categories)
	}

	body := content.Body(d)
	f.content.SetValue(body)
	f.ctrl = editor.NewController(editor.NewHistory())
	f.ctrl.History().Reset(body, editor.Caret(len([]rune(body))))
	f.setFocus(fieldImage)
}

// resolveCategory points catIndex at the entry matching the stored category
// name, if the loaded list has one
func (f *formState) resolveCategory(categories []content.Category) {
	for i, c := range categories {
		if strings.EqualFold(c.Name, f.catName) {
			f.catIndex = i
			return
		}
	}
}

// setFocus moves focus to the given field, blurring the rest
func (f *formState) setFocus(field int) {
	f.focus = field
	f.image.Blur()
	f.title.Blur()
	f.subtitle.Blur()
	f.content.Blur()
	switch field {
	case fieldImage:
		f.image.Focus()
	case fieldTitle:
		f.title.Focus()
	case fieldSubtitle:
		f.subtitle.Focus()
	case fieldContent:
		f.content.Focus()
	}
}

// nextField advances focus, skipping fields hidden on this tab
func (f *formState) nextField(tab content.Tab) {
	field := f.focus
	for {
		field = (field + 1) % fieldCount
		if fieldVisible(field, tab) {
			break
		}
	}
	f.setFocus(field)
}

// prevField moves focus backwards, skipping hidden fields
func (f *formState) prevField(tab content.Tab) {
	field := f.focus
	for {
		field = (field - 1 + fieldCount) % fieldCount
		if fieldVisible(field, tab) {
			break
		}
	}
	f.setFocus(field)
}

// validate checks required fields in display order and returns the first
// problem as a user-facing message, empty when the form is submittable
func (f *formState) validate(tab content.Tab, categories []content.Category) string {
	if strings.TrimSpace(f.title.Value()) == "" {
		if tab.UsesLibrarySchema() {
			return "Vui lòng nhập tên bài thuốc"
		}
		return "Vui lòng nhập tiêu đề"
	}
	if strings.TrimSpace(f.subtitle.Value()) == "" {
		if tab.UsesLibrarySchema() {
			return "Vui lòng nhập mô tả"
		}
		return "Vui lòng nhập tiêu đề phụ"
	}
	if tab.ContentRequired() && strings.TrimSpace(f.content.Value()) == "" {
		return "Vui lòng nhập nội dung"
	}
	if tab.UsesLibrarySchema() && len(categories) == 0 {
		return "Chưa có danh mục nào, hãy tạo danh mục trước"
	}
	if img := strings.TrimSpace(f.image.Value()); img != "" && looksLikeURL(img) {
		if _, err := url.ParseRequestURI(img); err != nil {
			return "Link ảnh không hợp lệ"
		}
	}
	return ""
}

// looksLikeURL distinguishes a remote image URL from a local file path
func looksLikeURL(s string) bool {
	return strings.Contains(s, "://")
}

// buildData assembles the record payload for the store. The herb-library
// description is persisted with the usage prefix applied exactly once.
func (f *formState) buildData(tab content.Tab, categories []content.Category) map[string]any {
	data := map[string]any{
		"imageUrl": strings.TrimSpace(f.image.Value()),
	}
	if tab.UsesLibrarySchema() {
		data["name"] = strings.TrimSpace(f.title.Value())
		data["description"] = content.ApplyUsagePrefix(strings.TrimSpace(f.subtitle.Value()))
		if f.catIndex >= 0 && f.catIndex < len(categories) {
			data["category"] = categories[f.catIndex].Name
		}
		data["date"] = f.date
	} else {
		data["title"] = strings.TrimSpace(f.title.Value())
		data["subtitle"] = strings.TrimSpace(f.subtitle.Value())
		data["content"] = f.content.Value()
	}
	if !f.editing {
		data["isActive"] = true
	}
	return data
}

// categoryFormState holds the inline category add/edit form
type categoryFormState struct {
	active  bool
	editing bool
	catID   string
	focus   int // 0 name, 1 image
	name    textinput.Model
	image   textinput.Model
	errMsg  string
}

func newCategoryFormState() categoryFormState {
	name := textinput.New()
	name.Placeholder = "Tên danh mục"
	name.CharLimit = 100

	image := textinput.New()
	image.Placeholder = "URL ảnh hoặc đường dẫn file"
	image.CharLimit = 512

	return categoryFormState{name: name, image: image}
}

func (cf *categoryFormState) start(c *content.Category) {
	cf.active = true
	cf.errMsg = ""
	cf.focus = 0
	if c != nil {
		cf.editing = true
		cf.catID = c.ID
		cf.name.SetValue(c.Name)
		cf.image.SetValue(c.ImageURL)
	} else {
		cf.editing = false
		cf.catID = ""
		cf.name.SetValue("")
		cf.image.SetValue("")
	}
	cf.name.Focus()
	cf.image.Blur()
}

func (cf *categoryFormState) toggleFocus() {
	if cf.focus == 0 {
		cf.focus = 1
		cf.name.Blur()
		cf.image.Focus()
	} else {
		cf.focus = 0
		cf.image.Blur()
		cf.name.Focus()
	}
}

// signInState holds the credential inputs for the auth gate
type signInState struct {
	focus    int // 0 email, 1 password
	email    textinput.Model
	password textinput.Model
	errMsg   string
}

func newSignInState() signInState {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 200
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Mật khẩu"
	password.CharLimit = 200
	password.EchoMode = textinput.EchoPassword

	return signInState{email: email, password: password}
}

func (s *signInState) toggleFocus() {
	if s.focus == 0 {
		s.focus = 1
		s.email.Blur()
		s.password.Focus()
	} else {
		s.focus = 0
		s.password.Blur()
		s.email.Focus()
	}
}
