package content

import (
	"sort"
	"strings"

	"github.com/tranvantrung27/herbadmin/internal/store"
)

// Category is a named herb-library category. Names are unique
// case-insensitively.
type Category struct {
	ID       string
	Name     string
	ImageURL string
}

// CategoryFromDoc extracts a Category from its stored document.
func CategoryFromDoc(d store.Doc) Category {
	return Category{
		ID:       d.ID,
		Name:     str(d, "name"),
		ImageURL: str(d, "imageUrl"),
	}
}

// SortCategoriesByName orders categories alphabetically, case-insensitively.
func SortCategoriesByName(cats []Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		return strings.ToLower(cats[i].Name) < strings.ToLower(cats[j].Name)
	})
}

// CategoryExists reports whether name is already taken, ignoring case and the
// category currently being edited.
func CategoryExists(cats []Category, name, excludeID string) bool {
	for _, c := range cats {
		if c.ID != excludeID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
