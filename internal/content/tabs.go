// Package content holds the domain vocabulary of the admin console: the three
// content tabs and their collections, schemaless document accessors, the
// herb-library usage prefix, and the default category seed list.
package content

// Tab identifies one of the three fixed content types. Each tab maps to its
// own backend collection and field schema.
type Tab int

const (
	TabDiseases Tab = iota
	TabHealthy
	TabHerbLibrary
)

// CollectionCategories is the auxiliary collection holding herb categories.
const CollectionCategories = "herb_categories"

// Collection returns the backend collection name for the tab.
func (t Tab) Collection() string {
	switch t {
	case TabHealthy:
		return "healthy"
	case TabHerbLibrary:
		return "herballibrary"
	default:
		return "diseases"
	}
}

// Title returns the list header shown for the tab.
func (t Tab) Title() string {
	switch t {
	case TabHealthy:
		return "Danh sách bài viết - Sống khỏe"
	case TabHerbLibrary:
		return "Danh sách bài thuốc - Kho thuốc"
	default:
		return "Danh sách bài viết - Các bệnh"
	}
}

// ItemName returns what a document is called on this tab, used in
// confirmations and status messages.
func (t Tab) ItemName() string {
	if t == TabHerbLibrary {
		return "bài thuốc"
	}
	return "bài viết"
}

// UsesLibrarySchema reports whether the tab stores name/description instead
// of title/subtitle/content. The herb library has category and date fields
// and no free-text content.
func (t Tab) UsesLibrarySchema() bool {
	return t == TabHerbLibrary
}

// ContentRequired reports whether the free-text content field is mandatory on
// this tab. Content is required exactly where it is visible.
func (t Tab) ContentRequired() bool {
	return !t.UsesLibrarySchema()
}

// Tabs lists all tabs in display order.
func Tabs() []Tab {
	return []Tab{TabDiseases, TabHealthy, TabHerbLibrary}
}

// Next cycles to the following tab.
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % 3)
}

// Prev cycles to the preceding tab.
func (t Tab) Prev() Tab {
	return Tab((int(t) + 2) % 3)
}
