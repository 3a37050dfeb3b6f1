package content

import (
	"sort"
	"strings"

	"github.com/tranvantrung27/herbadmin/internal/store"
)

// Documents are schemaless; which fields exist determines how a record
// renders. Diseases and healthy-living posts use title/subtitle/content,
// herb-library records use name/description. These accessors fold the two
// namings together the way the rendering code expects.

// Title returns the document's title, falling back to name.
func Title(d store.Doc) string {
	if v := str(d, "title"); v != "" {
		return v
	}
	return str(d, "name")
}

// Subtitle returns the document's subtitle, falling back to description.
func Subtitle(d store.Doc) string {
	if v := str(d, "subtitle"); v != "" {
		return v
	}
	return str(d, "description")
}

// Body returns the free-text content, empty for herb-library records.
func Body(d store.Doc) string { return str(d, "content") }

// CategoryName returns the herb-library category, if any.
func CategoryName(d store.Doc) string { return str(d, "category") }

// Date returns the herb-library display date, if any.
func Date(d store.Doc) string { return str(d, "date") }

// ImageURL returns the document's image link.
func ImageURL(d store.Doc) string { return str(d, "imageUrl") }

// IsActive reports whether the document is visible. Absence means active:
// only an explicit false hides a record.
func IsActive(d store.Doc) bool {
	v, ok := d.Data["isActive"]
	if !ok {
		return true
	}
	b, ok := v.(bool)
	return !ok || b
}

// RelatedIDs returns the ids of cross-referenced records, accepting either a
// stored array or a comma-separated string.
func RelatedIDs(d store.Doc) []string {
	var out []string
	switch v := d.Data["relatedArticles"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// SortByCreatedDesc orders documents newest first. Documents without a
// creation time count as time 0 and therefore sort last; ties keep their
// original order.
func SortByCreatedDesc(docs []store.Doc) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt > docs[j].CreatedAt
	})
}

func str(d store.Doc, key string) string {
	if v, ok := d.Data[key].(string); ok {
		return v
	}
	return ""
}
