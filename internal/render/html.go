// Package render publishes the console's presentation fragments: HTML for
// list items, detail panels and category rows, and ANSI for the in-terminal
// detail view. Escaping of user-controlled text into HTML is this package's
// responsibility; nothing here trusts a title, name or URL.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/tranvantrung27/herbadmin/internal/content"
	"github.com/tranvantrung27/herbadmin/internal/store"
)

const placeholderImage = "https://via.placeholder.com/120x120?text=No+Image"

// ListItemHTML renders one article or remedy as a list-item fragment.
func ListItemHTML(d store.Doc, tab content.Tab) string {
	title := content.Title(d)
	if title == "" {
		title = "Không có tiêu đề"
	}
	imageURL := content.ImageURL(d)
	if imageURL == "" {
		imageURL = placeholderImage
	}

	var b strings.Builder
	cls := "article-item"
	if !content.IsActive(d) {
		cls += " inactive"
	}
	fmt.Fprintf(&b, `<div class="%s" data-id="%s">`, cls, html.EscapeString(d.ID))
	fmt.Fprintf(&b, `<img src="%s" alt="%s" class="article-thumb">`,
		html.EscapeString(imageURL), html.EscapeString(title))
	b.WriteString(`<div class="article-info">`)
	fmt.Fprintf(&b, `<div class="article-title">%s</div>`, html.EscapeString(title))
	fmt.Fprintf(&b, `<div class="article-subtitle">%s</div>`, html.EscapeString(content.Subtitle(d)))
	if tab.UsesLibrarySchema() {
		if cat := content.CategoryName(d); cat != "" {
			fmt.Fprintf(&b, `<div class="article-meta">%s</div>`, html.EscapeString(cat))
		}
		if date := content.Date(d); date != "" {
			fmt.Fprintf(&b, `<div class="article-meta">%s</div>`, html.EscapeString(date))
		}
	}
	badge, label := "badge-active", "Đang hiển thị"
	if !content.IsActive(d) {
		badge, label = "badge-inactive", "Đã ẩn"
	}
	fmt.Fprintf(&b, `<span class="article-badge %s">%s</span>`, badge, label)
	b.WriteString(`</div></div>`)
	return b.String()
}

// DetailHTML renders a full read-only detail panel, including any resolved
// related records.
func DetailHTML(d store.Doc, tab content.Tab, related []store.Doc) string {
	title := content.Title(d)

	var b strings.Builder
	fmt.Fprintf(&b, `<img src="%s" alt="%s" class="detail-image">`,
		html.EscapeString(content.ImageURL(d)), html.EscapeString(title))
	b.WriteString(`<div class="detail-info">`)

	titleLabel, subtitleLabel := "Tiêu đề lớn", "Tiêu đề phụ"
	if tab.UsesLibrarySchema() {
		titleLabel, subtitleLabel = "Tên bài thuốc", "Mô tả"
	}
	writeDetailRow(&b, titleLabel, title)
	writeDetailRow(&b, subtitleLabel, content.Subtitle(d))

	if tab.UsesLibrarySchema() {
		if cat := content.CategoryName(d); cat != "" {
			writeDetailRow(&b, "Triệu chứng thường gặp", cat)
		}
		if date := content.Date(d); date != "" {
			writeDetailRow(&b, "Ngày đăng", date)
		}
	}
	if body := content.Body(d); body != "" {
		writeDetailRow(&b, "Nội dung", body)
	}
	writeDetailRow(&b, "Link ảnh", content.ImageURL(d))

	status := "Đang hiển thị"
	if !content.IsActive(d) {
		status = "Đã ẩn"
	}
	writeDetailRow(&b, "Trạng thái", status)

	if len(related) > 0 {
		b.WriteString(`<div class="detail-label">Bài viết liên quan</div><div class="related-list">`)
		for _, r := range related {
			b.WriteString(ListItemHTML(r, tab))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// CategoryRowHTML renders one category management row. Category names and
// image URLs are operator input and escape like everything else.
func CategoryRowHTML(c content.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="article-item" data-id="%s">`, html.EscapeString(c.ID))
	if c.ImageURL != "" {
		fmt.Fprintf(&b, `<img src="%s" alt="%s" class="category-thumb">`,
			html.EscapeString(c.ImageURL), html.EscapeString(c.Name))
	}
	fmt.Fprintf(&b, `<div class="article-title">%s</div>`, html.EscapeString(c.Name))
	fmt.Fprintf(&b, `<div class="article-meta">ID: %s</div>`, html.EscapeString(c.ID))
	b.WriteString(`</div>`)
	return b.String()
}

func writeDetailRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<div class="detail-label">%s</div><div class="detail-value">%s</div>`,
		html.EscapeString(label), html.EscapeString(value))
}
