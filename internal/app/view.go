package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tranvantrung27/herbadmin/internal/content"
	"github.com/tranvantrung27/herbadmin/internal/render"
	"github.com/tranvantrung27/herbadmin/internal/store"
	"github.com/tranvantrung27/herbadmin/internal/ui/styles"
)

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "Đang khởi động..."
	}

	var body string
	switch m.view {
	case ViewSignIn:
		body = m.renderSignIn()
	case ViewList:
		body = m.renderList()
	case ViewDetail:
		body = m.renderDetail()
	case ViewForm:
		body = m.renderForm()
	case ViewCategories:
		body = m.renderCategories()
	}

	if m.showingHelp {
		body = m.renderHelp()
	}
	if m.confirming != confirmNone {
		body += "\n" + m.renderConfirm()
	}

	return body + "\n" + m.renderStatusBar()
}

// renderTabBar draws the three content tabs with the active one highlighted
func (m Model) renderTabBar() string {
	var parts []string
	for i, tab := range content.Tabs() {
		label := fmt.Sprintf(" %d %s ", i+1, tab.Title())
		if tab == m.tab {
			parts = append(parts, styles.Selected.Render(label))
		} else {
			parts = append(parts, styles.Muted.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderList() string {
	var b strings.Builder
	b.WriteString(styles.Header.Render("Quản lý nội dung cây thuốc nam"))
	b.WriteString("\n")
	b.WriteString(m.renderTabBar())
	b.WriteString("\n\n")

	if m.searching || m.searchInput.Value() != "" {
		b.WriteString(styles.Label.Render("Tìm: "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString(styles.Faint.Render("Đang tải..."))
		return b.String()
	}

	docs := m.visibleDocs()
	if len(docs) == 0 {
		if m.searchInput.Value() != "" {
			b.WriteString(styles.Faint.Render("Không tìm thấy kết quả nào"))
		} else {
			b.WriteString(styles.Faint.Render("Chưa có " + m.tab.ItemName() + " nào. Nhấn 'a' để thêm mới."))
		}
		return b.String()
	}

	// Window the list around the cursor so long lists stay on screen
	visible := m.height - 10
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(docs) {
		end = len(docs)
	}

	for i := start; i < end; i++ {
		b.WriteString(m.renderListRow(docs[i], i == m.cursor))
		b.WriteString("\n")
	}
	if end < len(docs) {
		b.WriteString(styles.Faint.Render(fmt.Sprintf("… và %d mục nữa", len(docs)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderListRow(d store.Doc, selected bool) string {
	title := content.Title(d)
	if title == "" {
		title = "Không có tiêu đề"
	}

	badge := styles.Active.Render("●")
	if !content.IsActive(d) {
		badge = styles.Inactive.Render("○")
	}

	var meta string
	if m.tab.UsesLibrarySchema() {
		if cat := content.CategoryName(d); cat != "" {
			meta = " " + styles.Faint.Render("["+cat+"]")
		}
		if date := content.Date(d); date != "" {
			meta += " " + styles.Faint.Render(date)
		}
	}

	if selected {
		return badge + " " + styles.Selected.Render("▸ "+title) + meta
	}
	return "  " + badge + " " + title + meta
}

func (m Model) renderDetail() string {
	var b strings.Builder
	b.WriteString(m.renderTabBar())
	b.WriteString("\n\n")
	b.WriteString(styles.Title.Render(content.Title(m.detail)))
	b.WriteString("\n")
	if content.IsActive(m.detail) {
		b.WriteString(styles.Active.Render("Đang hiển thị"))
	} else {
		b.WriteString(styles.Inactive.Render("Đã ẩn"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.detailView.View())
	return b.String()
}

// renderDetailContent builds the scrollable body for the detail viewport
func (m Model) renderDetailContent() string {
	d := m.detail
	width := m.width - 6
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	if m.tab.UsesLibrarySchema() {
		writeField(&b, "Mô tả", content.Subtitle(d))
		writeField(&b, "Danh mục", content.CategoryName(d))
		writeField(&b, "Ngày đăng", content.Date(d))
	} else {
		writeField(&b, "Tiêu đề phụ", content.Subtitle(d))
		if body := content.Body(d); body != "" {
			b.WriteString(styles.SectionHeader.Render("Nội dung"))
			b.WriteString("\n")
			b.WriteString(render.Markdown(body, width))
			b.WriteString("\n")
		}
	}
	writeField(&b, "Link ảnh", content.ImageURL(d))

	if len(m.related) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.SectionHeader.Render("Bài viết liên quan"))
		b.WriteString("\n")
		for _, rel := range m.related {
			b.WriteString("  • " + content.Title(rel) + "\n")
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(styles.Label.Render(label+": ") + value + "\n")
}

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(m.renderTabBar())
	b.WriteString("\n\n")

	if m.form.loading {
		b.WriteString(styles.Faint.Render("Đang tải bản ghi..."))
		return b.String()
	}

	if m.form.editing {
		b.WriteString(styles.Title.Render("Chỉnh sửa " + m.tab.ItemName()))
	} else {
		b.WriteString(styles.Title.Render("Thêm " + m.tab.ItemName() + " mới"))
	}
	b.WriteString("\n\n")

	writeInput(&b, "Link ảnh", m.form.image.View(), m.form.focus == fieldImage, false)

	if m.tab.UsesLibrarySchema() {
		writeInput(&b, "Tên bài thuốc", m.form.title.View(), m.form.focus == fieldTitle, true)
		writeInput(&b, "Mô tả (công dụng)", m.form.subtitle.View(), m.form.focus == fieldSubtitle, true)
		b.WriteString(m.renderCategoryPicker())
		writeField(&b, "Ngày đăng", m.form.date)
	} else {
		writeInput(&b, "Tiêu đề lớn", m.form.title.View(), m.form.focus == fieldTitle, true)
		writeInput(&b, "Tiêu đề phụ", m.form.subtitle.View(), m.form.focus == fieldSubtitle, true)

		label := styles.Label
		if m.form.focus == fieldContent {
			label = styles.LabelFocused
		}
		b.WriteString(label.Render("Nội dung") + styles.Required.Render(" *"))
		b.WriteString("\n")
		border := styles.InactiveBorder()
		if m.form.focus == fieldContent {
			border = styles.ActiveBorder()
		}
		b.WriteString(border.Render(m.form.content.View()))
		b.WriteString("\n")
		b.WriteString(styles.Faint.Render("ctrl+b đậm · ctrl+t nghiêng · ctrl+u gạch chân · ctrl+s gạch ngang · alt+1..3 tiêu đề · ctrl+z/ctrl+y hoàn tác/làm lại"))
		b.WriteString("\n")
	}

	if m.form.errMsg != "" {
		b.WriteString("\n" + styles.StatusError.Render(m.form.errMsg) + "\n")
	}
	if m.saving {
		b.WriteString("\n" + styles.Faint.Render("Đang lưu...") + "\n")
	}
	return b.String()
}

func (m Model) renderCategoryPicker() string {
	label := styles.Label
	if m.form.focus == fieldCategory {
		label = styles.LabelFocused
	}
	selected := "(chưa có danh mục)"
	if m.form.catIndex >= 0 && m.form.catIndex < len(m.categories) {
		selected = m.categories[m.form.catIndex].Name
	}
	if m.form.focus == fieldCategory {
		selected = "◂ " + selected + " ▸"
	}
	return label.Render("Danh mục") + styles.Required.Render(" *") + "  " + selected + "\n"
}

func writeInput(b *strings.Builder, label, input string, focused, required bool) {
	style := styles.Label
	if focused {
		style = styles.LabelFocused
	}
	b.WriteString(style.Render(label))
	if required {
		b.WriteString(styles.Required.Render(" *"))
	}
	b.WriteString("\n" + input + "\n")
}

func (m Model) renderCategories() string {
	var b strings.Builder
	b.WriteString(styles.Header.Render("Quản lý danh mục"))
	b.WriteString("\n\n")

	if len(m.categories) == 0 {
		b.WriteString(styles.Faint.Render("Chưa có danh mục nào. Nhấn 's' để tạo danh mục mặc định."))
		b.WriteString("\n")
	}
	for i, c := range m.categories {
		row := c.Name
		if c.ImageURL != "" {
			row += "  " + styles.Faint.Render(c.ImageURL)
		}
		if i == m.catCursor && !m.catForm.active {
			b.WriteString(styles.Selected.Render("▸ "+c.Name) + "\n")
		} else {
			b.WriteString("  " + row + "\n")
		}
	}

	if m.catForm.active {
		b.WriteString("\n")
		if m.catForm.editing {
			b.WriteString(styles.SectionHeader.Render("Sửa danh mục"))
		} else {
			b.WriteString(styles.SectionHeader.Render("Thêm danh mục"))
		}
		b.WriteString("\n")
		writeInput(&b, "Tên", m.catForm.name.View(), m.catForm.focus == 0, true)
		writeInput(&b, "Link ảnh", m.catForm.image.View(), m.catForm.focus == 1, false)
		if m.catForm.errMsg != "" {
			b.WriteString(styles.StatusError.Render(m.catForm.errMsg) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderSignIn() string {
	var b strings.Builder
	b.WriteString(styles.Header.Render("Đăng nhập quản trị"))
	b.WriteString("\n\n")
	writeInput(&b, "Email", m.signIn.email.View(), m.signIn.focus == 0, true)
	writeInput(&b, "Mật khẩu", m.signIn.password.View(), m.signIn.focus == 1, true)
	if m.signIn.errMsg != "" {
		b.WriteString(styles.StatusError.Render(m.signIn.errMsg) + "\n")
	}
	b.WriteString("\n" + styles.Faint.Render("enter đăng nhập · tab chuyển ô · ctrl+c thoát"))
	return b.String()
}

func (m Model) renderConfirm() string {
	var prompt string
	switch m.confirming {
	case confirmDelete:
		prompt = fmt.Sprintf("Xoá \"%s\"? Hành động này không thể hoàn tác.", m.confirmName)
	case confirmToggle:
		prompt = fmt.Sprintf("Đổi trạng thái hiển thị của \"%s\"?", m.confirmName)
	case confirmDeleteCategory:
		prompt = fmt.Sprintf("Xoá danh mục \"%s\"?", m.confirmName)
	}
	box := styles.ActiveBorder().Padding(0, 1).Render(
		styles.StatusWarning.Render(prompt) + "\n" +
			styles.Key.Render("y") + " đồng ý · " + styles.Key.Render("n") + " huỷ",
	)
	return box
}

func (m Model) renderHelp() string {
	rows := [][2]string{
		{"tab / shift+tab", "chuyển tab"},
		{"1 2 3", "chọn tab trực tiếp"},
		{"↑/k ↓/j", "di chuyển"},
		{"enter", "xem chi tiết"},
		{"a", "thêm mới"},
		{"e", "chỉnh sửa"},
		{"d", "xoá (xác nhận)"},
		{"t", "ẩn/hiện (xác nhận)"},
		{"c", "quản lý danh mục"},
		{"y", "sao chép HTML"},
		{"/", "tìm kiếm"},
		{"r", "tải lại"},
		{"ctrl+d", "lưu (trong biểu mẫu)"},
		{"ctrl+o", "tải ảnh lên (trong biểu mẫu)"},
		{"ctrl+z / ctrl+y", "hoàn tác / làm lại (ô nội dung)"},
		{"ctrl+b t u s", "đậm / nghiêng / gạch chân / gạch ngang"},
		{"alt+1 2 3", "tiêu đề cấp 1-3"},
		{"ctrl+x", "đăng xuất"},
		{"q / ctrl+c", "thoát"},
	}
	var b strings.Builder
	b.WriteString(styles.Header.Render("Phím tắt"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n", styles.Key.Render(fmt.Sprintf("%-16s", row[0])), row[1]))
	}
	b.WriteString("\n" + styles.Faint.Render("Nhấn phím bất kỳ để đóng"))
	return b.String()
}

func (m Model) renderStatusBar() string {
	if m.statusMessage != "" {
		if m.statusIsError {
			return styles.StatusError.Render(m.statusMessage)
		}
		return styles.StatusSuccess.Render(m.statusMessage)
	}

	var hints string
	switch m.view {
	case ViewList:
		hints = "a thêm · e sửa · d xoá · t ẩn/hiện · enter chi tiết · c danh mục · ? trợ giúp"
	case ViewDetail:
		hints = "e sửa · d xoá · t ẩn/hiện · y sao chép HTML · u sao chép link ảnh · esc quay lại"
	case ViewForm:
		hints = "tab chuyển ô · ctrl+d lưu · ctrl+o tải ảnh · esc huỷ"
	case ViewCategories:
		hints = "a thêm · e sửa · d xoá · s tạo mặc định · esc quay lại"
	case ViewSignIn:
		hints = ""
	}
	return styles.Faint.Render(hints)
}
