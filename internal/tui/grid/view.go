package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/picgrid/internal/catalog"
	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
)

const (
	msgNoFavorites  = "No favorite images yet."
	msgNoMatches    = "No images found matching your search."
	msgLoadFailed   = "Failed to load images. Please try again later."
	msgLoading      = "Loading images..."
	msgEndOfCatalog = "You have reached the end of the catalog."
)

// View renders the current model state
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	switch {
	case m.viewMode == ViewHelp:
		return m.renderHelpView()
	case m.state.Selected != nil:
		return m.renderDetailView(*m.state.Selected)
	default:
		return m.renderGridView()
	}
}

func (m Model) renderGridView() string {
	var content strings.Builder

	content.WriteString(m.renderHeader())
	content.WriteString("\n")

	if m.searching || m.state.SearchTerm != "" {
		content.WriteString(m.styles.search.Render(m.search.View()))
		content.WriteString("\n")
	}

	if m.errorVisible() {
		content.WriteString(m.renderErrorBanner())
		content.WriteString("\n")
	}
	if m.persistWarningVisible() {
		content.WriteString(m.styles.warning.Render("Favorites could not be saved: " + m.state.PersistErr.Error()))
		content.WriteString("\n")
	}
	if m.notice != "" {
		content.WriteString(m.styles.warning.Render(m.notice))
		content.WriteString("\n")
	}

	content.WriteString(m.renderGrid())
	content.WriteString("\n")

	if hint := m.renderLoadMore(); hint != "" {
		content.WriteString(hint)
		content.WriteString("\n")
	}

	content.WriteString(m.renderFooter())
	return content.String()
}

// renderHeader renders the title and the gallery summary
func (m Model) renderHeader() string {
	title := m.title
	if m.useUnicode {
		title = "📷 " + title
	}

	mode := "All images"
	if m.state.FavoritesOnly {
		mode = "Favorites"
	}
	theme := "light"
	if m.darkMode {
		theme = "dark"
	}

	summary := fmt.Sprintf("%s  •  page %d  •  %d loaded  •  %d favorites  •  %s theme",
		mode, m.state.Cursor, len(m.state.Collection), m.state.Favorites.Len(), theme)

	return m.styles.header.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.title.Render(title),
		m.styles.status.Render(summary),
	))
}

func (m Model) renderErrorBanner() string {
	message := msgLoadFailed
	if m.state.Err != nil {
		message += "\n" + m.state.Err.Error()
	}
	return m.styles.errorBanner.Render(message)
}

// renderGrid lays out the displayed images in rows, scrolled to the cursor.
func (m Model) renderGrid() string {
	if len(m.displayed) == 0 {
		if m.state.Loading {
			return m.styles.emptyState.Render(m.spinner.View() + " " + msgLoading)
		}
		if m.state.FavoritesOnly {
			return m.styles.emptyState.Render(msgNoFavorites)
		}
		return m.styles.emptyState.Render(msgNoMatches)
	}

	cols := m.columns()
	cardWidth := m.width/cols - 4
	if cardWidth < 10 {
		cardWidth = 10
	}

	totalRows := (len(m.displayed) + cols - 1) / cols
	visibleRows := (m.height - 12) / cardHeight
	if visibleRows < 1 {
		visibleRows = 1
	}
	cursorRow := m.cursor / cols
	firstRow := 0
	if cursorRow >= visibleRows {
		firstRow = cursorRow - visibleRows + 1
	}
	lastRow := firstRow + visibleRows
	if lastRow > totalRows {
		lastRow = totalRows
	}

	var rows []string
	if firstRow > 0 {
		rows = append(rows, m.styles.muted.Render(m.glyph("▲", "^")+" More above"))
	}
	for row := firstRow; row < lastRow; row++ {
		var cards []string
		for col := 0; col < cols; col++ {
			index := row*cols + col
			if index >= len(m.displayed) {
				break
			}
			cards = append(cards, m.renderCard(m.displayed[index], index == m.cursor, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	if lastRow < totalRows {
		rows = append(rows, m.styles.muted.Render(m.glyph("▼", "v")+" More below"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCard(img domain.Image, selected bool, width int) string {
	id := m.styles.cardID.Render("#" + img.ID.String())
	if m.state.Favorites.Has(img.ID) {
		id += " " + m.styles.heart.Render(m.glyph("♥", "*"))
	}

	author := truncate(img.Author, width-2)
	if author == "" {
		author = "Unknown author"
	}
	dims := img.Dimensions()
	if dims == "" {
		dims = " "
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		id,
		m.styles.cardAuthor.Render(author),
		m.styles.muted.Render(dims),
	)

	style := m.styles.card
	if selected {
		style = m.styles.selectedCard
	}
	return style.Width(width).Render(body)
}

// renderLoadMore shows the paging hint. It is hidden while a filter is active.
func (m Model) renderLoadMore() string {
	if m.state.Filter().Active() || len(m.state.Collection) == 0 {
		return ""
	}
	switch {
	case m.state.Loading:
		return m.styles.loadMore.Render(m.spinner.View() + " Loading...")
	case m.state.Exhausted:
		return m.styles.muted.Render(" " + msgEndOfCatalog)
	default:
		return m.styles.loadMore.Render("[m] Load more")
	}
}

// renderFooter renders the footer with keyboard shortcuts
func (m Model) renderFooter() string {
	if m.searching {
		return m.styles.footer.Render("enter: done  •  esc: clear search")
	}

	hints := []string{
		"arrows: move",
		"enter: open",
		"f: favorite",
		"v: favorites only",
		"/: search",
		"t: theme",
		"?: help",
	}
	if m.errorVisible() || m.persistWarningVisible() {
		hints = append(hints, "x: dismiss")
	}
	hints = append(hints, "q: quit")

	return m.styles.footer.Render(strings.Join(hints, "  •  "))
}

func (m Model) renderDetailView(img domain.Image) string {
	title := fmt.Sprintf("%s - ID: %s", img.Author, img.ID)
	if m.state.Favorites.Has(img.ID) {
		title += " " + m.styles.heart.Render(m.glyph("♥", "*"))
	}

	lines := []string{m.styles.detailTitle.Render(title)}
	if m.urls != nil {
		lines = append(lines, m.detailLine("Preview", m.urls.ImageURL(img.ID, catalog.FullWidth, catalog.FullHeight)))
	}
	if img.DownloadURL != "" {
		lines = append(lines, m.detailLine("Original", img.DownloadURL))
	}
	if img.URL != "" {
		lines = append(lines, m.detailLine("Source", img.URL))
	}
	if dims := img.Dimensions(); dims != "" {
		lines = append(lines, m.detailLine("Size", dims))
	}
	lines = append(lines, "", m.styles.muted.Render("f: favorite  •  esc: close  •  q: quit"))

	box := m.styles.detailBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) detailLine(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.detailLabel.Render(label),
		m.styles.detailValue.Render(value),
	)
}

func (m Model) renderHelpView() string {
	bindings := [][2]string{
		{"arrows/hjkl", "move between cards"},
		{"enter", "open the selected image"},
		{"esc", "close the image or dismiss errors"},
		{"f", "add or remove favorite"},
		{"v", "show favorites only"},
		{"/", "search by ID"},
		{"m", "load more images"},
		{"r", "reload from the first page"},
		{"t", "toggle dark mode"},
		{"x", "dismiss banners"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}

	lines := []string{m.styles.detailTitle.Render("Keyboard shortcuts")}
	for _, b := range bindings {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.helpKey.Render(b[0]),
			m.styles.helpDesc.Render(b[1]),
		))
	}

	box := m.styles.helpBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) glyph(unicode, ascii string) string {
	if m.useUnicode {
		return unicode
	}
	return ascii
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
