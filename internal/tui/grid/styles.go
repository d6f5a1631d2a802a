package grid

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	minCardWidth = 26
	maxColumns   = 5
	cardHeight   = 5
)

// Theme is the colour palette for one appearance.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Favorite   lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
	Text       lipgloss.Color
	Background lipgloss.Color
	Border     lipgloss.Color
}

var (
	LightTheme = Theme{
		Name:       "light",
		Primary:    lipgloss.Color("33"),  // Blue
		Accent:     lipgloss.Color("27"),
		Favorite:   lipgloss.Color("160"), // Red
		Error:      lipgloss.Color("124"),
		Muted:      lipgloss.Color("243"),
		Text:       lipgloss.Color("235"),
		Background: lipgloss.Color("255"),
		Border:     lipgloss.Color("250"),
	}

	DarkTheme = Theme{
		Name:       "dark",
		Primary:    lipgloss.Color("75"),
		Accent:     lipgloss.Color("212"), // Pink
		Favorite:   lipgloss.Color("203"),
		Error:      lipgloss.Color("196"),
		Muted:      lipgloss.Color("245"),
		Text:       lipgloss.Color("252"),
		Background: lipgloss.Color("235"), // Dark gray
		Border:     lipgloss.Color("240"),
	}
)

// ThemeFor returns the palette for the dark-mode preference.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}

// styles holds every lipgloss style derived from a Theme.
type styles struct {
	title        lipgloss.Style
	header       lipgloss.Style
	status       lipgloss.Style
	card         lipgloss.Style
	selectedCard lipgloss.Style
	cardID       lipgloss.Style
	cardAuthor   lipgloss.Style
	heart        lipgloss.Style
	muted        lipgloss.Style
	errorBanner  lipgloss.Style
	warning      lipgloss.Style
	emptyState   lipgloss.Style
	loadMore     lipgloss.Style
	footer       lipgloss.Style
	spinner      lipgloss.Style
	detailBox    lipgloss.Style
	detailTitle  lipgloss.Style
	detailLabel  lipgloss.Style
	detailValue  lipgloss.Style
	helpBox      lipgloss.Style
	helpKey      lipgloss.Style
	helpDesc     lipgloss.Style
	search       lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			PaddingLeft(1).
			PaddingRight(1),
		header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		status: lipgloss.NewStyle().
			Foreground(t.Muted).
			PaddingLeft(1),
		card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Foreground(t.Text).
			Padding(0, 1),
		selectedCard: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(t.Accent).
			Foreground(t.Text).
			Padding(0, 1),
		cardID: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		cardAuthor: lipgloss.NewStyle().
			Foreground(t.Text),
		heart: lipgloss.NewStyle().
			Foreground(t.Favorite).
			Bold(true),
		muted: lipgloss.NewStyle().
			Foreground(t.Muted),
		errorBanner: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(t.Error),
		warning: lipgloss.NewStyle().
			Foreground(t.Favorite).
			PaddingLeft(1),
		emptyState: lipgloss.NewStyle().
			Foreground(t.Muted).
			Italic(true).
			PaddingTop(2).
			PaddingBottom(2).
			PaddingLeft(2),
		loadMore: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			PaddingLeft(1),
		footer: lipgloss.NewStyle().
			Foreground(t.Muted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(t.Border),
		spinner: lipgloss.NewStyle().
			Foreground(t.Primary),
		detailBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(1, 2),
		detailTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			MarginBottom(1),
		detailLabel: lipgloss.NewStyle().
			Foreground(t.Muted).
			Bold(true).
			Width(12),
		detailValue: lipgloss.NewStyle().
			Foreground(t.Text),
		helpBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(1, 3),
		helpKey: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			Width(14),
		helpDesc: lipgloss.NewStyle().
			Foreground(t.Text),
		search: lipgloss.NewStyle().
			PaddingLeft(1),
	}
}

// Columns returns how many cards fit side by side in width cells.
func Columns(width int) int {
	cols := width / minCardWidth
	if cols < 1 {
		return 1
	}
	if cols > maxColumns {
		return maxColumns
	}
	return cols
}
