// Package grid renders the gallery as a Bubble Tea program. It owns no
// gallery state: every frame is drawn from the controller snapshot.
package grid

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	galleryapp "github.com/alexisbeaulieu97/picgrid/internal/app/gallery"
	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
	"github.com/alexisbeaulieu97/picgrid/internal/events"
	"github.com/alexisbeaulieu97/picgrid/internal/settings"
)

// Options configures a Model.
type Options struct {
	Context    context.Context
	Unicode    bool
	Title      string
	SkipLoader bool
}

// Model is the gallery grid model
type Model struct {
	ctrl     Controller
	settings SettingsStore
	urls     URLBuilder
	ctx      context.Context

	sub         <-chan events.Event
	unsubscribe func()

	// Latest controller snapshot and its displayed sequence
	state     galleryapp.State
	displayed []domain.Image

	// UI state
	viewMode  ViewMode
	cursor    int
	searching bool
	search    textinput.Model
	spinner   spinner.Model

	// Appearance
	darkMode      bool
	theme         Theme
	styles        styles
	themeRevision uint64

	// Dismissed banners
	dismissedErr     error
	dismissedPersist error
	notice           string

	width  int
	height int

	title      string
	useUnicode bool
	skipLoader bool
}

// NewModel creates the grid model and subscribes to controller changes.
func NewModel(ctrl Controller, store SettingsStore, urls URLBuilder, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	title := opts.Title
	if title == "" {
		title = "Picsum Gallery"
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Prompt = "Search ID: "
	ti.Placeholder = "e.g. 42"
	ti.CharLimit = 12

	sub, unsubscribe := ctrl.Subscribe()

	m := Model{
		ctrl:        ctrl,
		settings:    store,
		urls:        urls,
		ctx:         ctx,
		sub:         sub,
		unsubscribe: unsubscribe,
		viewMode:    ViewGrid,
		search:      ti,
		spinner:     s,
		width:       80,
		height:      24,
		title:       title,
		useUnicode:  opts.Unicode,
		skipLoader:  opts.SkipLoader,
	}
	m.applyTheme(false)
	m.refresh()
	return m
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		waitForEvent(m.sub),
		loadSettingsCmd(m.ctx, m.settings),
	}
	if !m.skipLoader {
		cmds = append(cmds, initializeCmd(m.ctx, m.ctrl))
	}
	return tea.Batch(cmds...)
}

// Close ends the state subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// refresh re-reads controller state and keeps the cursor in range.
func (m *Model) refresh() {
	m.state = m.ctrl.Snapshot()
	m.displayed = m.state.Displayed()
	m.clampCursor()
}

// refreshKeepingCurrent re-reads the snapshot and keeps the cursor on the
// image it pointed at when that image is still displayed.
func (m *Model) refreshKeepingCurrent() {
	current, ok := m.Current()
	m.refresh()
	if !ok {
		return
	}
	if idx := domain.IndexOf(m.displayed, current.ID); idx >= 0 {
		m.cursor = idx
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.displayed) {
		m.cursor = len(m.displayed) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// toggleTheme flips the theme and returns the command persisting it. Each
// toggle gets a higher revision so an older save never lands last.
func (m *Model) toggleTheme() tea.Cmd {
	m.applyTheme(!m.darkMode)
	m.themeRevision++
	return saveSettingsCmd(m.ctx, m.settings, m.themeRevision, settings.Settings{DarkMode: m.darkMode})
}

func (m *Model) applyTheme(dark bool) {
	m.darkMode = dark
	m.theme = ThemeFor(dark)
	m.styles = newStyles(m.theme)
	m.spinner.Style = m.styles.spinner
}

// columns returns the grid width in cards.
func (m Model) columns() int {
	return Columns(m.width)
}

// Move shifts the cursor by delta cells, staying in range.
func (m *Model) Move(delta int) {
	if len(m.displayed) == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 || next >= len(m.displayed) {
		return
	}
	m.cursor = next
}

// Current returns the image under the cursor.
func (m Model) Current() (domain.Image, bool) {
	if m.cursor < 0 || m.cursor >= len(m.displayed) {
		return domain.Image{}, false
	}
	return m.displayed[m.cursor], true
}

// Displayed returns the images currently drawn.
func (m Model) Displayed() []domain.Image {
	return m.displayed
}

// DarkMode reports the active theme.
func (m Model) DarkMode() bool {
	return m.darkMode
}

// Cursor returns the selected grid index.
func (m Model) Cursor() int {
	return m.cursor
}

// ViewMode returns the current view mode
func (m Model) ViewMode() ViewMode {
	return m.viewMode
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searching
}

func (m Model) errorVisible() bool {
	return m.state.Err != nil && !errors.Is(m.state.Err, m.dismissedErr)
}

func (m Model) persistWarningVisible() bool {
	return m.state.PersistErr != nil && !errors.Is(m.state.PersistErr, m.dismissedPersist)
}
