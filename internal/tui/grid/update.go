package grid

import (
	"unicode"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StateChangedMsg:
		m.refreshKeepingCurrent()
		return m, waitForEvent(m.sub)

	case subscriptionClosedMsg:
		return m, nil

	case IntentDoneMsg:
		m.refreshKeepingCurrent()
		return m, nil

	case SettingsLoadedMsg:
		if msg.Err != nil {
			m.notice = "Theme preference could not be read; using light theme."
		}
		m.applyTheme(msg.Settings.DarkMode)
		return m, nil

	case SettingsSavedMsg:
		if msg.Err != nil {
			m.notice = "Theme preference could not be saved."
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input based on current view mode
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.searching {
		return m.handleSearchKeys(msg)
	}
	if m.viewMode == ViewHelp {
		return m.handleHelpKeys(msg)
	}
	if m.state.Selected != nil {
		return m.handleDetailKeys(msg)
	}
	return m.handleGridKeys(msg)
}

// handleGridKeys handles keys in the grid view
func (m Model) handleGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "left", "h":
		m.Move(-1)
	case "right", "l":
		m.Move(1)
	case "up", "k":
		m.Move(-m.columns())
	case "down", "j":
		m.Move(m.columns())
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.displayed) - 1
		m.clampCursor()

	case "enter", " ":
		if img, ok := m.Current(); ok {
			m.ctrl.SelectImage(img)
			m.refresh()
		}

	case "f":
		if img, ok := m.Current(); ok {
			return m, toggleFavoriteCmd(m.ctx, m.ctrl, img)
		}

	case "v":
		m.ctrl.SetFavoritesOnly(!m.state.FavoritesOnly)
		m.cursor = 0
		m.refresh()

	case "/":
		m.searching = true
		m.search.SetValue(m.state.SearchTerm)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case "m":
		if m.state.CanLoadMore() {
			m.dismissedErr = nil
			return m, tea.Batch(loadMoreCmd(m.ctx, m.ctrl), m.spinner.Tick)
		}

	case "r":
		m.cursor = 0
		m.dismissedErr = nil
		return m, tea.Batch(resetCmd(m.ctx, m.ctrl), m.spinner.Tick)

	case "t":
		m.notice = ""
		return m, m.toggleTheme()

	case "?":
		m.viewMode = ViewHelp

	case "x", "esc":
		m.dismissedErr = m.state.Err
		m.dismissedPersist = m.state.PersistErr
		m.notice = ""
	}

	return m, nil
}

// handleDetailKeys handles keys while the detail overlay is open
func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc", "enter", "backspace":
		m.ctrl.ClearSelection()
		m.refresh()

	case "f":
		if m.state.Selected != nil {
			return m, toggleFavoriteCmd(m.ctx, m.ctrl, *m.state.Selected)
		}

	case "t":
		return m, m.toggleTheme()
	}

	return m, nil
}

// handleHelpKeys handles keys in help view
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?", "esc", "enter":
		m.viewMode = ViewGrid
	}
	return m, nil
}

// handleSearchKeys edits the search term. Only digits are accepted.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil

	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.ctrl.SetSearchTerm("")
		m.cursor = 0
		m.refresh()
		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if !digitsOnly(msg.Runes) {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.state.SearchTerm {
		m.ctrl.SetSearchTerm(m.search.Value())
		m.cursor = 0
		m.refresh()
	}
	return m, cmd
}

func digitsOnly(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
