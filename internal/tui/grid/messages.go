package grid

import (
	"github.com/alexisbeaulieu97/picgrid/internal/settings"
)

// ViewMode determines which screen to render
type ViewMode int

const (
	ViewGrid ViewMode = iota
	ViewHelp
)

// StateChangedMsg signals that the controller state moved on.
type StateChangedMsg struct {
	Revision uint64
}

// subscriptionClosedMsg ends the event loop.
type subscriptionClosedMsg struct{}

// IntentDoneMsg reports completion of an asynchronous controller intent.
// Failures are already reflected in the controller state.
type IntentDoneMsg struct {
	Op  string
	Err error
}

// SettingsLoadedMsg carries the stored preferences.
type SettingsLoadedMsg struct {
	Settings settings.Settings
	Err      error
}

// SettingsSavedMsg reports the outcome of persisting preferences.
type SettingsSavedMsg struct {
	Err error
}
