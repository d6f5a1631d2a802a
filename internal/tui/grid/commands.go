package grid

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
	"github.com/alexisbeaulieu97/picgrid/internal/events"
	"github.com/alexisbeaulieu97/picgrid/internal/settings"
)

const (
	opInitialize = "initialize"
	opLoadMore   = "load_more"
	opReset      = "reset"
	opToggle     = "toggle_favorite"
)

// waitForEvent blocks on the next state notification.
func waitForEvent(sub <-chan events.Event) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-sub
		if !ok {
			return subscriptionClosedMsg{}
		}
		rev, _ := ev.Data.(uint64)
		return StateChangedMsg{Revision: rev}
	}
}

func initializeCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		return IntentDoneMsg{Op: opInitialize, Err: ctrl.Initialize(ctx)}
	}
}

func loadMoreCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.LoadMore(ctx)
		return IntentDoneMsg{Op: opLoadMore, Err: err}
	}
}

func resetCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		return IntentDoneMsg{Op: opReset, Err: ctrl.Reset(ctx)}
	}
}

func toggleFavoriteCmd(ctx context.Context, ctrl Controller, img domain.Image) tea.Cmd {
	return func() tea.Msg {
		return IntentDoneMsg{Op: opToggle, Err: ctrl.ToggleFavorite(ctx, img)}
	}
}

func loadSettingsCmd(ctx context.Context, store SettingsStore) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		st, err := store.Load(ctx)
		return SettingsLoadedMsg{Settings: st, Err: err}
	}
}

func saveSettingsCmd(ctx context.Context, store SettingsStore, revision uint64, st settings.Settings) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return SettingsSavedMsg{Err: store.SaveRevision(ctx, revision, st)}
	}
}
