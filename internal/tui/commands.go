package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/coinboard/internal/browse"
	"github.com/mmcdole/coinboard/internal/config"
	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/mmcdole/coinboard/internal/service"
)

// Command factories for async operations

// FetchPageCmd loads a page for the table
func FetchPageCmd(svc *service.MarketService, req browse.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		page, err := svc.FetchPage(ctx, req.Page)
		return PageLoadedMsg{Req: req, Page: page, Err: err}
	}
}

// FetchFeedPageCmd loads the next page for the card feed
func FetchFeedPageCmd(svc *service.MarketService, req browse.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		page, err := svc.FetchPage(ctx, req.Page)
		return FeedPageLoadedMsg{Req: req, Page: page, Err: err}
	}
}

// ToggleFavoriteCmd stars or unstars a coin
func ToggleFavoriteCmd(svc *service.FavoritesService, coin domain.Coin) tea.Cmd {
	return func() tea.Msg {
		_, added, err := svc.Toggle(coin)
		return FavoritesChangedMsg{Coin: coin, Added: added, Err: err}
	}
}

// SaveThemeCmd persists the theme choice
func SaveThemeCmd(cfg config.Config, path string) tea.Cmd {
	return func() tea.Msg {
		if err := config.SaveConfig(&cfg, path); err != nil {
			return ErrMsg{Err: err, Context: "saving theme"}
		}
		return ThemeSavedMsg{Theme: cfg.UI.Theme}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}
