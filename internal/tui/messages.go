package tui

import (
	"github.com/mmcdole/coinboard/internal/browse"
	"github.com/mmcdole/coinboard/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg carries a result for the page-jump table
type PageLoadedMsg struct {
	Req  browse.Request
	Page domain.Page
	Err  error
}

// FeedPageLoadedMsg carries a result for the accumulating card feed
type FeedPageLoadedMsg struct {
	Req  browse.Request
	Page domain.Page
	Err  error
}

// FavoritesChangedMsg signals that a toggle changed the favorite set.
// Err is set when the new set could not be persisted.
type FavoritesChangedMsg struct {
	Coin  domain.Coin
	Added bool
	Err   error
}

// ThemeSavedMsg signals that the theme choice was written to the config file
type ThemeSavedMsg struct {
	Theme string
}

// TickMsg is a general tick message for animations
type TickMsg struct{}
