package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/coinboard/internal/browse"
	"github.com/mmcdole/coinboard/internal/config"
	"github.com/mmcdole/coinboard/internal/tui/styles"
)

// handleKeyMsg handles all keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	view := m.activeView()

	// Typing into the filter takes every key
	if view.IsFilterTyping() {
		cmd := view.Update(msg)
		m.updateLayout()
		cmd = tea.Batch(cmd, m.checkSentinel())
		return m, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if view.IsFiltering() {
			view.ClearFilter()
			m.updateLayout()
		}
		cmd := m.checkSentinel()
		return m, cmd

	case key.Matches(msg, Keys.Filter):
		view.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Favorite):
		if coin, ok := view.Selected(); ok {
			return m, ToggleFavoriteCmd(m.FavoritesSvc, coin)
		}
		return m, nil

	case key.Matches(msg, Keys.FavoritesOnly):
		m.FavoritesOnly = !m.FavoritesOnly
		m.Feed.SetFavoritesOnly(m.FavoritesOnly)
		m.updateLayout()
		m.refreshViews()
		cmd := m.activate()
		return m, cmd

	case key.Matches(msg, Keys.Theme):
		m.Dark = !m.Dark
		styles.SetTheme(m.Dark)
		m.Config.UI.Theme = "light"
		if m.Dark {
			m.Config.UI.Theme = "dark"
		}
		if m.ConfigPath == "" {
			return m, nil
		}
		return m, SaveThemeCmd(m.Config, m.ConfigPath)

	case key.Matches(msg, Keys.Layout):
		m.Layout = nextLayout(m.Layout)
		m.setStatus("Layout: "+string(m.Layout), false)
		m.updateLayout()
		cmd := m.activate()
		return m, cmd

	case key.Matches(msg, Keys.Retry):
		cmd := m.retry()
		return m, cmd
	}

	// Paging keys only apply to the table outside favorites mode
	if m.isWide() && !m.FavoritesOnly {
		switch {
		case key.Matches(msg, Keys.PrevPage):
			if req, ok := m.Pager.Previous(); ok {
				cmd := m.fetchPage(req)
				return m, cmd
			}
			return m, nil
		case key.Matches(msg, Keys.NextPage):
			if req, ok := m.Pager.Next(); ok {
				cmd := m.fetchPage(req)
				return m, cmd
			}
			return m, nil
		case key.Matches(msg, Keys.JumpPage):
			if req, ok := m.Pager.GoToPage(digitPage(msg.String())); ok {
				cmd := m.fetchPage(req)
				return m, cmd
			}
			return m, nil
		}
	}

	// Everything else moves the cursor
	cmd := view.Update(msg)
	cmd = tea.Batch(cmd, m.checkSentinel())
	return m, cmd
}

// retry re-issues a failed load. On a loaded table it refreshes the page.
func (m *Model) retry() tea.Cmd {
	if m.FavoritesOnly {
		return nil
	}
	if m.isWide() {
		if req, ok := m.Pager.Retry(); ok {
			return m.fetchPage(req)
		}
		if m.Pager.Status() == browse.StatusLoaded {
			return m.fetchPage(m.Pager.Load())
		}
		return nil
	}
	if req, ok := m.Feed.Retry(); ok {
		return m.fetchFeedPage(req)
	}
	return nil
}

// digitPage maps a number key to a page; 0 is page 10
func digitPage(s string) int {
	if s == "0" {
		return 10
	}
	return int(s[0] - '0')
}

func nextLayout(l config.Layout) config.Layout {
	switch l {
	case config.LayoutAuto:
		return config.LayoutTable
	case config.LayoutTable:
		return config.LayoutCards
	default:
		return config.LayoutAuto
	}
}
