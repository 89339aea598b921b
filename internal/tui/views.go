package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/coinboard/internal/browse"
	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/mmcdole/coinboard/internal/tui/components"
	"github.com/mmcdole/coinboard/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	var body string
	if m.isWide() {
		body = m.Table.View()
		if !m.FavoritesOnly {
			strip := components.RenderPageStrip(m.Pager.Strip(), m.Pager.Page(), m.Width)
			body = lipgloss.JoinVertical(lipgloss.Left, body, strip)
		}
	} else {
		body = m.Cards.View()
	}

	// Pin the footer to the bottom row
	body = lipgloss.NewStyle().Height(m.Height - ChromeHeight).MaxHeight(m.Height - ChromeHeight).Render(body)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

// renderHeader renders the title line with the current mode
func (m Model) renderHeader() string {
	left := styles.TitleStyle.Render(domain.AppManifest.Name)

	mode := "All coins"
	if m.FavoritesOnly {
		mode = styles.StarStyle.Render("★") + " Favorites"
	}
	theme := "light"
	if m.Dark {
		theme = "dark"
	}
	right := styles.DimStyle.Render(mode + " · " + theme + " · " + string(m.Layout))

	gap := max(1, m.Width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// loading reports whether the visible list is fetching
func (m Model) loading() bool {
	if m.FavoritesOnly {
		return false
	}
	if m.isWide() {
		return m.Pager.Status() == browse.StatusLoading
	}
	return m.Feed.Status() == browse.StatusLoading
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	var left string
	if m.loading() {
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	} else if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	gap := max(0, m.Width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := components.SpinnerFrames
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      COINS
  j/k        Up/down               s/Space  Star / unstar
  g/G        First/last            f        Favorites only
  PgUp/PgDn  Scroll page           /        Filter by name
  h/l ←/→    Previous/next page    r        Retry / refresh
  1-9, 0     Jump to page

VIEW                            OTHER
  t          Toggle theme          q        Quit
  v          Auto/table/cards      ?        This help
                                   Esc      Close / Cancel

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
