package components

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/coinboard/internal/browse"
	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/mmcdole/coinboard/internal/tui/styles"
)

const (
	// Two content lines plus the card border
	cardHeight = 4

	// Title, scroll indicator and sentinel row
	cardsChromeLines = 3

	skeletonCards  = 3
	cardTrendWidth = 12
)

// CoinCards renders the accumulated coin list as cards for narrow terminals.
// A sentinel row follows the last card; when it is on screen the feed should
// load the next page.
type CoinCards struct {
	coinList

	width  int
	height int

	status   browse.Status
	err      error
	sentinel bool // false hides the sentinel, e.g. in favorites-only mode
	title    string
	emptyMsg string
}

// NewCoinCards creates an empty card list
func NewCoinCards() *CoinCards {
	return &CoinCards{
		coinList: newCoinList(),
		sentinel: true,
		emptyMsg: "No coins",
	}
}

// SetSize sets the render area
func (c *CoinCards) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

// SetState sets the state of the feed tail and whether the sentinel is shown
func (c *CoinCards) SetState(status browse.Status, err error, sentinel bool) {
	c.status = status
	c.err = err
	c.sentinel = sentinel
}

// SetTitle sets the line shown above the cards
func (c *CoinCards) SetTitle(title string) {
	c.title = title
}

// SetEmptyMessage sets the text shown for an empty loaded list
func (c *CoinCards) SetEmptyMessage(msg string) {
	c.emptyMsg = msg
}

// Update handles navigation and filter keys
func (c *CoinCards) Update(msg tea.Msg) tea.Cmd {
	wasFiltering := c.filterActive
	cmd := c.update(msg)
	if wasFiltering != c.filterActive {
		c.recalcMaxVisible()
		c.ensureVisible()
	}
	return cmd
}

// ToggleFilter opens the filter bar
func (c *CoinCards) ToggleFilter() {
	c.coinList.ToggleFilter()
	c.recalcMaxVisible()
	c.ensureVisible()
}

// SentinelVisible reports whether the row below the last card is on screen.
// It is never visible while filtering or with an empty list.
func (c *CoinCards) SentinelVisible() bool {
	if !c.sentinel || c.filterActive || c.maxVisible <= 0 {
		return false
	}
	count := c.ItemCount()
	if count == 0 {
		return false
	}
	_, end := c.visibleRange()
	return end >= count
}

func (c *CoinCards) recalcMaxVisible() {
	lines := c.height - cardsChromeLines
	if c.filterActive {
		lines--
	}
	c.maxVisible = lines / cardHeight
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

// View renders the cards
func (c *CoinCards) View() string {
	width := max(c.width, 20)
	lines := []string{styles.TitleStyle.Render(styles.Truncate(c.title, width))}

	count := c.ItemCount()
	switch {
	case count == 0 && c.status == browse.StatusLoading:
		lines = append(lines, " ")
		for i := 0; i < skeletonCards; i++ {
			lines = append(lines, c.renderSkeletonCard(width))
		}

	case count == 0 && c.status == browse.StatusFailed:
		lines = append(lines, " ", RenderErrorPanel(c.err, width))

	case count == 0:
		msg := c.emptyMsg
		if c.filterActive && c.filterQuery != "" {
			msg = "No matches"
		}
		lines = append(lines, " ", styles.DimStyle.Render(msg))

	default:
		start, end := c.visibleRange()

		header := " "
		if start > 0 {
			header = styles.DimStyle.Render("↑ more")
		}
		lines = append(lines, header)

		for i := start; i < end; i++ {
			idx := c.mapIndex(i)
			lines = append(lines, c.renderCard(idx+1, c.coins[idx], i == c.cursor, width))
		}

		lines = append(lines, c.renderSentinel(end < count, width))
	}

	if c.filterActive {
		lines = append(lines, c.renderFilterBar(width))
	}

	return strings.Join(lines, "\n")
}

func (c *CoinCards) renderCard(rank int, coin domain.Coin, selected bool, width int) string {
	style := styles.CardStyle
	if selected {
		style = styles.CardSelectedStyle
	}
	inner := width - style.GetHorizontalFrameSize()

	star := styles.StarStyle.Render(c.star(coin))
	title := styles.DimStyle.Render("#"+strconv.Itoa(rank)) + " " +
		styles.NormalRowStyle.Render(styles.Truncate(coin.Name, max(1, inner-8)))
	line1 := styles.PadRight(title, inner-1) + star

	change := FormatChange(coin.PriceChange24h)
	if up, known := changeIsUp(coin); known {
		if up {
			change = styles.UpStyle.Render(change)
		} else {
			change = styles.DownStyle.Render(change)
		}
	} else {
		change = styles.DimStyle.Render(change)
	}
	left := styles.NormalRowStyle.Render(FormatUSD(coin.CurrentPrice)) + "  " + change
	trendWidth := min(cardTrendWidth, max(0, inner-len(FormatUSD(coin.CurrentPrice))-12))
	line2 := left
	if trendWidth > 0 {
		line2 = styles.PadRight(left, inner-trendWidth) + RenderTrend(coin, trendWidth)
	}

	return style.Width(inner + style.GetHorizontalPadding()).Render(line1 + "\n" + line2)
}

func (c *CoinCards) renderSkeletonCard(width int) string {
	inner := width - styles.CardStyle.GetHorizontalFrameSize()
	bar := func(w int) string {
		return styles.SkeletonStyle.Render(strings.Repeat("░", max(1, w)))
	}
	return styles.CardStyle.
		Width(inner + styles.CardStyle.GetHorizontalPadding()).
		Render(bar(inner/2) + "\n" + bar(inner/3))
}

// renderSentinel draws the row after the last visible card
func (c *CoinCards) renderSentinel(more bool, width int) string {
	if more {
		return styles.DimStyle.Render("↓ more")
	}
	if !c.sentinel {
		return " "
	}
	switch c.status {
	case browse.StatusLoading:
		return c.spinner() + styles.DimStyle.Render(" Loading more...")
	case browse.StatusFailed:
		msg := "Couldn't load more"
		if c.err != nil {
			msg += ": " + c.err.Error()
		}
		return styles.ErrorStyle.Render(styles.Truncate(msg, max(1, width-10))) + "  " +
			styles.HelpKeyStyle.Render("r") + styles.HelpDescStyle.Render(" retry")
	default:
		return styles.DimStyle.Render("· · ·")
	}
}
