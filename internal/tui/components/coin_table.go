package components

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/coinboard/internal/browse"
	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/mmcdole/coinboard/internal/tui/styles"
)

// Table column widths
const (
	rankWidth    = 4
	starWidth    = 1
	priceWidth   = 14
	capWidth     = 20
	changeWidth  = 9
	trendWidth   = 14
	minNameWidth = 10
	columnGap    = 1

	// Title, header and the two scroll indicators
	tableChromeLines = 4
)

// tableColumns is the resolved layout for one render width
type tableColumns struct {
	name      int
	showCap   bool
	showTrend bool
}

func layoutColumns(width int) tableColumns {
	cols := tableColumns{showCap: true, showTrend: true}
	fixed := func() int {
		w := rankWidth + priceWidth + changeWidth + starWidth + 4*columnGap
		if cols.showCap {
			w += capWidth + columnGap
		}
		if cols.showTrend {
			w += trendWidth + columnGap
		}
		return w
	}
	if width-fixed() < minNameWidth {
		cols.showTrend = false
	}
	if width-fixed() < minNameWidth {
		cols.showCap = false
	}
	cols.name = max(minNameWidth, width-fixed())
	return cols
}

// CoinTable renders one page of coins as a table for wide terminals
type CoinTable struct {
	coinList

	width  int
	height int

	status   browse.Status
	err      error
	title    string
	emptyMsg string
}

// NewCoinTable creates an empty table
func NewCoinTable() *CoinTable {
	return &CoinTable{
		coinList: newCoinList(),
		emptyMsg: "No coins",
	}
}

// SetSize sets the render area
func (t *CoinTable) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.recalcMaxVisible()
	t.ensureVisible()
}

// SetState sets the load state shown instead of rows while loading or failed
func (t *CoinTable) SetState(status browse.Status, err error) {
	t.status = status
	t.err = err
}

// SetTitle sets the line shown above the header
func (t *CoinTable) SetTitle(title string) {
	t.title = title
}

// SetEmptyMessage sets the text shown for an empty loaded list
func (t *CoinTable) SetEmptyMessage(msg string) {
	t.emptyMsg = msg
}

// Update handles navigation and filter keys
func (t *CoinTable) Update(msg tea.Msg) tea.Cmd {
	wasFiltering := t.filterActive
	cmd := t.update(msg)
	if wasFiltering != t.filterActive {
		t.recalcMaxVisible()
	}
	return cmd
}

// ToggleFilter opens the filter bar
func (t *CoinTable) ToggleFilter() {
	t.coinList.ToggleFilter()
	t.recalcMaxVisible()
}

func (t *CoinTable) recalcMaxVisible() {
	t.maxVisible = t.height - tableChromeLines
	if t.filterActive {
		t.maxVisible--
	}
	if t.maxVisible < 1 {
		t.maxVisible = 1
	}
}

// View renders the table
func (t *CoinTable) View() string {
	width := max(t.width, minNameWidth+rankWidth)
	cols := layoutColumns(width)

	lines := []string{styles.TitleStyle.Render(styles.Truncate(t.title, width))}

	switch {
	case t.status == browse.StatusLoading:
		lines = append(lines, t.renderHeader(cols))
		for i := 0; i < domain.PageSize; i++ {
			lines = append(lines, t.renderSkeletonRow(cols))
		}
		lines = append(lines, t.spinner()+styles.DimStyle.Render(" Loading..."))

	case t.status == browse.StatusFailed:
		lines = append(lines, " ", RenderErrorPanel(t.err, width))

	case t.ItemCount() == 0:
		msg := t.emptyMsg
		if t.filterActive && t.filterQuery != "" {
			msg = "No matches"
		}
		lines = append(lines, " ", styles.DimStyle.Render(msg))

	default:
		lines = append(lines, t.renderHeader(cols))

		start, end := t.visibleRange()

		// Always reserve the indicator lines to prevent layout shifts
		header := " "
		if start > 0 {
			header = styles.DimStyle.Render("↑ more")
		}
		lines = append(lines, header)

		for i := start; i < end; i++ {
			idx := t.mapIndex(i)
			lines = append(lines, t.renderRow(idx+1, t.coins[idx], i == t.cursor, cols, width))
		}

		footer := " "
		if end < t.ItemCount() {
			footer = styles.DimStyle.Render("↓ more")
		}
		lines = append(lines, footer)
	}

	if t.filterActive {
		lines = append(lines, t.renderFilterBar(width))
	}

	return strings.Join(lines, "\n")
}

func joinCells(cells []string) string {
	return strings.Join(cells, strings.Repeat(" ", columnGap))
}

func (t *CoinTable) renderHeader(cols tableColumns) string {
	cells := []string{
		styles.PadLeft("#", rankWidth),
		styles.PadRight("Coin", cols.name),
		styles.PadLeft("Price", priceWidth),
	}
	if cols.showCap {
		cells = append(cells, styles.PadLeft("Market Cap", capWidth))
	}
	cells = append(cells, styles.PadLeft("24h", changeWidth))
	if cols.showTrend {
		cells = append(cells, styles.PadRight("7d", trendWidth))
	}
	cells = append(cells, " ")
	return styles.HeaderStyle.Render(joinCells(cells))
}

func (t *CoinTable) renderSkeletonRow(cols tableColumns) string {
	block := func(w int) string {
		return styles.SkeletonStyle.Render(strings.Repeat("░", w))
	}
	cells := []string{
		styles.PadLeft("·", rankWidth),
		block(cols.name*2/3) + strings.Repeat(" ", cols.name-cols.name*2/3),
		strings.Repeat(" ", priceWidth-10) + block(10),
	}
	if cols.showCap {
		cells = append(cells, strings.Repeat(" ", capWidth-14)+block(14))
	}
	cells = append(cells, strings.Repeat(" ", changeWidth-6)+block(6))
	if cols.showTrend {
		cells = append(cells, block(trendWidth))
	}
	return joinCells(cells)
}

func (t *CoinTable) renderRow(rank int, c domain.Coin, selected bool, cols tableColumns, width int) string {
	rankCell := styles.PadLeft(strconv.Itoa(rank), rankWidth)
	nameCell := styles.PadRight(styles.Truncate(c.Name, cols.name), cols.name)
	priceCell := styles.PadLeft(FormatUSD(c.CurrentPrice), priceWidth)
	capCell := styles.PadLeft(FormatMarketCap(c.MarketCap), capWidth)
	changeCell := styles.PadLeft(FormatChange(c.PriceChange24h), changeWidth)
	star := t.star(c)

	if selected {
		// Plain text under a single style so the highlight spans the row
		cells := []string{rankCell, nameCell, priceCell}
		if cols.showCap {
			cells = append(cells, capCell)
		}
		cells = append(cells, changeCell)
		if cols.showTrend {
			cells = append(cells, styles.PadRight(Sparkline(c.Sparkline, trendWidth), trendWidth))
		}
		cells = append(cells, star)
		return styles.SelectedRowStyle.Render(styles.PadRight(joinCells(cells), width))
	}

	if up, known := changeIsUp(c); known {
		if up {
			changeCell = styles.UpStyle.Render(changeCell)
		} else {
			changeCell = styles.DownStyle.Render(changeCell)
		}
	} else {
		changeCell = styles.DimStyle.Render(changeCell)
	}

	cells := []string{
		styles.DimStyle.Render(rankCell),
		styles.NormalRowStyle.Render(nameCell),
		styles.NormalRowStyle.Render(priceCell),
	}
	if cols.showCap {
		cells = append(cells, styles.SubtitleStyle.Render(capCell))
	}
	cells = append(cells, changeCell)
	if cols.showTrend {
		cells = append(cells, RenderTrend(c, trendWidth))
	}
	cells = append(cells, styles.StarStyle.Render(star))
	return joinCells(cells)
}

// RenderErrorPanel renders a failed load with the retry hint
func RenderErrorPanel(err error, width int) string {
	text := "Couldn't load market data"
	if err != nil {
		text += "\n" + styles.DimStyle.Render(err.Error())
	}
	text += "\n\n" + styles.HelpKeyStyle.Render("r") + styles.HelpDescStyle.Render(" retry")

	panelWidth := min(width, 60) - styles.PanelStyle.GetHorizontalFrameSize()
	return styles.PanelStyle.Width(max(10, panelWidth)).Render(styles.ErrorStyle.Render(text))
}

// RenderPageStrip renders the pagination strip, windowed around current when it does not fit
func RenderPageStrip(pages []int, current, width int) string {
	prev := styles.HelpKeyStyle.Render("←")
	next := styles.HelpKeyStyle.Render("→")

	render := func(from, to int) string {
		parts := []string{prev}
		if from > 0 {
			parts = append(parts, styles.DimStyle.Render("…"))
		}
		for _, p := range pages[from:to] {
			if p == current {
				parts = append(parts, styles.PageCurrentStyle.Render(strconv.Itoa(p)))
			} else {
				parts = append(parts, styles.PageStyle.Render(strconv.Itoa(p)))
			}
		}
		if to < len(pages) {
			parts = append(parts, styles.DimStyle.Render("…"))
		}
		parts = append(parts, next)
		return strings.Join(parts, " ")
	}

	from, to := 0, len(pages)
	strip := render(from, to)
	for lipgloss.Width(strip) > width && to-from > 1 {
		// Drop the page farthest from current
		if current-pages[from] > pages[to-1]-current {
			from++
		} else {
			to--
		}
		strip = render(from, to)
	}
	return strip
}
