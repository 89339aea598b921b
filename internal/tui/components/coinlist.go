package components

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/mmcdole/coinboard/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// SpinnerFrames are the frames of every loading animation
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// nameSource implements fuzzy.Source over lowercase coin names
type nameSource []domain.Coin

func (s nameSource) String(i int) string { return strings.ToLower(s[i].Name) }
func (s nameSource) Len() int            { return len(s) }

// coinList is the cursor, scroll and filter state shared by the table and the cards
type coinList struct {
	coins     []domain.Coin
	favorites map[string]bool

	cursor     int
	offset     int
	maxVisible int

	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into coins, market-cap order

	spinnerFrame int
	keys         ListKeyMap
}

func newCoinList() coinList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return coinList{
		favorites:   make(map[string]bool),
		filterInput: ti,
		keys:        DefaultListKeyMap(),
	}
}

// SetCoins replaces the list, keeping the cursor where possible
func (l *coinList) SetCoins(coins []domain.Coin) {
	l.coins = coins
	if l.filterActive && l.filterQuery != "" {
		l.filter()
	}
	l.clampCursor()
}

// SetFavorites replaces the favorite set used for the star column
func (l *coinList) SetFavorites(favorites map[string]bool) {
	l.favorites = favorites
}

// SetSpinnerFrame advances loading animations
func (l *coinList) SetSpinnerFrame(frame int) {
	l.spinnerFrame = frame
}

// Selected returns the coin under the cursor
func (l *coinList) Selected() (domain.Coin, bool) {
	if l.ItemCount() == 0 {
		return domain.Coin{}, false
	}
	return l.coins[l.mapIndex(l.cursor)], true
}

// ItemCount returns the number of visible coins after filtering
func (l *coinList) ItemCount() int {
	if l.filterActive && l.filterQuery != "" {
		return len(l.filteredIdx)
	}
	return len(l.coins)
}

// ToggleFilter opens the filter input or refocuses it
func (l *coinList) ToggleFilter() {
	l.filterActive = true
	l.filterInput.Focus()
}

// IsFiltering reports whether a filter is applied or being typed
func (l *coinList) IsFiltering() bool {
	return l.filterActive
}

// IsFilterTyping reports whether the filter input has focus
func (l *coinList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// ClearFilter removes the filter and shows every coin
func (l *coinList) ClearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.filteredIdx = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.clampCursor()
}

// update handles filter input and cursor movement
func (l *coinList) update(msg tea.Msg) tea.Cmd {
	keyMsg, isKey := msg.(tea.KeyMsg)

	if l.IsFilterTyping() {
		if isKey {
			switch {
			case key.Matches(keyMsg, l.keys.Escape):
				l.ClearFilter()
				return nil
			case key.Matches(keyMsg, l.keys.Enter):
				l.filterInput.Blur()
				return nil
			case keyMsg.String() == "backspace" && l.filterInput.Value() == "":
				l.ClearFilter()
				return nil
			}
		}

		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		if q := l.filterInput.Value(); q != l.filterQuery {
			l.filterQuery = q
			l.filter()
			l.cursor = 0
			l.offset = 0
		}
		return cmd
	}

	if !isKey {
		return nil
	}

	if l.filterActive {
		switch {
		case key.Matches(keyMsg, l.keys.Escape):
			l.ClearFilter()
			return nil
		case key.Matches(keyMsg, l.keys.Filter):
			l.filterInput.Focus()
			return nil
		}
	}

	count := l.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, l.keys.Down):
		if l.cursor < count-1 {
			l.cursor++
		}
	case key.Matches(keyMsg, l.keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(keyMsg, l.keys.Home):
		l.cursor = 0
	case key.Matches(keyMsg, l.keys.End):
		l.cursor = count - 1
	case key.Matches(keyMsg, l.keys.HalfDown):
		l.cursor = min(count-1, l.cursor+max(1, l.maxVisible/2))
	case key.Matches(keyMsg, l.keys.HalfUp):
		l.cursor = max(0, l.cursor-max(1, l.maxVisible/2))
	}
	l.ensureVisible()
	return nil
}

func (l *coinList) filter() {
	if l.filterQuery == "" {
		l.filteredIdx = nil
		return
	}
	matches := fuzzy.FindFrom(strings.ToLower(l.filterQuery), nameSource(l.coins))
	l.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		l.filteredIdx[i] = match.Index
	}
	sort.Ints(l.filteredIdx)
}

func (l *coinList) mapIndex(i int) int {
	if l.filterActive && l.filterQuery != "" {
		return l.filteredIdx[i]
	}
	return i
}

func (l *coinList) clampCursor() {
	count := l.ItemCount()
	if l.cursor >= count {
		l.cursor = max(0, count-1)
	}
	l.ensureVisible()
}

func (l *coinList) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
	if maxOffset := max(0, l.ItemCount()-l.maxVisible); l.offset > maxOffset {
		l.offset = maxOffset
	}
}

func (l *coinList) visibleRange() (start, end int) {
	end = min(l.offset+l.maxVisible, l.ItemCount())
	return l.offset, end
}

func (l *coinList) renderFilterBar(width int) string {
	l.filterInput.Width = max(1, width-lipgloss.Width(l.filterInput.Prompt)-1)
	return l.filterInput.View()
}

func (l *coinList) star(c domain.Coin) string {
	if l.favorites[c.ID] {
		return "★"
	}
	return "☆"
}

func (l *coinList) spinner() string {
	return styles.SpinnerStyle.Render(SpinnerFrames[l.spinnerFrame%len(SpinnerFrames)])
}
