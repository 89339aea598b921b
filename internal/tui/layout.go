package tui

// Chrome heights around the coin list
const (
	HeaderHeight = 1
	FooterHeight = 1
	StripHeight  = 1

	ChromeHeight = HeaderHeight + FooterHeight
)

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := m.Height - ChromeHeight
	tableHeight := contentHeight
	if !m.FavoritesOnly {
		tableHeight -= StripHeight
	}

	m.Table.SetSize(m.Width, max(1, tableHeight))
	m.Cards.SetSize(m.Width, max(1, contentHeight))
}
