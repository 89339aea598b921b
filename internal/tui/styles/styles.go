package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colors of one theme
type Palette struct {
	Accent     lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Dim        lipgloss.Color
	Muted      lipgloss.Color
	Text       lipgloss.Color
	Up         lipgloss.Color
	Down       lipgloss.Color
}

// Themes
var (
	DarkPalette = Palette{
		Accent:     lipgloss.Color("#FACC15"),
		Background: lipgloss.Color("#111827"),
		Surface:    lipgloss.Color("#374151"),
		Dim:        lipgloss.Color("#6B7280"),
		Muted:      lipgloss.Color("#9CA3AF"),
		Text:       lipgloss.Color("#F9FAFB"),
		Up:         lipgloss.Color("#10B981"),
		Down:       lipgloss.Color("#EF4444"),
	}

	LightPalette = Palette{
		Accent:     lipgloss.Color("#CA8A04"),
		Background: lipgloss.Color("#FFFFFF"),
		Surface:    lipgloss.Color("#E5E7EB"),
		Dim:        lipgloss.Color("#9CA3AF"),
		Muted:      lipgloss.Color("#4B5563"),
		Text:       lipgloss.Color("#111827"),
		Up:         lipgloss.Color("#059669"),
		Down:       lipgloss.Color("#DC2626"),
	}
)

// Current palette and derived styles. Rebuilt by SetTheme.
var (
	Colors = DarkPalette
	dark   = true

	TitleStyle          lipgloss.Style
	SubtitleStyle       lipgloss.Style
	DimStyle            lipgloss.Style
	AccentStyle         lipgloss.Style
	ErrorStyle          lipgloss.Style
	UpStyle             lipgloss.Style
	DownStyle           lipgloss.Style
	HeaderStyle         lipgloss.Style
	SelectedRowStyle    lipgloss.Style
	NormalRowStyle      lipgloss.Style
	SkeletonStyle       lipgloss.Style
	CardStyle           lipgloss.Style
	CardSelectedStyle   lipgloss.Style
	PanelStyle          lipgloss.Style
	ModalStyle          lipgloss.Style
	PageStyle           lipgloss.Style
	PageCurrentStyle    lipgloss.Style
	HelpKeyStyle        lipgloss.Style
	HelpDescStyle       lipgloss.Style
	SpinnerStyle        lipgloss.Style
	FilterStyle         lipgloss.Style
	FilterPromptStyle   lipgloss.Style
	StarStyle           lipgloss.Style
	MatchHighlightStyle lipgloss.Style
)

func init() {
	SetTheme(true)
}

// IsDark reports whether the dark theme is active
func IsDark() bool {
	return dark
}

// SetTheme switches between the dark and light palettes
func SetTheme(isDark bool) {
	dark = isDark
	if isDark {
		Colors = DarkPalette
	} else {
		Colors = LightPalette
	}
	c := Colors

	TitleStyle = lipgloss.NewStyle().Foreground(c.Text).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(c.Muted)
	DimStyle = lipgloss.NewStyle().Foreground(c.Dim)
	AccentStyle = lipgloss.NewStyle().Foreground(c.Accent)
	ErrorStyle = lipgloss.NewStyle().Foreground(c.Down)
	UpStyle = lipgloss.NewStyle().Foreground(c.Up)
	DownStyle = lipgloss.NewStyle().Foreground(c.Down)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(c.Muted).
		Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
		Foreground(c.Text).
		Background(c.Surface)

	NormalRowStyle = lipgloss.NewStyle().
		Foreground(c.Text)

	SkeletonStyle = lipgloss.NewStyle().
		Foreground(c.Surface)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.Dim).
		Padding(0, 1)

	CardSelectedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.Accent).
		Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.Down).
		Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.Accent).
		Padding(1, 2)

	PageStyle = lipgloss.NewStyle().
		Foreground(c.Muted).
		Padding(0, 1)

	PageCurrentStyle = lipgloss.NewStyle().
		Foreground(c.Background).
		Background(c.Accent).
		Bold(true).
		Padding(0, 1)

	HelpKeyStyle = lipgloss.NewStyle().Foreground(c.Accent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(c.Dim)
	SpinnerStyle = lipgloss.NewStyle().Foreground(c.Accent)

	FilterStyle = lipgloss.NewStyle().Foreground(c.Accent)
	FilterPromptStyle = lipgloss.NewStyle().
		Foreground(c.Accent).
		Bold(true)

	StarStyle = lipgloss.NewStyle().Foreground(c.Accent)
	MatchHighlightStyle = lipgloss.NewStyle().
		Foreground(c.Accent).
		Bold(true)
}

// Helper functions

// Truncate shortens s to width cells, adding an ellipsis when it is cut
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width == 1 {
		return string(runes[:1])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// PadRight pads s with spaces to width cells
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// PadLeft right-aligns s within width cells
func PadLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}
