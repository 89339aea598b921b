package components

import (
	"strings"

	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/mmcdole/coinboard/internal/tui/styles"
	"github.com/shopspring/decimal"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as block characters, resampled to at most width cells.
// The last value is always included.
func Sparkline(values []decimal.Decimal, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}

	sampled := values
	if len(values) > width {
		sampled = make([]decimal.Decimal, width)
		for i := range sampled {
			sampled[i] = values[(i+1)*len(values)/width-1]
		}
	}

	lo, hi := sampled[0], sampled[0]
	for _, v := range sampled[1:] {
		lo = decimal.Min(lo, v)
		hi = decimal.Max(hi, v)
	}
	span := hi.Sub(lo)
	top := decimal.NewFromInt(int64(len(sparkBlocks) - 1))

	var b strings.Builder
	for _, v := range sampled {
		level := len(sparkBlocks) / 2
		if !span.IsZero() {
			level = int(v.Sub(lo).Mul(top).Div(span).IntPart())
		}
		b.WriteRune(sparkBlocks[level])
	}
	return b.String()
}

// RenderTrend renders the 7-day sparkline colored by its direction
func RenderTrend(c domain.Coin, width int) string {
	switch c.Trend() {
	case domain.TrendUp:
		return styles.UpStyle.Render(styles.PadRight(Sparkline(c.Sparkline, width), width))
	case domain.TrendDown:
		return styles.DownStyle.Render(styles.PadRight(Sparkline(c.Sparkline, width), width))
	default:
		return styles.DimStyle.Render(styles.PadRight("n/a", width))
	}
}
