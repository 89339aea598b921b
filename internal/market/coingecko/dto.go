package coingecko

import "github.com/shopspring/decimal"

// MarketDTO is one record of GET /coins/markets.
// Numeric fields are nullable so that missing values can be told apart from zero.
type MarketDTO struct {
	ID                       *string             `json:"id"`
	Symbol                   string              `json:"symbol"`
	Name                     *string             `json:"name"`
	Image                    string              `json:"image"`
	CurrentPrice             decimal.NullDecimal `json:"current_price"`
	MarketCap                decimal.NullDecimal `json:"market_cap"`
	MarketCapRank            *int                `json:"market_cap_rank"`
	PriceChangePercentage24h decimal.NullDecimal `json:"price_change_percentage_24h"`
	SparklineIn7d            *SparklineDTO       `json:"sparkline_in_7d"`
}

// SparklineDTO holds the 7-day price series
type SparklineDTO struct {
	Price []decimal.Decimal `json:"price"`
}
