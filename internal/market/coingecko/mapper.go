package coingecko

import (
	"strings"

	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/pkg/errors"
)

// MapCoin validates a market record and converts it to a domain coin.
// id, name, current_price and market_cap are required.
func MapCoin(dto MarketDTO) (domain.Coin, error) {
	if dto.ID == nil || strings.TrimSpace(*dto.ID) == "" {
		return domain.Coin{}, errors.New("missing id")
	}
	id := *dto.ID

	if dto.Name == nil || strings.TrimSpace(*dto.Name) == "" {
		return domain.Coin{}, errors.Errorf("coin %q: missing name", id)
	}
	if !dto.CurrentPrice.Valid {
		return domain.Coin{}, errors.Errorf("coin %q: missing current_price", id)
	}
	if !dto.MarketCap.Valid {
		return domain.Coin{}, errors.Errorf("coin %q: missing market_cap", id)
	}

	coin := domain.Coin{
		ID:             id,
		Name:           *dto.Name,
		Image:          dto.Image,
		CurrentPrice:   dto.CurrentPrice.Decimal,
		MarketCap:      dto.MarketCap.Decimal,
		PriceChange24h: dto.PriceChangePercentage24h,
	}
	if dto.SparklineIn7d != nil && len(dto.SparklineIn7d.Price) > 0 {
		coin.Sparkline = dto.SparklineIn7d.Price
	}
	return coin, nil
}

// MapCoins converts a whole response; a single malformed record rejects the page.
func MapCoins(dtos []MarketDTO) ([]domain.Coin, error) {
	coins := make([]domain.Coin, 0, len(dtos))
	for i, dto := range dtos {
		coin, err := MapCoin(dto)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		coins = append(coins, coin)
	}
	return coins, nil
}
