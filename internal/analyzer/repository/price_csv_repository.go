package repository

import (
	"context"
	"sort"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/utils"

	"github.com/shopspring/decimal"
)

// PriceRepository loads daily bars for one ticker.
type PriceRepository interface {
	// Load returns bars sorted ascending by day. Rows with an unparsable date
	// are dropped; unparsable numbers are kept as invalid decimals.
	Load(ctx context.Context, src config.PriceSource, required ...string) ([]dto.PriceRecord, error)
}

// NewPriceCSVRepository creates a PriceRepository reading OHLCV CSV files.
func NewPriceCSVRepository(cfg config.Price, log *logger.Logger) PriceRepository {
	return &priceCSVRepository{
		cfg: cfg,
		log: log,
	}
}

type priceCSVRepository struct {
	cfg config.Price
	log *logger.Logger
}

func (r *priceCSVRepository) Load(ctx context.Context, src config.PriceSource, required ...string) ([]dto.PriceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := readCSV(src.Path, src.SkipRows)
	if err != nil {
		return nil, err
	}
	if err := table.require(append([]string{r.cfg.DateColumn}, required...)...); err != nil {
		return nil, err
	}

	prices := make([]dto.PriceRecord, 0, len(table.rows))
	dropped, coerced := 0, 0
	for _, rec := range table.rows {
		day, ok := utils.ParseDay(table.value(rec, r.cfg.DateColumn))
		if !ok {
			dropped++
			continue
		}
		p := dto.PriceRecord{
			Date:   day,
			Ticker: src.Ticker,
			Open:   parseDecimal(table.value(rec, dto.ColumnOpen)),
			High:   parseDecimal(table.value(rec, dto.ColumnHigh)),
			Low:    parseDecimal(table.value(rec, dto.ColumnLow)),
			Close:  parseDecimal(table.value(rec, dto.ColumnClose)),
			Volume: parseDecimal(table.value(rec, dto.ColumnVolume)),
		}
		if table.has(dto.ColumnClose) && !p.Close.Valid {
			coerced++
		}
		prices = append(prices, p)
	}

	sort.SliceStable(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})

	r.log.Info("Loaded price table",
		logger.StringField("ticker", src.Ticker),
		logger.StringField("path", src.Path),
		logger.IntField("rows", len(prices)),
		logger.IntField("dropped_dates", dropped),
		logger.IntField("invalid_closes", coerced),
	)
	return prices, nil
}

func parseDecimal(raw string) decimal.NullDecimal {
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
