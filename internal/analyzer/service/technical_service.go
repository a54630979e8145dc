package service

import (
	"context"
	"fmt"
	"math"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/report"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/pkg/errors"
	"golang-stock-sentiment/pkg/logger"

	"github.com/markcheno/go-talib"
)

// TechnicalService computes indicator series for every configured price source.
type TechnicalService interface {
	Run(ctx context.Context) ([]dto.TechnicalReport, error)
}

type technicalService struct {
	cfg       *config.Config
	log       *logger.Logger
	priceRepo repository.PriceRepository
	writer    report.Writer
}

// NewTechnicalService creates a new instance of TechnicalService.
func NewTechnicalService(cfg *config.Config, log *logger.Logger, priceRepo repository.PriceRepository, writer report.Writer) TechnicalService {
	return &technicalService{
		cfg:       cfg,
		log:       log,
		priceRepo: priceRepo,
		writer:    writer,
	}
}

func (s *technicalService) Run(ctx context.Context) ([]dto.TechnicalReport, error) {
	if len(s.cfg.Price.Sources) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "no price sources configured")
	}

	// Every source is loaded, and its columns checked, before anything is written.
	prices := make([][]dto.PriceRecord, len(s.cfg.Price.Sources))
	for i, src := range s.cfg.Price.Sources {
		var err error
		prices[i], err = s.priceRepo.Load(ctx, src, dto.OHLCVColumns...)
		if err != nil {
			return nil, fmt.Errorf("failed to load prices for %s: %w", src.Ticker, err)
		}
	}

	reports := make([]dto.TechnicalReport, 0, len(s.cfg.Price.Sources))
	for i, src := range s.cfg.Price.Sources {
		rep := ComputeIndicators(s.cfg.Technical, prices[i])
		rep.Ticker = src.Ticker
		rep.PriceSource = src.Path

		log := s.log.With(logger.StringField("ticker", src.Ticker))
		if err := CheckWarmup(s.cfg.Technical, len(rep.Rows)); err != nil {
			log.Warn("Indicator series shorter than warm-up", logger.ErrorField(err))
		}

		log.Info("Computed technical indicators",
			logger.IntField("rows", len(rep.Rows)),
			logger.IntField("skipped_rows", rep.SkippedRows),
			logger.IntField("overbought_days", rep.OverboughtDays),
			logger.IntField("oversold_days", rep.OversoldDays),
		)

		files, err := s.writer.WriteTechnical(ctx, &rep)
		if err != nil {
			return nil, fmt.Errorf("failed to write technical report for %s: %w", src.Ticker, err)
		}
		rep.Files = files
		reports = append(reports, rep)
	}
	return reports, nil
}

// ComputeIndicators runs SMA, RSI and MACD over the close series. Bars with
// an invalid close are skipped. Positions inside an indicator's warm-up
// window, or every position when the series is too short, are NaN.
func ComputeIndicators(cfg config.Technical, prices []dto.PriceRecord) dto.TechnicalReport {
	rep := dto.TechnicalReport{
		SMAShortPeriod: cfg.SMAShortPeriod,
		SMALongPeriod:  cfg.SMALongPeriod,
		RSIPeriod:      cfg.RSIPeriod,
	}

	closes := make([]float64, 0, len(prices))
	for _, p := range prices {
		if !p.Close.Valid {
			rep.SkippedRows++
			continue
		}
		c := p.Close.Decimal.InexactFloat64()
		closes = append(closes, c)
		rep.Rows = append(rep.Rows, dto.IndicatorRow{Date: p.Date, Close: c})
	}

	smaShort := smaSeries(closes, cfg.SMAShortPeriod)
	smaLong := smaSeries(closes, cfg.SMALongPeriod)
	rsi := rsiSeries(closes, cfg.RSIPeriod)
	macd, signal, hist := macdSeries(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)

	for i := range rep.Rows {
		row := &rep.Rows[i]
		row.SMAShort = smaShort[i]
		row.SMALong = smaLong[i]
		row.RSI = rsi[i]
		row.MACD = macd[i]
		row.MACDSignal = signal[i]
		row.MACDHist = hist[i]

		switch {
		case math.IsNaN(row.RSI):
		case row.RSI > cfg.RSIOverbought:
			rep.OverboughtDays++
		case row.RSI < cfg.RSIOversold:
			rep.OversoldDays++
		}
	}
	return rep
}

// CheckWarmup reports ErrNotEnoughData when rows cannot cover the longest
// indicator warm-up, leaving at least one indicator entirely NaN.
func CheckWarmup(cfg config.Technical, rows int) error {
	need := max(cfg.SMAShortPeriod, cfg.SMALongPeriod, cfg.RSIPeriod+1, cfg.MACDSlow+cfg.MACDSignal-1)
	if rows < need {
		return errors.Wrapf(errors.ErrNotEnoughData, "%d rows, indicators need %d", rows, need)
	}
	return nil
}

func smaSeries(closes []float64, period int) []float64 {
	if period < 1 || len(closes) < period {
		return nanSeries(len(closes))
	}
	return maskWarmup(talib.Sma(closes, period), period-1)
}

func rsiSeries(closes []float64, period int) []float64 {
	if period < 2 || len(closes) <= period {
		return nanSeries(len(closes))
	}
	return maskWarmup(talib.Rsi(closes, period), period)
}

func macdSeries(closes []float64, fast, slow, signal int) ([]float64, []float64, []float64) {
	lookback := slow - 1 + signal - 1
	if fast < 2 || slow <= fast || signal < 1 || len(closes) <= lookback {
		n := len(closes)
		return nanSeries(n), nanSeries(n), nanSeries(n)
	}
	m, s, h := talib.Macd(closes, fast, slow, signal)
	return maskWarmup(m, lookback), maskWarmup(s, lookback), maskWarmup(h, lookback)
}

func maskWarmup(values []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(values); i++ {
		values[i] = math.NaN()
	}
	return values
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
