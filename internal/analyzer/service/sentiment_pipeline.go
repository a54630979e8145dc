package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/sentiment"
	"golang-stock-sentiment/pkg/utils"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

var decimalOne = decimal.NewFromInt(1)

// ScoreHeadlines drops rows without a date, normalizes the rest to calendar
// days and scores each headline. Empty headlines score neutral.
func ScoreHeadlines(ctx context.Context, scorer sentiment.Scorer, rows []dto.NewsRow) ([]dto.NewsRecord, int, error) {
	records := make([]dto.NewsRecord, 0, len(rows))
	dropped := 0
	for i, row := range rows {
		if row.PublishedAt == nil {
			dropped++
			continue
		}
		polarity, err := scorer.Polarity(ctx, row.Headline)
		if err != nil {
			return nil, dropped, fmt.Errorf("failed to score headline at row %d: %w", i+1, err)
		}
		records = append(records, dto.NewsRecord{
			Date:      utils.TruncateDay(*row.PublishedAt),
			Headline:  row.Headline,
			Publisher: row.Publisher,
			Ticker:    row.Ticker,
			Polarity:  polarity,
			Class:     sentiment.Classify(polarity),
		})
	}
	return records, dropped, nil
}

type dayTickerKey struct {
	day    string
	ticker string
}

type dailyAccumulator struct {
	row    dto.DailySentiment
	sum    float64
	counts map[sentiment.Class]int
	seen   []sentiment.Class
}

// AggregateDaily groups records by (day, ticker). The dominant class is the
// most frequent one; ties go to the class seen first in the group.
// Output is sorted by day, then ticker.
func AggregateDaily(records []dto.NewsRecord) []dto.DailySentiment {
	groups := make(map[dayTickerKey]*dailyAccumulator)
	for _, rec := range records {
		key := dayTickerKey{day: utils.DayKey(rec.Date), ticker: rec.Ticker}
		acc, ok := groups[key]
		if !ok {
			acc = &dailyAccumulator{
				row:    dto.DailySentiment{Date: rec.Date, Ticker: rec.Ticker},
				counts: make(map[sentiment.Class]int, len(sentiment.Classes)),
			}
			groups[key] = acc
		}
		acc.sum += rec.Polarity
		acc.row.ArticleCount++
		if acc.counts[rec.Class] == 0 {
			acc.seen = append(acc.seen, rec.Class)
		}
		acc.counts[rec.Class]++
	}

	out := make([]dto.DailySentiment, 0, len(groups))
	for _, acc := range groups {
		d := acc.row
		d.AvgPolarity = acc.sum / float64(d.ArticleCount)
		d.Dominant = sentiment.Neutral
		best := 0
		for _, c := range acc.seen {
			if acc.counts[c] > best {
				best = acc.counts[c]
				d.Dominant = c
			}
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}

// ComputeReturns derives fractional returns for one ticker's bars, which must
// already be sorted ascending. An invalid close, or a zero previous close,
// leaves the affected returns invalid. The input slice is not modified.
func ComputeReturns(prices []dto.PriceRecord) []dto.PriceRecord {
	out := make([]dto.PriceRecord, len(prices))
	copy(out, prices)
	for i := range out {
		out[i].Return = decimal.NullDecimal{}
		out[i].NextDayReturn = decimal.NullDecimal{}
	}

	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1].Close, out[i].Close
		if !prev.Valid || !cur.Valid || prev.Decimal.IsZero() {
			continue
		}
		out[i].Return = decimal.NullDecimal{
			Decimal: cur.Decimal.Div(prev.Decimal).Sub(decimalOne),
			Valid:   true,
		}
	}
	for i := 0; i < len(out)-1; i++ {
		out[i].NextDayReturn = out[i+1].Return
	}
	return out
}

// MergeSentiment left-joins daily sentiment onto price bars by (day, ticker).
// Every bar is kept; bars without news get polarity 0, count 0 and the
// neutral class.
func MergeSentiment(prices []dto.PriceRecord, daily []dto.DailySentiment) []dto.MergedRecord {
	index := make(map[dayTickerKey]dto.DailySentiment, len(daily))
	for _, d := range daily {
		index[dayTickerKey{day: utils.DayKey(d.Date), ticker: d.Ticker}] = d
	}

	merged := make([]dto.MergedRecord, 0, len(prices))
	for _, p := range prices {
		m := dto.MergedRecord{
			Date:          p.Date,
			Ticker:        p.Ticker,
			Close:         p.Close,
			Return:        p.Return,
			NextDayReturn: p.NextDayReturn,
			Dominant:      sentiment.Neutral,
		}
		if d, ok := index[dayTickerKey{day: utils.DayKey(p.Date), ticker: p.Ticker}]; ok {
			m.AvgPolarity = d.AvgPolarity
			m.ArticleCount = d.ArticleCount
			m.Dominant = d.Dominant
			m.HasNews = true
		}
		merged = append(merged, m)
	}
	return merged
}

// Pearson returns the correlation coefficient of x and y, or NaN when it is
// undefined: fewer than two pairs or a constant series.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	if isConstant(x) || isConstant(y) {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

func isConstant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}

// Correlate computes same-day and next-day correlations for merged rows.
// Rows missing the return of a pair are excluded from that pair only.
func Correlate(ticker string, merged []dto.MergedRecord) dto.CorrelationResult {
	var sameX, sameY, nextX, nextY []float64
	newsDays := 0
	for _, m := range merged {
		if m.HasNews {
			newsDays++
		}
		if m.Return.Valid {
			sameX = append(sameX, m.AvgPolarity)
			sameY = append(sameY, m.Return.Decimal.InexactFloat64())
		}
		if m.NextDayReturn.Valid {
			nextX = append(nextX, m.AvgPolarity)
			nextY = append(nextY, m.NextDayReturn.Decimal.InexactFloat64())
		}
	}
	return dto.CorrelationResult{
		Ticker:       ticker,
		Rows:         len(merged),
		NewsDays:     newsDays,
		SameDay:      Pearson(sameX, sameY),
		SameDayPairs: len(sameX),
		NextDay:      Pearson(nextX, nextY),
		NextDayPairs: len(nextX),
	}
}

// ClassReturns summarizes the return distribution per dominant class for both
// horizons. Classes with no valid returns are omitted.
func ClassReturns(merged []dto.MergedRecord) []dto.ClassReturnStats {
	var out []dto.ClassReturnStats
	for _, horizon := range []string{dto.HorizonSameDay, dto.HorizonNextDay} {
		for _, class := range sentiment.Classes {
			var values []float64
			for _, m := range merged {
				if m.Dominant != class {
					continue
				}
				r := m.Return
				if horizon == dto.HorizonNextDay {
					r = m.NextDayReturn
				}
				if r.Valid {
					values = append(values, r.Decimal.InexactFloat64())
				}
			}
			if len(values) == 0 {
				continue
			}
			sort.Float64s(values)
			out = append(out, dto.ClassReturnStats{
				Class:   class,
				Horizon: horizon,
				Count:   len(values),
				Mean:    stat.Mean(values, nil),
				Min:     values[0],
				Q1:      stat.Quantile(0.25, stat.LinInterp, values, nil),
				Median:  stat.Quantile(0.5, stat.LinInterp, values, nil),
				Q3:      stat.Quantile(0.75, stat.LinInterp, values, nil),
				Max:     values[len(values)-1],
			})
		}
	}
	return out
}
