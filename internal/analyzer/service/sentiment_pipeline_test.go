package service

import (
	"context"
	"math"
	"testing"
	"time"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/sentiment"
	"golang-stock-sentiment/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedScorer map[string]float64

func (f fixedScorer) Polarity(_ context.Context, text string) (float64, error) {
	return f[text], nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ts(s string) *time.Time {
	t, ok := utils.ParseTimestamp(s)
	if !ok {
		panic("bad timestamp " + s)
	}
	return &t
}

func dec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func bars(ticker string, days []string, closes []string) []dto.PriceRecord {
	out := make([]dto.PriceRecord, len(days))
	for i := range days {
		out[i] = dto.PriceRecord{Date: day(days[i]), Ticker: ticker}
		if closes[i] != "" {
			out[i].Close = dec(closes[i])
		}
	}
	return out
}

func TestScoreHeadlines(t *testing.T) {
	scorer := fixedScorer{"good": 0.5, "bad": -0.5, "meh": 0.1}
	rows := []dto.NewsRow{
		{PublishedAt: ts("2020-06-05 10:30:54-04:00"), Headline: "good", Ticker: "A"},
		{PublishedAt: nil, Headline: "bad", Ticker: "A"},
		{PublishedAt: ts("2020-06-05 23:30:00-04:00"), Headline: "bad", Ticker: "A"},
		{PublishedAt: ts("2020-06-06"), Headline: "meh", Ticker: "B"},
		{PublishedAt: ts("2020-06-06"), Headline: "", Ticker: "B"},
	}

	records, dropped, err := ScoreHeadlines(context.Background(), scorer, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, records, 4)

	assert.Equal(t, day("2020-06-05"), records[0].Date)
	assert.Equal(t, sentiment.Positive, records[0].Class)
	// 23:30 at -04:00 is the next UTC day.
	assert.Equal(t, day("2020-06-06"), records[1].Date)
	assert.Equal(t, sentiment.Negative, records[1].Class)
	assert.Equal(t, sentiment.Neutral, records[2].Class)
	assert.Equal(t, 0.0, records[3].Polarity)
	assert.Equal(t, sentiment.Neutral, records[3].Class)
}

func TestAggregateDaily(t *testing.T) {
	records := []dto.NewsRecord{
		{Date: day("2020-01-02"), Ticker: "B", Polarity: 0.3, Class: sentiment.Positive},
		{Date: day("2020-01-01"), Ticker: "A", Polarity: 0.5, Class: sentiment.Positive},
		{Date: day("2020-01-01"), Ticker: "A", Polarity: -0.2, Class: sentiment.Negative},
		{Date: day("2020-01-01"), Ticker: "A", Polarity: 0.2, Class: sentiment.Positive},
		{Date: day("2020-01-01"), Ticker: "B", Polarity: 0.0, Class: sentiment.Neutral},
	}

	daily := AggregateDaily(records)
	require.Len(t, daily, 3)

	seen := map[string]bool{}
	for _, d := range daily {
		key := utils.DayKey(d.Date) + "/" + d.Ticker
		assert.False(t, seen[key], "duplicate group %s", key)
		seen[key] = true
	}

	assert.Equal(t, day("2020-01-01"), daily[0].Date)
	assert.Equal(t, "A", daily[0].Ticker)
	assert.Equal(t, 3, daily[0].ArticleCount)
	assert.InDelta(t, 0.5/3, daily[0].AvgPolarity, 1e-12)
	assert.Equal(t, sentiment.Positive, daily[0].Dominant)

	assert.Equal(t, "B", daily[1].Ticker)
	assert.Equal(t, sentiment.Neutral, daily[1].Dominant)
	assert.Equal(t, day("2020-01-02"), daily[2].Date)
}

func TestAggregateDaily_TieGoesToFirstSeen(t *testing.T) {
	records := []dto.NewsRecord{
		{Date: day("2020-01-01"), Ticker: "A", Polarity: -0.5, Class: sentiment.Negative},
		{Date: day("2020-01-01"), Ticker: "A", Polarity: 0.5, Class: sentiment.Positive},
		{Date: day("2020-01-01"), Ticker: "B", Polarity: 0.5, Class: sentiment.Positive},
		{Date: day("2020-01-01"), Ticker: "B", Polarity: -0.5, Class: sentiment.Negative},
	}

	daily := AggregateDaily(records)
	require.Len(t, daily, 2)
	assert.Equal(t, sentiment.Negative, daily[0].Dominant)
	assert.Equal(t, sentiment.Positive, daily[1].Dominant)
}

func TestComputeReturns(t *testing.T) {
	prices := bars("A", []string{"2020-01-01", "2020-01-02"}, []string{"100", "110"})

	out := ComputeReturns(prices)
	require.Len(t, out, 2)
	assert.False(t, out[0].Return.Valid)
	require.True(t, out[1].Return.Valid)
	assert.True(t, out[1].Return.Decimal.Equal(decimal.RequireFromString("0.1")), out[1].Return.Decimal.String())
	require.True(t, out[0].NextDayReturn.Valid)
	assert.True(t, out[0].NextDayReturn.Decimal.Equal(decimal.RequireFromString("0.1")))
	assert.False(t, out[1].NextDayReturn.Valid)

	assert.False(t, prices[1].Return.Valid, "input must not be modified")
}

func TestComputeReturns_InvalidClosesPropagate(t *testing.T) {
	prices := bars("A",
		[]string{"2020-01-01", "2020-01-02", "2020-01-03", "2020-01-04", "2020-01-05"},
		[]string{"100", "", "50", "0", "10"},
	)

	out := ComputeReturns(prices)
	assert.False(t, out[1].Return.Valid)
	assert.False(t, out[2].Return.Valid)
	require.True(t, out[3].Return.Valid)
	assert.True(t, out[3].Return.Decimal.Equal(decimal.NewFromInt(-1)))
	assert.False(t, out[4].Return.Valid, "zero previous close")
	assert.False(t, out[0].NextDayReturn.Valid)
	assert.True(t, out[2].NextDayReturn.Valid)
}

func TestMergeSentiment_FillsNoNewsDays(t *testing.T) {
	prices := ComputeReturns(bars("A",
		[]string{"2020-01-01", "2020-01-02", "2020-01-03"},
		[]string{"100", "110", "99"},
	))
	daily := []dto.DailySentiment{
		{Date: day("2020-01-02"), Ticker: "A", AvgPolarity: 0.4, ArticleCount: 2, Dominant: sentiment.Positive},
		{Date: day("2020-01-02"), Ticker: "B", AvgPolarity: -0.4, ArticleCount: 1, Dominant: sentiment.Negative},
		{Date: day("2020-01-09"), Ticker: "A", AvgPolarity: 0.9, ArticleCount: 1, Dominant: sentiment.Positive},
	}

	merged := MergeSentiment(prices, daily)
	require.Len(t, merged, 3)

	for _, i := range []int{0, 2} {
		assert.Equal(t, 0.0, merged[i].AvgPolarity)
		assert.Equal(t, 0, merged[i].ArticleCount)
		assert.Equal(t, sentiment.Neutral, merged[i].Dominant)
		assert.False(t, merged[i].HasNews)
	}
	assert.Equal(t, 0.4, merged[1].AvgPolarity)
	assert.Equal(t, 2, merged[1].ArticleCount)
	assert.Equal(t, sentiment.Positive, merged[1].Dominant)
	assert.True(t, merged[1].HasNews)
	assert.True(t, merged[1].Return.Valid)
}

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{name: "identical", x: []float64{0.01, -0.02, 0.03, 0.005}, y: []float64{0.01, -0.02, 0.03, 0.005}, want: 1},
		{name: "inverse", x: []float64{1, 2, 3}, y: []float64{3, 2, 1}, want: -1},
		{name: "constant x", x: []float64{0, 0, 0}, y: []float64{1, 2, 3}, want: math.NaN()},
		{name: "constant y", x: []float64{1, 2, 3}, y: []float64{5, 5, 5}, want: math.NaN()},
		{name: "single pair", x: []float64{1}, y: []float64{2}, want: math.NaN()},
		{name: "empty", want: math.NaN()},
		{name: "length mismatch", x: []float64{1, 2}, y: []float64{1}, want: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pearson(tt.x, tt.y)
			if math.IsNaN(tt.want) {
				assert.True(t, math.IsNaN(got), "got %v", got)
				return
			}
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestCorrelate(t *testing.T) {
	prices := ComputeReturns(bars("A",
		[]string{"2020-01-01", "2020-01-02", "2020-01-03", "2020-01-04", "2020-01-05"},
		[]string{"100", "110", "99", "120", "114"},
	))
	var daily []dto.DailySentiment
	for _, p := range prices[1:] {
		r := p.Return.Decimal.InexactFloat64()
		daily = append(daily, dto.DailySentiment{Date: p.Date, Ticker: "A", AvgPolarity: r, ArticleCount: 1})
	}

	c := Correlate("A", MergeSentiment(prices, daily))
	assert.Equal(t, "A", c.Ticker)
	assert.Equal(t, 5, c.Rows)
	assert.Equal(t, 4, c.NewsDays)
	assert.Equal(t, 4, c.SameDayPairs)
	assert.InDelta(t, 1.0, c.SameDay, 1e-6)
	assert.Equal(t, 4, c.NextDayPairs)
	assert.False(t, math.IsNaN(c.NextDay))
}

func TestCorrelate_NoNewsIsNaN(t *testing.T) {
	prices := ComputeReturns(bars("A",
		[]string{"2020-01-01", "2020-01-02", "2020-01-03"},
		[]string{"100", "110", "99"},
	))

	c := Correlate("A", MergeSentiment(prices, nil))
	assert.Equal(t, 0, c.NewsDays)
	assert.True(t, math.IsNaN(c.SameDay))
	assert.True(t, math.IsNaN(c.NextDay))
}

func TestClassReturns(t *testing.T) {
	merged := []dto.MergedRecord{
		{Dominant: sentiment.Positive, Return: dec("0.01"), NextDayReturn: dec("0.02")},
		{Dominant: sentiment.Positive, Return: dec("0.03"), NextDayReturn: dec("0.04")},
		{Dominant: sentiment.Positive, Return: dec("0.05")},
		{Dominant: sentiment.Neutral, NextDayReturn: dec("-0.01")},
	}

	stats := ClassReturns(merged)
	require.Len(t, stats, 3)

	same := stats[0]
	assert.Equal(t, dto.HorizonSameDay, same.Horizon)
	assert.Equal(t, sentiment.Positive, same.Class)
	assert.Equal(t, 3, same.Count)
	assert.InDelta(t, 0.03, same.Mean, 1e-12)
	assert.InDelta(t, 0.01, same.Min, 1e-12)
	// gonum LinInterp: halfway between the first and second order statistic.
	assert.InDelta(t, 0.02, same.Median, 1e-12)
	assert.InDelta(t, 0.01, same.Q1, 1e-12)
	assert.InDelta(t, 0.05, same.Max, 1e-12)

	assert.Equal(t, dto.HorizonNextDay, stats[1].Horizon)
	assert.Equal(t, sentiment.Positive, stats[1].Class)
	assert.Equal(t, 2, stats[1].Count)
	assert.Equal(t, sentiment.Neutral, stats[2].Class)
	assert.Equal(t, 1, stats[2].Count)
}
