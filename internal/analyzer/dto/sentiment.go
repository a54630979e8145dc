package dto

import (
	"time"

	"golang-stock-sentiment/pkg/sentiment"

	"github.com/shopspring/decimal"
)

// DailySentiment aggregates the headlines of one ticker on one day.
type DailySentiment struct {
	Date         time.Time       `json:"date"`
	Ticker       string          `json:"ticker"`
	AvgPolarity  float64         `json:"avg_polarity"`
	ArticleCount int             `json:"article_count"`
	Dominant     sentiment.Class `json:"dominant_sentiment"`
}

// MergedRecord is a price bar with that day's sentiment; days without news are neutral.
type MergedRecord struct {
	Date          time.Time
	Ticker        string
	Close         decimal.NullDecimal
	Return        decimal.NullDecimal
	NextDayReturn decimal.NullDecimal
	AvgPolarity   float64
	ArticleCount  int
	Dominant      sentiment.Class
	HasNews       bool
}

// CorrelationResult holds Pearson coefficients of average polarity against
// same-day and next-day returns. NaN means undefined.
type CorrelationResult struct {
	Ticker       string  `json:"ticker"`
	Rows         int     `json:"rows"`
	NewsDays     int     `json:"news_days"`
	SameDay      float64 `json:"same_day"`
	SameDayPairs int     `json:"same_day_pairs"`
	NextDay      float64 `json:"next_day"`
	NextDayPairs int     `json:"next_day_pairs"`
}

const (
	HorizonSameDay = "same_day"
	HorizonNextDay = "next_day"
)

// ClassReturnStats is the distribution of returns on days of one dominant class.
type ClassReturnStats struct {
	Class   sentiment.Class `json:"class"`
	Horizon string          `json:"horizon"`
	Count   int             `json:"count"`
	Mean    float64         `json:"mean"`
	Min     float64         `json:"min"`
	Q1      float64         `json:"q1"`
	Median  float64         `json:"median"`
	Q3      float64         `json:"q3"`
	Max     float64         `json:"max"`
}

// SentimentReport is the full sentiment-vs-return analysis for one ticker.
type SentimentReport struct {
	Ticker       string
	PriceSource  string
	Daily        []DailySentiment
	Merged       []MergedRecord
	Correlation  CorrelationResult
	ClassReturns []ClassReturnStats
	Files        []string
}

// SentimentRunResult collects every ticker of one run.
type SentimentRunResult struct {
	NewsSource      string
	NewsRows        int
	DroppedNewsRows int
	Reports         []SentimentReport
	Pooled          CorrelationResult
}
