package dto

import "time"

// IndicatorRow is one bar with its indicators. Warm-up values are NaN.
type IndicatorRow struct {
	Date       time.Time
	Close      float64
	SMAShort   float64
	SMALong    float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64
}

// TechnicalReport holds the indicator series for one ticker.
type TechnicalReport struct {
	Ticker         string
	PriceSource    string
	SMAShortPeriod int
	SMALongPeriod  int
	RSIPeriod      int
	Rows           []IndicatorRow
	SkippedRows    int
	OverboughtDays int
	OversoldDays   int
	Files          []string
}
