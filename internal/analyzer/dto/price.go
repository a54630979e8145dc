package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OHLCV column names as written by common market-data exports.
const (
	ColumnOpen   = "Open"
	ColumnHigh   = "High"
	ColumnLow    = "Low"
	ColumnClose  = "Close"
	ColumnVolume = "Volume"
)

// OHLCVColumns lists every price column in file order.
var OHLCVColumns = []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}

// PriceRecord is one daily bar. Unparsable numbers are left invalid.
type PriceRecord struct {
	Date   time.Time
	Ticker string
	Open   decimal.NullDecimal
	High   decimal.NullDecimal
	Low    decimal.NullDecimal
	Close  decimal.NullDecimal
	Volume decimal.NullDecimal

	// Return is close over previous close minus one; invalid on the first bar.
	Return decimal.NullDecimal
	// NextDayReturn is the following bar's Return; invalid on the last bar.
	NextDayReturn decimal.NullDecimal
}
