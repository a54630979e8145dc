package dto

import (
	"time"

	"golang-stock-sentiment/pkg/sentiment"
)

// NewsField names a logical column of the headline table.
type NewsField string

const (
	NewsDate      NewsField = "date"
	NewsHeadline  NewsField = "headline"
	NewsPublisher NewsField = "publisher"
	NewsTicker    NewsField = "ticker"
)

// NewsRow is one raw headline line. PublishedAt is nil when the date is missing or unparsable.
type NewsRow struct {
	PublishedAt *time.Time
	Headline    string
	Publisher   string
	Ticker      string
}

// NewsTable is the headline CSV as loaded, with the logical columns it carries.
type NewsTable struct {
	Source  string
	Present map[NewsField]bool
	Rows    []NewsRow
}

// Has reports whether the source file carried the column.
func (t *NewsTable) Has(f NewsField) bool {
	return t.Present[f]
}

// NewsRecord is a dated, scored headline.
type NewsRecord struct {
	Date      time.Time
	Headline  string
	Publisher string
	Ticker    string
	Polarity  float64
	Class     sentiment.Class
}
