package dto

import "time"

// CountItem is a label with its frequency.
type CountItem struct {
	Label string
	Count int
}

// HistogramBin counts values in [Lower, Upper); the last bin includes Upper.
type HistogramBin struct {
	Lower float64
	Upper float64
	Count int
}

// EDASummary mirrors a describe() over the headline table.
type EDASummary struct {
	Rows             int
	RowsWithDate     int
	UniqueHeadlines  int
	UniquePublishers int
	UniqueTickers    int
	FirstDate        *time.Time
	LastDate         *time.Time
	LengthCount      int
	LengthMean       float64
	LengthStd        float64
	LengthMin        int
	LengthMax        int
}

// EDAReport is the exploratory analysis of the headline table. Sections whose
// source column is absent stay empty.
type EDAReport struct {
	Source           string
	Summary          EDASummary
	HeadlineLengths  []HistogramBin
	TopPublishers    []CountItem
	PublisherDomains []CountItem
	ArticlesPerDay   []CountItem
	ArticlesPerHour  []CountItem
	Keywords         []CountItem
	Files            []string
}
