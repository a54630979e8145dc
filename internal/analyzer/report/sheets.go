package report

import (
	"fmt"
	"strconv"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/common"

	"github.com/xuri/excelize/v2"
)

type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// writeWorkbook writes sheets in order into a new xlsx file at path.
func writeWorkbook(path string, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to rename sheet %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}

		header := s.header
		if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header of %s: %w", s.name, err)
		}
		for r := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			row := s.rows[r]
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("failed to write row %d of %s: %w", r+2, s.name, err)
			}
		}
		if err := f.SetPanes(s.name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("failed to freeze header of %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func sentimentSheets(r *dto.SentimentReport) []sheet {
	daily := sheet{
		name:   common.SheetDailySentiment,
		header: []interface{}{"date", "ticker", "avg_sentiment", "article_count", "dominant_sentiment"},
	}
	for _, d := range r.Daily {
		daily.rows = append(daily.rows, []interface{}{
			cellDay(d.Date), d.Ticker, d.AvgPolarity, d.ArticleCount, string(d.Dominant),
		})
	}

	c := r.Correlation
	correlation := sheet{
		name:   common.SheetCorrelation,
		header: []interface{}{"ticker", "horizon", "coefficient", "pairs", "rows", "news_days"},
		rows: [][]interface{}{
			{c.Ticker, dto.HorizonSameDay, cellFloat(c.SameDay), c.SameDayPairs, c.Rows, c.NewsDays},
			{c.Ticker, dto.HorizonNextDay, cellFloat(c.NextDay), c.NextDayPairs, c.Rows, c.NewsDays},
		},
	}

	classes := sheet{
		name:   common.SheetClassReturns,
		header: []interface{}{"horizon", "dominant_sentiment", "count", "mean", "min", "q1", "median", "q3", "max"},
	}
	for _, s := range r.ClassReturns {
		classes.rows = append(classes.rows, []interface{}{
			s.Horizon, string(s.Class), s.Count,
			cellFloat(s.Mean), cellFloat(s.Min), cellFloat(s.Q1), cellFloat(s.Median), cellFloat(s.Q3), cellFloat(s.Max),
		})
	}

	return []sheet{mergedTable(r.Merged), daily, correlation, classes}
}

func mergedTable(merged []dto.MergedRecord) sheet {
	s := sheet{
		name: common.SheetMerged,
		header: []interface{}{
			"date", "stock", "close", "return", "next_day_return",
			"avg_sentiment", "article_count", "dominant_sentiment",
		},
	}
	for _, m := range merged {
		s.rows = append(s.rows, []interface{}{
			cellDay(m.Date), m.Ticker, cellDecimal(m.Close), cellDecimal(m.Return), cellDecimal(m.NextDayReturn),
			m.AvgPolarity, m.ArticleCount, string(m.Dominant),
		})
	}
	return s
}

func edaSheets(r *dto.EDAReport) []sheet {
	sum := r.Summary
	summary := sheet{
		name:   common.SheetSummary,
		header: []interface{}{"metric", "value"},
		rows: [][]interface{}{
			{"source", r.Source},
			{"rows", sum.Rows},
			{"rows_with_date", sum.RowsWithDate},
			{"unique_headlines", sum.UniqueHeadlines},
			{"unique_publishers", sum.UniquePublishers},
			{"unique_tickers", sum.UniqueTickers},
			{"headline_length_count", sum.LengthCount},
			{"headline_length_mean", cellFloat(sum.LengthMean)},
			{"headline_length_std", cellFloat(sum.LengthStd)},
			{"headline_length_min", sum.LengthMin},
			{"headline_length_max", sum.LengthMax},
		},
	}
	if sum.FirstDate != nil && sum.LastDate != nil {
		summary.rows = append(summary.rows,
			[]interface{}{"first_date", cellDay(*sum.FirstDate)},
			[]interface{}{"last_date", cellDay(*sum.LastDate)},
		)
	}

	lengths := sheet{
		name:   common.SheetHeadlineLength,
		header: []interface{}{"lower", "upper", "count"},
	}
	for _, b := range r.HeadlineLengths {
		lengths.rows = append(lengths.rows, []interface{}{b.Lower, b.Upper, b.Count})
	}

	return []sheet{
		summary,
		countSheet(common.SheetPublishers, "publisher", r.TopPublishers),
		countSheet(common.SheetPublisherDomain, "domain", r.PublisherDomains),
		countSheet(common.SheetArticlesPerDay, "date", r.ArticlesPerDay),
		countSheet(common.SheetPublicationHour, "hour", r.ArticlesPerHour),
		lengths,
		countSheet(common.SheetKeywords, "keyword", r.Keywords),
	}
}

func countSheet(name, label string, items []dto.CountItem) sheet {
	s := sheet{name: name, header: []interface{}{label, "count"}}
	for _, it := range items {
		s.rows = append(s.rows, []interface{}{it.Label, it.Count})
	}
	return s
}

func indicatorTable(r *dto.TechnicalReport) sheet {
	s := sheet{
		name: common.SheetIndicators,
		header: []interface{}{
			"date", "close",
			"sma_" + strconv.Itoa(r.SMAShortPeriod),
			"sma_" + strconv.Itoa(r.SMALongPeriod),
			"rsi_" + strconv.Itoa(r.RSIPeriod),
			"macd", "macd_signal", "macd_hist",
		},
	}
	for _, row := range r.Rows {
		s.rows = append(s.rows, []interface{}{
			cellDay(row.Date), row.Close,
			cellFloat(row.SMAShort), cellFloat(row.SMALong), cellFloat(row.RSI),
			cellFloat(row.MACD), cellFloat(row.MACDSignal), cellFloat(row.MACDHist),
		})
	}
	return s
}

func technicalSummary(r *dto.TechnicalReport) sheet {
	return sheet{
		name:   common.SheetSummary,
		header: []interface{}{"metric", "value"},
		rows: [][]interface{}{
			{"ticker", r.Ticker},
			{"source", r.PriceSource},
			{"rows", len(r.Rows)},
			{"skipped_rows", r.SkippedRows},
			{"overbought_days", r.OverboughtDays},
			{"oversold_days", r.OversoldDays},
		},
	}
}
