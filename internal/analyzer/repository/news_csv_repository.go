package repository

import (
	"context"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/utils"
)

// NewsRepository loads the headline table.
type NewsRepository interface {
	// Load reads every row and fails before returning anything if one of the
	// required logical columns is absent.
	Load(ctx context.Context, required ...dto.NewsField) (*dto.NewsTable, error)
}

// NewNewsCSVRepository creates a NewsRepository backed by the configured CSV file.
func NewNewsCSVRepository(cfg config.News, log *logger.Logger) NewsRepository {
	return &newsCSVRepository{
		cfg: cfg,
		log: log,
	}
}

type newsCSVRepository struct {
	cfg config.News
	log *logger.Logger
}

func (r *newsCSVRepository) columns() map[dto.NewsField]string {
	return map[dto.NewsField]string{
		dto.NewsDate:      r.cfg.DateColumn,
		dto.NewsHeadline:  r.cfg.HeadlineColumn,
		dto.NewsPublisher: r.cfg.PublisherColumn,
		dto.NewsTicker:    r.cfg.TickerColumn,
	}
}

func (r *newsCSVRepository) Load(ctx context.Context, required ...dto.NewsField) (*dto.NewsTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := readCSV(r.cfg.Path, nil)
	if err != nil {
		return nil, err
	}

	cols := r.columns()
	for _, f := range required {
		if err := table.require(cols[f]); err != nil {
			return nil, err
		}
	}

	out := &dto.NewsTable{
		Source:  r.cfg.Path,
		Present: make(map[dto.NewsField]bool, len(cols)),
		Rows:    make([]dto.NewsRow, 0, len(table.rows)),
	}
	for f, c := range cols {
		out.Present[f] = table.has(c)
	}

	unparsable := 0
	for _, rec := range table.rows {
		row := dto.NewsRow{
			Headline:  table.value(rec, r.cfg.HeadlineColumn),
			Publisher: table.value(rec, r.cfg.PublisherColumn),
			Ticker:    table.value(rec, r.cfg.TickerColumn),
		}
		if ts, ok := utils.ParseTimestamp(table.value(rec, r.cfg.DateColumn)); ok {
			row.PublishedAt = &ts
		} else {
			unparsable++
		}
		out.Rows = append(out.Rows, row)
	}

	r.log.Info("Loaded news table",
		logger.StringField("path", r.cfg.Path),
		logger.IntField("rows", len(out.Rows)),
		logger.IntField("unparsable_dates", unparsable),
	)
	return out, nil
}
