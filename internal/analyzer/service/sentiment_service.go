package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/report"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/errors"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/sentiment"
	"golang-stock-sentiment/pkg/telegram"
)

// SentimentService runs the headline-sentiment vs price-return analysis.
type SentimentService interface {
	Run(ctx context.Context) (*dto.SentimentRunResult, error)
}

type sentimentService struct {
	cfg       *config.Config
	log       *logger.Logger
	newsRepo  repository.NewsRepository
	priceRepo repository.PriceRepository
	scorer    sentiment.Scorer
	writer    report.Writer
	runRepo   repository.AnalysisRunRepository
	notifier  telegram.Notifier
}

// NewSentimentService wires the analysis. runRepo and notifier are optional
// and may be nil.
func NewSentimentService(cfg *config.Config, log *logger.Logger,
	newsRepo repository.NewsRepository,
	priceRepo repository.PriceRepository,
	scorer sentiment.Scorer,
	writer report.Writer,
	runRepo repository.AnalysisRunRepository,
	notifier telegram.Notifier) SentimentService {
	return &sentimentService{
		cfg:       cfg,
		log:       log,
		newsRepo:  newsRepo,
		priceRepo: priceRepo,
		scorer:    scorer,
		writer:    writer,
		runRepo:   runRepo,
		notifier:  notifier,
	}
}

func (s *sentimentService) Run(ctx context.Context) (*dto.SentimentRunResult, error) {
	if len(s.cfg.Price.Sources) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "no price sources configured")
	}

	// Every input is loaded, and its columns checked, before anything is computed.
	news, err := s.newsRepo.Load(ctx, dto.NewsDate, dto.NewsHeadline, dto.NewsTicker)
	if err != nil {
		return nil, fmt.Errorf("failed to load news: %w", err)
	}
	prices := make([][]dto.PriceRecord, len(s.cfg.Price.Sources))
	for i, src := range s.cfg.Price.Sources {
		prices[i], err = s.priceRepo.Load(ctx, src, dto.ColumnClose)
		if err != nil {
			return nil, fmt.Errorf("failed to load prices for %s: %w", src.Ticker, err)
		}
	}

	records, dropped, err := ScoreHeadlines(ctx, s.scorer, news.Rows)
	if err != nil {
		return nil, err
	}
	s.log.Info("Scored headlines",
		logger.IntField("scored", len(records)),
		logger.IntField("dropped_without_date", dropped),
	)

	daily := AggregateDaily(records)
	s.log.Info("Aggregated daily sentiment", logger.IntField("groups", len(daily)))

	result := &dto.SentimentRunResult{
		NewsSource:      news.Source,
		NewsRows:        len(news.Rows),
		DroppedNewsRows: dropped,
	}

	var pooled []dto.MergedRecord
	for i, src := range s.cfg.Price.Sources {
		withReturns := ComputeReturns(prices[i])
		merged := MergeSentiment(withReturns, daily)
		pooled = append(pooled, merged...)

		rep := dto.SentimentReport{
			Ticker:       src.Ticker,
			PriceSource:  src.Path,
			Daily:        dailyForTicker(daily, src.Ticker),
			Merged:       merged,
			Correlation:  Correlate(src.Ticker, merged),
			ClassReturns: ClassReturns(merged),
		}
		s.log.Info("Sentiment correlation",
			logger.StringField("ticker", src.Ticker),
			logger.Float64Field("same_day", rep.Correlation.SameDay),
			logger.Float64Field("next_day", rep.Correlation.NextDay),
			logger.IntField("news_days", rep.Correlation.NewsDays),
			logger.IntField("rows", rep.Correlation.Rows),
		)

		files, err := s.writer.WriteSentiment(ctx, &rep)
		if err != nil {
			return nil, fmt.Errorf("failed to write sentiment report for %s: %w", src.Ticker, err)
		}
		rep.Files = files

		if s.runRepo != nil {
			if err := s.persist(ctx, &rep, news.Source); err != nil {
				return nil, err
			}
		}
		result.Reports = append(result.Reports, rep)
	}

	result.Pooled = Correlate("ALL", pooled)

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, telegram.FormatSentimentSummary(result)...); err != nil {
			s.log.Error("Failed to send telegram summary", logger.ErrorField(err))
		}
	}

	return result, nil
}

func (s *sentimentService) persist(ctx context.Context, rep *dto.SentimentReport, newsSource string) error {
	classStats, err := json.Marshal(rep.ClassReturns)
	if err != nil {
		return fmt.Errorf("failed to marshal class stats: %w", err)
	}

	run := &entity.AnalysisRun{
		Ticker:             rep.Ticker,
		PriceRows:          rep.Correlation.Rows,
		NewsDays:           rep.Correlation.NewsDays,
		SameDayCorrelation: nullableFloat(rep.Correlation.SameDay),
		SameDayPairs:       rep.Correlation.SameDayPairs,
		NextDayCorrelation: nullableFloat(rep.Correlation.NextDay),
		NextDayPairs:       rep.Correlation.NextDayPairs,
		ClassStats:         classStats,
		SourceFiles:        []string{newsSource, rep.PriceSource},
	}
	for _, d := range rep.Daily {
		run.DailySentiments = append(run.DailySentiments, entity.DailySentiment{
			Date:              d.Date,
			Ticker:            d.Ticker,
			AvgPolarity:       d.AvgPolarity,
			ArticleCount:      d.ArticleCount,
			DominantSentiment: string(d.Dominant),
		})
	}

	previous, err := s.runRepo.FindLatest(ctx, rep.Ticker)
	if err != nil {
		return fmt.Errorf("failed to read previous analysis run for %s: %w", rep.Ticker, err)
	}
	if previous != nil && previous.SameDayCorrelation != nil && run.SameDayCorrelation != nil {
		s.log.Info("Same-day correlation changed since last run",
			logger.StringField("ticker", rep.Ticker),
			logger.Field("previous_run_id", previous.ID),
			logger.Float64Field("previous", *previous.SameDayCorrelation),
			logger.Float64Field("current", *run.SameDayCorrelation),
		)
	}

	if err := s.runRepo.Create(ctx, run); err != nil {
		return fmt.Errorf("failed to store analysis run for %s: %w", rep.Ticker, err)
	}
	s.log.Info("Stored analysis run", logger.StringField("ticker", rep.Ticker), logger.Field("run_id", run.ID))
	return nil
}

func dailyForTicker(daily []dto.DailySentiment, ticker string) []dto.DailySentiment {
	var out []dto.DailySentiment
	for _, d := range daily {
		if d.Ticker == ticker {
			out = append(out, d)
		}
	}
	return out
}

func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
