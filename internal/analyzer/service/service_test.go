package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"

	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	sentiment []*dto.SentimentReport
	eda       []*dto.EDAReport
	technical []*dto.TechnicalReport
}

func (w *recordingWriter) WriteSentiment(_ context.Context, r *dto.SentimentReport) ([]string, error) {
	w.sentiment = append(w.sentiment, r)
	return []string{"sentiment_" + r.Ticker}, nil
}

func (w *recordingWriter) WriteEDA(_ context.Context, r *dto.EDAReport) ([]string, error) {
	w.eda = append(w.eda, r)
	return []string{"eda"}, nil
}

func (w *recordingWriter) WriteTechnical(_ context.Context, r *dto.TechnicalReport) ([]string, error) {
	w.technical = append(w.technical, r)
	return []string{"technical_" + r.Ticker}, nil
}

type recordingRunRepo struct {
	runs []*entity.AnalysisRun
}

func (r *recordingRunRepo) Create(_ context.Context, run *entity.AnalysisRun) error {
	run.ID = uint(len(r.runs) + 1)
	r.runs = append(r.runs, run)
	return nil
}

func (r *recordingRunRepo) FindLatest(_ context.Context, ticker string) (*entity.AnalysisRun, error) {
	for i := len(r.runs) - 1; i >= 0; i-- {
		if r.runs[i].Ticker == ticker {
			return r.runs[i], nil
		}
	}
	return nil, nil
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, messages ...string) error {
	n.messages = append(n.messages, messages...)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const priceHeader = "Date,Close,High,Low,Open,Volume\nTicker,X,X,X,X,X\n,,,,,\n"

func testConfig(t *testing.T, news string, prices map[string]string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Output.Dir = dir
	cfg.News.Path = writeFile(t, dir, "news.csv", news)
	for _, ticker := range []string{"A", "B"} {
		body, ok := prices[ticker]
		if !ok {
			continue
		}
		cfg.Price.Sources = append(cfg.Price.Sources, config.PriceSource{
			Ticker:   ticker,
			Path:     writeFile(t, dir, ticker+".csv", body),
			SkipRows: []int{1, 2},
		})
	}
	return &cfg
}

func newRepos(cfg *config.Config) (repository.NewsRepository, repository.PriceRepository) {
	log := logger.NewNop()
	return repository.NewNewsCSVRepository(cfg.News, log), repository.NewPriceCSVRepository(cfg.Price, log)
}
