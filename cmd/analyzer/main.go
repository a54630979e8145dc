package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/report"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/internal/analyzer/service"
	"golang-stock-sentiment/pkg/common"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/postgres"
	"golang-stock-sentiment/pkg/sentiment"
	"golang-stock-sentiment/pkg/telegram"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var configPath string

// app holds everything a subcommand needs, built once from the config.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	newsRepo  repository.NewsRepository
	priceRepo repository.PriceRepository
	writer    report.Writer
	closers   []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	writer, err := report.NewFileWriter(cfg.Output.Dir, appLogger)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		log:       appLogger,
		newsRepo:  repository.NewNewsCSVRepository(cfg.News, appLogger),
		priceRepo: repository.NewPriceCSVRepository(cfg.Price, appLogger),
		writer:    writer,
	}
	a.closers = append(a.closers, func() { _ = appLogger.Sync() })
	return a, nil
}

func (a *app) newScorer(ctx context.Context) (sentiment.Scorer, error) {
	var scorer sentiment.Scorer
	switch a.cfg.Sentiment.Scorer {
	case common.ScorerGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: a.cfg.Gemini.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
		}
		scorer = sentiment.NewGeminiScorer(client, a.cfg.Gemini.Model, a.cfg.Gemini.MaxRequestPerMinute, a.cfg.Gemini.MaxRetries, a.log)
	default:
		scorer = sentiment.NewLexiconScorer(a.cfg.Sentiment.Lexicon)
	}
	return sentiment.NewCachedScorer(scorer, a.cfg.Sentiment.CacheTTL), nil
}

func (a *app) newRunRepository() (repository.AnalysisRunRepository, error) {
	if !a.cfg.Store.Enabled {
		return nil, nil
	}
	db, err := postgres.NewDB(postgres.Config{
		Host:            a.cfg.Database.Host,
		Port:            a.cfg.Database.Port,
		User:            a.cfg.Database.User,
		Password:        a.cfg.Database.Password,
		DBName:          a.cfg.Database.DBName,
		SSLMode:         a.cfg.Database.SSLMode,
		TimeZone:        a.cfg.Database.TimeZone,
		MaxIdleConns:    a.cfg.Database.MaxIdleConns,
		MaxOpenConns:    a.cfg.Database.MaxOpenConns,
		ConnMaxLifetime: a.cfg.Database.ConnMaxLifetime,
		LogLevel:        a.cfg.Database.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	}
	return repository.NewAnalysisRunRepository(db.DB), nil
}

func (a *app) newNotifier() (telegram.Notifier, error) {
	if !a.cfg.Telegram.Enabled {
		return nil, nil
	}
	notifier, err := telegram.NewClient(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram notifier: %w", err)
	}
	return notifier, nil
}

func (a *app) runSentiment(ctx context.Context) error {
	scorer, err := a.newScorer(ctx)
	if err != nil {
		return err
	}
	runRepo, err := a.newRunRepository()
	if err != nil {
		return err
	}
	notifier, err := a.newNotifier()
	if err != nil {
		return err
	}

	svc := service.NewSentimentService(a.cfg, a.log, a.newsRepo, a.priceRepo, scorer, a.writer, runRepo, notifier)
	result, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	for _, rep := range result.Reports {
		fmt.Printf("%s: same-day r=%.4f (n=%d), next-day r=%.4f (n=%d)\n",
			rep.Ticker,
			rep.Correlation.SameDay, rep.Correlation.SameDayPairs,
			rep.Correlation.NextDay, rep.Correlation.NextDayPairs)
	}
	return nil
}

func (a *app) runEDA(ctx context.Context) error {
	rep, err := service.NewEDAService(a.cfg.EDA, a.log, a.newsRepo, a.writer).Run(ctx)
	if err != nil {
		return err
	}
	a.log.Info("News EDA finished", zap.Strings("files", rep.Files))
	return nil
}

func (a *app) runTechnical(ctx context.Context) error {
	reports, err := service.NewTechnicalService(a.cfg, a.log, a.priceRepo, a.writer).Run(ctx)
	if err != nil {
		return err
	}
	for _, rep := range reports {
		a.log.Info("Technical analysis finished", zap.String("ticker", rep.Ticker), zap.Strings("files", rep.Files))
	}
	return nil
}

// command wraps a step so it runs with a fully wired app and stops on SIGINT/SIGTERM.
func command(use, short string, steps ...func(a *app, ctx context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			a.log.Info("Starting analysis", zap.String("name", a.cfg.App.Name), zap.String("command", use))
			for _, step := range steps {
				if err := step(a, ctx); err != nil {
					a.log.Error("Analysis failed", zap.String("command", use), zap.Error(err))
					return err
				}
			}
			return nil
		},
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "analyzer",
		Short:         "Batch analyses of financial news sentiment and stock prices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-analyzer.yaml", "Path to the configuration file")

	rootCmd.AddCommand(
		command("sentiment", "Correlate daily headline sentiment with same-day and next-day returns", (*app).runSentiment),
		command("eda", "Exploratory analysis of the headline table", (*app).runEDA),
		command("technical", "Compute SMA, RSI and MACD for every price source", (*app).runTechnical),
		command("all", "Run the EDA, technical and sentiment analyses in order",
			(*app).runEDA, (*app).runTechnical, (*app).runSentiment),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Printf("Error executing analyzer CLI: %s", err)
		os.Exit(1)
	}
}
