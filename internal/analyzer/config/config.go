package config

import (
	"fmt"
	"time"

	"golang-stock-sentiment/pkg/common"
	"golang-stock-sentiment/pkg/config"
)

// News describes the headline CSV and its column names.
type News struct {
	Path            string `mapstructure:"path"`
	DateColumn      string `mapstructure:"date_column"`
	HeadlineColumn  string `mapstructure:"headline_column"`
	PublisherColumn string `mapstructure:"publisher_column"`
	TickerColumn    string `mapstructure:"ticker_column"`
}

// PriceSource is one OHLCV CSV for a single ticker.
type PriceSource struct {
	Ticker string `mapstructure:"ticker"`
	Path   string `mapstructure:"path"`
	// SkipRows are zero-based physical row indices dropped before the header
	// is read, e.g. [1, 2] for the two extra header lines yfinance writes.
	SkipRows []int `mapstructure:"skip_rows"`
}

// Price holds price input configuration.
type Price struct {
	DateColumn string        `mapstructure:"date_column"`
	Sources    []PriceSource `mapstructure:"sources"`
}

// Output holds where report files are written.
type Output struct {
	Dir string `mapstructure:"dir"`
}

// Sentiment holds headline scoring configuration.
type Sentiment struct {
	// Scorer is "lexicon" or "gemini".
	Scorer   string             `mapstructure:"scorer"`
	CacheTTL time.Duration      `mapstructure:"cache_ttl"`
	Lexicon  map[string]float64 `mapstructure:"lexicon"`
}

// Technical holds indicator periods.
type Technical struct {
	SMAShortPeriod int     `mapstructure:"sma_short_period"`
	SMALongPeriod  int     `mapstructure:"sma_long_period"`
	RSIPeriod      int     `mapstructure:"rsi_period"`
	RSIOverbought  float64 `mapstructure:"rsi_overbought"`
	RSIOversold    float64 `mapstructure:"rsi_oversold"`
	MACDFast       int     `mapstructure:"macd_fast"`
	MACDSlow       int     `mapstructure:"macd_slow"`
	MACDSignal     int     `mapstructure:"macd_signal"`
}

// EDA holds limits for the exploratory news report.
type EDA struct {
	TopPublishers int `mapstructure:"top_publishers"`
	TopDomains    int `mapstructure:"top_domains"`
	TopKeywords   int `mapstructure:"top_keywords"`
	LengthBins    int `mapstructure:"length_bins"`
}

// Store toggles persisting run summaries to Postgres.
type Store struct {
	Enabled bool `mapstructure:"enabled"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxRetries          int    `mapstructure:"max_retries"`
}

// Config holds the full configuration for the analyzer.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	News      News            `mapstructure:"news"`
	Price     Price           `mapstructure:"price"`
	Output    Output          `mapstructure:"output"`
	Sentiment Sentiment       `mapstructure:"sentiment"`
	Technical Technical       `mapstructure:"technical"`
	EDA       EDA             `mapstructure:"eda"`
	Store     Store           `mapstructure:"store"`
	Telegram  Telegram        `mapstructure:"telegram"`
	Gemini    Gemini          `mapstructure:"gemini"`
}

// Default returns the configuration used for keys the file leaves out.
func Default() Config {
	return Config{
		App:    config.App{Name: "stock-sentiment-analyzer", Env: "development"},
		Logger: config.Logger{Level: "info", Encoding: "console"},
		News: News{
			DateColumn:      "date",
			HeadlineColumn:  "headline",
			PublisherColumn: "publisher",
			TickerColumn:    "stock",
		},
		Price:     Price{DateColumn: "Date"},
		Output:    Output{Dir: "output"},
		Sentiment: Sentiment{Scorer: common.ScorerLexicon},
		Technical: Technical{
			SMAShortPeriod: 20,
			SMALongPeriod:  50,
			RSIPeriod:      14,
			RSIOverbought:  70,
			RSIOversold:    30,
			MACDFast:       12,
			MACDSlow:       26,
			MACDSignal:     9,
		},
		EDA: EDA{
			TopPublishers: 20,
			TopDomains:    10,
			TopKeywords:   30,
			LengthBins:    50,
		},
		Gemini: Gemini{
			Model:               "gemini-2.0-flash",
			MaxRequestPerMinute: 15,
			MaxRetries:          3,
		},
	}
}

// Load loads the analyzer configuration from the given path.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings every command relies on.
func (c *Config) Validate() error {
	switch c.Sentiment.Scorer {
	case common.ScorerLexicon:
	case common.ScorerGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini.api_key is required when sentiment.scorer is gemini")
		}
	default:
		return fmt.Errorf("unknown sentiment.scorer %q", c.Sentiment.Scorer)
	}
	for i, src := range c.Price.Sources {
		if src.Ticker == "" || src.Path == "" {
			return fmt.Errorf("price.sources[%d]: ticker and path are required", i)
		}
	}
	if c.Technical.MACDFast >= c.Technical.MACDSlow {
		return fmt.Errorf("technical.macd_fast must be lower than technical.macd_slow")
	}
	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
	}
	return nil
}
