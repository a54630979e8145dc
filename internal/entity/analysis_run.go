package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// AnalysisRun is the persisted summary of one sentiment-vs-return run for a ticker.
type AnalysisRun struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	Ticker             string           `gorm:"not null" json:"ticker"`
	PriceRows          int              `json:"price_rows"`
	NewsDays           int              `json:"news_days"`
	SameDayCorrelation *float64         `json:"same_day_correlation,omitempty"`
	SameDayPairs       int              `json:"same_day_pairs"`
	NextDayCorrelation *float64         `json:"next_day_correlation,omitempty"`
	NextDayPairs       int              `json:"next_day_pairs"`
	ClassStats         datatypes.JSON   `gorm:"type:jsonb" json:"class_stats"`
	SourceFiles        pq.StringArray   `gorm:"type:text[]" json:"source_files"`
	CreatedAt          time.Time        `gorm:"autoCreateTime" json:"created_at"`
	DailySentiments    []DailySentiment `gorm:"foreignKey:AnalysisRunID" json:"daily_sentiments"`
}

// TableName specifies the table name for the AnalysisRun model.
func (AnalysisRun) TableName() string {
	return "analysis_runs"
}

// DailySentiment is one aggregated day of headlines stored with its run.
type DailySentiment struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	AnalysisRunID     uint      `gorm:"not null" json:"analysis_run_id"`
	Date              time.Time `gorm:"type:date;not null" json:"date"`
	Ticker            string    `gorm:"not null" json:"ticker"`
	AvgPolarity       float64   `json:"avg_polarity"`
	ArticleCount      int       `json:"article_count"`
	DominantSentiment string    `gorm:"not null" json:"dominant_sentiment"`
}

func (DailySentiment) TableName() string {
	return "daily_sentiments"
}
