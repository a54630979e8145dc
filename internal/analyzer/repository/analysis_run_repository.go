package repository

import (
	"context"
	"fmt"

	"golang-stock-sentiment/internal/entity"

	"gorm.io/gorm"
)

const dailySentimentBatchSize = 500

// AnalysisRunRepository persists run summaries.
type AnalysisRunRepository interface {
	Create(ctx context.Context, run *entity.AnalysisRun) error
	FindLatest(ctx context.Context, ticker string) (*entity.AnalysisRun, error)
}

// NewAnalysisRunRepository creates a new instance of AnalysisRunRepository.
func NewAnalysisRunRepository(db *gorm.DB) AnalysisRunRepository {
	return &analysisRunRepository{
		db: db,
	}
}

type analysisRunRepository struct {
	db *gorm.DB
}

// Create saves the run and its daily sentiments in one transaction.
func (r *analysisRunRepository) Create(ctx context.Context, run *entity.AnalysisRun) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		daily := run.DailySentiments
		run.DailySentiments = nil
		defer func() { run.DailySentiments = daily }()

		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("insert analysis_runs error: %w", err)
		}
		if len(daily) == 0 {
			return nil
		}

		for i := range daily {
			daily[i].AnalysisRunID = run.ID
		}
		if err := tx.CreateInBatches(&daily, dailySentimentBatchSize).Error; err != nil {
			return fmt.Errorf("insert daily_sentiments error: %w", err)
		}
		return nil
	})
}

func (r *analysisRunRepository) FindLatest(ctx context.Context, ticker string) (*entity.AnalysisRun, error) {
	var run entity.AnalysisRun
	result := r.db.WithContext(ctx).Where("ticker = ?", ticker).Order("created_at desc").First(&run)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &run, nil
}
