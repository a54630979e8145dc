package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/common"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/utils"

	"github.com/shopspring/decimal"
)

// Writer persists analysis results as files and returns the paths written.
type Writer interface {
	WriteSentiment(ctx context.Context, r *dto.SentimentReport) ([]string, error)
	WriteEDA(ctx context.Context, r *dto.EDAReport) ([]string, error)
	WriteTechnical(ctx context.Context, r *dto.TechnicalReport) ([]string, error)
}

// NewFileWriter creates a Writer rooted at dir, creating it when missing.
func NewFileWriter(dir string, log *logger.Logger) (Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}
	return &fileWriter{dir: dir, log: log}, nil
}

type fileWriter struct {
	dir string
	log *logger.Logger
}

func (w *fileWriter) WriteSentiment(ctx context.Context, r *dto.SentimentReport) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	xlsxPath := filepath.Join(w.dir, fmt.Sprintf(common.SentimentReportFile, r.Ticker))
	if err := writeWorkbook(xlsxPath, sentimentSheets(r)); err != nil {
		return nil, err
	}

	csvPath := filepath.Join(w.dir, fmt.Sprintf(common.SentimentMergedCSVFile, r.Ticker))
	merged := mergedTable(r.Merged)
	if err := writeCSV(csvPath, merged.header, merged.rows); err != nil {
		return nil, err
	}

	files := []string{xlsxPath, csvPath}
	w.log.Info("Wrote sentiment report", logger.StringField("ticker", r.Ticker), logger.Field("files", files))
	return files, nil
}

func (w *fileWriter) WriteEDA(ctx context.Context, r *dto.EDAReport) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(w.dir, common.EDAReportFile)
	if err := writeWorkbook(path, edaSheets(r)); err != nil {
		return nil, err
	}

	w.log.Info("Wrote news EDA report", logger.StringField("path", path))
	return []string{path}, nil
}

func (w *fileWriter) WriteTechnical(ctx context.Context, r *dto.TechnicalReport) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	indicators := indicatorTable(r)
	xlsxPath := filepath.Join(w.dir, fmt.Sprintf(common.TechnicalReportFile, r.Ticker))
	if err := writeWorkbook(xlsxPath, []sheet{indicators, technicalSummary(r)}); err != nil {
		return nil, err
	}

	csvPath := filepath.Join(w.dir, fmt.Sprintf(common.TechnicalCSVFile, r.Ticker))
	if err := writeCSV(csvPath, indicators.header, indicators.rows); err != nil {
		return nil, err
	}

	files := []string{xlsxPath, csvPath}
	w.log.Info("Wrote technical report", logger.StringField("ticker", r.Ticker), logger.Field("files", files))
	return files, nil
}

func writeCSV(path string, header []interface{}, rows [][]interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(csvRecord(header)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := writer.Write(csvRecord(row)); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

func csvRecord(values []interface{}) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch t := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = t
		case float64:
			out[i] = strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			out[i] = strconv.Itoa(t)
		case bool:
			out[i] = strconv.FormatBool(t)
		default:
			out[i] = fmt.Sprint(t)
		}
	}
	return out
}

// cellFloat turns NaN into an empty cell.
func cellFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func cellDecimal(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func cellDay(t time.Time) string {
	return utils.DayKey(t)
}
