package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/errors"
	"golang-stock-sentiment/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallPeriods() config.Technical {
	return config.Technical{
		SMAShortPeriod: 3,
		SMALongPeriod:  5,
		RSIPeriod:      3,
		RSIOverbought:  70,
		RSIOversold:    30,
		MACDFast:       2,
		MACDSlow:       4,
		MACDSignal:     2,
	}
}

func risingPrices(n int) []dto.PriceRecord {
	days := make([]string, n)
	closes := make([]string, n)
	for i := 0; i < n; i++ {
		days[i] = fmt.Sprintf("2020-01-%02d", i+1)
		closes[i] = fmt.Sprint(i + 1)
	}
	return bars("A", days, closes)
}

func TestComputeIndicators(t *testing.T) {
	prices := risingPrices(10)
	prices = append(prices[:4], append([]dto.PriceRecord{{Date: day("2020-01-04"), Ticker: "A"}}, prices[4:]...)...)

	rep := ComputeIndicators(smallPeriods(), prices)
	require.Len(t, rep.Rows, 10)
	assert.Equal(t, 1, rep.SkippedRows)
	assert.Equal(t, 3, rep.SMAShortPeriod)

	for i := 0; i < 2; i++ {
		assert.True(t, math.IsNaN(rep.Rows[i].SMAShort), "sma warm-up %d", i)
	}
	assert.InDelta(t, 2.0, rep.Rows[2].SMAShort, 1e-9)
	assert.InDelta(t, 9.0, rep.Rows[9].SMAShort, 1e-9)
	assert.True(t, math.IsNaN(rep.Rows[3].SMALong))
	assert.InDelta(t, 3.0, rep.Rows[4].SMALong, 1e-9)

	for i := 0; i < 3; i++ {
		assert.True(t, math.IsNaN(rep.Rows[i].RSI), "rsi warm-up %d", i)
	}
	assert.InDelta(t, 100.0, rep.Rows[9].RSI, 1e-9)
	assert.Equal(t, 7, rep.OverboughtDays)
	assert.Equal(t, 0, rep.OversoldDays)

	for i := 0; i < 4; i++ {
		assert.True(t, math.IsNaN(rep.Rows[i].MACD), "macd warm-up %d", i)
		assert.True(t, math.IsNaN(rep.Rows[i].MACDHist), "macd hist warm-up %d", i)
	}
	assert.False(t, math.IsNaN(rep.Rows[9].MACD))
	assert.Greater(t, rep.Rows[9].MACD, 0.0)
}

func TestComputeIndicators_ShortSeries(t *testing.T) {
	rep := ComputeIndicators(config.Default().Technical, risingPrices(10))
	require.Len(t, rep.Rows, 10)
	for _, row := range rep.Rows {
		assert.True(t, math.IsNaN(row.SMAShort))
		assert.True(t, math.IsNaN(row.SMALong))
		assert.True(t, math.IsNaN(row.RSI))
		assert.True(t, math.IsNaN(row.MACD))
	}
	assert.Equal(t, 0, rep.OverboughtDays)
}

func TestTechnicalService_Run(t *testing.T) {
	var b strings.Builder
	b.WriteString(priceHeader)
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "2020-02-%02d,%d,%d,%d,%d,1000\n", i, 10+i, 11+i, 9+i, 10+i)
	}
	cfg := testConfig(t, "date,headline\n", map[string]string{"A": b.String()})
	cfg.Technical = smallPeriods()
	_, priceRepo := newRepos(cfg)
	writer := &recordingWriter{}

	reports, err := NewTechnicalService(cfg, logger.NewNop(), priceRepo, writer).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "A", reports[0].Ticker)
	assert.Len(t, reports[0].Rows, 12)
	assert.Equal(t, []string{"technical_A"}, reports[0].Files)
	require.Len(t, writer.technical, 1)
}

func TestTechnicalService_RequiresOHLCV(t *testing.T) {
	prices := "Date,Close\nx,x\n,\n2020-01-02,1\n"
	cfg := testConfig(t, "date,headline\n", map[string]string{"A": prices})
	_, priceRepo := newRepos(cfg)

	_, err := NewTechnicalService(cfg, logger.NewNop(), priceRepo, &recordingWriter{}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))
	assert.Contains(t, err.Error(), `"Open"`)
}

func TestTechnicalService_InvalidLaterSourceWritesNothing(t *testing.T) {
	valid := priceHeader + "2020-01-02,100,101,99,100,1000\n2020-01-03,110,111,100,101,1200\n"
	noVolume := "Date,Close,High,Low,Open\nx,x,x,x,x\n,,,,\n2020-01-02,50,51,49,50\n"
	cfg := testConfig(t, "date,headline\n", map[string]string{"A": valid, "B": noVolume})
	_, priceRepo := newRepos(cfg)
	writer := &recordingWriter{}

	_, err := NewTechnicalService(cfg, logger.NewNop(), priceRepo, writer).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))
	assert.Contains(t, err.Error(), `"Volume"`)
	assert.Empty(t, writer.technical)
}

func TestCheckWarmup(t *testing.T) {
	cfg := config.Default().Technical

	err := CheckWarmup(cfg, 40)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotEnoughData))
	assert.Contains(t, err.Error(), "need 50")

	assert.NoError(t, CheckWarmup(cfg, 50))
	assert.NoError(t, CheckWarmup(smallPeriods(), 5))
	assert.Error(t, CheckWarmup(smallPeriods(), 4))
}
