package telegram

import (
	"fmt"
	"math"
	"strings"

	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/pkg/sentiment"
)

const maxMessageLen = 4090

// FormatSentimentSummary formats a sentiment run into Markdown messages for
// Telegram, splitting so no message exceeds the Telegram limit.
func FormatSentimentSummary(result *dto.SentimentRunResult) []string {
	if result == nil || len(result.Reports) == 0 {
		return []string{"No sentiment analysis results for this run."}
	}

	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			currentMessage.WriteString("📰 *News Sentiment vs Returns* 📰\n")
			currentMessage.WriteString(fmt.Sprintf("🗂 Headlines: %d (%d without date)\n\n", result.NewsRows, result.DroppedNewsRows))
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*News Sentiment vs Returns Part %d*---\n\n", part))
		}
	}

	startNewPart()

	for _, rep := range result.Reports {
		entry := formatTickerEntry(rep)
		if currentMessage.Len()+len(entry) > maxMessageLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entry)
	}

	if len(result.Reports) > 1 {
		pooled := fmt.Sprintf("🌐 *All tickers:* same-day %s, next-day %s\n",
			formatCoefficient(result.Pooled.SameDay), formatCoefficient(result.Pooled.NextDay))
		if currentMessage.Len()+len(pooled) > maxMessageLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(pooled)
	}

	messages = append(messages, currentMessage.String())
	return messages
}

func formatTickerEntry(rep dto.SentimentReport) string {
	var b strings.Builder
	c := rep.Correlation

	b.WriteString(fmt.Sprintf("📈 *- - - - - %s - - - - -*\n", rep.Ticker))
	b.WriteString(fmt.Sprintf("📅 *Trading days:* %d (%d with news)\n", c.Rows, c.NewsDays))
	b.WriteString(fmt.Sprintf("%s *Same-day r:* %s (n=%d)\n", correlationIcon(c.SameDay), formatCoefficient(c.SameDay), c.SameDayPairs))
	b.WriteString(fmt.Sprintf("🔮 *Next-day r:* %s (n=%d)\n", formatCoefficient(c.NextDay), c.NextDayPairs))

	for _, s := range rep.ClassReturns {
		if s.Horizon != dto.HorizonNextDay {
			continue
		}
		b.WriteString(fmt.Sprintf("%s %s: mean next-day %.2f%% over %d days\n",
			classIcon(s.Class), s.Class, s.Mean*100, s.Count))
	}
	b.WriteString("\n")
	return b.String()
}

func formatCoefficient(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

func correlationIcon(v float64) string {
	switch {
	case math.IsNaN(v):
		return "➖"
	case v > 0:
		return "🟢"
	case v < 0:
		return "🔴"
	default:
		return "🟡"
	}
}

func classIcon(c sentiment.Class) string {
	switch c {
	case sentiment.Positive:
		return "😊"
	case sentiment.Negative:
		return "😟"
	default:
		return "😐"
	}
}
