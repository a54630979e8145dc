package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/dto"
	"golang-stock-sentiment/internal/analyzer/report"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/pkg/logger"

	"gonum.org/v1/gonum/stat"
)

var publisherDomainPattern = regexp.MustCompile(`@([\w.-]+)`)

// EDAService produces the exploratory report over the headline table.
type EDAService interface {
	Run(ctx context.Context) (*dto.EDAReport, error)
}

type edaService struct {
	cfg      config.EDA
	log      *logger.Logger
	newsRepo repository.NewsRepository
	writer   report.Writer
}

// NewEDAService creates a new instance of EDAService.
func NewEDAService(cfg config.EDA, log *logger.Logger, newsRepo repository.NewsRepository, writer report.Writer) EDAService {
	return &edaService{
		cfg:      cfg,
		log:      log,
		newsRepo: newsRepo,
		writer:   writer,
	}
}

func (s *edaService) Run(ctx context.Context) (*dto.EDAReport, error) {
	news, err := s.newsRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load news: %w", err)
	}

	rep := &dto.EDAReport{
		Source:  news.Source,
		Summary: Describe(news),
	}

	if news.Has(dto.NewsHeadline) {
		rep.HeadlineLengths = HeadlineLengthHistogram(news.Rows, s.cfg.LengthBins)
		rep.Keywords = TopKeywords(news.Rows, s.cfg.TopKeywords)
	}
	if news.Has(dto.NewsPublisher) {
		rep.TopPublishers = TopPublishers(news.Rows, s.cfg.TopPublishers)
		rep.PublisherDomains = PublisherDomains(news.Rows, s.cfg.TopDomains)
	}
	if news.Has(dto.NewsDate) {
		rep.ArticlesPerDay = ArticlesPerDay(news.Rows)
		rep.ArticlesPerHour = ArticlesPerHour(news.Rows)
	}

	s.log.Info("News EDA computed",
		logger.IntField("rows", rep.Summary.Rows),
		logger.IntField("rows_with_date", rep.Summary.RowsWithDate),
		logger.IntField("publishers", rep.Summary.UniquePublishers),
		logger.IntField("days", len(rep.ArticlesPerDay)),
	)

	files, err := s.writer.WriteEDA(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("failed to write news EDA report: %w", err)
	}
	rep.Files = files
	return rep, nil
}

// Describe summarizes the table. Headline lengths count runes.
func Describe(news *dto.NewsTable) dto.EDASummary {
	sum := dto.EDASummary{Rows: len(news.Rows)}
	headlines := make(map[string]struct{})
	publishers := make(map[string]struct{})
	tickers := make(map[string]struct{})
	var lengths []float64

	for _, row := range news.Rows {
		if row.PublishedAt != nil {
			sum.RowsWithDate++
			t := *row.PublishedAt
			if sum.FirstDate == nil || t.Before(*sum.FirstDate) {
				sum.FirstDate = &t
			}
			if sum.LastDate == nil || t.After(*sum.LastDate) {
				sum.LastDate = &t
			}
		}
		if row.Headline != "" {
			headlines[row.Headline] = struct{}{}
			lengths = append(lengths, float64(utf8.RuneCountInString(row.Headline)))
		}
		if row.Publisher != "" {
			publishers[row.Publisher] = struct{}{}
		}
		if row.Ticker != "" {
			tickers[row.Ticker] = struct{}{}
		}
	}

	sum.UniqueHeadlines = len(headlines)
	sum.UniquePublishers = len(publishers)
	sum.UniqueTickers = len(tickers)
	sum.LengthCount = len(lengths)
	sum.LengthMean, sum.LengthStd = math.NaN(), math.NaN()
	if len(lengths) > 0 {
		sum.LengthMin, sum.LengthMax = int(lengths[0]), int(lengths[0])
		for _, l := range lengths {
			sum.LengthMin = min(sum.LengthMin, int(l))
			sum.LengthMax = max(sum.LengthMax, int(l))
		}
		sum.LengthMean = stat.Mean(lengths, nil)
	}
	if len(lengths) > 1 {
		sum.LengthMean, sum.LengthStd = stat.MeanStdDev(lengths, nil)
	}
	return sum
}

// HeadlineLengthHistogram buckets non-empty headline lengths into equal-width
// bins spanning [min, max]. The last bin is closed on the right.
func HeadlineLengthHistogram(rows []dto.NewsRow, bins int) []dto.HistogramBin {
	if bins <= 0 {
		return nil
	}
	var lengths []float64
	for _, row := range rows {
		if row.Headline != "" {
			lengths = append(lengths, float64(utf8.RuneCountInString(row.Headline)))
		}
	}
	if len(lengths) == 0 {
		return nil
	}

	lo, hi := lengths[0], lengths[0]
	for _, l := range lengths {
		lo = math.Min(lo, l)
		hi = math.Max(hi, l)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(bins)
	out := make([]dto.HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, l := range lengths {
		i := int((l - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

// TopPublishers counts articles per publisher. Ties are ordered by name.
func TopPublishers(rows []dto.NewsRow, limit int) []dto.CountItem {
	counts := make(map[string]int)
	for _, row := range rows {
		if row.Publisher != "" {
			counts[row.Publisher]++
		}
	}
	return topCounts(counts, limit)
}

// PublisherDomains counts the email domains of publishers given as addresses.
func PublisherDomains(rows []dto.NewsRow, limit int) []dto.CountItem {
	counts := make(map[string]int)
	for _, row := range rows {
		if m := publisherDomainPattern.FindStringSubmatch(row.Publisher); m != nil {
			counts[m[1]]++
		}
	}
	return topCounts(counts, limit)
}

// ArticlesPerDay counts articles per calendar day of the publication
// timestamp as written, in ascending day order.
func ArticlesPerDay(rows []dto.NewsRow) []dto.CountItem {
	counts := make(map[string]int)
	for _, row := range rows {
		if row.PublishedAt != nil {
			counts[row.PublishedAt.Format(time.DateOnly)]++
		}
	}
	out := make([]dto.CountItem, 0, len(counts))
	for day, n := range counts {
		out = append(out, dto.CountItem{Label: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// ArticlesPerHour counts articles per publication hour (0-23). Hours with no
// articles are omitted.
func ArticlesPerHour(rows []dto.NewsRow) []dto.CountItem {
	var hours [24]int
	for _, row := range rows {
		if row.PublishedAt != nil {
			hours[row.PublishedAt.Hour()]++
		}
	}
	var out []dto.CountItem
	for h, n := range hours {
		if n > 0 {
			out = append(out, dto.CountItem{Label: strconv.Itoa(h), Count: n})
		}
	}
	return out
}

// TopKeywords counts lower-cased headline words, skipping stopwords, numbers
// and single letters.
func TopKeywords(rows []dto.NewsRow, limit int) []dto.CountItem {
	counts := make(map[string]int)
	for _, row := range rows {
		words := strings.FieldsFunc(strings.ToLower(row.Headline), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		})
		for _, w := range words {
			w = strings.Trim(w, "'")
			if utf8.RuneCountInString(w) < 2 || isNumber(w) {
				continue
			}
			if _, stop := stopwords[w]; stop {
				continue
			}
			counts[w]++
		}
	}
	return topCounts(counts, limit)
}

func isNumber(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// topCounts sorts by count descending, then label, and keeps at most limit
// items; limit <= 0 keeps all.
func topCounts(counts map[string]int, limit int) []dto.CountItem {
	out := make([]dto.CountItem, 0, len(counts))
	for label, n := range counts {
		out = append(out, dto.CountItem{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

var stopwords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any",
	"are", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both",
	"but", "by", "can", "could", "did", "do", "does", "doing", "down", "during", "each", "else",
	"ever", "few", "for", "from", "further", "get", "had", "has", "have", "having", "he", "her",
	"here", "hers", "herself", "him", "himself", "his", "how", "however", "i", "if", "in", "into",
	"is", "it", "it's", "its", "itself", "just", "me", "more", "most", "my", "myself", "no", "nor",
	"not", "of", "off", "on", "once", "only", "or", "other", "otherwise", "ought", "our", "ours",
	"ourselves", "out", "over", "own", "same", "shall", "she", "should", "since", "so", "some",
	"such", "than", "that", "the", "their", "theirs", "them", "themselves", "then", "there",
	"these", "they", "this", "those", "through", "to", "too", "under", "until", "up", "very",
	"was", "we", "were", "what", "when", "where", "which", "while", "who", "whom", "why", "with",
	"would", "you", "your", "yours", "yourself", "yourselves", "vs", "says", "new",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
