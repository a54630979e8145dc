package common

// Report file names; %s is the ticker.
const (
	SentimentReportFile    = "sentiment_analysis_%s.xlsx"
	SentimentMergedCSVFile = "sentiment_merged_%s.csv"
	EDAReportFile          = "news_eda.xlsx"
	TechnicalReportFile    = "technical_%s.xlsx"
	TechnicalCSVFile       = "technical_%s.csv"
)

// Workbook sheet names.
const (
	SheetMerged          = "Merged"
	SheetDailySentiment  = "DailySentiment"
	SheetCorrelation     = "Correlation"
	SheetClassReturns    = "ClassReturns"
	SheetSummary         = "Summary"
	SheetPublishers      = "Publishers"
	SheetPublisherDomain = "PublisherDomains"
	SheetArticlesPerDay  = "ArticlesPerDay"
	SheetPublicationHour = "PublicationHour"
	SheetHeadlineLength  = "HeadlineLength"
	SheetKeywords        = "Keywords"
	SheetIndicators      = "Indicators"
)

const (
	ScorerLexicon = "lexicon"
	ScorerGemini  = "gemini"
)
