package sentiment

import (
	"context"
	"strings"
	"unicode"
)

// negationFactor flips and dampens a negated word ("not good" is mildly negative).
const negationFactor = -0.5

// LexiconScorer averages per-word polarities from a fixed lexicon. Intensifiers
// scale the next sentiment word and negations within two tokens flip it.
type LexiconScorer struct {
	words        map[string]float64
	intensifiers map[string]float64
	negations    map[string]bool
}

// NewLexiconScorer builds a scorer over the built-in financial headline lexicon.
// extra entries override or extend it.
func NewLexiconScorer(extra map[string]float64) *LexiconScorer {
	words := make(map[string]float64, len(defaultLexicon)+len(extra))
	for w, p := range defaultLexicon {
		words[w] = p
	}
	for w, p := range extra {
		words[strings.ToLower(w)] = clamp(p)
	}
	return &LexiconScorer{
		words:        words,
		intensifiers: defaultIntensifiers,
		negations:    defaultNegations,
	}
}

func (s *LexiconScorer) Polarity(_ context.Context, text string) (float64, error) {
	return s.Score(text), nil
}

// Score is the synchronous form of Polarity.
func (s *LexiconScorer) Score(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	var n int
	for i, tok := range tokens {
		p, ok := s.words[tok]
		if !ok {
			continue
		}
		if i > 0 {
			if factor, ok := s.intensifiers[tokens[i-1]]; ok {
				p = clamp(p * factor)
			}
		}
		if s.negated(tokens, i) {
			p *= negationFactor
		}
		sum += p
		n++
	}
	if n == 0 {
		return 0
	}
	return clamp(sum / float64(n))
}

func (s *LexiconScorer) negated(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if s.negations[tokens[j]] || strings.HasSuffix(tokens[j], "n't") {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "’", "'")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

var defaultNegations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"nor":     true,
	"without": true,
	"cannot":  true,
}

var defaultIntensifiers = map[string]float64{
	"very":        1.3,
	"extremely":   1.5,
	"highly":      1.3,
	"really":      1.2,
	"strongly":    1.3,
	"sharply":     1.4,
	"significant": 1.2,
	"most":        1.2,
	"slightly":    0.6,
	"somewhat":    0.7,
	"modestly":    0.7,
}

var defaultLexicon = map[string]float64{
	// positive
	"good":        0.7,
	"great":       0.8,
	"best":        1.0,
	"better":      0.5,
	"strong":      0.43,
	"stronger":    0.5,
	"strongest":   0.7,
	"positive":    0.23,
	"gain":        0.4,
	"gains":       0.4,
	"gained":      0.4,
	"rise":        0.3,
	"rises":       0.3,
	"rising":      0.3,
	"rose":        0.3,
	"jump":        0.4,
	"jumps":       0.4,
	"surge":       0.5,
	"surges":      0.5,
	"soar":        0.6,
	"soars":       0.6,
	"rally":       0.4,
	"rallies":     0.4,
	"beat":        0.4,
	"beats":       0.4,
	"upgrade":     0.5,
	"upgrades":    0.5,
	"upgraded":    0.5,
	"outperform":  0.5,
	"outperforms": 0.5,
	"overweight":  0.3,
	"buy":         0.3,
	"bullish":     0.6,
	"record":      0.3,
	"high":        0.16,
	"higher":      0.25,
	"highs":       0.2,
	"top":         0.5,
	"raises":      0.3,
	"raised":      0.3,
	"boost":       0.4,
	"boosts":      0.4,
	"growth":      0.3,
	"grow":        0.3,
	"grows":       0.3,
	"profit":      0.3,
	"profitable":  0.4,
	"success":     0.5,
	"successful":  0.6,
	"win":         0.6,
	"wins":        0.6,
	"approval":    0.4,
	"approved":    0.4,
	"optimistic":  0.5,
	"upbeat":      0.5,
	"robust":      0.4,
	"solid":       0.3,
	"impressive":  0.8,
	"excellent":   1.0,
	"new":         0.14,
	"up":          0.15,
	// negative
	"bad":           -0.7,
	"worse":         -0.4,
	"worst":         -1.0,
	"weak":          -0.38,
	"weaker":        -0.4,
	"negative":      -0.3,
	"loss":          -0.4,
	"losses":        -0.4,
	"lose":          -0.4,
	"loses":         -0.4,
	"fall":          -0.3,
	"falls":         -0.3,
	"fell":          -0.3,
	"falling":       -0.3,
	"drop":          -0.3,
	"drops":         -0.3,
	"dropped":       -0.3,
	"decline":       -0.3,
	"declines":      -0.3,
	"plunge":        -0.6,
	"plunges":       -0.6,
	"slump":         -0.5,
	"slumps":        -0.5,
	"tumble":        -0.5,
	"tumbles":       -0.5,
	"crash":         -0.7,
	"miss":          -0.4,
	"misses":        -0.4,
	"missed":        -0.4,
	"downgrade":     -0.5,
	"downgrades":    -0.5,
	"downgraded":    -0.5,
	"underperform":  -0.5,
	"underweight":   -0.3,
	"sell":          -0.3,
	"bearish":       -0.6,
	"low":           -0.15,
	"lower":         -0.2,
	"lows":          -0.2,
	"lowers":        -0.3,
	"lowered":       -0.3,
	"cut":           -0.3,
	"cuts":          -0.3,
	"warning":       -0.4,
	"warns":         -0.4,
	"risk":          -0.2,
	"risks":         -0.2,
	"lawsuit":       -0.5,
	"probe":         -0.3,
	"fraud":         -0.8,
	"bankruptcy":    -0.8,
	"recall":        -0.4,
	"layoffs":       -0.5,
	"concern":       -0.3,
	"concerns":      -0.3,
	"pessimistic":   -0.5,
	"disappointing": -0.6,
	"terrible":      -1.0,
	"down":          -0.16,
}
