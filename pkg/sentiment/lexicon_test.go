package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexiconScorer_Score(t *testing.T) {
	s := NewLexiconScorer(nil)

	t.Run("empty text is neutral", func(t *testing.T) {
		assert.Equal(t, 0.0, s.Score(""))
		assert.Equal(t, 0.0, s.Score("   "))
	})

	t.Run("unknown words are neutral", func(t *testing.T) {
		assert.Equal(t, 0.0, s.Score("Agilent Technologies Q3 earnings call scheduled"))
	})

	t.Run("positive headline", func(t *testing.T) {
		p := s.Score("Agilent beats estimates, shares surge")
		assert.Greater(t, p, 0.1)
		assert.Equal(t, Positive, Classify(p))
	})

	t.Run("negative headline", func(t *testing.T) {
		p := s.Score("Analyst downgrades Agilent after weak guidance")
		assert.Less(t, p, -0.1)
	})

	t.Run("average of matched words", func(t *testing.T) {
		// good 0.7, bad -0.7
		assert.InDelta(t, 0.0, s.Score("good and bad"), 1e-9)
	})

	t.Run("negation flips and dampens", func(t *testing.T) {
		assert.InDelta(t, -0.35, s.Score("not good"), 1e-9)
		assert.InDelta(t, -0.35, s.Score("isn't good"), 1e-9)
	})

	t.Run("intensifier scales", func(t *testing.T) {
		assert.InDelta(t, 0.91, s.Score("very good"), 1e-9)
		assert.Equal(t, 1.0, s.Score("extremely excellent"))
	})

	t.Run("result stays in range", func(t *testing.T) {
		for _, text := range []string{"best best best", "worst crash fraud", "very very terrible"} {
			p := s.Score(text)
			assert.GreaterOrEqual(t, p, -1.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	})
}

func TestLexiconScorer_ExtraWords(t *testing.T) {
	s := NewLexiconScorer(map[string]float64{"Moonshot": 3})

	p, err := s.Polarity(context.Background(), "moonshot")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
}
