package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		polarity float64
		want     Class
	}{
		{"upper boundary is neutral", 0.1, Neutral},
		{"lower boundary is neutral", -0.1, Neutral},
		{"just above upper boundary", 0.1000001, Positive},
		{"just below lower boundary", -0.1000001, Negative},
		{"zero", 0, Neutral},
		{"max", 1, Positive},
		{"min", -1, Negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.polarity))
		})
	}
}
