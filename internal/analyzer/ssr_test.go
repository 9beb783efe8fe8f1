package analyzer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/trendradar/internal/analyzer"
)

// scriptedEmbedder returns one preset vector per input text.
type scriptedEmbedder struct {
	vectors map[string][]float64
}

func (s *scriptedEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = s.vectors[text]
	}
	return out, nil
}

// embedderFunc adapts a function to the Embedder interface.
type embedderFunc func(ctx context.Context, texts []string) ([][]float64, error)

func (f embedderFunc) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return f(ctx, texts)
}

func TestRaterRate(t *testing.T) {
	// Anchor phrases are laid out on a line so a verdict vector lands
	// between the anchors it resembles.
	embedder := &scriptedEmbedder{vectors: map[string][]float64{
		"This product is completely wrong for the brand and should be rejected.": {1, 0},
		"This product is a poor fit for the brand's positioning.":                {0.9, 0.1},
		"This product is a weak fit with significant concerns.":                  {0.8, 0.2},
		"This product is a borderline fit that needs more evidence.":             {0.5, 0.5},
		"This product is a reasonable fit worth a closer look.":                  {0.2, 0.8},
		"This product is a good fit for the brand and worth testing.":            {0.1, 0.9},
		"This product is an excellent fit and a strong launch candidate.":        {0, 1},
		"looks like a strong match": {0, 1},
		"no idea":                   {0.5, 0.5},
	}}
	rater := analyzer.NewRater(embedder)

	t.Run("strong verdict rates high", func(t *testing.T) {
		score, err := rater.Rate(context.Background(), "looks like a strong match")
		require.NoError(t, err)
		// The 95 anchor dominates but the nearby 80 and 65 anchors keep
		// enough weight to pull the blend into the upper band.
		assert.Greater(t, score, 70)
		assert.LessOrEqual(t, score, 95)
	})

	t.Run("neutral verdict rates mid-scale", func(t *testing.T) {
		score, err := rater.Rate(context.Background(), "no idea")
		require.NoError(t, err)
		// The anchors are symmetric around the borderline one, so the
		// weighted score sits at its 50.
		assert.Equal(t, 50, score)
	})
}

func TestRaterRate_EmbedError(t *testing.T) {
	rater := analyzer.NewRater(embedderFunc(func(context.Context, []string) ([][]float64, error) {
		return nil, errors.New("quota exceeded")
	}))
	_, err := rater.Rate(context.Background(), "verdict")
	assert.ErrorContains(t, err, "failed to embed verdict")
}

func TestRaterRate_ShortResponse(t *testing.T) {
	rater := analyzer.NewRater(embedderFunc(func(_ context.Context, texts []string) ([][]float64, error) {
		return make([][]float64, 1), nil
	}))
	_, err := rater.Rate(context.Background(), "verdict")
	assert.ErrorIs(t, err, analyzer.ErrNoEmbeddings)
}
