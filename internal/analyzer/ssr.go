package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// anchor pairs a reference phrase with the score it represents on the
// 0-100 fit scale.
type anchor struct {
	phrase string
	score  float64
}

// fitAnchors span the fit scale from clear rejection to perfect match.
// A free-text verdict is rated by semantic similarity against them.
var fitAnchors = []anchor{
	{"This product is completely wrong for the brand and should be rejected.", 5},
	{"This product is a poor fit for the brand's positioning.", 20},
	{"This product is a weak fit with significant concerns.", 35},
	{"This product is a borderline fit that needs more evidence.", 50},
	{"This product is a reasonable fit worth a closer look.", 65},
	{"This product is a good fit for the brand and worth testing.", 80},
	{"This product is an excellent fit and a strong launch candidate.", 95},
}

// similarityTemperature sharpens the weighting so the nearest anchors
// dominate the rating.
const similarityTemperature = 10.0

// ErrNoEmbeddings is returned when the embedding API yields no vectors.
var ErrNoEmbeddings = errors.New("no embeddings returned")

// Embedder is the slice of Client the rater needs.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Rater converts a free-text verdict into a numeric fit score by
// comparing its embedding against scale anchor phrases.
type Rater struct {
	embedder Embedder
}

// NewRater creates a rater backed by the given embedder.
func NewRater(embedder Embedder) *Rater {
	return &Rater{embedder: embedder}
}

// Rate embeds the verdict alongside the anchors and returns the
// similarity-weighted score, rounded to the nearest integer.
func (r *Rater) Rate(ctx context.Context, verdict string) (int, error) {
	texts := make([]string, 0, len(fitAnchors)+1)
	texts = append(texts, verdict)
	for _, a := range fitAnchors {
		texts = append(texts, a.phrase)
	}

	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed verdict: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, ErrNoEmbeddings
	}

	verdictVec := vectors[0]
	weights := make([]float64, len(fitAnchors))
	var maxSim float64 = -1
	for i := range fitAnchors {
		sim := cosineSimilarity(verdictVec, vectors[i+1])
		weights[i] = sim
		if sim > maxSim {
			maxSim = sim
		}
	}

	// Softmax over similarities, shifted by the max for stability.
	var weightSum, scoreSum float64
	for i, a := range fitAnchors {
		w := math.Exp((weights[i] - maxSim) * similarityTemperature)
		weightSum += w
		scoreSum += w * a.score
	}
	if weightSum == 0 {
		return 0, ErrNoEmbeddings
	}

	return int(math.Round(scoreSum / weightSum)), nil
}

// cosineSimilarity returns the cosine of the angle between two vectors.
// Returns 0 when either vector is zero or lengths differ.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
