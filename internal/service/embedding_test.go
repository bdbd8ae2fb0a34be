package service

import (
	"math"
	"testing"

	"github.com/timmy/artvault/internal/domain"
)

func TestRandomVectorShape(t *testing.T) {
	vec := RandomVector(domain.EmbeddingDimensions)
	if len(vec) != domain.EmbeddingDimensions {
		t.Fatalf("len = %d, want %d", len(vec), domain.EmbeddingDimensions)
	}
}

func TestRandomVectorRange(t *testing.T) {
	vec := RandomVector(domain.EmbeddingDimensions)
	for i, v := range vec {
		if v < -1 || v > 1 {
			t.Fatalf("component %d = %f, outside [-1, 1]", i, v)
		}
	}
}

func TestRandomVectorRounding(t *testing.T) {
	vec := RandomVector(256)
	for i, v := range vec {
		scaled := float64(v) * 1e6
		// float32 storage loses a little precision; allow for it
		if math.Abs(scaled-math.Round(scaled)) > 0.1 {
			t.Fatalf("component %d = %v not rounded to 6 decimal places", i, v)
		}
	}
}

func TestRandomVectorNotConstant(t *testing.T) {
	vec := RandomVector(domain.EmbeddingDimensions)
	first := vec[0]
	for _, v := range vec[1:] {
		if v != first {
			return
		}
	}
	t.Error("all components identical, generator looks broken")
}
