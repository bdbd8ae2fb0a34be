package domain

import (
	"errors"
	"strings"
	"testing"
)

func fullVector(fill float32) Vector {
	v := make(Vector, EmbeddingDimensions)
	for i := range v {
		v[i] = fill
	}
	return v
}

func TestNewVectorEnforcesDimensions(t *testing.T) {
	if _, err := NewVector(make([]float32, EmbeddingDimensions)); err != nil {
		t.Errorf("exact length rejected: %v", err)
	}

	for _, n := range []int{0, 1, EmbeddingDimensions - 1, EmbeddingDimensions + 1} {
		_, err := NewVector(make([]float32, n))
		if !errors.Is(err, ErrBadVectorLength) {
			t.Errorf("length %d: err = %v, want ErrBadVectorLength", n, err)
		}
	}
}

func TestVectorValueFormat(t *testing.T) {
	v := fullVector(0)
	v[0] = 1.5
	v[1] = -0.25

	val, err := v.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	s, ok := val.(string)
	if !ok {
		t.Fatalf("Value type %T, want string", val)
	}
	if !strings.HasPrefix(s, "[1.5,-0.25,") || !strings.HasSuffix(s, "]") {
		t.Errorf("literal = %q...", s[:32])
	}
}

func TestVectorValueRejectsBadLength(t *testing.T) {
	short := make(Vector, 3)
	if _, err := short.Value(); !errors.Is(err, ErrBadVectorLength) {
		t.Errorf("err = %v, want ErrBadVectorLength", err)
	}
}

func TestVectorScanRoundTrip(t *testing.T) {
	orig := fullVector(0.5)
	orig[7] = -0.123456

	val, err := orig.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned Vector
	if err := scanned.Scan(val); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(scanned) != EmbeddingDimensions {
		t.Fatalf("len = %d", len(scanned))
	}
	if scanned[7] != orig[7] {
		t.Errorf("component 7 = %v, want %v", scanned[7], orig[7])
	}
}

func TestVectorScanRejectsBadInput(t *testing.T) {
	var v Vector
	if err := v.Scan("[1,2,3]"); !errors.Is(err, ErrBadVectorLength) {
		t.Errorf("short literal: err = %v", err)
	}
	if err := v.Scan(nil); err == nil {
		t.Error("nil value accepted")
	}
	if err := v.Scan(42); err == nil {
		t.Error("integer value accepted")
	}
}

func TestArtworkAddEmbeddings(t *testing.T) {
	a := Artwork{ID: "art-1"}
	a.AddEmbeddings(
		ArtworkEmbedding{ID: "e1", Status: EmbeddingStatusArchived},
		ArtworkEmbedding{ID: "e2", Status: EmbeddingStatusActive},
	)

	for _, e := range a.Embeddings {
		if e.ArtworkID != "art-1" {
			t.Errorf("embedding %s not wired to artwork", e.ID)
		}
	}

	active := a.ActiveEmbedding()
	if active == nil || active.ID != "e2" {
		t.Errorf("ActiveEmbedding = %+v, want e2", active)
	}
}
