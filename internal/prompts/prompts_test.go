package prompts

import (
	"errors"
	"strings"
	"testing"
)

var testMedia = Media{Data: []byte{1, 2, 3}, MIMEType: "image/png"}

func TestBuildDescription(t *testing.T) {
	p, err := Build(IntentDescription, testMedia)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.User != "Write a story describing this image." {
		t.Errorf("user prompt = %q", p.User)
	}
	if !strings.Contains(p.System, "100 words") {
		t.Errorf("system prompt missing default word bound: %q", p.System)
	}
	if p.Media.MIMEType != "image/png" {
		t.Errorf("media type = %q", p.Media.MIMEType)
	}
}

func TestBuildCaption(t *testing.T) {
	p, err := Build(IntentCaption, testMedia)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.User != "Generate a caption for this image." {
		t.Errorf("user prompt = %q", p.User)
	}
	if !strings.Contains(p.System, "8 words") {
		t.Errorf("system prompt missing default word bound: %q", p.System)
	}
}

func TestBuildWithMaxWords(t *testing.T) {
	p, err := BuildWithParams(IntentDescription, testMedia, Params{ParamMaxWords: 42})
	if err != nil {
		t.Fatalf("BuildWithParams: %v", err)
	}
	if !strings.Contains(p.System, "42 words") {
		t.Errorf("system prompt = %q", p.System)
	}

	// non-positive and wrongly typed values fall back to the default
	p, _ = BuildWithParams(IntentDescription, testMedia, Params{ParamMaxWords: -1})
	if !strings.Contains(p.System, "100 words") {
		t.Errorf("system prompt = %q", p.System)
	}
	p, _ = BuildWithParams(IntentDescription, testMedia, Params{ParamMaxWords: "many"})
	if !strings.Contains(p.System, "100 words") {
		t.Errorf("system prompt = %q", p.System)
	}
}

func TestBuildRejectsEmptyMedia(t *testing.T) {
	_, err := Build(IntentDescription, Media{MIMEType: "image/png"})
	if !errors.Is(err, ErrEmptyMedia) {
		t.Errorf("err = %v, want ErrEmptyMedia", err)
	}
}

func TestBuildRejectsUnknownIntent(t *testing.T) {
	_, err := Build(Intent("POEM"), testMedia)
	if !errors.Is(err, ErrUnknownIntent) {
		t.Errorf("err = %v, want ErrUnknownIntent", err)
	}
}

func TestParseIntent(t *testing.T) {
	tests := []struct {
		in      string
		want    Intent
		wantErr bool
	}{
		{"", IntentDescription, false},
		{"DESCRIPTION", IntentDescription, false},
		{"description", IntentDescription, false},
		{"Caption", IntentCaption, false},
		{"sonnet", "", true},
	}
	for _, tt := range tests {
		got, err := ParseIntent(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseIntent(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseIntent(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseIntent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
