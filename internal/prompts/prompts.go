// Package prompts builds the two-part prompts sent to the vision models.
// Builders are pure and stateless; a Prompt is an immutable value built per
// request.
package prompts

import (
	"errors"
	"fmt"
	"strings"
)

// Intent names the kind of analysis requested from the model.
type Intent string

const (
	IntentDescription Intent = "DESCRIPTION"
	IntentCaption     Intent = "CAPTION"
)

// ErrUnknownIntent is returned for an intent with no registered builder.
var ErrUnknownIntent = errors.New("unknown prompt intent")

// ErrEmptyMedia is returned when the media reference has no resolved content.
// Media must be resolved to bytes before a prompt is built; resolution
// failures never reach the fallback cascade.
var ErrEmptyMedia = errors.New("prompt media is empty")

// Media is a resolved media reference: raw bytes plus their MIME type.
type Media struct {
	Data     []byte
	MIMEType string
}

// Prompt is a two-part prompt: system instructions plus user instructions
// referencing the media.
type Prompt struct {
	System string
	User   string
	Media  Media
}

// Params tunes a builder. Unknown keys are ignored.
type Params map[string]interface{}

const (
	// ParamMaxWords bounds the length of the generated text.
	ParamMaxWords = "maxWords"

	defaultDescriptionWords = 100
	defaultCaptionWords     = 8
)

// Build constructs a prompt for the given intent with default parameters.
func Build(intent Intent, media Media) (*Prompt, error) {
	return BuildWithParams(intent, media, nil)
}

// BuildWithParams constructs a prompt for the given intent.
func BuildWithParams(intent Intent, media Media, params Params) (*Prompt, error) {
	if len(media.Data) == 0 {
		return nil, ErrEmptyMedia
	}

	switch intent {
	case IntentDescription:
		return &Prompt{
			System: fmt.Sprintf(descriptionSystemTemplate, maxWords(params, defaultDescriptionWords)),
			User:   descriptionUserPrompt,
			Media:  media,
		}, nil
	case IntentCaption:
		return &Prompt{
			System: fmt.Sprintf(captionSystemTemplate, maxWords(params, defaultCaptionWords)),
			User:   captionUserPrompt,
			Media:  media,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}
}

// ParseIntent maps a request string to a known intent, case-insensitively.
// The empty string means a full description.
func ParseIntent(s string) (Intent, error) {
	switch Intent(strings.ToUpper(s)) {
	case IntentDescription, IntentCaption:
		return Intent(strings.ToUpper(s)), nil
	case "":
		return IntentDescription, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownIntent, s)
	}
}

func maxWords(params Params, fallback int) int {
	if params == nil {
		return fallback
	}
	if v, ok := params[ParamMaxWords]; ok {
		if n, ok := v.(int); ok && n > 0 {
			return n
		}
	}
	return fallback
}

const descriptionSystemTemplate = `You are a description expert for works of art.
Be as descriptive as you can in about 3 paragraphs and never exceeding %d words.
Cover the subject, composition, palette, technique and mood so the text can
stand in for the image in a semantic search index.`

const descriptionUserPrompt = `Write a story describing this image.`

const captionSystemTemplate = `You are a caption generator expert.
Generate only one caption that is short and sweet.
The caption must never exceed %d words.`

const captionUserPrompt = `Generate a caption for this image.`
