package tts

import (
	"context"
	"errors"
)

// TextTypeSSML marks request text as speech markup rather than plain text.
const TextTypeSSML = "ssml"

// ErrEmptyAudio is returned when a provider answers without audio content.
var ErrEmptyAudio = errors.New("empty audio content received")

// Request is one synthesis call.
type Request struct {
	Engine       string
	Language     string
	OutputFormat string
	Text         string
	TextType     string
	Voice        string
}

// Synthesizer converts a Request into encoded audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
	Name() string
}
