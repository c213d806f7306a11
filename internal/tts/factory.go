package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/tahcohcat/annunciator/config"
)

type Provider string

const (
	ProviderPolly  Provider = "polly"
	ProviderGoogle Provider = "google"
)

// NewSynthesizer creates the synthesis client selected by tts.provider.
func NewSynthesizer(ctx context.Context, cfg *config.Config) (Synthesizer, error) {
	switch Provider(strings.ToLower(cfg.Tts.Provider)) {
	case ProviderPolly:
		return NewPolly(ctx, cfg.AWS.Region, cfg.AWS.Profile)
	case ProviderGoogle:
		return NewGoogle(ctx, cfg.Google.CredentialsFile, cfg.Google.Endpoint)
	default:
		return nil, fmt.Errorf("unsupported TTS provider: %s", cfg.Tts.Provider)
	}
}
