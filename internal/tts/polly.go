package tts

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"github.com/tahcohcat/annunciator/internal/logger"
)

type pollyAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// Polly synthesizes speech with Amazon Polly.
type Polly struct {
	client pollyAPI
	logger *logger.Log
}

// NewPolly builds a client from the ambient AWS credential chain. An empty
// profile keeps the SDK default.
func NewPolly(ctx context.Context, region, profile string) (*Polly, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return newPollyWithClient(polly.NewFromConfig(cfg)), nil
}

func newPollyWithClient(client pollyAPI) *Polly {
	return &Polly{client: client, logger: logger.New()}
}

func (p *Polly) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	textType := types.TextTypeText
	if req.TextType == TextTypeSSML {
		textType = types.TextTypeSsml
	}

	input := &polly.SynthesizeSpeechInput{
		Engine:       types.Engine(req.Engine),
		LanguageCode: types.LanguageCode(req.Language),
		OutputFormat: types.OutputFormat(req.OutputFormat),
		Text:         aws.String(req.Text),
		TextType:     textType,
		VoiceId:      types.VoiceId(req.Voice),
	}

	p.logger.Debug(fmt.Sprintf("Requesting Polly audio with voice: %s, engine: %s, language: %s, format: %s",
		req.Voice, req.Engine, req.Language, req.OutputFormat))

	out, err := p.client.SynthesizeSpeech(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("failed to read polly audio stream: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}

	p.logger.Debug(fmt.Sprintf("Received %d bytes of %s audio", len(audio), req.OutputFormat))
	return audio, nil
}

func (p *Polly) Name() string {
	return "Amazon Polly"
}
