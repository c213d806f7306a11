package tts

import (
	"context"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/tahcohcat/annunciator/internal/logger"
)

type googleAPI interface {
	SynthesizeSpeech(ctx context.Context, req *ttspb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*ttspb.SynthesizeSpeechResponse, error)
	Close() error
}

// Google synthesizes speech with Google Cloud Text-to-Speech.
type Google struct {
	client googleAPI
	logger *logger.Log
}

// NewGoogle uses GOOGLE_APPLICATION_CREDENTIALS unless a credentials file is
// given explicitly.
func NewGoogle(ctx context.Context, credentialsFile, endpoint string) (*Google, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google TTS client: %w", err)
	}

	return newGoogleWithClient(client), nil
}

func newGoogleWithClient(client googleAPI) *Google {
	return &Google{client: client, logger: logger.New()}
}

func googleEncoding(format string) (ttspb.AudioEncoding, error) {
	switch strings.ToLower(format) {
	case "mp3":
		return ttspb.AudioEncoding_MP3, nil
	case "ogg_vorbis", "ogg_opus":
		return ttspb.AudioEncoding_OGG_OPUS, nil
	case "pcm":
		return ttspb.AudioEncoding_LINEAR16, nil
	default:
		return ttspb.AudioEncoding_AUDIO_ENCODING_UNSPECIFIED, fmt.Errorf("output format %q is not supported by Google TTS", format)
	}
}

func (g *Google) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	encoding, err := googleEncoding(req.OutputFormat)
	if err != nil {
		return nil, err
	}

	input := &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: req.Text}}
	if req.TextType == TextTypeSSML {
		input = &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Ssml{Ssml: req.Text}}
	}

	// Google has no engine selector; the voice name implies the model tier.
	pbReq := &ttspb.SynthesizeSpeechRequest{
		Input: input,
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: req.Language,
			Name:         req.Voice,
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding: encoding,
		},
	}

	g.logger.Debug(fmt.Sprintf("Generating Google TTS audio with voice: %s, language: %s, encoding: %s",
		req.Voice, req.Language, encoding))

	resp, err := g.client.SynthesizeSpeech(ctx, pbReq)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	if len(resp.AudioContent) == 0 {
		return nil, ErrEmptyAudio
	}

	g.logger.Debug(fmt.Sprintf("Generated %d bytes of audio", len(resp.AudioContent)))
	return resp.AudioContent, nil
}

func (g *Google) Name() string {
	return "Google Cloud Text-to-Speech"
}

func (g *Google) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
