package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/tahcohcat/annunciator/internal/logger"
)

// Clip is a lazily evaluated audio expression: either a source file with a
// gain offset, or an ordered sequence of clips. Nothing is decoded until
// Export renders it.
type Clip struct {
	Path     string
	GainDB   float64
	Duration float64 // seconds, from ffprobe; zero when unknown
	Format   string

	parts []Clip
}

// Parts flattens the clip into its source files in playback order.
func (c Clip) Parts() []Clip {
	if len(c.parts) == 0 {
		return []Clip{c}
	}
	var out []Clip
	for _, p := range c.parts {
		out = append(out, p.Parts()...)
	}
	return out
}

type codec struct {
	muxer   string
	encoder string
}

var codecs = map[string]codec{
	"mp3":        {muxer: "mp3", encoder: "libmp3lame"},
	"ogg_vorbis": {muxer: "ogg", encoder: "libvorbis"},
	"pcm":        {muxer: "s16le", encoder: "pcm_s16le"},
}

// FFmpeg merges clips by shelling out to ffmpeg/ffprobe.
type FFmpeg struct {
	logger *logger.Log
	probe  func(path string) (string, error)
}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{
		logger: logger.New(),
		probe: func(path string) (string, error) {
			return ffmpeg.Probe(path)
		},
	}
}

type probeResult struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

// Load probes path so that unreadable or non-audio files fail here rather
// than halfway through an export.
func (f *FFmpeg) Load(path string) (Clip, error) {
	if _, err := os.Stat(path); err != nil {
		return Clip{}, fmt.Errorf("failed to open clip %s: %w", path, err)
	}

	raw, err := f.probe(path)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to probe clip %s: %w", path, err)
	}

	var res probeResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return Clip{}, fmt.Errorf("failed to decode probe output for %s: %w", path, err)
	}
	if res.Format.FormatName == "" {
		return Clip{}, fmt.Errorf("clip %s has no recognisable audio format", path)
	}

	clip := Clip{Path: path, Format: res.Format.FormatName}
	if d, err := strconv.ParseFloat(res.Format.Duration, 64); err == nil {
		clip.Duration = d
	}

	f.logger.Debug(fmt.Sprintf("Loaded clip %s (%s, %.2fs)", path, clip.Format, clip.Duration))
	return clip, nil
}

// AdjustGain adds db decibels to every source of the clip.
func (f *FFmpeg) AdjustGain(c Clip, db float64) Clip {
	if len(c.parts) == 0 {
		c.GainDB += db
		return c
	}
	parts := make([]Clip, len(c.parts))
	for i, p := range c.parts {
		parts[i] = f.AdjustGain(p, db)
	}
	c.parts = parts
	return c
}

// Concatenate plays a then b.
func (f *FFmpeg) Concatenate(a, b Clip) Clip {
	return Clip{
		Duration: a.Duration + b.Duration,
		parts:    append(a.Parts(), b.Parts()...),
	}
}

func formatGain(db float64) string {
	return strconv.FormatFloat(db, 'f', -1, 64) + "dB"
}

// command builds the ffmpeg invocation rendering c into path.
func (f *FFmpeg) command(c Clip, path, format string) (*ffmpeg.Stream, error) {
	format = strings.ToLower(format)
	cd, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	parts := c.Parts()
	streams := make([]*ffmpeg.Stream, 0, len(parts))
	for _, p := range parts {
		if p.Path == "" {
			return nil, errors.New("cannot export a clip without a source file")
		}
		s := ffmpeg.Input(p.Path).Audio()
		if p.GainDB != 0 {
			s = s.Filter("volume", ffmpeg.Args{formatGain(p.GainDB)})
		}
		streams = append(streams, s)
	}

	out := streams[0]
	if len(streams) > 1 {
		out = ffmpeg.Concat(streams, ffmpeg.KwArgs{"v": 0, "a": 1})
	}

	return out.Output(path, ffmpeg.KwArgs{"f": cd.muxer, "c:a": cd.encoder}).OverWriteOutput(), nil
}

// Export renders c to path. Inputs may include path itself, so the result is
// written to a sibling temp file and renamed into place.
func (f *FFmpeg) Export(ctx context.Context, c Clip, path, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".merge")
	cmd, err := f.command(c, tmp, format)
	if err != nil {
		return err
	}

	f.logger.Debug("ffmpeg " + strings.Join(cmd.GetArgs(), " "))

	if err := cmd.Run(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ffmpeg export of %s failed: %w", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
