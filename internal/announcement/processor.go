package announcement

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tahcohcat/annunciator/internal/audio"
	"github.com/tahcohcat/annunciator/internal/logger"
	"github.com/tahcohcat/annunciator/internal/models"
	"github.com/tahcohcat/annunciator/internal/tts"
)

// AudioMerger decodes, adjusts, joins and re-encodes clips.
type AudioMerger interface {
	Load(path string) (audio.Clip, error)
	AdjustGain(c audio.Clip, db float64) audio.Clip
	Concatenate(a, b audio.Clip) audio.Clip
	Export(ctx context.Context, c audio.Clip, path, format string) error
}

// Recorder receives one entry per produced file.
type Recorder interface {
	RecordSynthesis(ctx context.Context, s models.Synthesis) error
}

type Options struct {
	OutputDirectory string
	Overwrite       bool
	// SkipInvalid logs and skips entries with missing fields instead of aborting.
	SkipInvalid bool
	// Timeout bounds each synthesis call; zero means no limit.
	Timeout time.Duration
}

type Summary struct {
	ItemsProcessed      int
	ItemsCompleted      int
	ItemsInvalid        int
	CharactersSubmitted int
}

// Processor turns announcements into audio files one at a time.
type Processor struct {
	opts     Options
	synth    tts.Synthesizer
	merger   AudioMerger
	recorder Recorder
	logger   *logger.Log
}

func NewProcessor(opts Options, synth tts.Synthesizer, merger AudioMerger) *Processor {
	if opts.OutputDirectory == "" {
		opts.OutputDirectory = "."
	}
	return &Processor{
		opts:   opts,
		synth:  synth,
		merger: merger,
		logger: logger.New(),
	}
}

func (p *Processor) WithRecorder(r Recorder) *Processor {
	p.recorder = r
	return p
}

func (p *Processor) WithLogger(l *logger.Log) *Processor {
	p.logger = l
	return p
}

// Run processes items in order. The first error aborts the batch; the
// returned Summary then reflects the items handled before it.
func (p *Processor) Run(ctx context.Context, items []Announcement) (Summary, error) {
	var sum Summary

	if err := os.MkdirAll(p.opts.OutputDirectory, 0755); err != nil {
		return sum, fmt.Errorf("failed to create output directory %s: %w", p.opts.OutputDirectory, err)
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := p.process(ctx, i, item, &sum); err != nil {
			return sum, err
		}
		sum.ItemsProcessed++
	}

	p.logger.Success(fmt.Sprintf("Finished outputting %d files.  Approximate total characters processed was %d.",
		sum.ItemsCompleted, sum.CharactersSubmitted))
	return sum, nil
}

func (p *Processor) process(ctx context.Context, index int, item Announcement, sum *Summary) error {
	if err := item.Validate(index); err != nil {
		if !p.opts.SkipInvalid {
			return err
		}
		p.logger.WithError(err).Warn("Skipping invalid announcement")
		sum.ItemsInvalid++
		return nil
	}

	a := item.WithDefaults()
	outputFile := a.OutputPath(p.opts.OutputDirectory)

	exists, err := fileExists(outputFile)
	if err != nil {
		return err
	}
	if exists && !p.opts.Overwrite {
		p.logger.Info(fmt.Sprintf("Skipping %q because the output file already exists.", a.Name))
		return nil
	}

	if a.Prepend != nil {
		if err := checkPrepend(a); err != nil {
			return err
		}
	}

	characters := a.Characters()
	sum.CharactersSubmitted += characters

	speech, err := p.synthesize(ctx, tts.Request{
		Engine:       a.Engine,
		Language:     a.Language,
		OutputFormat: a.OutputFormat,
		Text:         a.Markup(),
		TextType:     tts.TextTypeSSML,
		Voice:        a.Voice,
	})
	if err != nil {
		return fmt.Errorf("synthesis of %q failed: %w", a.Name, err)
	}

	p.logger.Info("Creating file " + outputFile)
	if err := os.WriteFile(outputFile, speech, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputFile, err)
	}

	if a.Prepend != nil {
		if err := p.prepend(ctx, a, outputFile); err != nil {
			return err
		}
	}

	p.record(ctx, a, outputFile, characters)
	sum.ItemsCompleted++
	return nil
}

func (p *Processor) synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}
	return p.synth.Synthesize(ctx, req)
}

func (p *Processor) prepend(ctx context.Context, a Announcement, outputFile string) error {
	if p.merger == nil {
		return fmt.Errorf("no audio merger configured to prepend to %q", a.Name)
	}

	p.logger.Info("Merging clips...")

	intro, err := p.merger.Load(a.Prepend.File)
	if err != nil {
		return fmt.Errorf("failed to load prepend clip for %q: %w", a.Name, err)
	}
	if a.Prepend.Volume != nil {
		intro = p.merger.AdjustGain(intro, *a.Prepend.Volume)
	}

	speech, err := p.merger.Load(outputFile)
	if err != nil {
		return fmt.Errorf("failed to load synthesized clip for %q: %w", a.Name, err)
	}

	merged := p.merger.Concatenate(intro, speech)
	if err := p.merger.Export(ctx, merged, outputFile, FormatMP3); err != nil {
		return fmt.Errorf("failed to merge clips for %q: %w", a.Name, err)
	}
	return nil
}

// record is best effort; ledger problems never abort a batch.
func (p *Processor) record(ctx context.Context, a Announcement, outputFile string, characters int) {
	if p.recorder == nil {
		return
	}
	err := p.recorder.RecordSynthesis(ctx, models.Synthesis{
		Name:         a.Name,
		Path:         outputFile,
		Voice:        a.Voice,
		Engine:       a.Engine,
		Language:     a.Language,
		OutputFormat: a.OutputFormat,
		Characters:   characters,
		Prepended:    a.Prepend != nil,
	})
	if err != nil {
		p.logger.WithError(err).Warn("Failed to record synthesis in ledger")
	}
}

// checkPrepend runs before synthesis so a bad prepend never costs a request.
func checkPrepend(a Announcement) error {
	if a.Prepend.File == "" {
		return fmt.Errorf("%w in JSON for announcement %q", ErrPrependFileMissing, a.Name)
	}
	if !strings.EqualFold(a.OutputFormat, FormatMP3) {
		return fmt.Errorf("%w: the output format of %q is %s", ErrPrependFormat, a.Name, a.OutputFormat)
	}
	if !strings.EqualFold(filepath.Ext(a.Prepend.File), ".mp3") {
		return fmt.Errorf("%w: the prepend file of %q is %s", ErrPrependFormat, a.Name, a.Prepend.File)
	}

	exists, err := fileExists(a.Prepend.File)
	if err != nil {
		return err
	}
	if !exists {
		msg := fmt.Sprintf("%s for announcement %q", a.Prepend.File, a.Name)
		if s := suggestClip(a.Prepend.File); s != "" {
			msg += fmt.Sprintf(" (did you mean %s?)", s)
		}
		return fmt.Errorf("%w: %s", ErrPrependNotFound, msg)
	}
	return nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}
