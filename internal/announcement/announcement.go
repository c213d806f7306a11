package announcement

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	DefaultOutputFormat = "mp3"
	DefaultVoice        = "Matthew"
	DefaultEngine       = "neural"
	DefaultLanguage     = "en-US"

	// FormatMP3 is the only format clips can be prepended to.
	FormatMP3 = "mp3"
)

var (
	ErrMissingName        = errors.New("missing required element \"name\"")
	ErrMissingSentences   = errors.New("missing required element \"sentences\"")
	ErrEmptySentences     = errors.New("\"sentences\" array empty")
	ErrPrependFileMissing = errors.New("prepend file not specified")
	ErrPrependFormat      = errors.New("prepend requires mp3")
	ErrPrependNotFound    = errors.New("prepend file does not exist")
)

// Announcement is one entry of the input document.
type Announcement struct {
	Name         string   `json:"name"`
	Sentences    []string `json:"sentences"`
	OutputFormat string   `json:"outputFormat,omitempty"`
	Voice        string   `json:"voice,omitempty"`
	Engine       string   `json:"engine,omitempty"`
	Language     string   `json:"language,omitempty"`
	Prepend      *Prepend `json:"prepend,omitempty"`
}

// Prepend names a clip played before the synthesized speech.
type Prepend struct {
	File string `json:"file"`
	// Volume is a gain offset in decibels applied to the prepended clip.
	Volume *float64 `json:"volume,omitempty"`
}

// label identifies an entry in error messages: `element 3 ("Gate Change")`.
func label(index int, name string) string {
	if name == "" {
		return fmt.Sprintf("element %d", index)
	}
	return fmt.Sprintf("element %d (%q)", index, name)
}

// Validate checks the required fields of the entry at index.
func (a Announcement) Validate(index int) error {
	if a.Name == "" {
		return fmt.Errorf("%w in %s", ErrMissingName, label(index, ""))
	}
	if a.Sentences == nil {
		return fmt.Errorf("%w in %s", ErrMissingSentences, label(index, a.Name))
	}
	if len(a.Sentences) == 0 {
		return fmt.Errorf("%w in %s", ErrEmptySentences, label(index, a.Name))
	}
	return nil
}

// WithDefaults returns a copy with every unset scalar filled in.
func (a Announcement) WithDefaults() Announcement {
	if a.OutputFormat == "" {
		a.OutputFormat = DefaultOutputFormat
	}
	if a.Voice == "" {
		a.Voice = DefaultVoice
	}
	if a.Engine == "" {
		a.Engine = DefaultEngine
	}
	if a.Language == "" {
		a.Language = DefaultLanguage
	}
	return a
}

// FileName is the lower-cased "name.format" with spaces replaced by underscores.
func (a Announcement) FileName() string {
	return strings.ReplaceAll(strings.ToLower(a.Name+"."+a.OutputFormat), " ", "_")
}

// OutputPath roots FileName at dir.
func (a Announcement) OutputPath(dir string) string {
	return filepath.Join(dir, a.FileName())
}

// Markup wraps the utterance in <speak> and every sentence in <s>. Sentences
// are inserted verbatim so inline SSML passes through.
func (a Announcement) Markup() string {
	var b strings.Builder
	b.WriteString("<speak>")
	for _, s := range a.Sentences {
		b.WriteString("<s>")
		b.WriteString(s)
		b.WriteString("</s>")
	}
	b.WriteString("</speak>")
	return b.String()
}

// Characters is the approximate billable size: raw sentence code points, no markup.
func (a Announcement) Characters() int {
	n := 0
	for _, s := range a.Sentences {
		n += utf8.RuneCountInString(s)
	}
	return n
}
