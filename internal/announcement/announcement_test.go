package announcement

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestWithDefaults(t *testing.T) {
	got := Announcement{Name: "Hello", Sentences: []string{"Hi."}}.WithDefaults()
	if got.OutputFormat != "mp3" || got.Voice != "Matthew" || got.Engine != "neural" || got.Language != "en-US" {
		t.Fatalf("defaults=%#v", got)
	}

	explicit := Announcement{
		Name:         "Hello",
		Sentences:    []string{"Hi."},
		OutputFormat: "ogg_vorbis",
		Voice:        "Joanna",
		Engine:       "standard",
		Language:     "en-GB",
	}
	if got := explicit.WithDefaults(); got.OutputFormat != "ogg_vorbis" || got.Voice != "Joanna" || got.Engine != "standard" || got.Language != "en-GB" {
		t.Fatalf("explicit values changed: %#v", got)
	}
}

func TestWithDefaultsReturnsCopy(t *testing.T) {
	a := Announcement{Name: "Hello", Sentences: []string{"Hi."}}
	_ = a.WithDefaults()
	if a.Voice != "" {
		t.Fatalf("original mutated: %#v", a)
	}
}

func TestOutputPath(t *testing.T) {
	a := Announcement{Name: "Hello World", OutputFormat: "MP3"}
	want := filepath.Join("out", "hello_world.mp3")
	if got := a.OutputPath("out"); got != want {
		t.Fatalf("OutputPath=%q want %q", got, want)
	}
	if a.OutputPath("out") != a.OutputPath("out") {
		t.Fatal("OutputPath should be deterministic")
	}

	b := Announcement{Name: "Gate  B12 Boarding", OutputFormat: "ogg_vorbis"}
	if got := b.FileName(); got != "gate__b12_boarding.ogg_vorbis" {
		t.Fatalf("FileName=%q", got)
	}
}

func TestMarkupAndCharacters(t *testing.T) {
	a := Announcement{Sentences: []string{"Hi there.", "Welcome <break time=\"1s\"/> aboard."}}

	want := `<speak><s>Hi there.</s><s>Welcome <break time="1s"/> aboard.</s></speak>`
	if got := a.Markup(); got != want {
		t.Fatalf("Markup=%q", got)
	}

	single := Announcement{Sentences: []string{"Hi there."}}
	if single.Markup() != "<speak><s>Hi there.</s></speak>" {
		t.Fatalf("Markup=%q", single.Markup())
	}
	if single.Characters() != 9 {
		t.Fatalf("Characters=%d", single.Characters())
	}

	accented := Announcement{Sentences: []string{"Café", "ok"}}
	if accented.Characters() != 6 {
		t.Fatalf("Characters=%d", accented.Characters())
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		in   Announcement
		want error
		msg  string
	}{
		{"missing name", Announcement{Sentences: []string{"a"}}, ErrMissingName, "element 4"},
		{"missing sentences", Announcement{Name: "Gate"}, ErrMissingSentences, `element 4 ("Gate")`},
		{"empty sentences", Announcement{Name: "Gate", Sentences: []string{}}, ErrEmptySentences, `element 4 ("Gate")`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate(4)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err=%v want %v", err, tc.want)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("err=%q should mention %q", err, tc.msg)
			}
		})
	}

	if err := (Announcement{Name: "ok", Sentences: []string{"a"}}).Validate(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
