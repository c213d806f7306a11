package announcement

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrInputNotFound   = errors.New("JSON file does not exist")
	ErrInvalidDocument = errors.New("invalid announcement document")
)

//go:embed announcements.schema.json
var documentSchema []byte

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("announcements.schema.json", bytes.NewReader(documentSchema)); err != nil {
		return nil, fmt.Errorf("schema resource: %w", err)
	}
	s, err := c.Compile("announcements.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}

// Parse checks the JSON shape of raw and decodes it. Field presence is left
// to Validate so that errors surface in document order.
func Parse(raw []byte) ([]Announcement, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse json: %v", ErrInvalidDocument, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var out []Announcement
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return out, nil
}

// LoadFile reads and parses the announcement list at path.
func LoadFile(path string) ([]Announcement, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(raw)
}
