// Package loader reads exercise seed files and prepares the randomized
// presentation order a session starts from.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/katrinawoods/rsc2/internal/model"
)

// Format is a seed file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrInvalidSeed wraps every parse or shape failure.
var ErrInvalidSeed = errors.New("invalid seed data")

var validate = validator.New()

// Document is a parsed seed file.
type Document struct {
	Title string
	Seed  model.Seed
}

type seedFile struct {
	Title        string     `json:"title" yaml:"title"`
	InitialOrder []seedCard `json:"initialOrder" yaml:"initialOrder" validate:"required,min=1,dive"`
	CorrectOrder []answer   `json:"correctOrder" yaml:"correctOrder" validate:"required,min=1,dive"`
}

type seedCard struct {
	ID      flexID `json:"id" yaml:"id"`
	Content string `json:"content" yaml:"content" validate:"required"`
}

type answer struct {
	Content string `json:"content" yaml:"content" validate:"required"`
}

// flexID accepts card ids written as strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("card id must be a string or number: %w", err)
	}
	*f = flexID(s)
	return nil
}

func (f *flexID) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: card id must be a scalar", n.Line)
	}
	*f = flexID(n.Value)
	return nil
}

// FormatFromPath picks the format from a file extension; anything other than
// .yaml or .yml is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReadFile parses the seed file at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return Parse(data, FormatFromPath(path))
}

// Parse decodes and shape-checks seed data. Cards without an id get a fresh
// ULID. Alignment between the two orders is not checked here; that is the
// session's concern.
func Parse(data []byte, format Format) (*Document, error) {
	var f seedFile
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	case FormatJSON, "":
		err = json.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidSeed, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	doc := &Document{Title: strings.TrimSpace(f.Title)}
	doc.Seed.InitialOrder = make([]model.SeedCard, len(f.InitialOrder))
	for i, c := range f.InitialOrder {
		id := model.CardID(strings.TrimSpace(string(c.ID)))
		if id == "" {
			id = model.CardID(ulid.Make().String())
		}
		doc.Seed.InitialOrder[i] = model.SeedCard{ID: id, Content: c.Content}
	}
	doc.Seed.CorrectOrder = make([]string, len(f.CorrectOrder))
	for i, a := range f.CorrectOrder {
		doc.Seed.CorrectOrder[i] = a.Content
	}
	return doc, nil
}

// Encode writes a seed in the file format Parse reads.
func Encode(title string, seed model.Seed, format Format) ([]byte, error) {
	f := seedFile{Title: title}
	for _, c := range seed.InitialOrder {
		f.InitialOrder = append(f.InitialOrder, seedCard{ID: flexID(c.ID), Content: c.Content})
	}
	for _, c := range seed.CorrectOrder {
		f.CorrectOrder = append(f.CorrectOrder, answer{Content: c})
	}
	if format == FormatYAML {
		return yaml.Marshal(f)
	}
	return json.MarshalIndent(f, "", "  ")
}
