// Package seedfile reads and writes board seeds as TOML or YAML documents.
package seedfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/domain"
)

// Format names a seed document encoding.
type Format string

// Format values.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat reports an unknown file extension or format name.
var ErrUnsupportedFormat = errors.New("unsupported seed format")

// File is a seed document on disk.
type File struct {
	path   string
	format Format
	idGen  func() string
}

// Open selects a decoder for path by extension. The file is read on LoadSeed.
func Open(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("seed path is required")
	}
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	return &File{path: path, format: format, idGen: uuid.NewString}, nil
}

// FormatForPath maps a file extension to a format.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// LoadSeed reads and decodes the file. Items without an id get a generated one.
func (f *File) LoadSeed(ctx context.Context) (board.Seed, error) {
	if err := ctx.Err(); err != nil {
		return board.Seed{}, err
	}
	content, err := os.ReadFile(f.path)
	if err != nil {
		return board.Seed{}, fmt.Errorf("read seed: %w", err)
	}
	seed, err := Decode(content, f.format)
	if err != nil {
		return board.Seed{}, fmt.Errorf("%s: %w", f.path, err)
	}
	for i := range seed.Items {
		if strings.TrimSpace(string(seed.Items[i].ID)) == "" {
			seed.Items[i].ID = domain.ItemID(f.idGen())
		}
	}
	return seed, nil
}

// Decode parses a seed document.
func Decode(content []byte, format Format) (board.Seed, error) {
	var seed board.Seed
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(content, &seed); err != nil {
			return board.Seed{}, fmt.Errorf("decode toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &seed); err != nil {
			return board.Seed{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return board.Seed{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return seed, nil
}

// Encode writes a seed document.
func Encode(w io.Writer, seed board.Seed, format Format) error {
	switch format {
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		if err := enc.Encode(seed); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(seed); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return nil
}
