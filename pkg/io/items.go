package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/masonry"
)

// Format is an item file encoding.
type Format string

// Supported item file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DetectFormat picks the item file format from a path's extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", bwerrors.New(bwerrors.ErrCodeInvalidFormat, "cannot infer item format from %q (use .json, .yaml or .toml)", path)
	}
}

// ParseFormat validates a format name given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", bwerrors.New(bwerrors.ErrCodeInvalidFormat, "unknown item format %q (must be one of: json, yaml, toml)", s)
	}
}

type itemFile struct {
	Items []masonry.Item `json:"items" yaml:"items" toml:"items"`
}

// ReadItems decodes and validates an item list from r.
// An empty input yields an empty list. ReadItems does not close r.
func ReadItems(r io.Reader, format Format) ([]masonry.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []masonry.Item{}, nil
	}

	var items []masonry.Item
	switch format {
	case FormatJSON:
		items, err = decodeJSONItems(data)
	case FormatYAML:
		items, err = decodeYAMLItems(data)
	case FormatTOML:
		items, err = decodeTOMLItems(data)
	default:
		return nil, bwerrors.New(bwerrors.ErrCodeInvalidFormat, "unknown item format %q", format)
	}
	if err != nil {
		return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidItems, err, "decode %s items", format)
	}

	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	return items, nil
}

// ImportItems reads an item file, choosing the format from its extension.
func ImportItems(path string) ([]masonry.Item, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, bwerrors.Wrap(bwerrors.ErrCodeFileNotFound, err, "item file %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadItems(f, format)
}

// ValidateItems checks sizes and id uniqueness.
func ValidateItems(items []masonry.Item) error {
	seen := make(map[string]int, len(items))
	for i, it := range items {
		if err := bwerrors.ValidateDimension("width", it.Width); err != nil {
			return bwerrors.Wrap(bwerrors.ErrCodeInvalidItems, err, "item %d", i)
		}
		if err := bwerrors.ValidateDimension("height", it.Height); err != nil {
			return bwerrors.Wrap(bwerrors.ErrCodeInvalidItems, err, "item %d", i)
		}
		if it.ID == "" {
			continue
		}
		if j, dup := seen[it.ID]; dup {
			return bwerrors.New(bwerrors.ErrCodeInvalidItems, "items %d and %d share id %q", j, i, it.ID)
		}
		seen[it.ID] = i
	}
	return nil
}

func decodeJSONItems(data []byte) ([]masonry.Item, error) {
	trimmed := bytes.TrimSpace(data)
	if trimmed[0] == '[' {
		var items []masonry.Item
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	var f itemFile
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return f.Items, nil
}

func decodeYAMLItems(data []byte) ([]masonry.Item, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var items []masonry.Item
		if err := root.Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f itemFile
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return f.Items, nil
}

func decodeTOMLItems(data []byte) ([]masonry.Item, error) {
	var f itemFile
	meta, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return f.Items, nil
}
