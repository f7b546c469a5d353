package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/masonry"
)

// LayoutVersion is written into every LayoutDocument.
const LayoutVersion = 1

// LayoutDocument is a computed layout together with its inputs.
type LayoutDocument struct {
	Version int `json:"version" bson:"version"`

	// Config is the session configuration after the pass. Liquid sessions
	// carry their resolved cell size here.
	Config masonry.Config `json:"config" bson:"config"`

	// Viewport is the container size the layout was computed against.
	// Result.Container is the size the placed items actually cover.
	Viewport masonry.Size `json:"viewport" bson:"viewport"`

	Items  []masonry.Item `json:"items" bson:"items"`
	Result masonry.Result `json:"result" bson:"result"`
}

// NewLayoutDocument bundles one layout pass.
func NewLayoutDocument(cfg masonry.Config, viewport masonry.Size, items []masonry.Item, res masonry.Result) LayoutDocument {
	return LayoutDocument{
		Version:  LayoutVersion,
		Config:   cfg,
		Viewport: viewport,
		Items:    items,
		Result:   res,
	}
}

// MarshalLayout encodes a layout document as compact JSON.
func MarshalLayout(doc LayoutDocument) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return data, nil
}

// UnmarshalLayout decodes a layout document and checks that it is
// self-consistent: one placement per item, in order.
func UnmarshalLayout(data []byte) (LayoutDocument, error) {
	var doc LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return LayoutDocument{}, bwerrors.Wrap(bwerrors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if doc.Version != LayoutVersion {
		return LayoutDocument{}, bwerrors.New(bwerrors.ErrCodeUnsupported, "layout version %d (want %d)", doc.Version, LayoutVersion)
	}
	if len(doc.Items) != len(doc.Result.Placements) {
		return LayoutDocument{}, bwerrors.New(bwerrors.ErrCodeInvalidFormat,
			"layout has %d items but %d placements", len(doc.Items), len(doc.Result.Placements))
	}
	for i, p := range doc.Result.Placements {
		if p.Index != i {
			return LayoutDocument{}, bwerrors.New(bwerrors.ErrCodeInvalidFormat, "placement %d has index %d", i, p.Index)
		}
	}
	return doc, nil
}

// WriteLayout writes a layout document to w as indented JSON.
func WriteLayout(doc LayoutDocument, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportLayout writes a layout document to a JSON file at path.
func ExportLayout(doc LayoutDocument, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(doc, f)
}

// ReadLayout decodes a layout document from r. ReadLayout does not close r.
func ReadLayout(r io.Reader) (LayoutDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return LayoutDocument{}, fmt.Errorf("read layout: %w", err)
	}
	return UnmarshalLayout(data)
}

// ImportLayout reads a layout document from a JSON file.
func ImportLayout(path string) (LayoutDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LayoutDocument{}, bwerrors.Wrap(bwerrors.ErrCodeFileNotFound, err, "layout file %s not found", path)
		}
		return LayoutDocument{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}
