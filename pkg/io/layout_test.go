package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/masonry"
)

func sampleDocument() LayoutDocument {
	cfg := masonry.Config{Orientation: masonry.Horizontal, ColumnWidth: 100, RowHeight: 100}
	viewport := masonry.Size{Width: 1000, Height: 300}
	items := []masonry.Item{
		{ID: "a", Width: 100, Height: 100},
		{ID: "b", Width: 100, Height: 200},
		{ID: "c", Width: 100, Height: 100},
	}
	return NewLayoutDocument(cfg, viewport, items, masonry.Pack(cfg, viewport, items))
}

func TestLayoutRoundTrip(t *testing.T) {
	doc := sampleDocument()

	var buf bytes.Buffer
	if err := WriteLayout(doc, &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"orientation": "horizontal"`)) {
		t.Errorf("orientation should be written by name:\n%s", buf.String())
	}

	got, err := ReadLayout(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, doc)
	}
}

func TestExportImportLayout(t *testing.T) {
	doc := sampleDocument()
	path := filepath.Join(t.TempDir(), "layout.json")

	if err := ExportLayout(doc, path); err != nil {
		t.Fatal(err)
	}
	got, err := ImportLayout(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Result.GridRows != doc.Result.GridRows || len(got.Result.Placements) != 3 {
		t.Errorf("imported layout = %+v", got.Result)
	}
}

func TestUnmarshalLayoutRejects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode bwerrors.Code
	}{
		{"malformed", `{`, bwerrors.ErrCodeInvalidFormat},
		{"wrong version", `{"version": 7}`, bwerrors.ErrCodeUnsupported},
		{"count mismatch", `{"version": 1, "items": [{"width": 1, "height": 1}], "result": {"placements": []}}`, bwerrors.ErrCodeInvalidFormat},
		{"index mismatch", `{"version": 1, "items": [{"width": 1, "height": 1}], "result": {"placements": [{"index": 3}]}}`, bwerrors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.input))
			if !bwerrors.Is(err, tt.wantCode) {
				t.Errorf("UnmarshalLayout() = %v, want code %v", err, tt.wantCode)
			}
		})
	}
}
