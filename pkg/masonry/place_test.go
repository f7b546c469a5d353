package masonry

import (
	"reflect"
	"testing"
)

type point struct{ X, Y float64 }

func positions(res Result) []point {
	out := make([]point, len(res.Placements))
	for i, p := range res.Placements {
		out[i] = point{p.X, p.Y}
	}
	return out
}

func squares(n int, size float64) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Width: size, Height: size}
	}
	return items
}

func TestLayoutSimpleGrid(t *testing.T) {
	res := Pack(Config{ColumnWidth: 100, RowHeight: 100}, Size{Width: 300, Height: 1000}, squares(4, 100))

	want := []point{{0, 0}, {100, 0}, {200, 0}, {0, 100}}
	if got := positions(res); !reflect.DeepEqual(got, want) {
		t.Errorf("positions = %v, want %v", got, want)
	}
	if res.Container != (Size{Width: 300, Height: 200}) {
		t.Errorf("Container = %+v, want 300x200", res.Container)
	}
	if res.Segments.Cols != 3 {
		t.Errorf("Segments.Cols = %d, want 3", res.Segments.Cols)
	}
}

func TestLayoutBackfillsHoles(t *testing.T) {
	items := []Item{
		{ID: "wide", Width: 200, Height: 100},
		{ID: "b", Width: 100, Height: 100},
		{ID: "c", Width: 100, Height: 100},
		{ID: "d", Width: 100, Height: 100},
	}
	res := Pack(Config{ColumnWidth: 100, RowHeight: 100}, Size{Width: 300, Height: 1000}, items)

	want := []point{{0, 0}, {200, 0}, {0, 100}, {100, 100}}
	if got := positions(res); !reflect.DeepEqual(got, want) {
		t.Errorf("positions = %v, want %v", got, want)
	}
	if res.Placements[0].Span != (Span{Cols: 2, Rows: 1}) {
		t.Errorf("wide span = %+v, want 2x1", res.Placements[0].Span)
	}
	if res.GridCols != 3 || res.GridRows != 2 {
		t.Errorf("grid = %dx%d, want 3x2", res.GridCols, res.GridRows)
	}
}

func TestLayoutBackfillsUnderTallItem(t *testing.T) {
	items := []Item{
		{ID: "tall", Width: 100, Height: 200},
		{ID: "wide", Width: 300, Height: 100},
		{ID: "small", Width: 100, Height: 100},
		{ID: "small2", Width: 100, Height: 100},
	}
	res := Pack(Config{ColumnWidth: 100, RowHeight: 100}, Size{Width: 300, Height: 1000}, items)

	// wide cannot sit beside tall, so it drops to row 2; the two small items
	// fill the hole to the right of tall.
	want := []point{{0, 0}, {0, 200}, {100, 0}, {200, 0}}
	if got := positions(res); !reflect.DeepEqual(got, want) {
		t.Errorf("positions = %v, want %v", got, want)
	}
}

func TestLayoutHorizontal(t *testing.T) {
	cfg := Config{Orientation: Horizontal, ColumnWidth: 100, RowHeight: 100}
	res := Pack(cfg, Size{Width: 1000, Height: 300}, squares(4, 100))

	want := []point{{0, 0}, {0, 100}, {0, 200}, {100, 0}}
	if got := positions(res); !reflect.DeepEqual(got, want) {
		t.Errorf("positions = %v, want %v", got, want)
	}
	if res.Container != (Size{Width: 200, Height: 300}) {
		t.Errorf("Container = %+v, want 200x300", res.Container)
	}
	if res.GridCols != 2 || res.GridRows != 3 {
		t.Errorf("grid = %dx%d, want 2x3", res.GridCols, res.GridRows)
	}
}

func TestLayoutOversizedItemAnchorsAtOrigin(t *testing.T) {
	items := []Item{
		{ID: "small", Width: 100, Height: 100},
		{ID: "huge", Width: 500, Height: 100},
	}
	res := Pack(Config{ColumnWidth: 100, RowHeight: 100}, Size{Width: 300, Height: 300}, items)

	huge := res.Placements[1]
	if !huge.Placed {
		t.Fatal("oversized item should still be placed")
	}
	if huge.X != 0 || huge.Y != 100 {
		t.Errorf("huge at (%v,%v), want (0,100)", huge.X, huge.Y)
	}
	if res.Container.Width != 500 {
		t.Errorf("Container.Width = %v, want 500", res.Container.Width)
	}
}

func TestLayoutOversizedItemPlacement(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		viewport Size
		item     Item
		wantSpan Span
		wantLen  int
	}{
		{
			name:     "wider than a single column",
			cfg:      Config{ColumnWidth: 100, RowHeight: 100, ScanLimit: 1},
			viewport: Size{Width: 100, Height: 100},
			item:     Item{ID: "wide", Width: 200, Height: 100},
			wantSpan: Span{Cols: 2, Rows: 1},
			wantLen:  2,
		},
		{
			name:     "wider than a single row horizontally",
			cfg:      Config{ColumnWidth: 100, RowHeight: 100, ScanLimit: 1, Orientation: Horizontal},
			viewport: Size{Width: 100, Height: 100},
			item:     Item{ID: "tall", Width: 100, Height: 300},
			wantSpan: Span{Cols: 1, Rows: 3},
			wantLen:  3,
		},
		{
			name:     "huge area",
			cfg:      Config{ColumnWidth: 100, RowHeight: 100},
			viewport: Size{Width: 300, Height: 300},
			item:     Item{ID: "huge", Width: 200000, Height: 200000},
			wantSpan: Span{Cols: 2000, Rows: 2000},
			wantLen:  4000000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(tt.cfg)
			res := s.Layout(tt.viewport, []Item{tt.item})

			p := res.Placements[0]
			if !p.Placed {
				t.Fatal("item should be placed")
			}
			if p.Col != 0 || p.Row != 0 {
				t.Errorf("anchor = (%d,%d), want origin", p.Col, p.Row)
			}
			if p.Span != tt.wantSpan {
				t.Errorf("Span = %+v, want %+v", p.Span, tt.wantSpan)
			}
			if got := s.Grid().Len(); got != tt.wantLen {
				t.Errorf("Grid().Len() = %d, want %d", got, tt.wantLen)
			}
			if got := len(s.Grid().Blocks(tt.cfg.Orientation)); got != 1 {
				t.Errorf("grid holds %d rectangles, want 1", got)
			}
		})
	}
}

func TestLayoutSkipsPastCollisions(t *testing.T) {
	items := []Item{
		{ID: "a", Width: 300, Height: 100},
		{ID: "b", Width: 100, Height: 100},
		{ID: "c", Width: 200, Height: 100},
	}
	res := Pack(Config{ColumnWidth: 100, RowHeight: 100}, Size{Width: 500, Height: 200}, items)

	want := [][2]int{{0, 0}, {3, 0}, {0, 1}}
	for i, p := range res.Placements {
		if p.Col != want[i][0] || p.Row != want[i][1] {
			t.Errorf("%s at (%d,%d), want %v", p.ID, p.Col, p.Row, want[i])
		}
	}
}

func TestLayoutUnplaceable(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		items []Item
	}{
		{
			name:  "span beyond scan limit",
			cfg:   Config{ColumnWidth: 100, RowHeight: 100, ScanLimit: 3},
			items: []Item{{ID: "x", Width: 500, Height: 500}},
		},
		{
			name:  "only cell taken",
			cfg:   Config{ColumnWidth: 100, RowHeight: 100, ScanLimit: 1},
			items: []Item{{ID: "first", Width: 100, Height: 100}, {ID: "x", Width: 100, Height: 100}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Pack(tt.cfg, Size{Width: 100, Height: 100}, tt.items)
			last := res.Placements[len(res.Placements)-1]

			if last.Placed {
				t.Fatal("item should be unplaceable")
			}
			if last.X != Unplaceable || last.Y != Unplaceable {
				t.Errorf("position = (%v,%v), want sentinel", last.X, last.Y)
			}
			if res.Unplaced != 1 {
				t.Errorf("Unplaced = %d, want 1", res.Unplaced)
			}
			wantExtent := Size{}
			if len(tt.items) > 1 {
				wantExtent = Size{Width: 100, Height: 100}
			}
			if res.Container != wantExtent {
				t.Errorf("Container = %+v, want %+v", res.Container, wantExtent)
			}
		})
	}
}

func mixedItems() []Item {
	sizes := [][2]float64{
		{200, 100}, {100, 200}, {100, 100}, {300, 100}, {100, 100},
		{200, 200}, {100, 300}, {100, 100}, {250, 150}, {100, 100},
		{400, 100}, {100, 100}, {150, 250}, {100, 100}, {200, 100},
	}
	items := make([]Item, len(sizes))
	for i, s := range sizes {
		items[i] = Item{Width: s[0], Height: s[1]}
	}
	return items
}

func TestLayoutNoOverlap(t *testing.T) {
	for _, cfg := range []Config{
		{ColumnWidth: 100, RowHeight: 100},
		{ColumnWidth: 100, RowHeight: 100, Orientation: Horizontal},
		{ColumnWidth: 100, RowHeight: 100, Liquid: true},
	} {
		t.Run(cfg.Orientation.String(), func(t *testing.T) {
			res := Pack(cfg, Size{Width: 400, Height: 400}, mixedItems())

			seen := make(map[[2]int]int)
			for i, p := range res.Placements {
				if !p.Placed {
					continue
				}
				for c := p.Col; c < p.Col+p.Span.Cols; c++ {
					for r := p.Row; r < p.Row+p.Span.Rows; r++ {
						if prev, ok := seen[[2]int{c, r}]; ok {
							t.Fatalf("cell (%d,%d) covered by items %d and %d", c, r, prev, i)
						}
						seen[[2]int{c, r}] = i
					}
				}
			}
		})
	}
}

func TestLayoutDeterministic(t *testing.T) {
	cfg := Config{ColumnWidth: 100, RowHeight: 100}
	container := Size{Width: 500, Height: 500}

	first := Pack(cfg, container, mixedItems())
	second := Pack(cfg, container, mixedItems())
	if !reflect.DeepEqual(first, second) {
		t.Error("two passes over the same input produced different results")
	}

	s := NewSession(cfg)
	a := s.Layout(container, mixedItems())
	b := s.Layout(container, mixedItems())
	if !reflect.DeepEqual(a, b) {
		t.Error("re-layout on the same session produced different results")
	}
}

func TestLayoutExtentMonotonic(t *testing.T) {
	cfg := Config{ColumnWidth: 100, RowHeight: 100}
	container := Size{Width: 400, Height: 400}
	items := mixedItems()

	var prev Size
	for k := 1; k <= len(items); k++ {
		res := Pack(cfg, container, items[:k])
		got := res.Container
		if got.Width < prev.Width || got.Height < prev.Height {
			t.Fatalf("after %d items extent shrank: %+v -> %+v", k, prev, got)
		}

		var want Size
		for _, p := range res.Placements {
			if !p.Placed {
				continue
			}
			want.Width = max(want.Width, float64(p.Col+p.Span.Cols)*res.Segments.ColumnWidth)
			want.Height = max(want.Height, float64(p.Row+p.Span.Rows)*res.Segments.RowHeight)
		}
		if got != want {
			t.Fatalf("after %d items extent = %+v, want %+v", k, got, want)
		}
		prev = got
	}
}

func TestLayoutEmpty(t *testing.T) {
	res := Pack(Config{}, Size{Width: 300, Height: 300}, nil)
	if len(res.Placements) != 0 || res.Container != (Size{}) {
		t.Errorf("empty layout = %+v", res)
	}
}
