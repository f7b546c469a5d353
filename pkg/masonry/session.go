package masonry

// Session is one grid instance. It owns the configuration, the cell size the
// layout settled on, and the per-item span cache used by liquid layouts.
//
// Every Layout call rebuilds the occupancy grid from scratch; only the span
// cache survives between passes. A Session must not be used by two goroutines
// at once.
type Session struct {
	cfg Config

	// baseWidth and baseHeight are the unscaled cell sizes resolved by the
	// last pass; ResizeChanged recomputes segments from them.
	baseWidth  float64
	baseHeight float64

	seg     Segments
	laidOut bool

	grid   *Grid
	extent Extent
	spans  map[spanKey]Span
}

// NewSession creates a session for the given configuration.
func NewSession(cfg Config) *Session {
	return &Session{
		cfg:   cfg,
		grid:  NewGrid(),
		spans: make(map[spanKey]Span),
	}
}

// Pack is a one-shot layout on a fresh session.
func Pack(cfg Config, container Size, items []Item) Result {
	return NewSession(cfg).Layout(container, items)
}

// Config returns the session configuration. After a liquid pass it carries
// the resolved ColumnWidth and RowHeight.
func (s *Session) Config() Config { return s.cfg }

// SetConfig replaces the configuration for subsequent passes. The span cache
// is kept.
func (s *Session) SetConfig(cfg Config) { s.cfg = cfg }

// Segments returns the segments of the last pass, with counts updated by any
// later ResizeChanged call.
func (s *Session) Segments() Segments { return s.seg }

// Grid returns the occupancy grid of the last pass.
func (s *Session) Grid() *Grid { return s.grid }

// CachedSpan returns the span cached for an item ID by a liquid pass.
func (s *Session) CachedSpan(id string) (Span, bool) {
	sp, ok := s.spans[Item{ID: id}.key(-1)]
	return sp, ok
}

// CachedSpanAt returns the span cached for the unnamed item at index.
func (s *Session) CachedSpanAt(index int) (Span, bool) {
	sp, ok := s.spans[Item{}.key(index)]
	return sp, ok
}

// ForgetSpans drops every cached span, so the next liquid pass measures all
// items again.
func (s *Session) ForgetSpans() { clear(s.spans) }

// Layout runs one full layout pass over items against the container size.
// Items are placed in input order; the result holds one placement per item.
func (s *Session) Layout(container Size, items []Item) Result {
	cfg := s.cfg.WithDefaults()
	cw, rh := s.resolveCellSize(items)
	seg := ComputeSegments(container, cfg, cw, rh)

	s.baseWidth, s.baseHeight = cw, rh
	s.seg = seg
	s.laidOut = true
	s.grid = NewGrid()
	s.extent.Reset()

	ps := pass{
		orient:    cfg.Orientation,
		seg:       seg,
		scanLimit: cfg.ScanLimit,
		grid:      s.grid,
		extent:    &s.extent,
		liquid:    cfg.Liquid,
	}

	res := Result{
		Placements: make([]Placement, 0, len(items)),
		Segments:   seg,
	}
	for i, it := range items {
		pl := ps.place(i, it, s.spanFor(i, it, seg))
		if !pl.Placed {
			res.Unplaced++
		}
		res.Placements = append(res.Placements, pl)
	}

	res.Container = s.extent.Size()
	p, sec := s.grid.Extent()
	res.GridCols, res.GridRows = cfg.Orientation.join(p, sec)
	return res
}

// ResizeChanged recomputes the column and row counts for a new container size
// and reports whether they differ from the stored ones. The new counts are
// stored, so repeated calls with the same size report false after the first.
// A session that has never been laid out always reports true.
func (s *Session) ResizeChanged(container Size) bool {
	if !s.laidOut {
		return true
	}
	cfg := s.cfg.WithDefaults()
	next := ComputeSegments(container, cfg, s.baseWidth, s.baseHeight)

	colsChanged := next.Cols != s.seg.Cols
	rowsChanged := next.Rows != s.seg.Rows
	s.seg.Cols, s.seg.Rows = next.Cols, next.Rows

	if cfg.ResizeOrientationOnly {
		if cfg.Orientation == Horizontal {
			return rowsChanged
		}
		return colsChanged
	}
	return colsChanged || rowsChanged
}

// resolveCellSize picks the configured cell size, falling back to the first
// item's size. Liquid sessions keep the resolved size for later passes.
func (s *Session) resolveCellSize(items []Item) (float64, float64) {
	cw, rh := s.cfg.ColumnWidth, s.cfg.RowHeight
	if len(items) > 0 {
		if cw <= 0 {
			cw = items[0].Width
		}
		if rh <= 0 {
			rh = items[0].Height
		}
	}
	cw, rh = cellSize(cw), cellSize(rh)
	if s.cfg.Liquid && len(items) > 0 {
		s.cfg.ColumnWidth, s.cfg.RowHeight = cw, rh
	}
	return cw, rh
}

// spanFor measures an item against the pass's cell size. Liquid sessions
// reuse the first span measured for an item.
func (s *Session) spanFor(index int, it Item, seg Segments) Span {
	if !s.cfg.Liquid {
		return SpanOf(it.Size(), seg.ColumnWidth, seg.RowHeight)
	}
	k := it.key(index)
	if sp, ok := s.spans[k]; ok {
		return sp
	}
	sp := SpanOf(it.Size(), seg.ColumnWidth, seg.RowHeight)
	s.spans[k] = sp
	return sp
}
