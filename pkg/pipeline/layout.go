package pipeline

import (
	bwio "github.com/matzehuels/brickwall/pkg/io"
	"github.com/matzehuels/brickwall/pkg/masonry"
)

// GenerateLayout runs one layout pass on s and bundles it with its inputs.
// The document carries the session config after the pass, so a liquid
// session's resolved cell size is recorded.
func GenerateLayout(s *masonry.Session, container masonry.Size, items []masonry.Item) bwio.LayoutDocument {
	res := s.Layout(container, items)
	return bwio.NewLayoutDocument(s.Config(), container, items, res)
}
