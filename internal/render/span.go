package render

import (
	"errors"
	"fmt"

	"github.com/marktree/marktree/internal/event"
)

var (
	// ErrUnterminated reports a Start tag with no matching End.
	ErrUnterminated = errors.New("unterminated tag")
	// ErrStrayEnd reports an End event with no open Start.
	ErrStrayEnd = errors.New("stray end tag")
)

// matchSpan extracts the inner events of the span opening at start.
// events[start] must be a Start whose tag matches probe. The scan keeps a
// nesting depth so same-kind tags inside the span do not close it early;
// next points one past the matching End. The returned slice is freshly
// allocated and safe for callers to modify.
func matchSpan(events []event.Event, start int, probe event.Tag) (inner []event.Event, next int, err error) {
	depth := 0
	for i := start; i < len(events); i++ {
		ev := events[i]
		switch {
		case ev.Kind == event.KindStart && ev.Tag.Matches(probe):
			depth++
			if depth > 1 {
				inner = append(inner, ev)
			}
		case ev.Kind == event.KindEnd && ev.Tag.Matches(probe):
			depth--
			if depth == 0 {
				return inner, i + 1, nil
			}
			inner = append(inner, ev)
		case depth > 0:
			inner = append(inner, ev)
		}
	}
	return nil, 0, fmt.Errorf("%w: missing End for %s", ErrUnterminated, probe)
}
