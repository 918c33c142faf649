package basic

import "image"

// shelf is a horizontal band of the atlas.
type shelf struct {
	y      int // top edge
	height int // tallest item so far, padding included
	nextX  int // next free column
}

// shelfPacker places rectangles left to right on shelves stacked top to
// bottom. A rectangle goes on the first shelf with room for it; a shelf that
// already holds items never grows taller.
type shelfPacker struct {
	width, height int
	padding       int
	shelves       []shelf
}

func newShelfPacker(width, height, padding int) *shelfPacker {
	return &shelfPacker{width: width, height: height, padding: max(padding, 0)}
}

// allocate reserves a w x h rectangle. ok is false when it does not fit.
func (p *shelfPacker) allocate(w, h int) (r image.Rectangle, ok bool) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	pw, ph := w+p.padding, h+p.padding
	if pw > p.width || ph > p.height {
		return image.Rectangle{}, false
	}

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.nextX+pw > p.width || (ph > s.height && s.nextX > 0) {
			continue
		}
		r = image.Rect(s.nextX, s.y, s.nextX+w, s.y+h)
		s.nextX += pw
		s.height = max(s.height, ph)
		return r, true
	}

	y := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		y = last.y + last.height
	}
	if y+ph > p.height {
		return image.Rectangle{}, false
	}
	p.shelves = append(p.shelves, shelf{y: y, height: ph, nextX: pw})
	return image.Rect(0, y, w, y+h), true
}

// used returns the height of the occupied band.
func (p *shelfPacker) used() int {
	if len(p.shelves) == 0 {
		return 0
	}
	last := p.shelves[len(p.shelves)-1]
	return last.y + last.height
}
