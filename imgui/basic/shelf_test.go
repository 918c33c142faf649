package basic

import (
	"image"
	"testing"
)

func TestShelfPackerAllocate(t *testing.T) {
	p := newShelfPacker(20, 20, 1)

	tests := []struct {
		name   string
		w, h   int
		want   image.Rectangle
		wantOK bool
	}{
		{"first", 5, 5, image.Rect(0, 0, 5, 5), true},
		{"same shelf", 5, 3, image.Rect(6, 0, 11, 3), true},
		{"taller starts a shelf", 4, 8, image.Rect(0, 6, 4, 14), true},
		{"fills first shelf", 7, 5, image.Rect(12, 0, 19, 5), true},
		{"too wide", 21, 1, image.Rectangle{}, false},
		{"empty", 0, 4, image.Rectangle{}, false},
		{"no room below", 10, 10, image.Rectangle{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.allocate(tt.w, tt.h)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("allocate(%d, %d) = %v, %v, want %v, %v", tt.w, tt.h, got, ok, tt.want, tt.wantOK)
			}
		})
	}
	if got := p.used(); got != 15 {
		t.Fatalf("used = %d, want 15", got)
	}
}

func TestShelfPackerNoOverlap(t *testing.T) {
	p := newShelfPacker(64, 64, 1)
	var placed []image.Rectangle
	for i := range 40 {
		r, ok := p.allocate(3+i%5, 4+i%3)
		if !ok {
			t.Fatalf("allocation %d failed", i)
		}
		for _, o := range placed {
			if r.Overlaps(o) {
				t.Fatalf("%v overlaps %v", r, o)
			}
		}
		if !r.In(image.Rect(0, 0, 64, 64)) {
			t.Fatalf("%v outside the atlas", r)
		}
		placed = append(placed, r)
	}
}
