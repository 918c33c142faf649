package imgui

import "testing"

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, Rect{5, 5, 5, 5}},
		{"inside", Rect{0, 0, 100, 100}, Rect{10, 20, 5, 5}, Rect{10, 20, 5, 5}},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 20, 5, 5}, Rect{20, 20, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 5, H: 5}
	if !r.Contains(Vec2{10, 14.5}) {
		t.Error("edge point not contained")
	}
	if r.Contains(Vec2{15, 12}) {
		t.Error("right edge is exclusive")
	}
}

func TestHashStable(t *testing.T) {
	if Hash("Hello") != Hash("Hello") {
		t.Error("Hash not deterministic")
	}
	if Hash("Hello") == Hash("hello") {
		t.Error("Hash collides on case")
	}
}

func TestKeyCodeString(t *testing.T) {
	if KeyBackspace.String() != "Backspace" || KeyA.String() != "A" {
		t.Errorf("names: %s %s", KeyBackspace, KeyA)
	}
	if KeyCode(200).String() != "Unknown" {
		t.Error("out of range key has a name")
	}
}
