package shader

import (
	"errors"
	"testing"
)

const testSource = `
struct Globals {
    scale: vec4<f32>,
};

@group(0) @binding(0)
var<uniform> globals: Globals;

@group(1) @binding(0)
var tex: texture_2d<f32>;
@group(1) @binding(1)
var samp: sampler;

@vertex
fn vs_main(@location(0) pos: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(pos, 0.0, 1.0) * globals.scale;
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return textureSample(tex, samp, vec2<f32>(0.5, 0.5));
}
`

func TestBindings(t *testing.T) {
	got, err := Bindings(testSource)
	if err != nil {
		t.Fatalf("Bindings: %v", err)
	}
	tests := []struct {
		name           string
		group, binding uint32
	}{
		{"globals", 0, 0},
		{"tex", 1, 0},
		{"samp", 1, 1},
	}
	for _, tt := range tests {
		b, ok := got[tt.name]
		if !ok {
			t.Errorf("%s not reflected", tt.name)
			continue
		}
		if b.Group != tt.group || b.Binding != tt.binding {
			t.Errorf("%s = group %d binding %d, want %d/%d", tt.name, b.Group, b.Binding, tt.group, tt.binding)
		}
	}
}

func TestSPIRV(t *testing.T) {
	words, err := SPIRV(testSource)
	if err != nil {
		t.Fatalf("SPIRV: %v", err)
	}
	if len(words) == 0 || words[0] != 0x07230203 {
		t.Fatalf("missing SPIR-V magic: %x", words[:min(len(words), 1)])
	}
}

func TestEmptySource(t *testing.T) {
	if _, err := SPIRV(""); !errors.Is(err, ErrEmptySource) {
		t.Errorf("SPIRV(\"\") = %v", err)
	}
	if _, err := Bindings(""); !errors.Is(err, ErrEmptySource) {
		t.Errorf("Bindings(\"\") = %v", err)
	}
}

func TestParseError(t *testing.T) {
	if _, err := Bindings("fn broken( {"); err == nil {
		t.Error("Bindings accepted invalid WGSL")
	}
}
