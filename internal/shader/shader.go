// Package shader compiles and reflects WGSL with naga.
package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// ErrEmptySource is returned for a blank shader.
var ErrEmptySource = errors.New("shader: empty source")

// SPIRV compiles WGSL source to SPIR-V words.
func SPIRV(wgsl string) ([]uint32, error) {
	if wgsl == "" {
		return nil, ErrEmptySource
	}
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// Bindings parses WGSL source and returns the resource binding of every
// bound global variable, keyed by variable name.
func Bindings(wgsl string) (map[string]ir.ResourceBinding, error) {
	if wgsl == "" {
		return nil, ErrEmptySource
	}
	ast, err := naga.Parse(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: parse: %w", err)
	}
	module, err := naga.LowerWithSource(ast, wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: lower: %w", err)
	}
	out := make(map[string]ir.ResourceBinding)
	for _, g := range module.GlobalVariables {
		if g.Binding != nil {
			out[g.Name] = *g.Binding
		}
	}
	return out, nil
}
