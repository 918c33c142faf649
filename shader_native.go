//go:build !(js && wasm)

package megaui

import (
	_ "embed"

	"github.com/gogpu/megaui/gpucore"
	"github.com/gogpu/megaui/internal/shader"
)

//go:embed shaders/megaui.wgsl
var shaderWGSL string

// shaderSource compiles the UI shader for native backends.
func shaderSource() (gpucore.ShaderSource, error) {
	spirv, err := shader.SPIRV(shaderWGSL)
	if err != nil {
		return gpucore.ShaderSource{}, err
	}
	return gpucore.ShaderSource{WGSL: shaderWGSL, SPIRV: spirv}, nil
}
