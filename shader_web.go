//go:build js && wasm

package megaui

import (
	_ "embed"

	"github.com/gogpu/megaui/gpucore"
)

//go:embed shaders/megaui_web.wgsl
var shaderWGSL string

// shaderSource hands the UI shader to the browser as WGSL.
func shaderSource() (gpucore.ShaderSource, error) {
	return gpucore.ShaderSource{WGSL: shaderWGSL}, nil
}
