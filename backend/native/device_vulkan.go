//go:build !android && !js

package native

// Vulkan backend registration for desktop builds.
import _ "github.com/gogpu/wgpu/hal/vulkan"
