// Package gpucore provides the GPU abstraction megaui renders through.
//
// Render-graph nodes never hold backend objects. They hold opaque IDs
// (textures, views, samplers, buffers, bind groups, pipelines) handed out
// by a [ResourceContext] and record draws through a [RenderPass]. This keeps
// the nodes testable without a GPU and lets one node run on any backend:
//
//	+--------------------+        +-------------------------+
//	|  megaui.Node       |  IDs   |  ResourceContext        |
//	|  megaui.Transform  +------->+  backend/native (HAL)   |
//	|  rendergraph nodes |        |  gpucoretest (recorder) |
//	+--------------------+        +-------------------------+
//
// IDs are only meaningful to the context that issued them. The zero value
// of every ID type is [InvalidID].
package gpucore
