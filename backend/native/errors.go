package native

import "errors"

// Package errors for the native backend.
var (
	// ErrNoGPU is returned when the selected backend exposes no adapter.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrBackendUnavailable is returned when the requested HAL backend is not
	// registered in this build.
	ErrBackendUnavailable = errors.New("native: backend not available")

	// ErrNotHALProvider is returned by FromProvider when the provider does
	// not expose a HAL device and queue.
	ErrNotHALProvider = errors.New("native: provider does not expose a HAL device")

	// ErrNotTextureView is returned by ImportTextureView for a value that is
	// not a HAL texture view.
	ErrNotTextureView = errors.New("native: not a HAL texture view")

	// ErrUnknownResource is returned when an ID does not name a live resource.
	ErrUnknownResource = errors.New("native: unknown resource")

	// ErrEmptyShader is returned for a shader source with neither WGSL nor SPIR-V.
	ErrEmptyShader = errors.New("native: empty shader source")

	// ErrEmptyBinding is returned for a bind group entry naming no resource.
	ErrEmptyBinding = errors.New("native: bind group entry has no resource")
)
