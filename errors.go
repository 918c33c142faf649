package megaui

import "errors"

// Bootstrap errors. Frame-time failures are logged, never returned to user
// code.
var (
	// ErrMissingBinding is returned by Plugin.Build when the shader does not
	// declare one of the reserved binding names.
	ErrMissingBinding = errors.New("megaui: shader binding not found")

	// ErrMissingRenderer is returned by Plugin.Build when no render graph
	// has been installed and the plugin was given no device to install one.
	ErrMissingRenderer = errors.New("megaui: no renderer installed")

	// ErrMissingUI is returned by Plugin.Build when the plugin has no UI.
	ErrMissingUI = errors.New("megaui: plugin has no UI")

	// ErrMissingContext is returned by ProcessInput when the Context
	// resource is absent.
	ErrMissingContext = errors.New("megaui: context resource missing")
)
