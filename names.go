package megaui

// Render graph node names.
const (
	NodePass      = "megaui_pass"
	NodeTransform = "megaui_transform"
)

// Reserved shader binding names.
const (
	BindingTransform = "MegaUiTransform"
	BindingTexture   = "MegaUiTexture_texture"
)

// Slots of the pass node.
const (
	SlotColorAttachment    = "color_attachment"
	SlotColorResolveTarget = "color_resolve_target"
	SlotDepth              = "depth"
)
