package asset

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

// Texture errors.
var (
	// ErrTextureSizeMismatch is returned when pixel data does not cover the extent.
	ErrTextureSizeMismatch = errors.New("asset: texture data does not match its extent")

	// ErrInvalidDimensions is returned for a zero-sized texture.
	ErrInvalidDimensions = errors.New("asset: invalid texture dimensions")
)

// TextureDescriptor is the part of a texture that determines its GPU
// allocation. Two textures with equal descriptors can share a GPU texture;
// only the pixels differ.
type TextureDescriptor struct {
	Size          gputypes.Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	Dimension     gputypes.TextureDimension
	Format        gputypes.TextureFormat
}

// Texture is a CPU-side image plus the sampler it should be drawn with.
type Texture struct {
	Data      []byte
	Size      gputypes.Extent3D
	Dimension gputypes.TextureDimension
	Format    gputypes.TextureFormat
	Sampler   gputypes.SamplerDescriptor
}

// NewTexture returns a 2D texture over data. data must hold exactly
// width*height pixels of format.
func NewTexture(width, height uint32, data []byte, format gputypes.TextureFormat) (*Texture, error) {
	if width == 0 || height == 0 {
		return nil, ErrInvalidDimensions
	}
	want := int(width) * int(height) * BytesPerPixel(format)
	if len(data) != want {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d %s, want %d",
			ErrTextureSizeMismatch, len(data), width, height, format, want)
	}
	return &Texture{
		Data:      data,
		Size:      gputypes.NewExtent2D(width, height),
		Dimension: gputypes.TextureDimension2D,
		Format:    format,
		Sampler:   gputypes.LinearSamplerDescriptor(),
	}, nil
}

// NewTextureFromImage converts img to an RGBA8 texture.
func NewTextureFromImage(img image.Image) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrInvalidDimensions
	}
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	}
	//nolint:gosec // G115: image bounds are non-negative
	return NewTexture(uint32(b.Dx()), uint32(b.Dy()), rgba.Pix, gputypes.TextureFormatRGBA8Unorm)
}

// Descriptor returns the allocation-relevant part of t.
func (t *Texture) Descriptor() TextureDescriptor {
	return TextureDescriptor{
		Size:          t.Size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     t.Dimension,
		Format:        t.Format,
	}
}

// BytesPerRow returns the row pitch of t's pixel data.
func (t *Texture) BytesPerRow() uint32 {
	//nolint:gosec // G115: pixel sizes are tiny
	return t.Size.Width * uint32(BytesPerPixel(t.Format))
}

// BytesPerPixel returns the size of one texel of format. Unknown formats
// report 4.
func BytesPerPixel(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		return 4
	}
}
