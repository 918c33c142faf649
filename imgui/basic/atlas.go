package basic

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/megaui/imgui"
)

// ErrAtlasFull is returned when the glyphs do not fit the atlas width.
var ErrAtlasFull = errors.New("basic: font atlas full")

const (
	defaultFontSize   = 14
	defaultAtlasWidth = 256
	glyphPadding      = 1

	// whiteSize is the side of the opaque patch used for solid fills. Its
	// center texel stays white under bilinear filtering.
	whiteSize = 3
)

// atlasRanges lists the rasterised code points: printable ASCII and
// Latin-1.
var atlasRanges = [][2]rune{{0x20, 0x7e}, {0xa0, 0xff}}

type glyph struct {
	// uv is the glyph's texture rectangle, zero for blank glyphs.
	uv [4]float32
	// bounds is the glyph box relative to the pen on the baseline.
	bounds image.Rectangle
	advance float32
}

type fontAtlas struct {
	width, height int
	pixels        []byte
	glyphs        map[rune]glyph
	white         [2]float32
	ascent        float32
	lineHeight    float32
}

// buildAtlas rasterises the atlas ranges of ttf at size points. A nil ttf
// selects Go Regular.
func buildAtlas(ttf []byte, size float64, width int) (*fontAtlas, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	if size <= 0 {
		size = defaultFontSize
	}
	if width <= 0 {
		width = defaultAtlasWidth
	}

	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("basic: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("basic: font face: %w", err)
	}
	defer face.Close()

	// Pack into a square and trim the unused rows afterwards.
	img := image.NewNRGBA(image.Rect(0, 0, width, width))
	packer := newShelfPacker(width, width, glyphPadding)

	white, ok := packer.allocate(whiteSize, whiteSize)
	if !ok {
		return nil, ErrAtlasFull
	}
	draw.Draw(img, white, image.NewUniform(color.White), image.Point{}, draw.Src)

	a := &fontAtlas{
		width:  width,
		glyphs: make(map[rune]glyph),
	}
	metrics := face.Metrics()
	a.ascent = float32(metrics.Ascent.Ceil())
	a.lineHeight = float32(metrics.Height.Ceil())

	type placed struct {
		r    rune
		rect image.Rectangle
	}
	var places []placed
	for _, rng := range atlasRanges {
		for r := rng[0]; r <= rng[1]; r++ {
			dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
			if !ok {
				continue
			}
			g := glyph{bounds: dr, advance: float32(advance) / 64}
			if !dr.Empty() {
				rect, ok := packer.allocate(dr.Dx(), dr.Dy())
				if !ok {
					return nil, ErrAtlasFull
				}
				// The mask is only valid until the next Glyph call.
				draw.DrawMask(img, rect, image.NewUniform(color.White), image.Point{}, mask, maskp, draw.Src)
				places = append(places, placed{r: r, rect: rect})
			}
			a.glyphs[r] = g
		}
	}

	a.height = max(packer.used(), 1)
	a.pixels = img.Pix[:a.height*img.Stride]

	a.white = [2]float32{
		(float32(white.Min.X) + whiteSize/2.0) / float32(a.width),
		(float32(white.Min.Y) + whiteSize/2.0) / float32(a.height),
	}
	for _, p := range places {
		g := a.glyphs[p.r]
		g.uv = [4]float32{
			float32(p.rect.Min.X) / float32(a.width),
			float32(p.rect.Min.Y) / float32(a.height),
			float32(p.rect.Max.X) / float32(a.width),
			float32(p.rect.Max.Y) / float32(a.height),
		}
		a.glyphs[p.r] = g
	}
	return a, nil
}

// lookup returns the glyph for r, falling back to '?'.
func (a *fontAtlas) lookup(r rune) glyph {
	if g, ok := a.glyphs[r]; ok {
		return g
	}
	return a.glyphs['?']
}

// measure returns the advance width of text.
func (a *fontAtlas) measure(text string) float32 {
	var w float32
	for _, r := range text {
		w += a.lookup(r).advance
	}
	return w
}

func (a *fontAtlas) export() imgui.FontAtlas {
	return imgui.FontAtlas{Width: uint32(a.width), Height: uint32(a.height), Pixels: a.pixels}
}
