// Command megauidemo draws a megaui window with a label and a user texture.
//
// It opens the requested GPU backend headless, builds an app with the megaui
// plugin and the basic UI, and runs a fixed number of frames.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/megaui"
	"github.com/gogpu/megaui/app"
	"github.com/gogpu/megaui/asset"
	"github.com/gogpu/megaui/backend/native"
	"github.com/gogpu/megaui/event"
	"github.com/gogpu/megaui/imgui"
	"github.com/gogpu/megaui/imgui/basic"
	"github.com/gogpu/megaui/window"
)

const demoTexture = 0

func main() {
	var (
		backend = flag.String("backend", "noop", "GPU backend: noop or vulkan")
		texture = flag.String("texture", "", "PNG drawn in the window (default: a checkerboard)")
		maxSide = flag.Int("max-side", 256, "downscale the texture so neither side exceeds this")
		frames  = flag.Int("frames", 120, "frames to run")
		width   = flag.Int("width", 1280, "window width in logical pixels")
		height  = flag.Int("height", 720, "window height in logical pixels")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	megaui.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := native.DefaultConfig()
	switch *backend {
	case "noop":
		cfg.Backend = gputypes.BackendEmpty
	case "vulkan":
	default:
		log.Fatalf("unknown backend %q", *backend)
	}

	img, err := loadImage(*texture, *maxSide)
	if err != nil {
		log.Fatalf("texture: %v", err)
	}
	if err := run(cfg, img, *frames, *width, *height); err != nil {
		log.Fatal(err)
	}
}

func run(cfg native.Config, img image.Image, frames, width, height int) error {
	dev, err := native.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			log.Printf("close device: %v", err)
		}
	}()

	a := app.New()
	window.Bind(a, gpucontext.NullWindowProvider{W: width, H: height}, gpucontext.NullEventSource{})

	ui, err := basic.New(basic.Options{})
	if err != nil {
		return err
	}
	if err := a.AddPlugin(megaui.Plugin{UI: ui, Resources: dev}); err != nil {
		return err
	}

	tex, err := asset.NewTextureFromImage(img)
	if err != nil {
		return err
	}
	textures := app.MustGet[asset.Assets[*asset.Texture]](a.World)
	h := textures.Add(tex)
	app.MustGetLocal[megaui.Context](a.World).SetTexture(demoTexture, h)
	textures.Release(h)

	size := img.Bounds().Size()
	a.AddSystem(app.Update, "demo_ui", func(w *app.World) error {
		ctx := app.MustGetLocal[megaui.Context](w)
		ctx.DrawWindow(imgui.Hash("Hello"), imgui.Vec2{X: 0, Y: 0}, imgui.Vec2{X: float32(size.X) + 20, Y: float32(size.Y) + 80}, nil,
			func(ui imgui.UI) {
				ui.Label("Hello megaui!")
				ui.Texture(demoTexture, float32(size.X), float32(size.Y))
			})
		return nil
	})
	a.AddSystem(app.Update, "demo_exit", func(w *app.World) error {
		if t := app.MustGet[app.Time](w); t.Frame+1 >= uint64(frames) {
			app.MustGet[event.Events[app.Exit]](w).Send(app.Exit{})
		}
		return nil
	})

	if err := a.Run(context.Background()); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	megaui.Logger().Info("demo finished", "frames", frames)
	return nil
}

// loadImage decodes the PNG at path, or draws a checkerboard when path is
// empty, and scales it down to fit maxSide.
func loadImage(path string, maxSide int) (image.Image, error) {
	var img image.Image
	if path == "" {
		img = checkerboard(128, 16)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if img, _, err = image.Decode(f); err != nil {
			return nil, err
		}
	}

	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img, nil
	}
	w, h := maxSide, b.Dy()*maxSide/b.Dx()
	if b.Dy() > b.Dx() {
		w, h = b.Dx()*maxSide/b.Dy(), maxSide
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}

func checkerboard(side, cell int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	light := color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	dark := color.RGBA{R: 0x40, G: 0x60, B: 0x90, A: 0xff}
	for y := range side {
		for x := range side {
			c := light
			if (x/cell+y/cell)%2 == 1 {
				c = dark
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
