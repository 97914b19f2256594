// Package host wraps the windowing and input collaborator the core
// emulator treats as external: an SDL2 window the compositor draws
// into pixel by pixel, and a keyboard/quit event source.
package host

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// Host owns the SDL window, renderer, and streaming texture the
// frame driver presents each completed frame through.
type Host struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	width, height, scale int
	pixels               []byte
}

// New opens a width*scale x height*scale window titled title.
func New(title string, width, height, scale int) (*Host, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(width*scale),
		int32(height*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, int32(width), int32(height))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create texture: %w", err)
	}

	return &Host{
		window:   window,
		renderer: renderer,
		texture:  texture,
		width:    width,
		height:   height,
		scale:    scale,
		pixels:   make([]byte, width*height*3),
	}, nil
}

// DrawPixel stages one RGB pixel into the pending frame buffer. The
// compositor calls this once per pixel, in scanline order; the
// buffer is blitted to the window on the next Present.
func (h *Host) DrawPixel(x, y int, r, g, b uint8) {
	if x < 0 || x >= h.width || y < 0 || y >= h.height {
		return
	}
	i := (y*h.width + x) * 3
	h.pixels[i] = r
	h.pixels[i+1] = g
	h.pixels[i+2] = b
}

// Present blits the staged frame buffer to the window.
func (h *Host) Present() error {
	if err := h.texture.Update(nil, unsafe.Pointer(&h.pixels[0]), h.width*3); err != nil {
		return fmt.Errorf("update texture: %w", err)
	}
	h.renderer.Clear()
	if err := h.renderer.Copy(h.texture, nil, nil); err != nil {
		return fmt.Errorf("copy texture: %w", err)
	}
	h.renderer.Present()
	return nil
}

// PumpEvents drains the SDL event queue and reports whether a quit
// event (window close or Escape) was seen.
func (h *Host) PumpEvents() (quit bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				quit = true
			}
		}
	}
	return quit
}

// TickCadence blocks briefly to cap the host loop near its refresh
// rate; RENDERER_PRESENTVSYNC already paces Present, so this just
// yields the CPU the way the teacher's UI loop did between frames.
func (h *Host) TickCadence() {
	sdl.Delay(1)
}

// Close tears down the renderer, window, and SDL subsystem.
func (h *Host) Close() {
	h.texture.Destroy()
	h.renderer.Destroy()
	h.window.Destroy()
	sdl.Quit()
}
