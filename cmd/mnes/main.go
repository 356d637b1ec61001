package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/mrt/nes/nes"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	runtime.LockOSThread()
}

var (
	scale    = flag.Int("scale", 3, "window scale factor")
	tracePth = flag.String("trace", "", "write a cpu trace to this file ('-' for stderr)")
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] rom.nes\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	var trace io.Writer
	switch *tracePth {
	case "":
	case "-":
		trace = os.Stderr
	default:
		f, err := os.Create(*tracePth)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		trace = f
	}

	console := nes.NewConsole(trace)
	if err := console.LoadPath(flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(console); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var keymap = map[sdl.Keycode]nes.Button{
	sdl.K_z:      nes.A,
	sdl.K_x:      nes.B,
	sdl.K_RSHIFT: nes.Select,
	sdl.K_RETURN: nes.Start,
	sdl.K_UP:     nes.Up,
	sdl.K_DOWN:   nes.Down,
	sdl.K_LEFT:   nes.Left,
	sdl.K_RIGHT:  nes.Right,
}

func run(console *nes.Console) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("unable to init sdl: %w", err)
	}
	defer sdl.Quit()

	w := int32(nes.FrameWidth)
	h := int32(nes.FrameHeight)

	window, renderer, err := sdl.CreateWindowAndRenderer(w*int32(*scale), h*int32(*scale), sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("unable to create window: %w", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()
	window.SetTitle("mnes")

	tex, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, w, h)
	if err != nil {
		return fmt.Errorf("unable to create texture: %w", err)
	}
	defer tex.Destroy()

	// ~60Hz; the core has no notion of wall time, the frontend paces it.
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	pixels := make([]byte, int(w)*int(h)*4)

	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch evt := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				button, ok := keymap[evt.Keysym.Sym]
				if !ok {
					break
				}
				if evt.Type == sdl.KEYDOWN {
					console.Press(button)
				} else if evt.Type == sdl.KEYUP {
					console.Release(button)
				}
			}
		}

		if err := console.StepFrame(); err != nil {
			return err
		}

		blit(pixels, console.Buffer())
		if err := tex.Update(nil, pixels, int(w)*4); err != nil {
			return fmt.Errorf("unable to upload frame: %w", err)
		}
		if err := renderer.Clear(); err != nil {
			return fmt.Errorf("unable to clear renderer: %w", err)
		}
		if err := renderer.Copy(tex, nil, nil); err != nil {
			return fmt.Errorf("unable to copy frame: %w", err)
		}
		renderer.Present()

		<-ticker.C
	}
}

// blit expands the core's 6 bit palette indices to RGBA.
func blit(pixels, frame []byte) {
	for i, index := range frame {
		c := palette[index]
		pixels[i*4] = c[0]
		pixels[i*4+1] = c[1]
		pixels[i*4+2] = c[2]
		pixels[i*4+3] = 0xFF
	}
}
