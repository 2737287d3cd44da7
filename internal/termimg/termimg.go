// Package termimg emits inline images through the terminal's native
// graphics protocol. Kitty, iTerm2 and sixel terminals are recognized;
// everything else reports no support and callers fall back to text.
package termimg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/BourgeoisBear/rasterm"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Capability is the inline-image protocol a terminal speaks.
type Capability int

const (
	CapNone Capability = iota
	CapKitty
	CapITerm
	CapSixel
)

func (c Capability) String() string {
	switch c {
	case CapKitty:
		return "kitty"
	case CapITerm:
		return "iterm"
	case CapSixel:
		return "sixel"
	}
	return "none"
}

// Detect inspects the environment for a supported protocol. Kitty wins
// over iTerm2 over sixel; WezTerm speaks the iTerm protocol and ghostty
// the kitty one.
func Detect() Capability {
	if os.Getenv("KITTY_WINDOW_ID") != "" || strings.Contains(os.Getenv("TERM"), "kitty") {
		return CapKitty
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm":
		return CapITerm
	case "ghostty":
		return CapKitty
	}
	if os.Getenv("LC_TERMINAL") == "iTerm2" {
		return CapITerm
	}
	if term := os.Getenv("TERM"); strings.Contains(term, "sixel") || strings.Contains(term, "mlterm") {
		return CapSixel
	}
	return CapNone
}

// ErrNoSupport reports a terminal without a usable image protocol.
var ErrNoSupport = errors.New("terminal does not support inline images")

// maxDisplayWidth caps decoded images at a size terminals render sanely.
const maxDisplayWidth = 800

// Emitter writes inline images using one protocol, fixed at construction.
type Emitter struct {
	capability Capability
}

// New returns an emitter for the detected terminal.
func New() *Emitter {
	return NewWithCapability(Detect())
}

// NewWithCapability pins the protocol instead of detecting it.
func NewWithCapability(c Capability) *Emitter {
	return &Emitter{capability: c}
}

// Supported reports whether Emit can produce output at all.
func (e *Emitter) Supported() bool {
	return e.capability != CapNone
}

// Capability returns the protocol the emitter uses.
func (e *Emitter) Capability() Capability {
	return e.capability
}

// Emit decodes the image at path, downscales it if oversized and writes
// the protocol escape sequence to w.
func (e *Emitter) Emit(w io.Writer, path string) error {
	if e.capability == CapNone {
		return ErrNoSupport
	}

	img, err := load(path)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}
	img = scale(img, maxDisplayWidth)

	switch e.capability {
	case CapKitty:
		return rasterm.KittyWriteImage(w, img, rasterm.KittyImgOpts{})
	case CapITerm:
		return rasterm.ItermWriteImage(w, img)
	case CapSixel:
		return rasterm.SixelWriteImage(w, toPaletted(img))
	}
	return ErrNoSupport
}

func load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// scale shrinks img to maxWidth columns of pixels, keeping aspect ratio.
// Smaller images pass through untouched.
func scale(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth {
		return img
	}
	height := bounds.Dy() * maxWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// toPaletted dithers onto a 6x6x6 color cube plus 40 grays; the sixel
// encoder needs a paletted image.
func toPaletted(img image.Image) *image.Paletted {
	palette := make(color.Palette, 0, 256)
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				palette = append(palette, color.RGBA{
					R: uint8(r * 51),
					G: uint8(g * 51),
					B: uint8(b * 51),
					A: 255,
				})
			}
		}
	}
	for i := 0; i < 40; i++ {
		gray := uint8(i * 255 / 39)
		palette = append(palette, color.RGBA{R: gray, G: gray, B: gray, A: 255})
	}

	bounds := img.Bounds()
	paletted := image.NewPaletted(bounds, palette)
	draw.FloydSteinberg.Draw(paletted, bounds, img, bounds.Min)
	return paletted
}
