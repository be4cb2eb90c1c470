// Package render turns payload strings into PNG barcode images.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"barcode-batcher/internal/models"
)

const (
	quietZone     = 10
	captionHeight = 18
)

// Renderer encodes a payload in the given symbology and returns PNG bytes.
// It fails when the payload violates the symbology's charset or length rules.
type Renderer interface {
	Render(symbology models.Symbology, payload string) ([]byte, error)
}

// Options sizes the rendered symbol. Width is a lower bound: linear codes
// wider than Width in modules are rendered at one pixel per module.
type Options struct {
	Width   int
	Height  int
	Caption bool
}

// BarcodeRenderer is the production Renderer
type BarcodeRenderer struct {
	opts Options
}

// NewBarcodeRenderer creates a renderer with the given sizing
func NewBarcodeRenderer(opts Options) *BarcodeRenderer {
	if opts.Width <= 0 {
		opts.Width = 300
	}
	if opts.Height <= 0 {
		opts.Height = 120
	}
	return &BarcodeRenderer{opts: opts}
}

// Render implements Renderer
func (r *BarcodeRenderer) Render(symbology models.Symbology, payload string) ([]byte, error) {
	symbol, err := r.symbol(symbology, payload)
	if err != nil {
		return nil, err
	}

	img := symbol
	if r.opts.Caption {
		img = withCaption(symbol, payload)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *BarcodeRenderer) symbol(symbology models.Symbology, payload string) (image.Image, error) {
	switch symbology {
	case models.Code128:
		bc, err := code128.Encode(payload)
		if err != nil {
			return nil, err
		}
		return r.scaleLinear(bc)
	case models.Code39:
		bc, err := code39.Encode(payload, false, false)
		if err != nil {
			return nil, err
		}
		return r.scaleLinear(bc)
	case models.QR:
		q, err := qrcode.New(payload, qrcode.Medium)
		if err != nil {
			return nil, err
		}
		return q.Image(r.opts.Height), nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownSymbology, symbology)
	}
}

func (r *BarcodeRenderer) scaleLinear(bc barcode.Barcode) (image.Image, error) {
	width := r.opts.Width
	if modules := bc.Bounds().Dx(); modules > width {
		width = modules
	}
	scaled, err := barcode.Scale(bc, width, r.opts.Height)
	if err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	return scaled, nil
}

// withCaption pads the symbol with a quiet zone and writes the payload beneath it
func withCaption(symbol image.Image, text string) image.Image {
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()

	sb := symbol.Bounds()
	width := max(sb.Dx(), textWidth) + 2*quietZone
	height := sb.Dy() + 2*quietZone + captionHeight

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	offsetX := (width - sb.Dx()) / 2
	target := image.Rect(offsetX, quietZone, offsetX+sb.Dx(), quietZone+sb.Dy())
	draw.Draw(canvas, target, symbol, sb.Min, draw.Src)

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot: fixed.P(
			(width-textWidth)/2,
			quietZone+sb.Dy()+captionHeight-4,
		),
	}
	drawer.DrawString(text)

	return canvas
}
