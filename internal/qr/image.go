package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// Rendered image sizes in pixels.
const (
	DisplaySize   = 300
	PrintableSize = 600
	printMargin   = 40
)

// RenderPNG encodes the payload as a QR code PNG at the standard display
// size.
func RenderPNG(payload string) ([]byte, error) {
	buf, err := qrcode.Encode(payload, qrcode.Medium, DisplaySize)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return buf, nil
}

// RenderPrintablePNG produces a larger label variant with a white margin
// suitable for printing on packaging. The code is upscaled with nearest
// neighbour so module edges stay crisp.
func RenderPrintablePNG(payload string) ([]byte, error) {
	code, err := qrcode.New(payload, qrcode.High)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}

	src := code.Image(PrintableSize - 2*printMargin)

	label := image.NewRGBA(image.Rect(0, 0, PrintableSize, PrintableSize))
	draw.Draw(label, label.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	target := image.Rect(printMargin, printMargin, PrintableSize-printMargin, PrintableSize-printMargin)
	draw.NearestNeighbor.Scale(label, target, src, src.Bounds(), draw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, label); err != nil {
		return nil, fmt.Errorf("rendering label: %w", err)
	}
	return out.Bytes(), nil
}
