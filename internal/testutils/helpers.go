// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/aretw0/appshell/pkg/bootstrap"
	boombuler "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/stretchr/testify/require"
)

// RunningContext registers plugins into a fresh context and hands it to a
// run loop. Shutdown hooks run when the test ends.
// It fails the test immediately on error.
func RunningContext(t *testing.T, plugins ...bootstrap.Plugin) *bootstrap.Context {
	t.Helper()

	c := bootstrap.NewContext()
	for _, p := range plugins {
		require.NoError(t, c.Register(p), "Failed to register %s", p.Name())
	}
	require.NoError(t, c.Begin())
	t.Cleanup(func() { _ = c.Shutdown(context.Background()) })
	return c
}

// QRCodePNG renders content as a PNG encoded QR code with a white quiet zone.
func QRCodePNG(t *testing.T, content string) []byte {
	t.Helper()

	code, err := qr.Encode(content, qr.M, qr.Auto)
	require.NoError(t, err, "Failed to encode QR code")
	code, err = boombuler.Scale(code, 240, 240)
	require.NoError(t, err, "Failed to scale QR code")

	canvas := whiteCanvas(320)
	draw.Draw(canvas, image.Rect(40, 40, 280, 280), code, image.Point{}, draw.Src)
	return encodePNG(t, canvas)
}

// BlankPNG returns a white PNG with nothing to decode.
func BlankPNG(t *testing.T) []byte {
	t.Helper()
	return encodePNG(t, whiteCanvas(64))
}

func whiteCanvas(size int) *image.Gray {
	canvas := image.NewGray(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return canvas
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img), "Failed to encode PNG")
	return buf.Bytes()
}
