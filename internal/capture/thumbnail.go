package capture

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Thumbnail scales img down to at most maxWidth pixels wide, keeping the
// aspect ratio. Images already narrower are returned unscaled.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := max(1, b.Dy()*maxWidth/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ThumbnailPNG returns a PNG-encoded thumbnail, or nil if encoding fails.
func ThumbnailPNG(img image.Image, maxWidth int) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, Thumbnail(img, maxWidth)); err != nil {
		return nil
	}
	return buf.Bytes()
}
