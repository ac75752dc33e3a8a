package render

import (
	"image"
	"image/color"
)

// PixelBuffer is the persistent RGBA8 canvas the engine fills each frame
// Colors are stored with straight (non-premultiplied) alpha; alpha doubles as trail state
type PixelBuffer struct {
	img *image.RGBA
}

// NewPixelBuffer creates a cleared buffer
func NewPixelBuffer(width, height int) *PixelBuffer {
	b := &PixelBuffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts dimensions, reallocates only if capacity insufficient, and clears
func (b *PixelBuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height * 4
	if b.img != nil && cap(b.img.Pix) >= size {
		b.img.Pix = b.img.Pix[:size]
		b.img.Stride = width * 4
		b.img.Rect = image.Rect(0, 0, width, height)
	} else {
		b.img = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	b.Clear()
}

// Clear resets every pixel to transparent background using exponential copy
func (b *PixelBuffer) Clear() {
	pix := b.img.Pix
	if len(pix) == 0 {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = 0, 0, 0, 0
	for filled := 4; filled < len(pix); filled *= 2 {
		copy(pix[filled:], pix[:filled])
	}
}

// Width returns the buffer width in pixels
func (b *PixelBuffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height in pixels
func (b *PixelBuffer) Height() int { return b.img.Rect.Dy() }

// Pix exposes the raw RGBA bytes, row-major, 4 bytes per pixel
func (b *PixelBuffer) Pix() []byte { return b.img.Pix }

// Image exposes the buffer as an image.RGBA without copying
func (b *PixelBuffer) Image() *image.RGBA { return b.img }

// inBounds returns true if in buffer bounds
func (b *PixelBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.Width() && y >= 0 && y < b.Height()
}

// At returns the stored color at (x,y)
func (b *PixelBuffer) At(x, y int) color.RGBA {
	if !b.inBounds(x, y) {
		return color.RGBA{}
	}
	return b.img.RGBAAt(x, y)
}

// Decay multiplies every stored alpha by factor, leaving color channels intact
func (b *PixelBuffer) Decay(factor float64) {
	if factor >= 1 {
		return
	}
	if factor <= 0 {
		b.Clear()
		return
	}
	lut := decayLUT(factor)
	pix := b.img.Pix
	for i := 3; i < len(pix); i += 4 {
		pix[i] = lut[pix[i]]
	}
}

// decayLUT precomputes alpha*factor for all 256 alpha values
func decayLUT(factor float64) *[256]uint8 {
	var lut [256]uint8
	for a := 0; a < 256; a++ {
		lut[a] = uint8(float64(a) * factor)
	}
	return &lut
}

// BlendOver composites c over the stored pixel with the "over" operator
func (b *PixelBuffer) BlendOver(x, y int, c RGB, alpha float64) {
	if !b.inBounds(x, y) || alpha <= 0 {
		return
	}
	i := b.img.PixOffset(x, y)
	p := b.img.Pix[i : i+4 : i+4]
	dst := RGBA{RGB: RGB{R: p[0], G: p[1], B: p[2]}, A: float64(p[3]) / 255.0}
	out := Over(RGBA{RGB: c, A: alpha}, dst)
	p[0], p[1], p[2] = out.R, out.G, out.B
	p[3] = clamp(out.A*255.0 + 0.5)
}

// PlotMirrored composites c at (x,y) and its horizontal, vertical, and diagonal reflections
// Reflections that land on the same pixel (center lines) are composited once
func (b *PixelBuffer) PlotMirrored(x, y int, c RGB, alpha float64) {
	w, h := b.Width(), b.Height()
	mx, my := w-1-x, h-1-y

	b.BlendOver(x, y, c, alpha)
	if mx != x {
		b.BlendOver(mx, y, c, alpha)
	}
	if my != y {
		b.BlendOver(x, my, c, alpha)
		if mx != x {
			b.BlendOver(mx, my, c, alpha)
		}
	}
}

// Flatten composites the buffer over an opaque background into dst
// dst must hold Width*Height*4 bytes; the output alpha is always 255
func (b *PixelBuffer) Flatten(dst []byte, bg RGB) {
	src := b.img.Pix
	n := len(src)
	if len(dst) < n {
		n = len(dst) &^ 3
	}
	for i := 0; i < n; i += 4 {
		a := float64(src[i+3]) / 255.0
		c := Blend(bg, RGB{R: src[i], G: src[i+1], B: src[i+2]}, a)
		dst[i], dst[i+1], dst[i+2], dst[i+3] = c.R, c.G, c.B, 255
	}
}

// FlattenImage returns an opaque copy suitable for encoding
func (b *PixelBuffer) FlattenImage(bg RGB) *image.RGBA {
	out := image.NewRGBA(b.img.Rect)
	b.Flatten(out.Pix, bg)
	return out
}
