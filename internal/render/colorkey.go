package render

import (
	"image"
	"image/color"
)

const (
	keyEdgeRadius = 2
	keyEdgeAlpha  = 80
)

// isKeyBackground matches the flat purple, green and white backdrops sprite
// sheets are drawn on.
func isKeyBackground(c color.NRGBA) bool {
	r, g, b := int(c.R), int(c.G), int(c.B)

	purple := r > 90 && r < 150 && b > 90 && b < 150 &&
		absInt(r-b) < 30 && g < r-10 && g < b-10 &&
		g > 50 && g < 120

	green := g > 150 && float64(g) > float64(r)*1.1 && float64(g) > float64(b)*1.4 && r > 100 && r < 180

	brightness := float64(r+g+b) / 3
	grayish := absInt(r-g) < 15 && absInt(g-b) < 15 && absInt(r-b) < 15
	white := brightness > 240 && grayish

	return purple || green || white
}

// KeyBackground returns a copy of src whose backdrop pixels are transparent.
// Backdrop pixels within two pixels of the subject keep a little alpha so the
// outline does not look cut out.
func KeyBackground(src image.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	bg := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.SetNRGBA(x, y, c)
			bg[y*w+x] = isKeyBackground(c)
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !bg[y*w+x] {
				continue
			}
			c := out.NRGBAAt(x, y)
			c.A = 0
			if nearSubject(bg, w, h, x, y) {
				c.A = keyEdgeAlpha
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

func nearSubject(bg []bool, w, h, x, y int) bool {
	for dy := -keyEdgeRadius; dy <= keyEdgeRadius; dy++ {
		for dx := -keyEdgeRadius; dx <= keyEdgeRadius; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if !bg[ny*w+nx] {
				return true
			}
		}
	}
	return false
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
