package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"math/rand"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	TextImageWidth  = 200
	TextImageHeight = 80

	PositionImageWidth  = 280
	PositionImageHeight = 155
	SliderWidth         = 40

	// glyphs are drawn on a small canvas and scaled up
	textCanvasWidth  = 50
	textCanvasHeight = 20
)

var (
	captchaBackground = color.RGBA{R: 0xf4, G: 0xf1, B: 0xe8, A: 0xff}
	slotFill          = color.RGBA{A: 0x5a}
	slotBorder        = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xe6}
)

// renderTextChallenge draws text with per-glyph jitter, a wave distortion,
// strike lines and speckle noise.
func renderTextChallenge(text string) ([]byte, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, textCanvasWidth, textCanvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(captchaBackground), image.Point{}, draw.Src)

	for i, ch := range text {
		d := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(randomInk()),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(3+i*9+rand.Intn(3)-1, 14+rand.Intn(5)-2),
		}
		d.DrawString(string(ch))
	}

	waved := image.NewRGBA(canvas.Bounds())
	draw.Draw(waved, waved.Bounds(), image.NewUniform(captchaBackground), image.Point{}, draw.Src)
	phase := rand.Float64() * 2 * math.Pi
	for x := 0; x < textCanvasWidth; x++ {
		dy := int(math.Round(1.5 * math.Sin(float64(x)/4+phase)))
		for y := 0; y < textCanvasHeight; y++ {
			sy := y - dy
			if sy < 0 || sy >= textCanvasHeight {
				continue
			}
			waved.Set(x, y, canvas.At(x, sy))
		}
	}

	scaled := resize.Resize(TextImageWidth, TextImageHeight, waved, resize.Bilinear)
	out := image.NewRGBA(image.Rect(0, 0, TextImageWidth, TextImageHeight))
	draw.Draw(out, out.Bounds(), scaled, scaled.Bounds().Min, draw.Src)

	for i := 0; i < 4; i++ {
		drawLine(out,
			rand.Intn(TextImageWidth/4), rand.Intn(TextImageHeight),
			TextImageWidth-rand.Intn(TextImageWidth/4), rand.Intn(TextImageHeight),
			randomInk())
	}
	speckle(out, 400)

	return encodePNG(out)
}

// renderPositionChallenge draws the slider track with the target slot at x.
func renderPositionChallenge(x int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, PositionImageWidth, PositionImageHeight))
	for y := 0; y < PositionImageHeight; y++ {
		shade := uint8(200 + 40*y/PositionImageHeight)
		for px := 0; px < PositionImageWidth; px++ {
			img.SetRGBA(px, y, color.RGBA{R: shade - 30, G: shade, B: shade - 10, A: 0xff})
		}
	}
	speckle(img, 900)

	top := (PositionImageHeight - SliderWidth) / 2
	slot := image.Rect(x, top, x+SliderWidth, top+SliderWidth)
	draw.Draw(img, slot, image.NewUniform(slotFill), image.Point{}, draw.Over)

	border := image.NewUniform(slotBorder)
	for _, edge := range []image.Rectangle{
		image.Rect(slot.Min.X, slot.Min.Y, slot.Max.X, slot.Min.Y+2),
		image.Rect(slot.Min.X, slot.Max.Y-2, slot.Max.X, slot.Max.Y),
		image.Rect(slot.Min.X, slot.Min.Y, slot.Min.X+2, slot.Max.Y),
		image.Rect(slot.Max.X-2, slot.Min.Y, slot.Max.X, slot.Max.Y),
	} {
		draw.Draw(img, edge, border, image.Point{}, draw.Over)
	}

	return encodePNG(img)
}

func randomInk() color.RGBA {
	return color.RGBA{
		R: uint8(rand.Intn(120)),
		G: uint8(rand.Intn(120)),
		B: uint8(rand.Intn(120)),
		A: 0xff,
	}
}

func speckle(img *image.RGBA, n int) {
	b := img.Bounds()
	for i := 0; i < n; i++ {
		img.SetRGBA(b.Min.X+rand.Intn(b.Dx()), b.Min.Y+rand.Intn(b.Dy()), randomInk())
	}
}

// drawLine is Bresenham's line algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pngDataURI(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}
