package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontBold    font.Face
	fontRegular font.Face
	fontOnce    sync.Once
	fontErr     error
)

func loadFonts() {
	fontOnce.Do(func() {
		boldFont, err := opentype.Parse(gobold.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse Go Bold: %w", err)
			return
		}

		fontBold, err = opentype.NewFace(boldFont, &opentype.FaceOptions{
			Size:    40,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			fontErr = fmt.Errorf("create bold face: %w", err)
			return
		}

		regularFont, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse Go Regular: %w", err)
			return
		}

		fontRegular, err = opentype.NewFace(regularFont, &opentype.FaceOptions{
			Size:    20,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			fontErr = fmt.Errorf("create regular face: %w", err)
			return
		}
	})
}

// Badge dimensions.
const (
	BadgeWidth  = 600
	BadgeHeight = 160
)

// BadgeData is the text and colour rendered on a status badge.
type BadgeData struct {
	Level    string // e.g. "yellow"
	Color    string // hex, e.g. "#ffff00"
	Headline string // e.g. "Minor geomagnetic activity"
	Footer   string // station or site id
}

// GenerateBadge renders a PNG badge filled with the alert colour.
func GenerateBadge(data BadgeData) ([]byte, error) {
	loadFonts()
	if fontErr != nil {
		return nil, fmt.Errorf("load fonts: %w", fontErr)
	}

	bg, err := ParseHexColor(data.Color)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, BadgeWidth, BadgeHeight))
	for y := 0; y < BadgeHeight; y++ {
		for x := 0; x < BadgeWidth; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	fg := textColor(bg)
	drawText(img, strings.ToUpper(data.Level), 24, 60, fg, fontBold)
	if data.Headline != "" {
		drawText(img, data.Headline, 24, 100, fg, fontRegular)
	}
	if data.Footer != "" {
		drawText(img, data.Footer, 24, BadgeHeight-20, fg, fontRegular)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode badge: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseHexColor parses "#rrggbb" or "#rgb".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// textColor picks black or white text depending on background luminance.
func textColor(bg color.RGBA) color.RGBA {
	lum := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if lum > 140 {
		return color.RGBA{20, 20, 20, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}

func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
