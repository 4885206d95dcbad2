package share

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"net/url"
	"os"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/julianstephens/eternalglow/internal/constants"
	"github.com/julianstephens/eternalglow/internal/logger"
	"github.com/julianstephens/eternalglow/internal/models"
)

// Renderer produces the encoded card image.
type Renderer interface {
	Render(ctx context.Context, c Card) ([]byte, error)
}

const (
	DefaultCardWidth  = 1080
	DefaultCardHeight = 1920

	// Reference layout is authored for a 1080x1920 card.
	refWidth  = 1080
	refHeight = 1920
)

// PNGRenderer draws a portrait story card with the bitmap face from
// x/image, scaled up with nearest-neighbour sampling.
type PNGRenderer struct {
	Width  int
	Height int
}

func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{Width: DefaultCardWidth, Height: DefaultCardHeight}
}

type cardPalette struct {
	background color.RGBA
	accent     color.RGBA
	ink        color.RGBA
}

var defaultPalette = cardPalette{
	background: color.RGBA{0x1a, 0x1a, 0x1a, 0xff},
	accent:     color.RGBA{0xd4, 0xaf, 0x37, 0xff},
	ink:        color.RGBA{0xff, 0xff, 0xff, 0xff},
}

func paletteFor(style string) cardPalette {
	info, ok := models.Theme(style).Info()
	if !ok {
		return defaultPalette
	}
	p := defaultPalette
	if c, err := parseHex(info.Background); err == nil {
		p.background = c
	}
	if c, err := parseHex(info.Accent); err == nil {
		p.accent = c
	}
	if c, err := parseHex(info.Ink); err == nil {
		p.ink = c
	}
	return p
}

func parseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}

func (r *PNGRenderer) Render(ctx context.Context, c Card) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := r.Width, r.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid card size %dx%d", w, h)
	}

	pal := paletteFor(c.Style)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(pal.background), image.Point{}, draw.Src)

	textColor := pal.ink
	if c.BaseImage != "" {
		base, err := loadBaseImage(c.BaseImage)
		if err != nil {
			logger.Debug("Card background unavailable, using theme color", "error", err)
		} else {
			drawCover(img, base)
			shade(img)
			textColor = color.RGBA{0xff, 0xff, 0xff, 0xf2}
		}
	}

	unit := max(1, w*6/refWidth)
	sy := func(v int) int { return v * h / refHeight }
	margin := w / 18

	// Names along the top
	names := fmt.Sprintf("%s & %s", c.Partner1, c.Partner2)
	_, namesH := drawCentered(img, names, sy(120), unit, margin, textColor)

	// Countdown block, anchored countdownPosition percent from the bottom
	dateText := c.FormattedDate()
	numScale, labelScale, dateScale := 4*unit, unit, max(1, unit/2)
	gap := sy(24)
	blockH := lineHeight(numScale) + gap + lineHeight(labelScale)
	if dateText != "" {
		blockH += gap + lineHeight(dateScale)
	}
	bottom := h - c.CountdownPosition*h/100
	top := bottom - blockH
	if minTop := sy(120) + namesH + gap; top < minTop {
		top = minTop
	}

	_, used := drawCentered(img, strconv.Itoa(c.DaysLeft), top, numScale, margin, textColor)
	top += used + gap
	_, used = drawCentered(img, "DAYS TO GO", top, labelScale, margin, pal.accent)
	top += used + gap
	if dateText != "" {
		drawCentered(img, dateText, top, dateScale, margin, textColor)
	}

	if !c.IsPremium {
		mark := "Made with " + constants.AppDisplayName
		markScale := max(1, unit/2)
		drawCentered(img, mark, h-sy(80)-lineHeight(markScale), markScale, margin, textColor)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}
	return buf.Bytes(), nil
}

var face = basicfont.Face7x13

func lineHeight(scale int) int {
	return face.Height * scale
}

// drawCentered renders s horizontally centered with its top edge at y. The
// scale shrinks until the text fits between the margins. It returns the
// scale used and the rendered height.
func drawCentered(dst *image.RGBA, s string, y, scale, margin int, col color.Color) (int, int) {
	if s == "" {
		return scale, 0
	}
	textW := font.MeasureString(face, s).Ceil()
	avail := dst.Bounds().Dx() - 2*margin
	for scale > 1 && textW*scale > avail {
		scale--
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, textW, face.Height))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	outW, outH := textW*scale, face.Height*scale
	x := (dst.Bounds().Dx() - outW) / 2
	target := image.Rect(x, y, x+outW, y+outH)
	xdraw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), xdraw.Over, nil)
	return scale, outH
}

// drawCover scales src to fill dst, cropping the overflow evenly.
func drawCover(dst *image.RGBA, src image.Image) {
	sb := src.Bounds()
	db := dst.Bounds()
	if sb.Empty() {
		return
	}
	// Crop the source to the destination aspect ratio.
	crop := sb
	if sb.Dx()*db.Dy() > sb.Dy()*db.Dx() {
		w := sb.Dy() * db.Dx() / db.Dy()
		off := (sb.Dx() - w) / 2
		crop = image.Rect(sb.Min.X+off, sb.Min.Y, sb.Min.X+off+w, sb.Max.Y)
	} else {
		h := sb.Dx() * db.Dy() / db.Dx()
		off := (sb.Dy() - h) / 2
		crop = image.Rect(sb.Min.X, sb.Min.Y+off, sb.Max.X, sb.Min.Y+off+h)
	}
	xdraw.ApproxBiLinear.Scale(dst, db, src, crop, xdraw.Src, nil)
}

// shade darkens the top and bottom of the card so light text stays legible.
func shade(img *image.RGBA) {
	h := img.Bounds().Dy()
	topEnd := h * 30 / 100
	bottomStart := h * 60 / 100
	for y := 0; y < h; y++ {
		var a float64
		switch {
		case y < topEnd:
			a = 0.55 * (1 - float64(y)/float64(topEnd))
		case y >= bottomStart:
			a = 0.75 * float64(y-bottomStart) / float64(h-bottomStart)
		default:
			continue
		}
		row := image.Rect(0, y, img.Bounds().Dx(), y+1)
		draw.Draw(img, row, image.NewUniform(color.RGBA{0, 0, 0, uint8(a * 255)}), image.Point{}, draw.Over)
	}
}

var errRemoteImage = errors.New("remote base images are not fetched for cards")

// loadBaseImage decodes a local path, file:// URL or base64 data URI.
func loadBaseImage(ref string) (image.Image, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		comma := strings.IndexByte(ref, ',')
		if comma < 0 || !strings.Contains(ref[:comma], ";base64") {
			return nil, fmt.Errorf("unsupported data URI")
		}
		raw, err := base64.StdEncoding.DecodeString(ref[comma+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid data URI: %w", err)
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		return img, err
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return nil, errRemoteImage
	}

	path := ref
	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return nil, err
		}
		path = u.Path
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
