// Package card composes the welcome and leave images: a background, a dark
// overlay, a circular avatar and centered text.
package card

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type Kind string

const (
	KindWelcome Kind = "welcome"
	KindLeave   Kind = "leave"
)

const (
	cardWidth  = 1024
	cardHeight = 450
	avatarSize = 220
)

type Profile struct {
	Username    string
	DisplayName string
	AvatarURL   string
	MemberCount int
}

var (
	faceOnce  sync.Once
	faceErr   error
	titleFace font.Face
	nameFace  font.Face
	subFace   font.Face
)

func loadFaces() error {
	faceOnce.Do(func() {
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			faceErr = err
			return
		}
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			faceErr = err
			return
		}
		titleFace, err = opentype.NewFace(bold, &opentype.FaceOptions{Size: 64, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			faceErr = err
			return
		}
		nameFace, err = opentype.NewFace(regular, &opentype.FaceOptions{Size: 36, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			faceErr = err
			return
		}
		subFace, err = opentype.NewFace(regular, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			faceErr = err
		}
	})
	return faceErr
}

var avatarClient = &http.Client{Timeout: 10 * time.Second}

// Render produces the PNG card. Background and avatar failures fall back to
// flat fills so a broken URL never blocks the greeting.
func Render(p Profile, kind Kind, backgroundPath string) ([]byte, error) {
	if err := loadFaces(); err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	drawBackground(canvas, backgroundPath)
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.NRGBA{0, 0, 0, 150}), image.Point{}, draw.Over)
	drawAvatar(canvas, p)

	title := "WELCOME"
	subtitle := fmt.Sprintf("Member #%d", p.MemberCount)
	if kind == KindLeave {
		title = "GOODBYE"
		subtitle = "See you soon"
	}
	name := p.DisplayName
	if name == "" {
		name = p.Username
	}

	drawCentered(canvas, titleFace, title, 330, color.White)
	drawCentered(canvas, nameFace, name, 385, color.White)
	drawCentered(canvas, subFace, subtitle, 425, color.NRGBA{200, 200, 200, 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawBackground(canvas *image.RGBA, path string) {
	fill := color.NRGBA{30, 33, 48, 255}
	if path == "" {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
		return
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
		return
	}
	xdraw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), img, img.Bounds(), xdraw.Src, nil)
}

func drawAvatar(canvas *image.RGBA, p Profile) {
	avatar := fetchAvatar(p.AvatarURL)
	if avatar == nil {
		avatar = fallbackAvatar(p.Username)
	}
	scaled := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), avatar, avatar.Bounds(), xdraw.Src, nil)

	target := image.Rect((cardWidth-avatarSize)/2, 50, (cardWidth+avatarSize)/2, 50+avatarSize)
	mask := &circleMask{r: avatarSize / 2, size: avatarSize}
	draw.DrawMask(canvas, target, scaled, image.Point{}, mask, image.Point{}, draw.Over)
}

func fetchAvatar(url string) image.Image {
	if url == "" {
		return nil
	}
	resp, err := avatarClient.Get(url)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil
	}
	return img
}

// fallbackAvatar is a flat disc with the user's initial, used when the
// avatar cannot be fetched.
func fallbackAvatar(username string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{88, 101, 242, 255}), image.Point{}, draw.Src)

	initial := avatarInitial(username)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: titleFace,
	}
	width := d.MeasureString(initial)
	d.Dot.X = fixed.I(avatarSize/2) - width/2
	d.Dot.Y = fixed.I(avatarSize/2 + 24)
	d.DrawString(initial)
	return img
}

// avatarInitial takes the first rune, not the first byte, so multi-byte
// usernames keep a valid glyph.
func avatarInitial(username string) string {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "?"
	}
	first, _ := utf8.DecodeRuneInString(trimmed)
	return strings.ToUpper(string(first))
}

func drawCentered(canvas *image.RGBA, face font.Face, text string, baseline int, col color.Color) {
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(col),
		Face: face,
	}
	width := d.MeasureString(text)
	d.Dot.X = fixed.I(cardWidth/2) - width/2
	d.Dot.Y = fixed.I(baseline)
	d.DrawString(text)
}

type circleMask struct {
	r    int
	size int
}

func (c *circleMask) ColorModel() color.Model { return color.AlphaModel }

func (c *circleMask) Bounds() image.Rectangle { return image.Rect(0, 0, c.size, c.size) }

func (c *circleMask) At(x, y int) color.Color {
	dx := float64(x - c.r)
	dy := float64(y - c.r)
	rr := float64(c.r)
	if dx*dx+dy*dy <= rr*rr {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
