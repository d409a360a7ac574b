package display

import (
	"image"
	"image/color"
	"image/png"
	"log"
	"net/http"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	previewScale       = 12 // Size of one font pixel in the rendered image.
	previewPixelBorder = 2  // Border around right and bottom of pixel, to simulate LED segments.
	previewMargin      = 1  // Font pixels of space around the text.
)

var (
	previewFace = basicfont.Face7x13
	litColor    = color.NRGBA{R: 0xff, G: 0x20, B: 0x10, A: 0xff}
)

// Preview keeps an image of the last complete frame, and serves it as a PNG.
type Preview struct {
	cur   [Positions]byte
	colon bool

	imageMu sync.Mutex
	text    string       // must hold imageMu to read or write.
	image   *image.NRGBA // must hold imageMu to read or write.
}

// NewPreview returns a Preview showing a dark display.
func NewPreview() *Preview {
	p := new(Preview)
	p.clear()
	p.updateCurrentImage(p.compose())
	return p
}

func (p *Preview) clear() {
	for i := range p.cur {
		p.cur[i] = ' '
	}
}

func (p *Preview) compose() string {
	sep := byte(' ')
	if p.colon {
		sep = ':'
	}
	return string([]byte{p.cur[0], p.cur[1], sep, p.cur[2], p.cur[3]})
}

func (p *Preview) ShowDigit(pos, value int) error {
	if _, err := segmentsFor(pos, value); err != nil {
		return err
	}
	p.cur[pos] = byte('0' + value)
	return nil
}

func (p *Preview) ShowDash(pos int) error {
	if err := checkPosition(pos); err != nil {
		return err
	}
	p.cur[pos] = '-'
	return nil
}

// BlankAll ends the frame and makes it the one that is served.
func (p *Preview) BlankAll() error {
	p.updateCurrentImage(p.compose())
	p.clear()
	return nil
}

func (p *Preview) SetSeparator(on bool) error {
	p.colon = on
	return nil
}

// Text returns the last frame as text, like "12:34" or " 9 41" with the colon off.
func (p *Preview) Text() string {
	p.imageMu.Lock()
	defer p.imageMu.Unlock()
	return p.text
}

// updateCurrentImage redraws the image if the frame changed.
func (p *Preview) updateCurrentImage(text string) {
	p.imageMu.Lock()
	defer p.imageMu.Unlock()
	if text == p.text && p.image != nil {
		return
	}
	p.text = text

	advance := previewFace.Advance
	w, h := advance*len(text)+2*previewMargin, previewFace.Height+2*previewMargin
	small := image.NewNRGBA(image.Rect(0, 0, w, h))
	(&font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(litColor),
		Face: previewFace,
		Dot:  fixed.P(previewMargin, previewMargin+previewFace.Ascent),
	}).DrawString(text)

	scale := previewScale + previewPixelBorder
	img := image.NewNRGBA(image.Rect(0, 0, w*scale, h*scale))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := color.NRGBA{A: 0xff}
			if _, _, _, a := small.At(x, y).RGBA(); a > 0 {
				c = litColor
			}
			for destX := scale * x; destX < scale*(x+1)-previewPixelBorder; destX++ {
				for destY := scale * y; destY < scale*(y+1)-previewPixelBorder; destY++ {
					img.SetNRGBA(destX, destY, c)
				}
			}
		}
	}
	p.image = img
}

// ServeHTTP serves the current image as a PNG.
func (p *Preview) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	w.Header().Add("content-type", "image/png")
	w.WriteHeader(http.StatusOK)
	p.imageMu.Lock()
	defer p.imageMu.Unlock()
	if err := png.Encode(w, p.image); err != nil {
		log.Printf("encoding image: %v", err)
	}
}
