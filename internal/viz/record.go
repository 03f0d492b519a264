package viz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	charW = 8
	charH = 16

	// gifDelay is in hundredths of a second; frames are captured every tick.
	gifDelay = 2
)

var ErrNoFrames = errors.New("viz: no frames captured")

// Recorder rasterizes canvas frames for an animated GIF.
type Recorder struct {
	w, h   int
	frames []*image.Paletted
}

// NewRecorder prepares a recorder for a canvas of w x h cells.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{w: w, h: h}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture appends the canvas as a black and white frame. A canvas of a
// different size than the recorder is clipped.
func (r *Recorder) Capture(c *Canvas) {
	imgW, imgH := r.w*charW, r.h*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4
	for row := 0; row < min(r.h, c.Height); row++ {
		for col := 0; col < min(r.w, c.Width); col++ {
			pattern := int(c.Grid[row][col] - blank)
			if pattern <= 0 {
				continue
			}
			baseX, baseY := col*charW, row*charH
			for dy := range 4 {
				for dx := range 2 {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := range dotH {
						for px := range dotW {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, 1)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save encodes every captured frame to path.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, gifDelay)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return f.Close()
}
