package screen

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/tigerbot-team/basicbot/pkg/robot"
)

const (
	DefaultDevice = "/dev/fb0"
	// EV3 LCD size, used when the framebuffer's sysfs entry can't be read.
	DefaultWidth  = 178
	DefaultHeight = 128

	lineHeight = 13
)

type Status struct {
	Title string
	Lines []string
}

// RobotStatus lists the robot's name and what each role is bound to.
func RobotStatus(c *robot.Controller) Status {
	st := Status{Title: c.Name()}
	for _, b := range c.Bindings() {
		if d, ok := b.Port.Get(); ok {
			st.Lines = append(st.Lines, fmt.Sprintf("%s: %v", b.Role, d.Port))
		}
	}
	return st
}

// Render draws the status black on white, the way the brick's own menus look.
func Render(width, height int, st Status) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(0, 0, float64(width), lineHeight+3)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(st.Title, float64(width)/2, 1, 0.5, 1)

	dc.SetRGB(0, 0, 0)
	y := float64(lineHeight + 3)
	for _, l := range st.Lines {
		y += lineHeight
		if y > float64(height) {
			break
		}
		dc.DrawString(l, 2, y-2)
	}
	return dc.Image()
}

// Framebuffer is a Linux framebuffer device in 16 (RGB565) or 32 (XRGB)
// bits per pixel.
type Framebuffer struct {
	Device string
	Width  int
	Height int
	Stride int
	BPP    int
}

// OpenFramebuffer reads the geometry of device from sysfs.
func OpenFramebuffer(device, sysfsRoot string) (*Framebuffer, error) {
	dir := filepath.Join(sysfsRoot, "graphics", filepath.Base(device))
	fb := &Framebuffer{Device: device, Width: DefaultWidth, Height: DefaultHeight, BPP: 32}

	if size, err := os.ReadFile(filepath.Join(dir, "virtual_size")); err == nil {
		parts := strings.Split(strings.TrimSpace(string(size)), ",")
		if len(parts) != 2 {
			return nil, errors.Errorf("bad virtual_size %q", size)
		}
		if fb.Width, err = strconv.Atoi(parts[0]); err != nil {
			return nil, errors.Wrap(err, "bad framebuffer width")
		}
		if fb.Height, err = strconv.Atoi(parts[1]); err != nil {
			return nil, errors.Wrap(err, "bad framebuffer height")
		}
	}
	if bpp, err := os.ReadFile(filepath.Join(dir, "bits_per_pixel")); err == nil {
		if fb.BPP, err = strconv.Atoi(strings.TrimSpace(string(bpp))); err != nil {
			return nil, errors.Wrap(err, "bad bits_per_pixel")
		}
	}
	if fb.BPP != 16 && fb.BPP != 32 {
		return nil, errors.Errorf("unsupported framebuffer depth %d", fb.BPP)
	}
	fb.Stride = fb.Width * fb.BPP / 8
	if stride, err := os.ReadFile(filepath.Join(dir, "stride")); err == nil {
		if fb.Stride, err = strconv.Atoi(strings.TrimSpace(string(stride))); err != nil {
			return nil, errors.Wrap(err, "bad stride")
		}
	}
	return fb, nil
}

// Encode converts img to the framebuffer's pixel layout.  Pixels outside img
// are left black.
func (fb *Framebuffer) Encode(img image.Image) []byte {
	buf := make([]byte, fb.Stride*fb.Height)
	bounds := img.Bounds()
	for y := 0; y < fb.Height && y < bounds.Dy(); y++ {
		row := buf[y*fb.Stride:]
		for x := 0; x < fb.Width && x < bounds.Dx(); x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA() // 16-bit pre-multiplied
			switch fb.BPP {
			case 32:
				row[x*4] = byte(b >> 8)
				row[x*4+1] = byte(g >> 8)
				row[x*4+2] = byte(r >> 8)
			case 16:
				rb := byte(r >> (16 - 5))
				gb := byte(g >> (16 - 6)) // Green has 6 bits
				bb := byte(b >> (16 - 5))
				row[x*2+1] = (rb << 3) | (gb >> 3)
				row[x*2] = bb | (gb << 5)
			}
		}
	}
	return buf
}

func (fb *Framebuffer) Show(img image.Image) error {
	f, err := os.OpenFile(fb.Device, os.O_WRONLY, 0666)
	if err != nil {
		return errors.Wrap(err, "failed to open screen")
	}
	defer f.Close()
	_, err = f.Write(fb.Encode(img))
	return err
}

func (fb *Framebuffer) Clear() error {
	return fb.Show(image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height)))
}

// LoopUpdatingScreen redraws status every half second until ctx is done and
// then blanks the screen.
func LoopUpdatingScreen(ctx context.Context, fb *Framebuffer, status func() Status) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		if err := fb.Show(Render(fb.Width, fb.Height, status())); err != nil {
			fmt.Println("Screen failure: ", err)
			return
		}
		select {
		case <-ctx.Done():
			_ = fb.Clear()
			return
		case <-ticker.C:
		}
	}
}
