package screen

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tigerbot-team/basicbot/pkg/hardware"
	"github.com/tigerbot-team/basicbot/pkg/ports"
	"github.com/tigerbot-team/basicbot/pkg/robot"
)

func TestRobotStatus(t *testing.T) {
	r := robot.New("Tonks", ports.EV3Table(), &hardware.Dummy{Out: io.Discard}, io.Discard)
	r.BindColorSensor("in1")

	st := RobotStatus(r)
	if st.Title != "Tonks" {
		t.Errorf("Title = %q", st.Title)
	}
	expected := []string{"left motor: outD", "right motor: outB", "color: in1"}
	if len(st.Lines) != len(expected) {
		t.Fatalf("Lines = %q, expected %q", st.Lines, expected)
	}
	for i := range expected {
		if st.Lines[i] != expected[i] {
			t.Errorf("Line %d = %q, expected %q", i, st.Lines[i], expected[i])
		}
	}
}

func TestRender(t *testing.T) {
	img := Render(DefaultWidth, DefaultHeight, Status{Title: "Tonks", Lines: []string{"color: in1"}})
	if img.Bounds().Dx() != DefaultWidth || img.Bounds().Dy() != DefaultHeight {
		t.Fatalf("Unexpected size %v", img.Bounds())
	}
	isWhite := func(x, y int) bool {
		r, g, b, _ := img.At(x, y).RGBA()
		return r == 0xffff && g == 0xffff && b == 0xffff
	}
	if isWhite(0, 0) {
		t.Error("Title bar should be black")
	}
	if !isWhite(DefaultWidth-1, DefaultHeight-1) {
		t.Error("Background should be white")
	}
}

func TestEncode32(t *testing.T) {
	fb := &Framebuffer{Width: 2, Height: 1, Stride: 12, BPP: 32}
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff})
	img.Set(1, 0, color.White)

	buf := fb.Encode(img)
	expected := []byte{0x30, 0x20, 0x10, 0, 0xff, 0xff, 0xff, 0, 0, 0, 0, 0}
	if !bytes.Equal(buf, expected) {
		t.Fatalf("Encode() = %x, expected %x", buf, expected)
	}
}

func TestEncode16(t *testing.T) {
	fb := &Framebuffer{Width: 3, Height: 1, Stride: 6, BPP: 16}
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
	img.Set(1, 0, color.RGBA{G: 0xff, A: 0xff})
	img.Set(2, 0, color.RGBA{B: 0xff, A: 0xff})

	buf := fb.Encode(img)
	expected := []byte{0x00, 0xf8, 0xe0, 0x07, 0x1f, 0x00}
	if !bytes.Equal(buf, expected) {
		t.Fatalf("Encode() = %x, expected %x", buf, expected)
	}
}

func TestOpenFramebuffer(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "graphics", "fb0")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	write := func(name, value string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(value), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("virtual_size", "178,128\n")
	write("bits_per_pixel", "32\n")
	write("stride", "712\n")

	dev := filepath.Join(t.TempDir(), "fb0")
	if err := os.WriteFile(dev, nil, 0644); err != nil {
		t.Fatal(err)
	}
	fb, err := OpenFramebuffer(dev, root)
	if err != nil {
		t.Fatal(err)
	}
	if fb.Width != 178 || fb.Height != 128 || fb.BPP != 32 || fb.Stride != 712 {
		t.Fatalf("Unexpected geometry %+v", fb)
	}

	if err := fb.Show(Render(fb.Width, fb.Height, Status{Title: "Tonks"})); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dev)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 712*128 {
		t.Fatalf("Wrote %d bytes", len(data))
	}

	write("bits_per_pixel", "1\n")
	if _, err := OpenFramebuffer(dev, root); err == nil {
		t.Fatal("Expected error for 1bpp framebuffer")
	}
}
