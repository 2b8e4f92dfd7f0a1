package sound

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/physic"
)

func TestFrequency(t *testing.T) {
	for _, tc := range []struct {
		pitch    string
		expected float64
	}{
		{"A4", 440},
		{"a4", 440},
		{"A5", 880},
		{"A3", 220},
		{"C4", 261.626},
		{"G4", 391.995},
		{"F#4", 369.994},
		{"Bb3", 233.082},
		{"E4", 329.628},
	} {
		f, err := Frequency(tc.pitch)
		if err != nil {
			t.Errorf("Frequency(%q) failed: %v", tc.pitch, err)
			continue
		}
		hz := float64(f) / float64(physic.Hertz)
		if math.Abs(hz-tc.expected) > 0.001 {
			t.Errorf("Frequency(%q) = %v, expected %vHz", tc.pitch, f, tc.expected)
		}
	}
}

func TestFrequencyRejectsBadPitches(t *testing.T) {
	for _, p := range []string{"", "H4", "C", "C#x"} {
		if _, err := Frequency(p); errors.Cause(err) != ErrBadNote {
			t.Errorf("Frequency(%q) = %v, expected ErrBadNote", p, err)
		}
	}
}

func TestDuration(t *testing.T) {
	for _, tc := range []struct {
		value    string
		tempo    int
		expected time.Duration
	}{
		{"q", 120, 500 * time.Millisecond},
		{"h", 120, time.Second},
		{"w", 120, 2 * time.Second},
		{"e", 120, 250 * time.Millisecond},
		{"s", 60, 250 * time.Millisecond},
		{"q.", 120, 750 * time.Millisecond},
		{"q3", 60, 666666666 * time.Nanosecond},
	} {
		d, err := Duration(tc.value, tc.tempo)
		if err != nil {
			t.Errorf("Duration(%q) failed: %v", tc.value, err)
			continue
		}
		if diff := d - tc.expected; diff < -time.Microsecond || diff > time.Microsecond {
			t.Errorf("Duration(%q, %d) = %v, expected %v", tc.value, tc.tempo, d, tc.expected)
		}
	}
	if _, err := Duration("x", 120); errors.Cause(err) != ErrBadNote {
		t.Errorf("Expected ErrBadNote, got %v", err)
	}
}

func TestPlaySongValidatesBeforePlaying(t *testing.T) {
	p := NewPlayer("")
	song := []Note{{"C4", "q"}, {"X4", "q"}}
	if err := p.PlaySong(song, DefaultTempo); errors.Cause(err) != ErrBadNote {
		t.Fatalf("Expected ErrBadNote, got %v", err)
	}
	if p.opened {
		t.Fatal("Speaker opened for an invalid song")
	}
	if err := p.PlaySong(song[:1], 0); err == nil {
		t.Fatal("Expected tempo error")
	}
}

func TestRestParses(t *testing.T) {
	n, err := Note{"r", "h"}.parse(120)
	if err != nil {
		t.Fatal(err)
	}
	if !n.rest || n.duration != time.Second {
		t.Fatalf("Unexpected rest %+v", n)
	}
}

func TestToneLength(t *testing.T) {
	s := newTone(BeepFrequency, 100*time.Millisecond)
	buf := make([][2]float64, 1000)
	total := 0
	for {
		n, ok := s.Stream(buf)
		if !ok {
			break
		}
		for _, sample := range buf[:n] {
			if math.Abs(sample[0]) > 0.5 || sample[0] != sample[1] {
				t.Fatalf("Bad sample %v", sample)
			}
		}
		total += n
	}
	if total != 4410 {
		t.Fatalf("Streamed %d samples, expected 4410", total)
	}
	if s.Err() != nil {
		t.Fatal(s.Err())
	}
}
