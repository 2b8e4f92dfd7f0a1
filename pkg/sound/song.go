package sound

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/physic"
)

const (
	DefaultTempo = 120
	NoteGap      = 50 * time.Millisecond
)

// Note is a pitch such as "C4", "F#3" or "Bb5" ("R" for a rest) and a value:
// "w", "h", "q", "e" or "s", optionally followed by "." (dotted) or "3"
// (triplet).
type Note struct {
	Pitch string
	Value string
}

var ErrBadNote = errors.New("bad note")

type parsedNote struct {
	rest     bool
	freq     physic.Frequency
	duration time.Duration
}

var semitones = map[byte]int{'C': -9, 'D': -7, 'E': -5, 'F': -4, 'G': -2, 'A': 0, 'B': 2}

// Frequency returns the equal-tempered frequency of a pitch name, A4 being
// 440Hz.
func Frequency(pitch string) (physic.Frequency, error) {
	p := strings.ToUpper(strings.TrimSpace(pitch))
	if p == "" {
		return 0, errors.Wrap(ErrBadNote, "empty pitch")
	}
	offset, ok := semitones[p[0]]
	if !ok {
		return 0, errors.Wrapf(ErrBadNote, "unknown pitch %q", pitch)
	}
	p = p[1:]
	if strings.HasPrefix(p, "#") {
		offset++
		p = p[1:]
	} else if strings.HasPrefix(p, "B") {
		offset--
		p = p[1:]
	}
	octave, err := strconv.Atoi(p)
	if err != nil {
		return 0, errors.Wrapf(ErrBadNote, "bad octave in %q", pitch)
	}
	n := float64(offset + 12*(octave-4))
	hz := 440 * math.Pow(2, n/12)
	return physic.Frequency(math.Round(hz*1000)) * physic.MilliHertz, nil
}

var noteValues = map[byte]float64{'w': 1, 'h': 0.5, 'q': 0.25, 'e': 0.125, 's': 0.0625}

// Duration returns how long a note value lasts at tempo quarter notes per
// minute.
func Duration(value string, tempo int) (time.Duration, error) {
	if value == "" {
		return 0, errors.Wrap(ErrBadNote, "empty note value")
	}
	fraction, ok := noteValues[value[0]]
	if !ok {
		return 0, errors.Wrapf(ErrBadNote, "unknown note value %q", value)
	}
	for _, m := range value[1:] {
		switch m {
		case '.':
			fraction *= 1.5
		case '3':
			fraction *= 2.0 / 3
		default:
			return 0, errors.Wrapf(ErrBadNote, "unknown note value %q", value)
		}
	}
	bar := 4 * time.Minute / time.Duration(tempo)
	return time.Duration(float64(bar) * fraction), nil
}

func (n Note) parse(tempo int) (parsedNote, error) {
	d, err := Duration(n.Value, tempo)
	if err != nil {
		return parsedNote{}, err
	}
	if strings.EqualFold(strings.TrimSpace(n.Pitch), "R") {
		return parsedNote{rest: true, duration: d}, nil
	}
	f, err := Frequency(n.Pitch)
	if err != nil {
		return parsedNote{}, err
	}
	return parsedNote{freq: f, duration: d}, nil
}
