package sound

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/kr/pty"
	"github.com/pkg/errors"
	"periph.io/x/periph/conn/physic"
)

const SampleRate = beep.SampleRate(44100)

// BeepFrequency and BeepDuration match the brick's stock beep.
const (
	BeepFrequency = 440 * physic.Hertz
	BeepDuration  = 200 * time.Millisecond
)

// Player plays sounds one at a time through the brick's speaker.  The speaker
// is opened on first use; if that fails every later request reports the same
// error.
type Player struct {
	// Dir is searched for sound files given as relative paths.
	Dir string

	lock    sync.Mutex
	opened  bool
	openErr error
}

func NewPlayer(dir string) *Player {
	return &Player{Dir: dir}
}

func (p *Player) open() error {
	if !p.opened {
		p.opened = true
		p.openErr = speaker.Init(SampleRate, SampleRate.N(time.Second/5))
		if p.openErr != nil {
			fmt.Println("Failed to open speaker", p.openErr)
		}
	}
	return p.openErr
}

// play blocks until s is drained.  Concurrent callers queue up behind it.
func (p *Player) play(s beep.Streamer) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if err := p.open(); err != nil {
		return err
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() { close(done) })))
	<-done
	return nil
}

func (p *Player) resolve(name string) string {
	if filepath.IsAbs(name) || p.Dir == "" {
		return name
	}
	return filepath.Join(p.Dir, name)
}

// PlayFile plays a wav file and waits for it to finish.
func (p *Player) PlayFile(name string) error {
	path := p.resolve(name)
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open sound")
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to decode %s", path)
	}
	defer s.Close()
	if format.SampleRate != SampleRate {
		fmt.Printf("Warning, %s is %d Hz, speaker runs at %d Hz\n", path, format.SampleRate, SampleRate)
	}
	return p.play(s)
}

// PlayTone plays a sine wave at freq for d.
func (p *Player) PlayTone(freq physic.Frequency, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return p.play(newTone(freq, d))
}

func (p *Player) Beep() error {
	return p.PlayTone(BeepFrequency, BeepDuration)
}

// PlaySong plays notes at tempo beats per minute with a short gap after each
// note.
func (p *Player) PlaySong(song []Note, tempo int) error {
	if tempo <= 0 {
		return errors.Errorf("invalid tempo %d", tempo)
	}
	parsed := make([]parsedNote, 0, len(song))
	for _, n := range song {
		pn, err := n.parse(tempo)
		if err != nil {
			return err
		}
		parsed = append(parsed, pn)
	}
	for _, n := range parsed {
		if n.rest {
			time.Sleep(n.duration)
		} else if err := p.PlayTone(n.freq, n.duration); err != nil {
			return err
		}
		time.Sleep(NoteGap)
	}
	return nil
}

// Speak says text through espeak, piped to aplay by the shell.  espeak wants
// a terminal on the brick, so it runs under a pty.
func Speak(text string) error {
	cmd := exec.Command("/bin/sh", "-c", `espeak -a 200 -s 130 --stdout "$1" | aplay -q`, "speak", text)
	f, err := pty.Start(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to start espeak")
	}
	defer f.Close()
	go io.Copy(io.Discard, f)
	return cmd.Wait()
}

// tone is a finite sine wave streamer.
type tone struct {
	step      float64
	phase     float64
	remaining int
}

func newTone(freq physic.Frequency, d time.Duration) *tone {
	hz := float64(freq) / float64(physic.Hertz)
	return &tone{
		step:      hz / float64(SampleRate),
		remaining: SampleRate.N(d),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.remaining <= 0 {
		return 0, false
	}
	for i := range samples {
		if t.remaining == 0 {
			break
		}
		v := 0.5 * math.Sin(2*math.Pi*t.phase)
		samples[i][0], samples[i][1] = v, v
		_, t.phase = math.Modf(t.phase + t.step)
		t.remaining--
		n++
	}
	return n, true
}

func (t *tone) Err() error {
	return nil
}
