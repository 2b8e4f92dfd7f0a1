package buttons

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Key codes reported by the EV3 brick's gpio-keys device.
//
//	Up        = 103
//	Down      = 108
//	Left      = 105
//	Right     = 106
//	Enter     = 28  (centre button)
//	Backspace = 14  (back button)
type Key uint16

const (
	KeyBackspace Key = 14
	KeyEnter     Key = 28
	KeyUp        Key = 103
	KeyLeft      Key = 105
	KeyRight     Key = 106
	KeyDown      Key = 108
)

const DefaultDevice = "/dev/input/by-path/platform-gpio_keys-event"

const evKey = 1

var keyNames = map[Key]string{
	KeyBackspace: "backspace",
	KeyEnter:     "enter",
	KeyUp:        "up",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyDown:      "down",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("key(%d)", uint16(k))
}

var ErrUnknownKey = errors.New("unknown button")

func ParseKey(name string) (Key, error) {
	for k, n := range keyNames {
		if n == name {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownKey, "%q", name)
}

// rawEvent is the kernel's struct input_event on the brick's 32-bit ARM.
type rawEvent struct {
	Sec   int32
	Usec  int32
	Type  uint16
	Code  uint16
	Value int32
}

type Event struct {
	Time    time.Time
	Key     Key
	Pressed bool
}

func (e *Event) String() string {
	if e.Pressed {
		return fmt.Sprintf("%v pressed", e.Key)
	}
	return fmt.Sprintf("%v released", e.Key)
}

type Buttons struct {
	device io.ReadCloser

	lock    sync.Mutex
	pressed map[Key]bool
	bumps   map[Key]int
	changed chan struct{}
	readErr error
}

func Open(device string) (*Buttons, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", device)
	}
	return newButtons(f), nil
}

func newButtons(r io.ReadCloser) *Buttons {
	return &Buttons{
		device:  r,
		pressed: map[Key]bool{},
		bumps:   map[Key]int{},
		changed: make(chan struct{}),
	}
}

// ReadEvent blocks for the next key event, skipping sync and other events.
func (b *Buttons) ReadEvent() (*Event, error) {
	for {
		var raw rawEvent
		err := binary.Read(b.device, binary.LittleEndian, &raw)
		if err != nil {
			return nil, err
		}
		if raw.Type != evKey || raw.Value == 2 /* autorepeat */ {
			continue
		}
		return &Event{
			Time:    time.Unix(int64(raw.Sec), int64(raw.Usec)*1000),
			Key:     Key(raw.Code),
			Pressed: raw.Value != 0,
		}, nil
	}
}

// Loop reads events and tracks which buttons are down until ctx is done or
// the device fails.  Run it in its own goroutine.
func (b *Buttons) Loop(ctx context.Context) {
	go func() {
		<-ctx.Done()
		_ = b.device.Close()
	}()
	for ctx.Err() == nil {
		e, err := b.ReadEvent()
		if err != nil {
			if ctx.Err() == nil {
				fmt.Println("Failed to read buttons:", err)
			}
			b.lock.Lock()
			b.readErr = err
			close(b.changed)
			b.lock.Unlock()
			return
		}
		b.lock.Lock()
		wasPressed := b.pressed[e.Key]
		b.pressed[e.Key] = e.Pressed
		if wasPressed && !e.Pressed {
			b.bumps[e.Key]++
		}
		close(b.changed)
		b.changed = make(chan struct{})
		b.lock.Unlock()
	}
}

func (b *Buttons) Pressed(k Key) bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.pressed[k]
}

// Any reports whether any button is currently held down.
func (b *Buttons) Any() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	for _, p := range b.pressed {
		if p {
			return true
		}
	}
	return false
}

// WaitForBump blocks until k has been pressed and released.
func (b *Buttons) WaitForBump(ctx context.Context, k Key) error {
	b.lock.Lock()
	start := b.bumps[k]
	b.lock.Unlock()
	for {
		b.lock.Lock()
		if b.bumps[k] > start {
			b.lock.Unlock()
			return nil
		}
		if b.readErr != nil {
			err := b.readErr
			b.lock.Unlock()
			return err
		}
		changed := b.changed
		b.lock.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WaitForAny blocks until any button is pressed.
func (b *Buttons) WaitForAny(ctx context.Context) error {
	for {
		b.lock.Lock()
		changed, err := b.changed, b.readErr
		b.lock.Unlock()
		if err != nil {
			return err
		}
		if b.Any() {
			return nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops the loop, if running, and closes the device.
func (b *Buttons) Close() error {
	return b.device.Close()
}
