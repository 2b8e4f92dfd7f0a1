package ports

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Port is one of the eight connectors on the brick.
type Port int

const (
	OutA Port = iota
	OutB
	OutC
	OutD
	In1
	In2
	In3
	In4

	NumPorts = int(In4) + 1
)

var ErrInvalidPortName = errors.New("invalid port name")

var names = [NumPorts]string{"outA", "outB", "outC", "outD", "in1", "in2", "in3", "in4"}

func (p Port) String() string {
	if p < 0 || int(p) >= NumPorts {
		return fmt.Sprintf("port(%d)", int(p))
	}
	return names[p]
}

func (p Port) IsOutput() bool {
	return p >= OutA && p <= OutD
}

func (p Port) IsInput() bool {
	return p >= In1 && p <= In4
}

// Descriptor identifies a port to the driver.  Address is the ev3dev device
// address of the connector, e.g. "ev3-ports:outA".
type Descriptor struct {
	Port    Port
	Address string
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%v(%s)", d.Port, d.Address)
}

// Table maps each port to its driver address.  It is a value type: a copy
// handed to a controller can't be changed behind its back.
type Table [NumPorts]string

// EV3Table is the address layout of an EV3 brick running ev3dev.
func EV3Table() Table {
	return Table{
		OutA: "ev3-ports:outA",
		OutB: "ev3-ports:outB",
		OutC: "ev3-ports:outC",
		OutD: "ev3-ports:outD",
		In1:  "ev3-ports:in1",
		In2:  "ev3-ports:in2",
		In3:  "ev3-ports:in3",
		In4:  "ev3-ports:in4",
	}
}

// ParsePort matches a port name case-insensitively.
func ParsePort(name string) (Port, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if strings.ToLower(n) == lower {
			return Port(i), nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidPortName, "%q", name)
}

// Resolve returns the descriptor for the named port.
func (t Table) Resolve(name string) (Descriptor, error) {
	p, err := ParsePort(name)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Port: p, Address: t[p]}, nil
}

// WithOverrides returns a copy of the table with the given name->address
// entries replaced.  Empty addresses are ignored.
func (t Table) WithOverrides(overrides map[string]string) (Table, error) {
	for name, addr := range overrides {
		p, err := ParsePort(name)
		if err != nil {
			return t, err
		}
		if addr == "" {
			continue
		}
		t[p] = addr
	}
	return t, nil
}
