// Package store keeps the alarm configuration in a small byte-addressed non-volatile memory.
package store

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrAddress is returned for reads and writes outside the store.
var ErrAddress = errors.New("address out of range")

// Bytes is a byte-addressed persistent memory.
type Bytes interface {
	ReadByteAt(addr int) (byte, error)
	WriteByteAt(addr int, b byte) error
	Len() int
}

// Syncer is implemented by stores that buffer writes.  Sync returns once every earlier write
// would survive a power loss.
type Syncer interface {
	Sync() error
}

// Filler is implemented by stores that can set every byte faster than one at a time.
type Filler interface {
	Fill(b byte) error
}

var storeWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "store_writes",
	Help: "count of bytes written to persistent storage, by store kind",
}, []string{"kind"})

func checkAddress(addr, n int) error {
	if addr < 0 || addr >= n {
		return fmt.Errorf("address %d of %d: %w", addr, n, ErrAddress)
	}
	return nil
}

// fill sets every byte of s to b.
func fill(s Bytes, b byte) error {
	if f, ok := s.(Filler); ok {
		return f.Fill(b)
	}
	for i := 0; i < s.Len(); i++ {
		if err := s.WriteByteAt(i, b); err != nil {
			return err
		}
	}
	return nil
}

// Memory is a Bytes held in RAM.  It does not survive power loss; it is for tests and for
// running without storage hardware.
type Memory struct {
	b []byte
}

// NewMemory returns a zeroed Memory of n bytes.
func NewMemory(n int) *Memory {
	return &Memory{b: make([]byte, n)}
}

func (m *Memory) ReadByteAt(addr int) (byte, error) {
	if err := checkAddress(addr, len(m.b)); err != nil {
		return 0, err
	}
	return m.b[addr], nil
}

func (m *Memory) WriteByteAt(addr int, b byte) error {
	if err := checkAddress(addr, len(m.b)); err != nil {
		return err
	}
	storeWrites.WithLabelValues("memory").Inc()
	m.b[addr] = b
	return nil
}

func (m *Memory) Len() int { return len(m.b) }
