package store

import (
	"fmt"
	"os"
)

// File is a Bytes kept in a file.  It works with a kernel-managed EEPROM
// (/sys/bus/i2c/devices/*/eeprom from the at24 driver) as well as with an ordinary file, which
// is grown to size bytes if it is shorter.
type File struct {
	f    *os.File
	size int
}

// OpenFile opens or creates the file at path.
func OpenFile(path string, size int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat store: %w", err)
	}
	if info.Mode().IsRegular() && info.Size() < int64(size) {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("grow store to %d bytes: %w", size, err)
		}
	}
	return &File{f: f, size: size}, nil
}

func (f *File) Len() int { return f.size }

func (f *File) ReadByteAt(addr int) (byte, error) {
	if err := checkAddress(addr, f.size); err != nil {
		return 0, err
	}
	var buf [1]byte
	if _, err := f.f.ReadAt(buf[:], int64(addr)); err != nil {
		return 0, fmt.Errorf("read %s at %d: %w", f.f.Name(), addr, err)
	}
	return buf[0], nil
}

func (f *File) WriteByteAt(addr int, b byte) error {
	if err := checkAddress(addr, f.size); err != nil {
		return err
	}
	if _, err := f.f.WriteAt([]byte{b}, int64(addr)); err != nil {
		return fmt.Errorf("write %s at %d: %w", f.f.Name(), addr, err)
	}
	storeWrites.WithLabelValues("file").Inc()
	return nil
}

// Fill sets every byte to b in one write.
func (f *File) Fill(b byte) error {
	buf := make([]byte, f.size)
	for i := range buf {
		buf[i] = b
	}
	if _, err := f.f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("fill %s: %w", f.f.Name(), err)
	}
	storeWrites.WithLabelValues("file").Add(float64(f.size))
	return nil
}

// Sync flushes writes to stable storage.  Alarm calls it after every save.
func (f *File) Sync() error { return f.f.Sync() }

// Close closes the file.
func (f *File) Close() error { return f.f.Close() }
