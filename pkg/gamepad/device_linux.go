//go:build linux

package gamepad

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"
)

const (
	iocGAXES    uint = 0x80016a11
	iocGBUTTONS uint = 0x80016a12
	iocGNAME    uint = 0x80ff6a13
)

// Device is an opened /dev/input/jsN.
type Device struct {
	Index   int
	Name    string
	Axes    int
	Buttons int

	file *os.File
}

// Open opens the joystick device of index.
func Open(index int) (*Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	d := &Device{Index: index, file: f}
	var axes, buttons uint8
	var name [256]byte
	for _, req := range []struct {
		code uint
		ptr  unsafe.Pointer
	}{
		{iocGAXES, unsafe.Pointer(&axes)},
		{iocGBUTTONS, unsafe.Pointer(&buttons)},
		{iocGNAME, unsafe.Pointer(&name)},
	} {
		if errno := d.ioctl(req.code, req.ptr); errno != 0 {
			f.Close()
			return nil, errno
		}
	}
	d.Axes, d.Buttons = int(axes), int(buttons)
	if pos := bytes.IndexByte(name[:], 0); pos >= 0 {
		d.Name = string(name[:pos])
	} else {
		d.Name = string(name[:])
	}
	return d, nil
}

// Detect opens the first available device from index start.
// It returns nil if there's none.
func Detect(start int) (*Device, error) {
	for index := start; index < 32; index++ {
		d, err := Open(index)
		if os.IsNotExist(err) {
			continue
		}
		return d, err
	}
	return nil, nil
}

// Close implements io.Closer.
func (d *Device) Close() error {
	return d.file.Close()
}

// ReadEvent blocks until the next event.
func (d *Device) ReadEvent() (Event, error) {
	var buf [EventSize]byte
	if _, err := io.ReadFull(d.file, buf[:]); err != nil {
		return Event{}, err
	}
	return DecodeEvent(buf[:]), nil
}

func (d *Device) ioctl(req uint, ptr unsafe.Pointer) syscall.Errno {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, d.file.Fd(), uintptr(req), uintptr(ptr))
	return errno
}
