//go:build linux

package smbus

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"
)

const (
	i2cRdwrIOCTL = 0x0707 // I2C_RDWR ioctl, combined transactions with REPEATED START
	i2cMsgRD     = 0x0001 // i2c_msg flag: read direction
)

// i2cMsg mirrors struct i2c_msg from linux/i2c.h
type i2cMsg struct {
	addr   uint16
	flags  uint16
	length uint16
	_pad   uint16 // struct alignment
	buf    uintptr
}

// i2cRdwr mirrors struct i2c_rdwr_ioctl_data from linux/i2c-dev.h
type i2cRdwr struct {
	msgs  uintptr
	nmsgs uint32
}

// I2CDev talks SMBus byte-data to a single device on a Linux I2C
// adapter, using I2C_RDWR for all transactions so reads get the
// REPEATED START the chip requires between the register write and the
// data read.
type I2CDev struct {
	mu      sync.Mutex
	fd      int
	addr    uint16 // 7-bit device address
	path    string
	limiter *rate.Limiter
}

// OpenI2CDev opens the given /dev/i2c-N adapter for the device at addr.
func OpenI2CDev(path string, addr uint16) (*I2CDev, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("smbus: open %s: %w", path, err)
	}
	return &I2CDev{
		fd:      fd,
		addr:    addr,
		path:    path,
		limiter: rate.NewLimiter(rate.Limit(maxOpsPerSec), 10),
	}, nil
}

func (d *I2CDev) ReadByteData(ctx context.Context, reg byte) (byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return 0, fmt.Errorf("smbus: %s closed", d.path)
	}

	wbuf := [1]byte{reg}
	rbuf := [1]byte{}
	// Two i2c_msg: [write reg addr] + [read 1 byte], combined with I2C_RDWR.
	msgs := [2]i2cMsg{
		{addr: d.addr, flags: 0, length: 1, buf: uintptr(unsafe.Pointer(&wbuf[0]))},
		{addr: d.addr, flags: i2cMsgRD, length: 1, buf: uintptr(unsafe.Pointer(&rbuf[0]))},
	}
	rdwr := i2cRdwr{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: 2}

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), i2cRdwrIOCTL, uintptr(unsafe.Pointer(&rdwr))); errno != 0 {
		return 0, fmt.Errorf("smbus: I2C_RDWR read 0x%02x reg=0x%02x: %w", d.addr, reg, errno)
	}
	return rbuf[0], nil
}

func (d *I2CDev) WriteByteData(ctx context.Context, reg byte, val byte) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return fmt.Errorf("smbus: %s closed", d.path)
	}

	wbuf := [2]byte{reg, val}
	msgs := [1]i2cMsg{
		{addr: d.addr, flags: 0, length: 2, buf: uintptr(unsafe.Pointer(&wbuf[0]))},
	}
	rdwr := i2cRdwr{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: 1}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), i2cRdwrIOCTL, uintptr(unsafe.Pointer(&rdwr))); errno != 0 {
		return fmt.Errorf("smbus: I2C_RDWR write 0x%02x reg=0x%02x: %w", d.addr, reg, errno)
	}
	return nil
}

// Close releases the adapter file descriptor.
func (d *I2CDev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd >= 0 {
		err := unix.Close(d.fd)
		d.fd = -1
		return err
	}
	return nil
}
