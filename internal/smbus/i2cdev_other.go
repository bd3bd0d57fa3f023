//go:build !linux

package smbus

import (
	"context"
	"errors"
)

var errNotLinux = errors.New("smbus: i2c-dev driver requires linux")

// I2CDev requires the Linux i2c-dev interface.
type I2CDev struct{}

// OpenI2CDev is unavailable off Linux; use the periph or sim drivers.
func OpenI2CDev(path string, addr uint16) (*I2CDev, error) {
	return nil, errNotLinux
}

func (d *I2CDev) ReadByteData(ctx context.Context, reg byte) (byte, error) {
	return 0, errNotLinux
}

func (d *I2CDev) WriteByteData(ctx context.Context, reg byte, val byte) error {
	return errNotLinux
}

func (d *I2CDev) Close() error { return nil }
