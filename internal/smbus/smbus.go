// Package smbus provides byte-level SMBus register access to a single
// I2C device. It defines the Bus interface used by the chip driver and
// two implementations: a raw /dev/i2c-N driver (Linux) and a portable
// periph.io driver.
package smbus

import "context"

// maxOpsPerSec caps the SMBus transaction rate so a tight poll loop
// cannot starve other users of the adapter.
const maxOpsPerSec = 500

// Bus is the primitive register transport for one device: SMBus
// read-byte-data and write-byte-data against a fixed 7-bit address.
// Implementations must be safe for concurrent use.
type Bus interface {
	// ReadByteData reads one byte from the given register.
	ReadByteData(ctx context.Context, reg byte) (byte, error)

	// WriteByteData writes one byte to the given register.
	WriteByteData(ctx context.Context, reg byte, val byte) error

	// Close releases the underlying transport.
	Close() error
}
