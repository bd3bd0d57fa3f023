package smbus

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// PeriphDev is a portable Bus implementation on top of periph.io.
// i2c.Dev.Tx issues the register write and data read as one combined
// transaction, so reads carry a REPEATED START like the raw driver.
type PeriphDev struct {
	mu      sync.Mutex
	bus     i2c.BusCloser
	dev     i2c.Dev
	limiter *rate.Limiter
}

// OpenPeriph opens the named I2C bus via the periph.io host drivers and
// binds it to the device at addr. name may be a bus name, alias or
// number; "" selects the first available bus.
func OpenPeriph(name string, addr uint16) (*PeriphDev, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("smbus: periph host init: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("smbus: open i2c bus %q: %w", name, err)
	}
	return &PeriphDev{
		bus:     bus,
		dev:     i2c.Dev{Bus: bus, Addr: addr},
		limiter: rate.NewLimiter(rate.Limit(maxOpsPerSec), 10),
	}, nil
}

func (d *PeriphDev) ReadByteData(ctx context.Context, reg byte) (byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return 0, fmt.Errorf("smbus: periph bus closed")
	}
	var rbuf [1]byte
	if err := d.dev.Tx([]byte{reg}, rbuf[:]); err != nil {
		return 0, fmt.Errorf("smbus: read reg=0x%02x: %w", reg, err)
	}
	return rbuf[0], nil
}

func (d *PeriphDev) WriteByteData(ctx context.Context, reg byte, val byte) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return fmt.Errorf("smbus: periph bus closed")
	}
	if err := d.dev.Tx([]byte{reg, val}, nil); err != nil {
		return fmt.Errorf("smbus: write reg=0x%02x: %w", reg, err)
	}
	return nil
}

// Close releases the underlying periph.io bus.
func (d *PeriphDev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return nil
	}
	err := d.bus.Close()
	d.bus = nil
	return err
}
