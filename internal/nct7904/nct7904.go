// Package nct7904 is a driver for the Nuvoton NCT7904D hardware
// monitor: 21 voltage inputs, 12 fan tach inputs, on-die and remote
// temperature sensors and 4 PWM fan outputs, all behind a bank-switched
// 8-bit register file on SMBus.
package nct7904

import (
	"context"
	"sync"

	"github.com/openhwmon/nct7904-go/internal/smbus"
)

// bankUnknown marks the cached bank as untrusted. Set before first use
// and after any failed bank switch, so the next access re-asserts the
// page instead of assuming the chip is where we left it.
const bankUnknown = -1

// Device is an attached NCT7904D. All register access is serialized
// behind one mutex held across the whole select-bank-then-operate
// sequence: the active page is global chip state, so a read on one
// channel must never interleave with another caller's page switch.
type Device struct {
	bus  smbus.Bus
	mu   sync.Mutex
	bank int
	caps Caps
}

// New attaches to a detected chip on the given bus and computes its
// capability masks. The masks are read once here and are immutable for
// the life of the Device.
func New(ctx context.Context, bus smbus.Bus) (*Device, error) {
	d := &Device{bus: bus, bank: bankUnknown}
	caps, err := d.readCaps(ctx)
	if err != nil {
		return nil, err
	}
	d.caps = caps
	return d, nil
}

// Caps returns the capability masks computed at attach time.
func (d *Device) Caps() Caps { return d.caps }

// selectBank makes bank the active page. Caller must hold d.mu. A
// matching cached bank costs no bus transaction; a failed switch
// invalidates the cache.
func (d *Device) selectBank(ctx context.Context, bank int) error {
	if d.bank == bank {
		return nil
	}
	if err := d.bus.WriteByteData(ctx, RegBankSel, byte(bank)); err != nil {
		d.bank = bankUnknown
		return err
	}
	d.bank = bank
	return nil
}

// read8 reads a single register on the given bank.
func (d *Device) read8(ctx context.Context, bank int, reg byte) (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.selectBank(ctx, bank); err != nil {
		return 0, err
	}
	return d.bus.ReadByteData(ctx, reg)
}

// read16 reads an HV/LV register pair as one logical value, high byte
// first. If either half fails the whole read fails; no partial value is
// ever produced, and the low byte is not read after a failed high byte.
func (d *Device) read16(ctx context.Context, bank int, reg byte) (uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.selectBank(ctx, bank); err != nil {
		return 0, err
	}
	hi, err := d.bus.ReadByteData(ctx, reg)
	if err != nil {
		return 0, err
	}
	lo, err := d.bus.ReadByteData(ctx, reg+1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// write8 writes a single register on the given bank.
func (d *Device) write8(ctx context.Context, bank int, reg byte, val byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.selectBank(ctx, bank); err != nil {
		return err
	}
	return d.bus.WriteByteData(ctx, reg, val)
}
