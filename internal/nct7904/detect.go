package nct7904

import (
	"context"
	"fmt"

	"github.com/openhwmon/nct7904-go/internal/smbus"
)

// Detect probes the identification registers and reports whether an
// NCT7904D answers on the bus. The chip matches only if the vendor,
// chip and device-ID registers hold their fixed values and the
// bank-select register's upper bits read back zero. Any mismatch is
// ErrNotDetected; no state is retained either way.
func Detect(ctx context.Context, bus smbus.Bus) error {
	vendor, err := bus.ReadByteData(ctx, RegVendorID)
	if err != nil {
		return fmt.Errorf("nct7904: read vendor id: %w", err)
	}
	if vendor != VendorNuvoton {
		return fmt.Errorf("%w: vendor id 0x%02x", ErrNotDetected, vendor)
	}

	chip, err := bus.ReadByteData(ctx, RegChipID)
	if err != nil {
		return fmt.Errorf("nct7904: read chip id: %w", err)
	}
	if chip != ChipNCT7904 {
		return fmt.Errorf("%w: chip id 0x%02x", ErrNotDetected, chip)
	}

	dev, err := bus.ReadByteData(ctx, RegDeviceID)
	if err != nil {
		return fmt.Errorf("nct7904: read device id: %w", err)
	}
	if dev&0xF0 != DeviceIDHighNCT {
		return fmt.Errorf("%w: device id 0x%02x", ErrNotDetected, dev)
	}

	bank, err := bus.ReadByteData(ctx, RegBankSel)
	if err != nil {
		return fmt.Errorf("nct7904: read bank select: %w", err)
	}
	if bank&0xF8 != 0 {
		return fmt.Errorf("%w: bank select 0x%02x", ErrNotDetected, bank)
	}

	return nil
}
