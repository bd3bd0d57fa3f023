package nct7904

import "context"

// DTSMode says which remote temperature protocol populates the DTS
// channels, if any.
type DTSMode uint8

const (
	DTSNone DTSMode = 0x0
	DTSPECI DTSMode = 0x1
	DTSTSI  DTSMode = 0x3
)

// Caps describes which sensor channels are populated on this chip
// instance. Computed once at attach time from the bank 0/2/3 control
// registers and never mutated afterwards, so it is safe to read without
// holding the device lock.
type Caps struct {
	// FanIn has one bit per tach channel.
	FanIn uint32

	// VSen has one bit per physical VSEN slot (21 meaningful bits).
	VSen uint32

	// TCPU bits 0-3 are the on-die TR reporter groups, bit 4 the local
	// diode (LTD).
	TCPU uint32

	// DTS has one bit per remote/CPU temperature channel. Only nonzero
	// when DTSEnable is not DTSNone.
	DTS uint8

	// FanMode holds the raw bank 3 fan mode byte per PWM channel, as
	// read at attach time. A zero byte means the channel has no
	// automatic mode to return to.
	FanMode [PWMChannels]byte

	// DTSEnable records which remote protocol, if any, is active.
	DTSEnable DTSMode
}

// swapHalves swaps the two bytes of a 16-bit control value. The chip
// stores the low channels in the second control register, so the
// big-endian read16 result needs its halves exchanged to index the
// mask by channel number.
func swapHalves(v uint16) uint32 {
	return uint32(v>>8 | (v&0xFF)<<8)
}

// readCaps reads the control registers that determine which channels
// exist. Runs during New, before the device is handed to any caller.
func (d *Device) readCaps(ctx context.Context) (Caps, error) {
	var caps Caps

	raw, err := d.read16(ctx, Bank0, RegFanInCtrl0)
	if err != nil {
		return Caps{}, err
	}
	caps.FanIn = swapHalves(raw)

	// Voltage inputs: 16 low slots from ctrl0/1, upper slots from
	// ctrl2. The VSEN slots overlap the external temperature pins, so
	// a slot may be claimed here yet repurposed by the TR/TD config
	// below. These two reads are the only probe reads tolerated
	// failing: a failure leaves the affected mask bits clear instead
	// of aborting the attach.
	var mask uint32
	if raw, err := d.read16(ctx, Bank0, RegVTADCCtrl0); err == nil {
		mask = swapHalves(raw)
	}
	if v, err := d.read8(ctx, Bank0, RegVTADCCtrl2); err == nil {
		mask |= uint32(v) << 16
	}
	caps.VSen = mask

	// On-die TR reporter groups: fixed bit patterns across adjacent
	// ctrl0 bits.
	ctrl0, err := d.read8(ctx, Bank0, RegVTADCCtrl0)
	if err != nil {
		return Caps{}, err
	}
	if ctrl0&0x06 == 0x06 {
		caps.TCPU |= 1 << 0 // TR1
	}
	if ctrl0&0x18 == 0x18 {
		caps.TCPU |= 1 << 1 // TR2
	}
	if ctrl0&0x20 == 0x20 {
		caps.TCPU |= 1 << 2 // TR3
	}
	if ctrl0&0x80 == 0x80 {
		caps.TCPU |= 1 << 3 // TR4
	}

	// Local diode.
	ctrl2, err := d.read8(ctx, Bank0, RegVTADCCtrl2)
	if err != nil {
		return Caps{}, err
	}
	if ctrl2&0x02 == 0x02 {
		caps.TCPU |= 1 << 4
	}

	// Multi-function pins: a TR group whose 2-bit mode field is zero
	// is wired for something other than temperature, regardless of the
	// enables above.
	mf, err := d.read8(ctx, Bank0, RegVTADCMode)
	if err != nil {
		return Caps{}, err
	}
	for i := 0; i < 4; i++ {
		if mf>>(2*i)&0x3 == 0 {
			caps.TCPU &^= 1 << i
		}
	}

	// DTS channels only exist when PECI or TSI is enabled.
	pfe, err := d.read8(ctx, Bank2, RegPECIEnable)
	if err != nil {
		return Caps{}, err
	}
	if pfe&0x80 != 0 {
		caps.DTSEnable = DTSPECI
	} else {
		tsi, err := d.read8(ctx, Bank2, RegTSICtrl)
		if err != nil {
			return Caps{}, err
		}
		if tsi&0x80 != 0 {
			caps.DTSEnable = DTSTSI
		}
	}
	if caps.DTSEnable != DTSNone {
		c0, err := d.read8(ctx, Bank0, RegDTSTCtrl0)
		if err != nil {
			return Caps{}, err
		}
		caps.DTS = c0 & 0xF
		if caps.DTSEnable == DTSTSI {
			c1, err := d.read8(ctx, Bank0, RegDTSTCtrl1)
			if err != nil {
				return Caps{}, err
			}
			caps.DTS |= (c1 & 0xF) << 4
		}
	}

	// Stash the fan mode bytes for the PWM enable write path.
	for i := 0; i < PWMChannels; i++ {
		mode, err := d.read8(ctx, Bank3, RegFanCtlMode+byte(i))
		if err != nil {
			return Caps{}, err
		}
		caps.FanMode[i] = mode
	}

	return caps, nil
}
