package nct7904

import "context"

// Kind identifies a sensor class.
type Kind int

const (
	Voltage Kind = iota
	Fan
	Temp
	PWM
)

func (k Kind) String() string {
	switch k {
	case Voltage:
		return "voltage"
	case Fan:
		return "fan"
	case Temp:
		return "temp"
	case PWM:
		return "pwm"
	}
	return "unknown"
}

// Attr selects which attribute of a channel an operation targets.
type Attr int

const (
	// Input is the measured value: millivolts, RPM, millidegrees, or
	// PWM duty 0-255.
	Input Attr = iota

	// Enable is the PWM mode control: 1 = manual, 2 = automatic.
	Enable
)

// Visibility of a (kind, attribute, channel) triple on this chip
// instance.
type Visibility int

const (
	Hidden Visibility = iota
	ReadOnly
	ReadWrite
)

// Read returns the current value of a channel attribute. Unsupported
// combinations return ErrNotSupported without touching the bus.
func (d *Device) Read(ctx context.Context, kind Kind, attr Attr, channel int) (int, error) {
	switch kind {
	case Voltage:
		return d.readVoltage(ctx, attr, channel)
	case Fan:
		return d.readFan(ctx, attr, channel)
	case Temp:
		return d.readTemp(ctx, attr, channel)
	case PWM:
		return d.readPWM(ctx, attr, channel)
	}
	return 0, ErrNotSupported
}

// Write sets a channel attribute. Only PWM duty and PWM enable are
// writable; invalid values are rejected before any bus transaction.
func (d *Device) Write(ctx context.Context, kind Kind, attr Attr, channel int, value int) error {
	if kind != PWM {
		return ErrNotSupported
	}
	return d.writePWM(ctx, attr, channel, value)
}

// Visibility reports whether a channel attribute is absent, readable,
// or writable on this chip instance. It consults only the capability
// masks; no bus transaction is issued.
func (d *Device) Visibility(kind Kind, attr Attr, channel int) Visibility {
	switch kind {
	case Voltage:
		// Channel 0 is the reserved remap slot.
		if attr == Input && channel > 0 && channel < VoltageChannels &&
			d.caps.VSen&(1<<voltageChanToSlot[channel]) != 0 {
			return ReadOnly
		}
	case Fan:
		if attr == Input && channel >= 0 && channel < FanChannels &&
			d.caps.FanIn&(1<<channel) != 0 {
			return ReadOnly
		}
	case Temp:
		if attr != Input || channel < 0 || channel >= TempChannels {
			return Hidden
		}
		if channel < 5 {
			if d.caps.TCPU&(1<<channel) != 0 {
				return ReadOnly
			}
		} else if d.caps.DTS&(1<<(channel-5)) != 0 {
			return ReadOnly
		}
	case PWM:
		// The four PWM outputs are fixed hardware, not conditionally
		// populated, so they are always writable.
		if (attr == Input || attr == Enable) && channel >= 0 && channel < PWMChannels {
			return ReadWrite
		}
	}
	return Hidden
}

func (d *Device) readVoltage(ctx context.Context, attr Attr, channel int) (int, error) {
	if attr != Input || channel <= 0 || channel >= VoltageChannels {
		return 0, ErrNotSupported
	}
	slot := voltageChanToSlot[channel]
	raw, err := d.read16(ctx, Bank0, RegVSen1HV+byte(slot)*2)
	if err != nil {
		return 0, err
	}
	return MillivoltsFromRaw(raw, slot), nil
}

func (d *Device) readFan(ctx context.Context, attr Attr, channel int) (int, error) {
	if attr != Input || channel < 0 || channel >= FanChannels {
		return 0, ErrNotSupported
	}
	raw, err := d.read16(ctx, Bank0, RegFanIn1HV+byte(channel)*2)
	if err != nil {
		return 0, err
	}
	return FanRPMFromRaw(raw), nil
}

func (d *Device) readTemp(ctx context.Context, attr Attr, channel int) (int, error) {
	if attr != Input || channel < 0 || channel >= TempChannels {
		return 0, ErrNotSupported
	}
	var (
		raw uint16
		err error
	)
	switch {
	case channel == 4:
		raw, err = d.read16(ctx, Bank0, RegLTDHV)
	case channel < 4:
		raw, err = d.read16(ctx, Bank0, RegTempCh1HV+byte(channel)*4)
	default:
		raw, err = d.read16(ctx, Bank0, RegTCPU1HV+byte(channel-5)*2)
	}
	if err != nil {
		return 0, err
	}
	return MillidegFromRaw(raw), nil
}

func (d *Device) readPWM(ctx context.Context, attr Attr, channel int) (int, error) {
	if channel < 0 || channel >= PWMChannels {
		return 0, ErrNotSupported
	}
	switch attr {
	case Input:
		v, err := d.read8(ctx, Bank3, RegFanCtlOut+byte(channel))
		if err != nil {
			return 0, err
		}
		return int(v), nil
	case Enable:
		v, err := d.read8(ctx, Bank3, RegFanCtlMode+byte(channel))
		if err != nil {
			return 0, err
		}
		if v != 0 {
			return 2, nil
		}
		return 1, nil
	}
	return 0, ErrNotSupported
}

func (d *Device) writePWM(ctx context.Context, attr Attr, channel int, value int) error {
	if channel < 0 || channel >= PWMChannels {
		return ErrNotSupported
	}
	switch attr {
	case Input:
		if value < 0 || value > 255 {
			return ErrInvalidValue
		}
		return d.write8(ctx, Bank3, RegFanCtlOut+byte(channel), byte(value))
	case Enable:
		// 2 (automatic) needs a stored nonzero mode byte to return to.
		if value < 1 || value > 2 || (value == 2 && d.caps.FanMode[channel] == 0) {
			return ErrInvalidValue
		}
		mode := byte(0)
		if value == 2 {
			mode = d.caps.FanMode[channel]
		}
		return d.write8(ctx, Bank3, RegFanCtlMode+byte(channel), mode)
	}
	return ErrNotSupported
}
