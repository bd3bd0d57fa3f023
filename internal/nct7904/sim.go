package nct7904

import (
	"context"
	"fmt"
	"sync"
)

// Sim is an in-memory NCT7904D behind the smbus.Bus interface: five
// register pages selected through the bank-select register, with the
// identification registers decoding on every page. It backs the
// daemon's --mock mode and the driver tests.
type Sim struct {
	mu    sync.Mutex
	pages [BankMax + 1]map[byte]byte
	bank  byte

	failRead  bool
	failWrite bool
	// failRegs fails reads of specific registers, keyed by page<<8|reg.
	failRegs map[uint16]bool

	bankSelects int
	reads       int
	writes      int
}

// NewSim creates a simulated chip with all four fans, twelve voltage
// inputs, the four TR groups plus the local diode, and PECI DTS on
// channels 5-8 populated with steady sample values.
func NewSim() *Sim {
	s := &Sim{failRegs: make(map[uint16]bool)}
	for i := range s.pages {
		s.pages[i] = make(map[byte]byte)
	}
	p0 := s.pages[Bank0]

	// Fans 0-3 enabled (mask is byte-swapped on read).
	p0[RegFanInCtrl0] = 0x0F
	p0[RegFanInCtrl1] = 0x00
	// Voltage slots 0-11; TR1-TR4 enable patterns live in the same
	// ctrl0 byte.
	p0[RegVTADCCtrl0] = 0xFF
	p0[RegVTADCCtrl1] = 0x0F
	p0[RegVTADCCtrl2] = 0x02 // LTD
	p0[RegVTADCMode] = 0xFF  // every TR pin in temperature mode
	p0[RegDTSTCtrl0] = 0x0F  // DTS channels 5-8 present

	// Samples: ~1.286 V on every enabled voltage slot, 1000 RPM on
	// every fan, 25 °C on the TR groups and DTS, 30 °C on the diode.
	for slot := 0; slot < 12; slot++ {
		s.setPair(Bank0, RegVSen1HV+byte(slot)*2, 0x50, 0x03)
	}
	for ch := 0; ch < 4; ch++ {
		s.setPair(Bank0, RegFanIn1HV+byte(ch)*2, 0x2A, 0x06)
		s.setPair(Bank0, RegTempCh1HV+byte(ch)*4, 0x19, 0x00)
		s.setPair(Bank0, RegTCPU1HV+byte(ch)*2, 0x19, 0x00)
	}
	s.setPair(Bank0, RegLTDHV, 0x1E, 0x00)

	s.pages[Bank2][RegPECIEnable] = 0x80

	p3 := s.pages[Bank3]
	// Channel 1 has no automatic mode; the rest boot in auto.
	p3[RegFanCtlMode+0] = 0x01
	p3[RegFanCtlMode+1] = 0x00
	p3[RegFanCtlMode+2] = 0x02
	p3[RegFanCtlMode+3] = 0x01
	for ch := 0; ch < PWMChannels; ch++ {
		p3[RegFanCtlOut+byte(ch)] = 0x80
	}
	return s
}

func (s *Sim) setPair(bank int, reg, hi, lo byte) {
	s.pages[bank][reg] = hi
	s.pages[bank][reg+1] = lo
}

// SetReg sets a register on a page. For tests.
func (s *Sim) SetReg(bank int, reg, val byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[bank][reg] = val
}

// SetPair sets an HV/LV register pair from a raw 16-bit value, high
// byte at reg. For tests.
func (s *Sim) SetPair(bank int, reg byte, raw uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPair(bank, reg, byte(raw>>8), byte(raw))
}

// SetFailRead makes every read fail until cleared.
func (s *Sim) SetFailRead(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRead = fail
}

// SetFailWrite makes every write fail until cleared. Bank-select
// writes fail too, which is how tests exercise the unknown-bank path.
func (s *Sim) SetFailWrite(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrite = fail
}

// FailReg makes reads of one register on one page fail until cleared.
func (s *Sim) FailReg(bank int, reg byte, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := uint16(bank)<<8 | uint16(reg)
	if fail {
		s.failRegs[key] = true
	} else {
		delete(s.failRegs, key)
	}
}

// BankSelects returns how many bank-select transactions have reached
// the chip.
func (s *Sim) BankSelects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bankSelects
}

// Reads returns the number of read transactions issued.
func (s *Sim) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Writes returns the number of write transactions issued, including
// bank selects.
func (s *Sim) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Sim) ReadByteData(ctx context.Context, reg byte) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.failRead {
		return 0, fmt.Errorf("sim: read failure configured")
	}
	// Identification and bank-select decode on every page.
	switch reg {
	case RegVendorID:
		return VendorNuvoton, nil
	case RegChipID:
		return ChipNCT7904, nil
	case RegDeviceID:
		return DeviceIDHighNCT | 0x03, nil
	case RegBankSel:
		return s.bank, nil
	}
	if s.failRegs[uint16(s.bank)<<8|uint16(reg)] {
		return 0, fmt.Errorf("sim: read failure at bank %d reg 0x%02x", s.bank, reg)
	}
	return s.pages[s.bank][reg], nil
}

func (s *Sim) WriteByteData(ctx context.Context, reg byte, val byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.failWrite {
		return fmt.Errorf("sim: write failure configured")
	}
	if reg == RegBankSel {
		if val > BankMax {
			return fmt.Errorf("sim: invalid bank %d", val)
		}
		s.bank = val
		s.bankSelects++
		return nil
	}
	s.pages[s.bank][reg] = val
	return nil
}

// Close is a no-op for the simulator.
func (s *Sim) Close() error { return nil }
