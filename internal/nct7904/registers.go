package nct7904

// Register map for the NCT7904D. The chip is bank-switched: writing the
// bank-select register picks one of five pages, and only registers on
// the active page are reachable. The identification registers and the
// bank-select register itself decode on every page.
const (
	RegVendorID = 0x7A // any bank
	RegChipID   = 0x7B // any bank
	RegDeviceID = 0x7C // any bank
	RegBankSel  = 0xFF // any bank

	VendorNuvoton   = 0x50
	ChipNCT7904     = 0xC5
	DeviceIDHighNCT = 0x50 // high nibble of the device ID register
)

// Banks. BankMax is the highest valid page.
const (
	Bank0 = 0
	Bank1 = 1
	Bank2 = 2
	Bank3 = 3
	Bank4 = 4

	BankMax = 4
)

// Bank 0: ADC control and sample registers. All sample registers are
// HV/LV pairs: high byte at the listed address, low byte at address+1.
const (
	RegVTADCCtrl0 = 0x20
	RegVTADCCtrl1 = 0x21
	RegVTADCCtrl2 = 0x22
	RegFanInCtrl0 = 0x24
	RegFanInCtrl1 = 0x25
	RegDTSTCtrl0  = 0x26
	RegDTSTCtrl1  = 0x27
	RegVTADCMode  = 0x2E // multi-function pin select, 2 bits per TR group

	RegVSen1HV   = 0x40 // 2 regs per sensor, 21 slots
	RegTempCh1HV = 0x42 // on-die TR groups, 4-byte stride
	RegLTDHV     = 0x62 // local diode pair
	RegFanIn1HV  = 0x80 // fan tach, 2 regs per channel
	RegTCPU1HV   = 0xA0 // DTS/CPU temps, 2 regs per channel
)

// Bank 2: PECI / TSI control.
const (
	RegPECIEnable = 0x00 // bit 7 enables DTS via PECI
	RegTSICtrl    = 0x50 // bit 7 enables DTS via TSI
)

// Bank 3: fan control. One register per PWM channel.
const (
	RegFanCtlMode = 0x00 // fan mode (FMR); 0 = manual, nonzero = auto algorithm
	RegFanCtlOut  = 0x10 // output duty cycle, 0-255
)

// Exposed channel counts. The hardware has 12 tach inputs but only the
// first 8 are exposed here; FanChannels is the single place to widen
// that if a board wires the upper inputs.
const (
	VoltageChannels = 21 // logical channels; channel 0 is reserved
	FanChannels     = 8
	FanChannelsMax  = 12
	TempChannels    = 9 // 4 on-die TR groups, LTD, 4 DTS
	PWMChannels     = 4
)

// voltageChanToSlot maps a logical voltage channel to its physical VSEN
// register slot. Slots are not contiguous with channel numbers: the
// upper slots are reserved or shared with multi-function pins, so
// channels 17-20 land on slots 18, 19, 20 and 16.
var voltageChanToSlot = [VoltageChannels]int{
	0, // channel 0 reserved
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	18, 19, 20, 16,
}

// fanCountFull is the saturated 13-bit tach count reported for a
// stalled or disconnected fan.
const fanCountFull = 0x1FFF

// fanClockHz converts a tach count to RPM: rpm = fanClockHz / count.
const fanClockHz = 1350000

// sample11 extracts the 11-bit ADC sample packed across an HV/LV pair:
// the high byte carries sample bits 10..3, the low register's bottom
// three bits carry bits 2..0.
func sample11(raw uint16) int {
	return int((raw&0xFF00)>>5 | raw&0x7)
}

// MillivoltsFromRaw decodes a VSEN register pair into millivolts.
// Slots below 14 sample at 2 mV per count, the rest at 6 mV per count.
func MillivoltsFromRaw(raw uint16, slot int) int {
	v := sample11(raw)
	if slot < 14 {
		return v * 2
	}
	return v * 6
}

// FanRPMFromRaw decodes a fan tach register pair into RPM. The 13-bit
// count spans the high byte and the low register's bottom five bits. A
// saturated count means the fan is stalled and reads as 0 RPM; a zero
// count (no valid sample yet) is treated the same way rather than
// dividing by zero.
func FanRPMFromRaw(raw uint16) int {
	cnt := int((raw&0xFF00)>>3 | raw&0x1F)
	if cnt == fanCountFull || cnt == 0 {
		return 0
	}
	return fanClockHz / cnt
}

// MillidegFromRaw decodes a temperature register pair into thousandths
// of a degree Celsius. The 11-bit sample is two's complement with
// 0.125 °C resolution.
func MillidegFromRaw(raw uint16) int {
	t := sample11(raw)
	if t&0x400 != 0 {
		t -= 0x800
	}
	return t * 125
}
