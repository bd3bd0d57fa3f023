package nct7904

import "testing"

func TestMillivoltsFromRaw(t *testing.T) {
	tests := []struct {
		raw  uint16
		slot int
		mv   int
	}{
		{0x5003, 0, 1286},  // sample 643, 2 mV scale
		{0x5003, 13, 1286}, // last 2 mV slot
		{0x5003, 14, 3858}, // first 6 mV slot
		{0x0000, 0, 0},
		{0xFF07, 13, 4094}, // full-scale 11-bit sample
	}
	for _, tc := range tests {
		if got := MillivoltsFromRaw(tc.raw, tc.slot); got != tc.mv {
			t.Errorf("MillivoltsFromRaw(0x%04X, %d) = %d, want %d", tc.raw, tc.slot, got, tc.mv)
		}
	}
}

func TestFanRPMFromRaw(t *testing.T) {
	tests := []struct {
		raw uint16
		rpm int
	}{
		{0xFF1F, 0},    // saturated count 0x1FFF: stalled
		{0x2A06, 1000}, // count 1350
		{0x0001, 1350000},
		{0x0000, 0}, // no sample yet
	}
	for _, tc := range tests {
		if got := FanRPMFromRaw(tc.raw); got != tc.rpm {
			t.Errorf("FanRPMFromRaw(0x%04X) = %d, want %d", tc.raw, got, tc.rpm)
		}
	}
}

func TestMillidegFromRaw(t *testing.T) {
	tests := []struct {
		raw uint16
		mc  int
	}{
		{0xFF07, -125}, // sample 0x7FF sign-extends to -1
		{0x0001, 125},
		{0x1900, 25000},
		{0x1E00, 30000},
		{0x0000, 0},
		{0x8000, -128000}, // most negative 11-bit sample
	}
	for _, tc := range tests {
		if got := MillidegFromRaw(tc.raw); got != tc.mc {
			t.Errorf("MillidegFromRaw(0x%04X) = %d, want %d", tc.raw, got, tc.mc)
		}
	}
}

func TestVoltageChanToSlot(t *testing.T) {
	// The upper channels are remapped around reserved slots.
	tests := []struct {
		channel int
		slot    int
	}{
		{1, 0},
		{16, 15},
		{17, 18},
		{18, 19},
		{19, 20},
		{20, 16},
	}
	for _, tc := range tests {
		if got := voltageChanToSlot[tc.channel]; got != tc.slot {
			t.Errorf("voltageChanToSlot[%d] = %d, want %d", tc.channel, got, tc.slot)
		}
	}
}
