package nct7904

import (
	"context"
	"errors"
	"testing"
)

func newTestDevice(t *testing.T) (*Device, *Sim) {
	t.Helper()
	sim := NewSim()
	dev, err := New(context.Background(), sim)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return dev, sim
}

func TestBankSelectCached(t *testing.T) {
	dev, sim := newTestDevice(t)
	ctx := context.Background()

	// Force the cache onto bank 0.
	if _, err := dev.Read(ctx, Fan, Input, 0); err != nil {
		t.Fatalf("fan read: %v", err)
	}
	before := sim.BankSelects()

	// Two more bank 0 reads must not issue any page-select transaction.
	for i := 0; i < 2; i++ {
		if _, err := dev.Read(ctx, Fan, Input, 0); err != nil {
			t.Fatalf("fan read %d: %v", i, err)
		}
	}
	if got := sim.BankSelects(); got != before {
		t.Errorf("bank selects went %d -> %d on same-bank reads, want no change", before, got)
	}

	// A bank 3 read switches exactly once.
	if _, err := dev.Read(ctx, PWM, Input, 0); err != nil {
		t.Fatalf("pwm read: %v", err)
	}
	if got := sim.BankSelects(); got != before+1 {
		t.Errorf("bank selects = %d, want %d after switching banks", got, before+1)
	}
}

func TestFailedBankSwitchInvalidatesCache(t *testing.T) {
	dev, sim := newTestDevice(t)
	ctx := context.Background()

	// Settle on bank 0.
	if _, err := dev.Read(ctx, Fan, Input, 0); err != nil {
		t.Fatalf("fan read: %v", err)
	}

	// Fail the switch to bank 3.
	sim.SetFailWrite(true)
	if _, err := dev.Read(ctx, PWM, Input, 0); err == nil {
		t.Fatal("expected pwm read to fail while writes fail")
	}
	sim.SetFailWrite(false)

	// The chip never left bank 0, but the cache is unknown now: the
	// next bank 0 read must re-assert the page.
	before := sim.BankSelects()
	if _, err := dev.Read(ctx, Fan, Input, 0); err != nil {
		t.Fatalf("fan read after recovery: %v", err)
	}
	if got := sim.BankSelects(); got != before+1 {
		t.Errorf("bank selects = %d, want %d (page must be re-asserted)", got, before+1)
	}
}

func TestRead16AbortsAfterHighByteFailure(t *testing.T) {
	dev, sim := newTestDevice(t)
	ctx := context.Background()

	// Settle on bank 0 so the failing read is the first transaction.
	if _, err := dev.Read(ctx, Fan, Input, 0); err != nil {
		t.Fatalf("fan read: %v", err)
	}

	sim.FailReg(Bank0, RegFanIn1HV, true)
	before := sim.Reads()
	if _, err := dev.Read(ctx, Fan, Input, 0); err == nil {
		t.Fatal("expected read to fail")
	}
	if got := sim.Reads(); got != before+1 {
		t.Errorf("issued %d reads after high-byte failure, want 1 (no low-byte read)", got-before)
	}
}

func TestRead16FailsOnLowByte(t *testing.T) {
	dev, sim := newTestDevice(t)
	ctx := context.Background()

	sim.FailReg(Bank0, RegFanIn1HV+1, true)
	if _, err := dev.Read(ctx, Fan, Input, 0); err == nil {
		t.Fatal("expected read to fail when the low byte fails")
	}

	// Recovery: clearing the fault yields a full value again.
	sim.FailReg(Bank0, RegFanIn1HV+1, false)
	rpm, err := dev.Read(ctx, Fan, Input, 0)
	if err != nil {
		t.Fatalf("fan read after recovery: %v", err)
	}
	if rpm != 1000 {
		t.Errorf("rpm = %d, want 1000", rpm)
	}
}

func TestRepeatedReadsAreIdempotent(t *testing.T) {
	dev, _ := newTestDevice(t)
	ctx := context.Background()

	first, err := dev.Read(ctx, Voltage, Input, 1)
	if err != nil {
		t.Fatalf("voltage read: %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := dev.Read(ctx, Voltage, Input, 1)
		if err != nil {
			t.Fatalf("voltage read %d: %v", i, err)
		}
		if got != first {
			t.Errorf("read %d = %d, want %d", i, got, first)
		}
	}
}

func TestNewFailsWhenBusDown(t *testing.T) {
	sim := NewSim()
	sim.SetFailRead(true)
	if _, err := New(context.Background(), sim); err == nil {
		t.Fatal("expected New to fail when the bus is down")
	}
}

func TestTransportErrorsPropagate(t *testing.T) {
	dev, sim := newTestDevice(t)
	ctx := context.Background()

	sim.SetFailRead(true)
	_, err := dev.Read(ctx, Temp, Input, 0)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, ErrNotSupported) || errors.Is(err, ErrInvalidValue) {
		t.Errorf("transport error was downgraded to %v", err)
	}
}
