package monitor_test

import (
	"context"
	"testing"
	"time"

	"github.com/openhwmon/nct7904-go/internal/events"
	"github.com/openhwmon/nct7904-go/internal/models"
	"github.com/openhwmon/nct7904-go/internal/monitor"
	"github.com/openhwmon/nct7904-go/internal/nct7904"
)

func intp(v int) *int { return &v }

func newTestMonitor(t *testing.T) (*monitor.Monitor, *nct7904.Sim, *events.Bus) {
	t.Helper()
	sim := nct7904.NewSim()
	dev, err := nct7904.New(context.Background(), sim)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bus := events.NewBus()
	return monitor.New(dev, bus, time.Second), sim, bus
}

func TestPollSnapshot(t *testing.T) {
	m, _, _ := newTestMonitor(t)

	if err := m.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	st := m.State()

	// The sim populates 12 voltage slots, 4 fans, TR1-4 + LTD + 4 DTS.
	if len(st.Voltages) != 12 {
		t.Errorf("got %d voltage readings, want 12", len(st.Voltages))
	}
	if len(st.Fans) != 4 {
		t.Errorf("got %d fan readings, want 4", len(st.Fans))
	}
	if len(st.Temps) != 9 {
		t.Errorf("got %d temp readings, want 9", len(st.Temps))
	}
	if len(st.PWMs) != nct7904.PWMChannels {
		t.Errorf("got %d pwm states, want %d", len(st.PWMs), nct7904.PWMChannels)
	}

	if st.Voltages[0].Millivolts != 1286 {
		t.Errorf("in1 = %d mV, want 1286", st.Voltages[0].Millivolts)
	}
	if st.Fans[0].RPM != 1000 {
		t.Errorf("fan1 = %d rpm, want 1000", st.Fans[0].RPM)
	}
	if st.Temps[4].Label != "ltd" || st.Temps[4].Millidegrees != 30000 {
		t.Errorf("ltd = %+v, want 30000 m°C", st.Temps[4])
	}
	if st.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
}

func TestPollPublishes(t *testing.T) {
	m, _, bus := newTestMonitor(t)
	ch := bus.Subscribe("test")
	defer bus.Unsubscribe("test")

	if err := m.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	select {
	case st := <-ch:
		if len(st.Fans) == 0 {
			t.Error("published snapshot has no fans")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no snapshot published")
	}
}

func TestPollFailureKeepsPreviousState(t *testing.T) {
	m, sim, _ := newTestMonitor(t)
	ctx := context.Background()

	if err := m.Poll(ctx); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	before := m.State()

	sim.SetFailRead(true)
	if err := m.Poll(ctx); err == nil {
		t.Fatal("expected poll to fail")
	}
	sim.SetFailRead(false)

	after := m.State()
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("failed poll replaced the previous snapshot")
	}
}

func TestSetPWM(t *testing.T) {
	m, _, _ := newTestMonitor(t)
	ctx := context.Background()
	if err := m.Poll(ctx); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	st, appErr := m.SetPWM(ctx, 2, models.PWMUpdate{Duty: intp(64), Enable: intp(1)})
	if appErr != nil {
		t.Fatalf("SetPWM: %v", appErr)
	}
	pwm := st.PWMs[2]
	if pwm.Duty != 64 || pwm.Enable != 1 {
		t.Errorf("pwm2 = %+v, want duty 64 enable 1", pwm)
	}
}

func TestSetPWMValidation(t *testing.T) {
	m, sim, _ := newTestMonitor(t)
	ctx := context.Background()

	writesBefore := sim.Writes()
	tests := []struct {
		name   string
		ch     int
		upd    models.PWMUpdate
		status int
	}{
		{"duty out of range", 0, models.PWMUpdate{Duty: intp(256)}, 400},
		{"empty update", 0, models.PWMUpdate{}, 400},
		{"unknown channel", 9, models.PWMUpdate{Duty: intp(1)}, 404},
		{"auto without mode", 1, models.PWMUpdate{Enable: intp(2)}, 400},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, appErr := m.SetPWM(ctx, tc.ch, tc.upd)
			if appErr == nil {
				t.Fatal("expected error")
			}
			if appErr.Status != tc.status {
				t.Errorf("status = %d, want %d", appErr.Status, tc.status)
			}
		})
	}
	if got := sim.Writes(); got != writesBefore {
		t.Errorf("rejected updates issued %d bus writes", got-writesBefore)
	}
}

func TestSetPWMBusFailure(t *testing.T) {
	m, sim, _ := newTestMonitor(t)
	ctx := context.Background()

	sim.SetFailWrite(true)
	_, appErr := m.SetPWM(ctx, 0, models.PWMUpdate{Duty: intp(128)})
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Status != 502 {
		t.Errorf("status = %d, want 502 for a transport failure", appErr.Status)
	}
}
