// Package monitor owns the attached chip. It computes the populated
// channel set once at startup, polls it into state snapshots for the
// API and event bus, and carries the PWM write path.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/openhwmon/nct7904-go/internal/events"
	"github.com/openhwmon/nct7904-go/internal/models"
	"github.com/openhwmon/nct7904-go/internal/nct7904"
)

// DefaultInterval is the poll interval used when the config does not
// set one.
const DefaultInterval = 2 * time.Second

// Monitor polls an NCT7904D and serves the latest snapshot.
type Monitor struct {
	dev    *nct7904.Device
	events *events.Bus

	// Populated channel lists, fixed at construction from the chip's
	// capability masks.
	voltages []int
	fans     []int
	temps    []int

	mu       sync.RWMutex
	state    models.State
	interval time.Duration
}

// New builds a Monitor over an attached device. The visible channel
// set is derived here, once; capability masks do not change while the
// chip is powered.
func New(dev *nct7904.Device, bus *events.Bus, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m := &Monitor{
		dev:      dev,
		events:   bus,
		interval: interval,
	}
	for ch := 1; ch < nct7904.VoltageChannels; ch++ {
		if dev.Visibility(nct7904.Voltage, nct7904.Input, ch) != nct7904.Hidden {
			m.voltages = append(m.voltages, ch)
		}
	}
	for ch := 0; ch < nct7904.FanChannels; ch++ {
		if dev.Visibility(nct7904.Fan, nct7904.Input, ch) != nct7904.Hidden {
			m.fans = append(m.fans, ch)
		}
	}
	for ch := 0; ch < nct7904.TempChannels; ch++ {
		if dev.Visibility(nct7904.Temp, nct7904.Input, ch) != nct7904.Hidden {
			m.temps = append(m.temps, ch)
		}
	}
	slog.Info("monitor: channel set",
		"voltages", len(m.voltages),
		"fans", len(m.fans),
		"temps", len(m.temps),
		"pwms", nct7904.PWMChannels,
	)
	return m
}

// Run polls until ctx is cancelled. The first poll happens immediately
// so subscribers never see an empty snapshot for a full interval.
func (m *Monitor) Run(ctx context.Context) {
	if err := m.Poll(ctx); err != nil {
		slog.Warn("monitor: initial poll failed", "err", err)
	}
	for {
		m.mu.RLock()
		interval := m.interval
		m.mu.RUnlock()

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			if err := m.Poll(ctx); err != nil {
				slog.Warn("monitor: poll failed", "err", err)
			}
		}
	}
}

// SetInterval changes the poll interval. Takes effect after the next
// tick.
func (m *Monitor) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultInterval
	}
	m.mu.Lock()
	m.interval = d
	m.mu.Unlock()
	slog.Debug("monitor: poll interval set", "interval", d)
}

// Poll reads every populated channel into a fresh snapshot and
// publishes it. A single failed transaction fails the whole poll; the
// previous snapshot stays current and no retry is attempted.
func (m *Monitor) Poll(ctx context.Context) error {
	st := models.State{
		Voltages: make([]models.VoltageReading, 0, len(m.voltages)),
		Fans:     make([]models.FanReading, 0, len(m.fans)),
		Temps:    make([]models.TempReading, 0, len(m.temps)),
		PWMs:     make([]models.PWMState, 0, nct7904.PWMChannels),
	}

	for _, ch := range m.voltages {
		mv, err := m.dev.Read(ctx, nct7904.Voltage, nct7904.Input, ch)
		if err != nil {
			return fmt.Errorf("voltage channel %d: %w", ch, err)
		}
		st.Voltages = append(st.Voltages, models.VoltageReading{
			Channel:    ch,
			Label:      voltageLabel(ch),
			Millivolts: mv,
		})
	}
	for _, ch := range m.fans {
		rpm, err := m.dev.Read(ctx, nct7904.Fan, nct7904.Input, ch)
		if err != nil {
			return fmt.Errorf("fan channel %d: %w", ch, err)
		}
		st.Fans = append(st.Fans, models.FanReading{
			Channel: ch,
			Label:   fmt.Sprintf("fan%d", ch+1),
			RPM:     rpm,
		})
	}
	for _, ch := range m.temps {
		mc, err := m.dev.Read(ctx, nct7904.Temp, nct7904.Input, ch)
		if err != nil {
			return fmt.Errorf("temp channel %d: %w", ch, err)
		}
		st.Temps = append(st.Temps, models.TempReading{
			Channel:      ch,
			Label:        tempLabel(ch),
			Millidegrees: mc,
		})
	}
	for ch := 0; ch < nct7904.PWMChannels; ch++ {
		pwm, err := m.readPWM(ctx, ch)
		if err != nil {
			return fmt.Errorf("pwm channel %d: %w", ch, err)
		}
		st.PWMs = append(st.PWMs, pwm)
	}
	st.UpdatedAt = time.Now()

	m.mu.Lock()
	m.state = st
	m.mu.Unlock()
	m.events.Publish(st)
	return nil
}

// State returns the latest snapshot.
func (m *Monitor) State() models.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// PWM returns the latest state of one fan output.
func (m *Monitor) PWM(channel int) (models.PWMState, *models.AppError) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.state.PWMs {
		if p.Channel == channel {
			return p, nil
		}
	}
	return models.PWMState{}, models.ErrNotFound(fmt.Sprintf("pwm channel %d", channel))
}

// SetPWM applies a duty and/or enable update to one fan output, then
// refreshes that channel and publishes the new snapshot.
func (m *Monitor) SetPWM(ctx context.Context, channel int, upd models.PWMUpdate) (models.State, *models.AppError) {
	if appErr := upd.Validate(); appErr != nil {
		return models.State{}, appErr
	}
	if channel < 0 || channel >= nct7904.PWMChannels {
		return models.State{}, models.ErrNotFound(fmt.Sprintf("pwm channel %d", channel))
	}

	if upd.Enable != nil {
		if err := m.dev.Write(ctx, nct7904.PWM, nct7904.Enable, channel, *upd.Enable); err != nil {
			return models.State{}, appErrorFor(err)
		}
	}
	if upd.Duty != nil {
		if err := m.dev.Write(ctx, nct7904.PWM, nct7904.Input, channel, *upd.Duty); err != nil {
			return models.State{}, appErrorFor(err)
		}
	}

	pwm, err := m.readPWM(ctx, channel)
	if err != nil {
		return models.State{}, appErrorFor(err)
	}

	m.mu.Lock()
	for i := range m.state.PWMs {
		if m.state.PWMs[i].Channel == channel {
			m.state.PWMs[i] = pwm
		}
	}
	m.state.UpdatedAt = time.Now()
	st := m.state
	m.mu.Unlock()

	m.events.Publish(st)
	return st, nil
}

func (m *Monitor) readPWM(ctx context.Context, channel int) (models.PWMState, error) {
	duty, err := m.dev.Read(ctx, nct7904.PWM, nct7904.Input, channel)
	if err != nil {
		return models.PWMState{}, err
	}
	enable, err := m.dev.Read(ctx, nct7904.PWM, nct7904.Enable, channel)
	if err != nil {
		return models.PWMState{}, err
	}
	return models.PWMState{Channel: channel, Duty: duty, Enable: enable}, nil
}

// appErrorFor maps driver errors onto API errors. Transport failures
// surface as bus errors, never silently downgraded.
func appErrorFor(err error) *models.AppError {
	switch {
	case errors.Is(err, nct7904.ErrInvalidValue):
		return models.ErrBadRequest(err.Error())
	case errors.Is(err, nct7904.ErrNotSupported):
		return models.ErrNotFound(err.Error())
	default:
		return models.ErrBusFailure(err.Error())
	}
}

func voltageLabel(channel int) string {
	return fmt.Sprintf("in%d", channel)
}

func tempLabel(channel int) string {
	switch {
	case channel < 4:
		return fmt.Sprintf("tr%d", channel+1)
	case channel == 4:
		return "ltd"
	default:
		return fmt.Sprintf("dts%d", channel-4)
	}
}
