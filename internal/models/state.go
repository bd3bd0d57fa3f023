// Package models defines the types shared by the monitor, the HTTP API
// and the config store.
package models

import "time"

// VoltageReading is one voltage input sample.
type VoltageReading struct {
	Channel    int    `json:"channel"`
	Label      string `json:"label"`
	Millivolts int    `json:"millivolts"`
}

// FanReading is one fan tachometer sample. A stalled or disconnected
// fan reads 0 RPM.
type FanReading struct {
	Channel int    `json:"channel"`
	Label   string `json:"label"`
	RPM     int    `json:"rpm"`
}

// TempReading is one temperature sample in thousandths of a degree
// Celsius.
type TempReading struct {
	Channel      int    `json:"channel"`
	Label        string `json:"label"`
	Millidegrees int    `json:"millidegrees"`
}

// PWMState is the control state of one fan output. Enable is 1 for
// manual duty control, 2 for the chip's automatic algorithm.
type PWMState struct {
	Channel int `json:"channel"`
	Duty    int `json:"duty"`
	Enable  int `json:"enable"`
}

// State is a snapshot of every populated channel, as of UpdatedAt.
type State struct {
	Voltages  []VoltageReading `json:"voltages"`
	Fans      []FanReading     `json:"fans"`
	Temps     []TempReading    `json:"temps"`
	PWMs      []PWMState       `json:"pwms"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Info describes the monitored chip and the daemon serving it.
type Info struct {
	Model    string `json:"model"`
	Vendor   string `json:"vendor"`
	Bus      string `json:"bus"`
	Hostname string `json:"hostname"`
	Version  string `json:"version"`
	Mock     bool   `json:"mock"`
}
