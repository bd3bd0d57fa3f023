package models_test

import (
	"testing"

	"github.com/openhwmon/nct7904-go/internal/models"
)

func intp(v int) *int { return &v }

func TestPWMUpdateValidate(t *testing.T) {
	tests := []struct {
		name string
		upd  models.PWMUpdate
		ok   bool
	}{
		{"duty only", models.PWMUpdate{Duty: intp(128)}, true},
		{"enable only", models.PWMUpdate{Enable: intp(1)}, true},
		{"both", models.PWMUpdate{Duty: intp(0), Enable: intp(2)}, true},
		{"empty", models.PWMUpdate{}, false},
		{"duty too high", models.PWMUpdate{Duty: intp(256)}, false},
		{"duty negative", models.PWMUpdate{Duty: intp(-1)}, false},
		{"enable zero", models.PWMUpdate{Enable: intp(0)}, false},
		{"enable three", models.PWMUpdate{Enable: intp(3)}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.upd.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tc.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestAppErrorStatus(t *testing.T) {
	if got := models.ErrBadRequest("x").Status; got != 400 {
		t.Errorf("bad request status = %d, want 400", got)
	}
	if got := models.ErrBusFailure("x").Status; got != 502 {
		t.Errorf("bus failure status = %d, want 502", got)
	}
}
