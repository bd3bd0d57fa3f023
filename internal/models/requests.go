package models

// PWMUpdate is a partial update of one fan output. Nil fields are left
// untouched.
type PWMUpdate struct {
	Duty   *int `json:"duty,omitempty"`
	Enable *int `json:"enable,omitempty"`
}

// Validate rejects out-of-range fields before anything reaches the bus.
func (u *PWMUpdate) Validate() *AppError {
	if u.Duty == nil && u.Enable == nil {
		return ErrBadRequest("update must set duty or enable")
	}
	if u.Duty != nil && (*u.Duty < 0 || *u.Duty > 255) {
		return ErrBadRequest("duty must be 0-255")
	}
	if u.Enable != nil && (*u.Enable < 1 || *u.Enable > 2) {
		return ErrBadRequest("enable must be 1 (manual) or 2 (automatic)")
	}
	return nil
}
