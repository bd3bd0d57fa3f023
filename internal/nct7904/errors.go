package nct7904

import "errors"

// Sentinel errors returned by the driver. Transport failures from the
// underlying bus are wrapped and propagated as-is; everything below is
// decided before any bus transaction.
var (
	// ErrNotSupported means the (kind, attribute) pair has no decoder
	// or the channel is outside the exposed range.
	ErrNotSupported = errors.New("nct7904: not supported")

	// ErrInvalidValue means a write value is out of range, or automatic
	// mode was requested on a channel with no stored auto mode.
	ErrInvalidValue = errors.New("nct7904: invalid value")

	// ErrNotDetected means the identification registers did not match
	// an NCT7904D.
	ErrNotDetected = errors.New("nct7904: chip not detected")
)
