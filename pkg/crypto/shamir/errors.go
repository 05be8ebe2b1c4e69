package shamir

import (
	"errors"

	"github.com/Davincible/sss/pkg/crypto/gf256"
)

var (
	// ErrInvalidThreshold means the threshold is below the minimum or exceeds the part count.
	ErrInvalidThreshold = errors.New("shamir: invalid threshold")
	// ErrInvalidPartCount means the part count is below one or above MaxParts.
	ErrInvalidPartCount = errors.New("shamir: invalid part count")
	// ErrEmptySecret means Split was given a zero-length secret.
	ErrEmptySecret = errors.New("shamir: secret cannot be empty")
	// ErrTooFewShares means fewer than two shares were supplied.
	ErrTooFewShares = errors.New("shamir: at least 2 shares are required")
	// ErrShareTooShort means a share has no room for both a value and a coordinate.
	ErrShareTooShort = errors.New("shamir: share is too short")
	// ErrShareLengthMismatch means the supplied shares do not all have the same length.
	ErrShareLengthMismatch = errors.New("shamir: share length mismatch")
	// ErrZeroCoordinate means a share carries the forbidden x-coordinate 0.
	ErrZeroCoordinate = errors.New("shamir: share has zero x-coordinate")
	// ErrDuplicateCoordinate means two shares carry the same x-coordinate, or
	// coordinate sampling could not find enough distinct values.
	ErrDuplicateCoordinate = errors.New("shamir: duplicate x-coordinate")
	// ErrDivideByZero is the field error surfaced if interpolation ever divides
	// by zero. Share validation makes it unreachable from Combine.
	ErrDivideByZero = gf256.ErrDivideByZero
)
