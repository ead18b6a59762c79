package almanac

import (
	"errors"

	"github.com/chrissnell/astrocalc/pkg/ephemeris"
)

// ErrInvalidDate is returned when a target date cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// Stages of a report computation, used in StageError.
const (
	StagePosition = "position"
	StageSolstice = "solstice"
)

// StageError reports a provider failure while computing one stage of a report.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by caller input rather than by
// the ephemeris.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidDate) || errors.Is(err, ephemeris.ErrInvalidObserver)
}
