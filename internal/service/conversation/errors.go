package conversation

import (
	"errors"
	"fmt"
	"time"
)

// ErrPersonaNotSet is returned for a turn against a session that never
// ran persona creation. No lock is acquired and no state is mutated.
var ErrPersonaNotSet = errors.New("persona not set")

// ErrGeneratorNotConfigured is returned when the service runs without
// generation credentials. Turns fail before any state is touched.
var ErrGeneratorNotConfigured = errors.New("generation provider not configured")

// BusyError rejects a turn while a previous one is still in flight.
// RetryAfter is how long until the held lock would be considered stale.
type BusyError struct {
	RetryAfter time.Duration
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("still processing previous message, retry in %s", e.RetryAfter)
}

// IsBusy reports whether err is a busy rejection and extracts it.
func IsBusy(err error) (*BusyError, bool) {
	var busy *BusyError
	if errors.As(err, &busy) {
		return busy, true
	}
	return nil, false
}
