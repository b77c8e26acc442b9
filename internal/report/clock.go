package report

import "github.com/jonboulle/clockwork"

// clock is the time source for report metadata so tests can freeze the
// generation timestamp via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by NewMeta. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
