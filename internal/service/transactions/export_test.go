package transactions

import "time"

// SetClock replaces the clock used for date stamping.
func SetClock(s *Service, now func() time.Time) {
	s.now = now
}
