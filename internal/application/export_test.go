package application

import "time"

// SetNow overrides the service clock for deterministic tests.
func SetNow(s *Service, fn func() time.Time) {
	s.nowFn = fn
}
