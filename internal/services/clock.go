package services

import "time"

// Clock supplies the current instant. Injected so time-dependent behavior is
// testable without wall-clock waits.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func SystemClock() Clock { return systemClock{} }
