package burningship

import "time"

// GenerateEvent describes one Generate call.
type GenerateEvent struct {
	Width, Height uint32
	Viewport      Viewport
	MaxIterations uint16
}

// Pixels returns the number of counts the call writes.
func (e GenerateEvent) Pixels() int {
	return int(e.Width) * int(e.Height)
}

// Observer receives start and finish notifications from Generate.
// Calls happen on the generating goroutine.
type Observer interface {
	GenerateStarted(GenerateEvent)
	GenerateFinished(GenerateEvent, time.Duration)
}

// ObserverFuncs adapts a pair of functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Started  func(GenerateEvent)
	Finished func(GenerateEvent, time.Duration)
}

func (o ObserverFuncs) GenerateStarted(e GenerateEvent) {
	if o.Started != nil {
		o.Started(e)
	}
}

func (o ObserverFuncs) GenerateFinished(e GenerateEvent, d time.Duration) {
	if o.Finished != nil {
		o.Finished(e, d)
	}
}
