package store

import "time"

// Observer receives notifications about store activity. Implementations must
// be cheap and must not call back into the store.
type Observer interface {
	// Described is called after a definition was installed.
	Described(name string)
	// Removed is called after a definition was deleted.
	Removed(name string)
	// GraphRebuilt is called whenever the dependency graph is replaced.
	GraphRebuilt(nodes int)
	// Recalculated is called for every attribute written by a Set batch.
	Recalculated(name string)
	// Skipped is called for unset attributes a Set batch left alone.
	Skipped(name string)
	// SetCompleted is called once per Set batch.
	SetCompleted(assigned int, took time.Duration, err error)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) Described(string)                       {}
func (NopObserver) Removed(string)                         {}
func (NopObserver) GraphRebuilt(int)                       {}
func (NopObserver) Recalculated(string)                    {}
func (NopObserver) Skipped(string)                         {}
func (NopObserver) SetCompleted(int, time.Duration, error) {}
