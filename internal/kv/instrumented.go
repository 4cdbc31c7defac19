package kv

import "time"

// OpObserver receives timing for store operations.
type OpObserver interface {
	ObserveStoreOp(op string, duration time.Duration)
}

// InstrumentedStore wraps a Store and reports operation timings.
type InstrumentedStore struct {
	inner    Store
	observer OpObserver
}

// NewInstrumentedStore wraps inner. A nil observer passes through untimed.
func NewInstrumentedStore(inner Store, observer OpObserver) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, observer: observer}
}

func (s *InstrumentedStore) Get(key string) (string, error) {
	start := time.Now()
	value, err := s.inner.Get(key)
	s.observe("get", start)
	return value, err
}

func (s *InstrumentedStore) Set(key, value string) error {
	start := time.Now()
	err := s.inner.Set(key, value)
	s.observe("set", start)
	return err
}

func (s *InstrumentedStore) Delete(key string) error {
	start := time.Now()
	err := s.inner.Delete(key)
	s.observe("delete", start)
	return err
}

func (s *InstrumentedStore) observe(op string, start time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveStoreOp(op, time.Since(start))
}
